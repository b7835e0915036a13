package handler

import (
	"context"
	"net/http"

	"naybourhood_backend/internal/leads/repository"
	"naybourhood_backend/internal/leads/service"
	"naybourhood_backend/internal/leads/transport"
	"naybourhood_backend/internal/scoring"
	"naybourhood_backend/platform/httpkit"
	"naybourhood_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"

	formatLegacy = "legacy"
)

// RescoreQueue hands rescoring to the background worker.
type RescoreQueue interface {
	EnqueueRescore(ctx context.Context, leadID uuid.UUID) error
}

type Handler struct {
	svc   *service.Service
	val   *validator.Validator
	queue RescoreQueue
}

// New creates the leads handler. queue may be nil, in which case rescoring
// runs inside the request.
func New(svc *service.Service, val *validator.Validator, queue RescoreQueue) *Handler {
	return &Handler{svc: svc, val: val, queue: queue}
}

// SetQueue switches rescoring to the background worker.
func (h *Handler) SetQueue(queue RescoreQueue) {
	h.queue = queue
}

// RegisterPublicRoutes mounts the stateless scoring endpoint.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/score", h.Score)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Capture)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/rescore", h.Rescore)
}

// Score scores a buyer record without storing it. ?format=legacy returns the
// flat ai_* fields instead of the full result.
func (h *Handler) Score(c *gin.Context) {
	var req transport.ScoreLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	buyer, err := service.ParseBuyer(req.Buyer)
	if httpkit.HandleError(c, err) {
		return
	}

	result := h.svc.Score(buyer)
	if c.Query("format") == formatLegacy {
		httpkit.OK(c, scoring.ToLegacy(result))
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Capture(c *gin.Context) {
	var req transport.CaptureLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	scored, err := h.svc.Capture(c.Request.Context(), service.CaptureInput{
		Buyer:      req.Buyer,
		CapturedBy: httpkit.ActorID(httpkit.GetIdentity(c)),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToLeadResponse(scored.Lead, &scored.Result))
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Details(err))
		return
	}

	params := repository.ListParams{
		Classification: req.Classification,
		PriorityLevel:  req.PriorityLevel,
		Search:         req.Search,
		Unscored:       req.Unscored,
		Sort:           req.Sort,
		Limit:          req.Limit,
		Offset:         req.Offset,
	}
	leads, total, err := h.svc.List(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, transport.ToLeadResponse(lead, nil))
	}

	limit := req.Limit
	if limit == 0 {
		limit = service.DefaultListLimit
	}
	httpkit.OK(c, transport.LeadListResponse{Items: items, Total: total, Limit: limit, Offset: req.Offset})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	scored, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(scored.Lead, &scored.Result))
}

// Rescore queues a rescore when a worker is available and otherwise runs it
// inline.
func (h *Handler) Rescore(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	if h.queue != nil {
		if _, err := h.svc.Get(c.Request.Context(), id); httpkit.HandleError(c, err) {
			return
		}
		if err := h.queue.EnqueueRescore(c.Request.Context(), id); httpkit.HandleError(c, err) {
			return
		}
		httpkit.JSON(c, http.StatusAccepted, transport.RescoreQueuedResponse{LeadID: id, Status: "queued"})
		return
	}

	scored, err := h.svc.Rescore(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(scored.Lead, &scored.Result))
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Details(err))
		return false
	}
	return true
}

func parseLeadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.Nil, false
	}
	return id, true
}
