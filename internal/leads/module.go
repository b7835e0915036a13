// Package leads provides the lead intake and scoring bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"naybourhood_backend/internal/events"
	apphttp "naybourhood_backend/internal/http"
	"naybourhood_backend/internal/leads/handler"
	"naybourhood_backend/internal/leads/repository"
	"naybourhood_backend/internal/leads/service"
	"naybourhood_backend/platform/logger"
	"naybourhood_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(db repository.DBTX, eventBus events.Bus, val *validator.Validator, log *logger.Logger, opts ...service.Option) *Module {
	repo := repository.New(db)
	svc := service.New(repo, eventBus, log, opts...)

	return &Module{
		handler: handler.New(svc, val, nil),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for workers and the CLI.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the leads repository.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// SetRescoreQueue routes rescore requests to the background worker.
func (m *Module) SetRescoreQueue(queue handler.RescoreQueue) {
	m.handler.SetQueue(queue)
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/leads")
	if ctx.IntakeRateLimiter != nil {
		public.Use(ctx.IntakeRateLimiter.RateLimit())
	}
	m.handler.RegisterPublicRoutes(public)

	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
