package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"naybourhood_backend/platform/apperr"
	"naybourhood_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type secretConfig string

func (s secretConfig) GetJWTAccessSecret() string { return string(s) }

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "not found", err: apperr.NotFound("lead not found"), wantStatus: http.StatusNotFound, wantBody: "lead not found"},
		{name: "wrapped conflict", err: fmt.Errorf("rescore: %w", apperr.Conflict("busy")), wantStatus: http.StatusConflict, wantBody: "busy"},
		{name: "validation", err: apperr.Validation("bad buyer"), wantStatus: http.StatusBadRequest, wantBody: "bad buyer"},
		{name: "unavailable", err: apperr.Unavailable("redis down"), wantStatus: http.StatusServiceUnavailable, wantBody: "redis down"},
		{name: "unexpected", err: errors.New("pq: connection reset"), wantStatus: http.StatusInternalServerError, wantBody: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			assert.True(t, HandleError(c, tt.err))
			assert.Equal(t, tt.wantStatus, w.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Error)
		})
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	assert.False(t, HandleError(c, nil))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen any
	r.GET("/", func(c *gin.Context) {
		seen = c.Request.Context().Value(logger.RequestIDKey)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", 65))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	_, err := uuid.Parse(w.Header().Get(HeaderRequestID))
	assert.NoError(t, err)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Every(time.Hour), 2, logger.New("production"))
	r := gin.New()
	r.Use(limiter.RateLimit())
	r.POST("/score", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/score", nil)
		req.RemoteAddr = ip + ":5000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.7"))
	assert.Equal(t, http.StatusOK, send("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7"))
	assert.Equal(t, http.StatusOK, send("198.51.100.4"))
}

func TestAuthRequired(t *testing.T) {
	const secret = "httpkit-secret"
	userID := uuid.New()

	sign := func(claims jwt.MapClaims, key string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return token
	}
	valid := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  "access",
		"roles": []string{"sales", "admin"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	expired := jwt.MapClaims{
		"sub":  userID.String(),
		"type": "access",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	}
	badSubject := jwt.MapClaims{
		"sub":  "not-a-uuid",
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}

	r := gin.New()
	r.Use(AuthRequired(secretConfig(secret)))
	r.GET("/me", func(c *gin.Context) {
		id := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"id": id.UserID().String(), "admin": id.HasRole("admin")})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "no header", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer   ", wantStatus: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer " + sign(valid, "other"), wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + sign(expired, secret), wantStatus: http.StatusUnauthorized},
		{name: "bad subject", header: "Bearer " + sign(badSubject, secret), wantStatus: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + sign(valid, secret), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"admin":true}`, userID.String()), w.Body.String())
			}
		})
	}
}

func TestActorID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	assert.Nil(t, ActorID(GetIdentity(c)))

	id := uuid.New()
	c.Set(ContextUserIDKey, id)
	got := ActorID(GetIdentity(c))
	require.NotNil(t, got)
	assert.Equal(t, id, *got)
}
