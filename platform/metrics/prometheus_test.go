package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveScore(t *testing.T) {
	r := New(WithRegistry(prometheus.NewRegistry()))

	r.ObserveScore("Hot Lead", false, false, time.Millisecond)
	r.ObserveScore("Disqualified", true, false, time.Millisecond)
	r.ObserveScore("Disqualified", false, true, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.leadsScored.WithLabelValues("Hot Lead")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.leadsScored.WithLabelValues("Disqualified")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fakeLeads))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.disqualified))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveScore("Hot Lead", true, true, time.Second)
	r.ObserveRescore(RescoreOK)
}

func TestRecorder_GinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

	router := gin.New()
	router.Use(r.GinMiddleware())
	router.GET("/leads/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", gin.WrapH(r.Handler()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads/42", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `test_http_requests_total{method="GET",route="/leads/:id",status_code="204"} 1`), body)
}
