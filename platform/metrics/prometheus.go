// Package metrics provides Prometheus metrics for lead scoring and the API.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// scoringBuckets cover a pure in-memory pipeline: tens of microseconds up to
// a few milliseconds.
var scoringBuckets = []float64{0.00001, 0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01}

// Recorder owns every collector the services report to.
type Recorder struct {
	namespace      string
	latencyBuckets []float64
	registry       *prometheus.Registry

	leadsScored     *prometheus.CounterVec
	fakeLeads       prometheus.Counter
	disqualified    prometheus.Counter
	scoringDuration prometheus.Histogram
	rescoreRuns     *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates a Recorder on its own registry, with Go runtime and process
// collectors attached.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace:      "naybourhood",
		latencyBuckets: scoringBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(r.registry)

	r.leadsScored = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "scoring",
		Name:      "leads_scored_total",
		Help:      "Leads scored, by classification",
	}, []string{"classification"})

	r.fakeLeads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "scoring",
		Name:      "fake_leads_total",
		Help:      "Leads flagged as fake",
	})

	r.disqualified = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "scoring",
		Name:      "unrealistic_briefs_total",
		Help:      "Leads disqualified for an unrealistic budget and bedroom brief",
	})

	r.scoringDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "scoring",
		Name:      "duration_seconds",
		Help:      "Time spent running the scoring pipeline",
		Buckets:   r.latencyBuckets,
	})

	r.rescoreRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "scoring",
		Name:      "rescore_runs_total",
		Help:      "Stored leads rescored, by outcome",
	}, []string{"outcome"})

	r.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	r.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	return r
}

// ObserveScore records one scoring run.
func (r *Recorder) ObserveScore(classification string, isFake, unrealistic bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.leadsScored.WithLabelValues(classification).Inc()
	if isFake {
		r.fakeLeads.Inc()
	}
	if unrealistic {
		r.disqualified.Inc()
	}
	r.scoringDuration.Observe(elapsed.Seconds())
}

// Rescore outcomes.
const (
	RescoreOK      = "ok"
	RescoreSkipped = "skipped"
	RescoreFailed  = "failed"
)

// ObserveRescore counts a rescoring attempt by outcome.
func (r *Recorder) ObserveRescore(outcome string) {
	if r == nil {
		return
	}
	r.rescoreRuns.WithLabelValues(outcome).Inc()
}

// GinMiddleware instruments requests by their route template, so /leads/:id
// is one series regardless of the ID.
func (r *Recorder) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		r.httpRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
