// Package metrics collects and exposes Prometheus metrics for the
// parcour service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the subset of metric operations the service layer uses.
type Recorder interface {
	RecordRunCreated()
	RecordRunOutcome(outcome string)
	RecordRunUpdateConflict()
}

type Collector struct {
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	runsCreated        prometheus.Counter
	runOutcomes        *prometheus.CounterVec
	runUpdateConflicts prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parcour_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "parcour_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		runsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parcour_runs_created_total",
			Help: "Runs created.",
		}),
		runOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parcour_run_outcomes_total",
			Help: "Runs closed, by outcome.",
		}, []string{"outcome"}),
		runUpdateConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parcour_run_update_conflicts_total",
			Help: "Run updates rejected because the run was already closed or did not match.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.runsCreated,
		c.runOutcomes,
		c.runUpdateConflicts,
	)

	return c
}

func (c *Collector) RecordRunCreated() {
	c.runsCreated.Inc()
}

func (c *Collector) RecordRunOutcome(outcome string) {
	c.runOutcomes.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRunUpdateConflict() {
	c.runUpdateConflicts.Inc()
}

// Handler returns the scrape endpoint for the given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Middleware instruments request counts and latency. The route label
// uses the mux pattern when available so path parameters do not blow
// up cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		c.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
