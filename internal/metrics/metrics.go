// Package metrics exposes Prometheus counters for completion calls, pipeline
// fallbacks and HTTP traffic. A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns its registry so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	CompletionRequests *prometheus.CounterVec
	CompletionDuration *prometheus.HistogramVec
	Fallbacks          *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
}

func New(namespace string) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		CompletionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_requests_total",
			Help:      "Total number of completion endpoint calls",
		}, []string{"operation", "status"}),
		CompletionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Duration of completion endpoint calls in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assist_fallbacks_total",
			Help:      "Total number of substituted fallback values",
		}, []string{"pipeline", "stage"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(c.CompletionRequests, c.CompletionDuration, c.Fallbacks, c.HTTPRequests)
	return c
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveCompletion(operation, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.CompletionRequests.WithLabelValues(operation, status).Inc()
	c.CompletionDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (c *Collector) RecordFallback(pipeline, stage string) {
	if c == nil {
		return
	}
	c.Fallbacks.WithLabelValues(pipeline, stage).Inc()
}

func (c *Collector) RecordHTTPRequest(method, route string, status int) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Middleware counts requests by chi route pattern, not raw path.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.RecordHTTPRequest(r.Method, route, status)
	})
}
