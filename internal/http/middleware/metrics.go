// This file exposes Prometheus instrumentation for HTTP traffic: request
// counts, latencies, in-flight concurrency, and rejection counters for the
// pipeline's guard rails (rate limiting, authentication).
//
// Label cardinality stays bounded by using the registered Gin route as the
// path label (e.g. /api/v1/properties/:id), falling back to the raw URL path
// only when no route matched.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// httpReqs counts requests by method, route path, and status code.
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// httpLat records request duration in seconds by method and route path.
	// Status is omitted to keep histogram cardinality lower.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// httpInflight gauges the number of in-flight requests.
	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// httpRejections counts requests the pipeline refused before business
	// logic ran, by reason. Reasons map to the guard that fired:
	// rate_limited, unauthenticated, forbidden.
	httpRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_rejections_total",
			Help: "Requests rejected by pipeline guards, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRejections)
}

// Metrics returns a Gin middleware that instruments requests with Prometheus.
//
// Usage:
//
//	r := gin.New()
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := c.Writer.Status()

		httpReqs.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		switch status {
		case http.StatusTooManyRequests:
			httpRejections.WithLabelValues("rate_limited").Inc()
		case http.StatusUnauthorized:
			httpRejections.WithLabelValues("unauthenticated").Inc()
		case http.StatusForbidden:
			httpRejections.WithLabelValues("forbidden").Inc()
		}
	}
}
