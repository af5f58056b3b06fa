// Package metrics exposes the Prometheus collectors for the sale pipeline and HTTP layer.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Failure reasons for CompensationFailures.
const (
	ReasonConfiguration = "configuration"
	ReasonRuleNotFound  = "rule_not_found"
	ReasonStorage       = "storage"
)

var (
	SalesConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_confirmed_total",
		Help: "Sale writes that moved a sale into CONFIRMED",
	})

	CompensationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compensations_created_total",
		Help: "Commission and reward point pairs written",
	})

	CompensationsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compensations_skipped_total",
		Help: "Confirmation signals for sales that were already compensated",
	})

	CompensationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compensation_failures_total",
		Help: "Compensation attempts that rolled back, by reason",
	}, []string{"reason"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests processed",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latencies in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_inflight_requests",
		Help: "Number of HTTP requests currently being served",
	})
)

// Middleware records request counts and latency labelled by the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry for scraping.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
