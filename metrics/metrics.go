// Package metrics holds the Prometheus collectors of the POS service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pos",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pos",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pos",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	checkouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pos",
			Subsystem: "orders",
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		},
		[]string{"result"},
	)

	orderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pos",
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Order process and cancel operations by outcome.",
		},
		[]string{"operation", "result"},
	)

	salesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pos",
			Subsystem: "orders",
			Name:      "sales_total",
			Help:      "Submitted order totals by payment method.",
		},
		[]string{"payment_method"},
	)

	messages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pos",
			Subsystem: "rabbitmq",
			Name:      "messages_total",
			Help:      "Order events published and update messages consumed.",
		},
		[]string{"direction", "result"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pos",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Number of logged-in terminal sessions.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		checkouts,
		orderTransitions,
		salesTotal,
		messages,
		activeSessions,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "/metrics" {
			c.Next()
			return
		}
		if path == "" {
			path = "unmatched"
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordCheckout counts a checkout attempt. result is one of "submitted",
// "rejected" or "failed".
func RecordCheckout(result string) {
	checkouts.WithLabelValues(result).Inc()
}

// RecordSale adds a submitted order's total.
func RecordSale(paymentMethod string, amount float64) {
	salesTotal.WithLabelValues(paymentMethod).Add(amount)
}

func RecordTransition(operation, result string) {
	orderTransitions.WithLabelValues(operation, result).Inc()
}

// RecordMessage counts a RabbitMQ message. direction is "published" or
// "consumed".
func RecordMessage(direction, result string) {
	messages.WithLabelValues(direction, result).Inc()
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
