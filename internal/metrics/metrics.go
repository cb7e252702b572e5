// Package metrics exposes Prometheus counters for HTTP traffic and shop events.
package metrics

import (
	"net/http" // Handler type
	"strconv"  // Status formatting
	"time"     // Request latency

	"github.com/gin-gonic/gin"                                  // Gin web framework
	"github.com/prometheus/client_golang/prometheus"            // Metric types
	"github.com/prometheus/client_golang/prometheus/collectors" // Runtime collectors
	"github.com/prometheus/client_golang/prometheus/promhttp"   // Exposition handler
)

// Metrics holds the shop's collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec   // Requests by method, route and status
	HTTPDuration     *prometheus.HistogramVec // Latency by method and route
	BasketMutations  *prometheus.CounterVec   // Basket add/remove/clear
	Checkouts        *prometheus.CounterVec   // Checkout attempts by outcome
	OrderRevenue     prometheus.Counter       // Sum of checked-out totals, minor units
	OrderTransitions *prometheus.CounterVec   // Admin status changes by target status
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shop",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		BasketMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "basket_mutations_total",
			Help:      "Basket mutations by operation",
		}, []string{"op"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome",
		}, []string{"outcome"}),
		OrderRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "order_revenue_minor_units_total",
			Help:      "Sum of order totals created by checkout",
		}),
		OrderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "order_status_updates_total",
			Help:      "Order status updates by target status",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.BasketMutations,
		m.Checkouts,
		m.OrderRevenue,
		m.OrderTransitions,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records count and latency of every request by matched route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
