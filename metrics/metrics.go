package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-auth-service"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "authsvc"

// Collector holds the service metrics. It records account activity as an
// auth.ActivitySink and HTTP traffic through Middleware.
type Collector struct {
	activity        *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ auth.ActivitySink = (*Collector)(nil)

// NewCollector creates the metrics and registers them with reg.
// Panics if registration fails (following prometheus convention).
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		activity: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "account_events_total",
				Help:      "Total number of account activity events",
			},
			[]string{"event"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	if reg != nil {
		reg.MustRegister(c.activity, c.requests, c.requestDuration)
	}

	return c
}

// Record implements auth.ActivitySink
func (c *Collector) Record(_ context.Context, event auth.ActivityEvent) error {
	c.activity.WithLabelValues(string(event.EventType)).Inc()
	return nil
}

// Middleware counts requests by method, matched route and status
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		// route templates keep the label cardinality bounded
		route := ctx.Route().Path
		method := ctx.Method()

		c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		c.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

		return err
	}
}
