package metrics

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "events_consumed_total",
		Help:      "Kafka events handled, by topic, type and outcome.",
	}, []string{"topic", "type", "outcome"})

	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "orders_created_total",
		Help:      "Orders placed, by payment method.",
	}, []string{"payment_method"})

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "cache_lookups_total",
		Help:      "Product cache lookups by result.",
	}, []string{"result"})

	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "emails_sent_total",
		Help:      "Notification emails by kind and status.",
	}, []string{"kind", "status"})
)

// Register installs request metrics for the service and exposes /metrics.
func Register(e *echo.Echo, subsystem string) {
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem: subsystem,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || p == "/health/live" || p == "/health/ready"
		},
	}))
	e.GET("/metrics", echoprometheus.NewHandler())
}

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
