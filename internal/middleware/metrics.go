package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codelab_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// NotificationsCreated counts persisted notifications by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codelab_notifications_created_total",
		Help: "Total number of notifications created by type",
	}, []string{"type"})

	// LikesRecorded counts like ledger writes, split by fresh inserts and
	// duplicate no-ops.
	LikesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codelab_likes_recorded_total",
		Help: "Total number of like requests by outcome",
	}, []string{"outcome"})

	// SearchQueries counts search requests by scope.
	SearchQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codelab_search_queries_total",
		Help: "Total number of search queries by scope",
	}, []string{"scope"})
)

// InitMetrics creates the Prometheus HTTP middleware for the service.
// The returned instance must be registered on the app and given a route.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware records request count and latency for every route.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
