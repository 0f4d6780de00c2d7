package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moralverse_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})

	// ActiveWebSockets is the gauge of currently open websocket connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moralverse_active_websockets",
		Help: "Number of active WebSocket connections",
	})

	// ModerationVerdicts counts classifier outcomes by result
	// (accepted, rejected, unavailable, parse_error).
	ModerationVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moralverse_moderation_verdicts_total",
		Help: "Total moderation classifier outcomes by result",
	}, []string{"result"})
)

// InitMetrics creates the fiberprometheus middleware serving HTTP metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
