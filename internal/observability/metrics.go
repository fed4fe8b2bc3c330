package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	resolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "burrow",
			Subsystem: "dispatch",
			Name:      "resolves_total",
			Help:      "Resolved inputs by outcome.",
		},
		[]string{"outcome"},
	)
	registryRebuilds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "burrow",
			Subsystem: "registry",
			Name:      "rebuilds_total",
			Help:      "Full registry rebuilds.",
		},
	)
	registryCommands = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "burrow",
			Subsystem: "registry",
			Name:      "commands",
			Help:      "Command scripts in the current snapshot.",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "burrow",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "burrow",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// RegisterMetrics registers all collectors with the default registry.
// Safe to call from multiple packages; registration happens once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			resolveTotal, registryRebuilds, registryCommands,
			httpRequests, httpDuration,
		)
	})
}

// Resolve outcome labels.
const (
	OutcomePlugin   = "plugin"
	OutcomeFallback = "fallback"
)

// RecordResolve counts one resolved input.
func RecordResolve(outcome string) {
	RegisterMetrics()
	resolveTotal.WithLabelValues(outcome).Inc()
}

// RecordRegistryRebuild counts a completed rebuild and updates the
// loaded command gauge.
func RecordRegistryRebuild(commands int) {
	RegisterMetrics()
	registryRebuilds.Inc()
	registryCommands.Set(float64(commands))
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
