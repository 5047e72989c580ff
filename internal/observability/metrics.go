package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixeld",
			Subsystem: "session",
			Name:      "frames_total",
			Help:      "Total frames decoded, by packet kind.",
		},
		[]string{"kind"},
	)
	updatesApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixeld",
			Subsystem: "session",
			Name:      "updates_applied_total",
			Help:      "Total pixels written to the surface, by packet kind.",
		},
		[]string{"kind"},
	)
	decodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixeld",
			Subsystem: "session",
			Name:      "decode_errors_total",
			Help:      "Connection-fatal decode errors, by reason.",
		},
		[]string{"reason"},
	)
	connectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pixeld",
			Subsystem: "session",
			Name:      "connections_total",
			Help:      "Total client connections accepted.",
		},
	)
	connectionActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pixeld",
			Subsystem: "session",
			Name:      "connection_active",
			Help:      "Whether a client is currently attached (0 or 1).",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixeld",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pixeld",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			framesTotal, updatesApplied, decodeErrors,
			connectionsTotal, connectionActive,
			httpRequests, httpDuration,
		)
	})
}

func RecordFrame(kind string, applied int) {
	RegisterMetrics()
	framesTotal.WithLabelValues(kind).Inc()
	if applied > 0 {
		updatesApplied.WithLabelValues(kind).Add(float64(applied))
	}
}

func RecordDecodeError(reason string) {
	RegisterMetrics()
	decodeErrors.WithLabelValues(reason).Inc()
}

func RecordConnect() {
	RegisterMetrics()
	connectionsTotal.Inc()
	connectionActive.Set(1)
}

func RecordDisconnect() {
	RegisterMetrics()
	connectionActive.Set(0)
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
