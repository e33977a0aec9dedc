package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraudshield",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "handler", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fraudshield",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~32s
		},
		[]string{"method", "handler"},
	)

	// Detection pipeline metrics
	DetectionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraudshield",
			Subsystem: "detection",
			Name:      "requests_total",
			Help:      "Detection calls by channel, resolving method and outcome",
		},
		[]string{"channel", "method", "is_fraud"},
	)

	DetectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fraudshield",
			Subsystem: "detection",
			Name:      "duration_seconds",
			Help:      "Detection pipeline latency",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~8s
		},
		[]string{"channel"},
	)

	CorroborationChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraudshield",
			Subsystem: "detection",
			Name:      "corroboration_total",
			Help:      "Semantic corroboration outcomes (corroborated, miss, unavailable)",
		},
		[]string{"outcome"},
	)

	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fraudshield",
			Subsystem: "detection",
			Name:      "audit_write_failures_total",
			Help:      "Detection log writes that were swallowed after failing",
		},
	)

	// Crowd-report metrics
	ReportsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraudshield",
			Subsystem: "reports",
			Name:      "submitted_total",
			Help:      "Crowd reports accepted by channel",
		},
		[]string{"channel"},
	)

	RegistryPromotions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraudshield",
			Subsystem: "reports",
			Name:      "promotions_total",
			Help:      "Fingerprints promoted into the authoritative registry",
		},
		[]string{"channel"},
	)
)
