package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "styleum",
		Name:      "analyses_completed_total",
		Help:      "Total number of item analyses persisted",
	}, []string{"source"})

	AnalysesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "styleum",
		Name:      "analyses_failed_total",
		Help:      "Total number of analyses aborted by a fatal stage error",
	}, []string{"stage"})

	ModelFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "styleum",
		Name:      "model_fallbacks_total",
		Help:      "Times a stage fell back from its primary model",
	}, []string{"stage"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "styleum",
		Name:      "stage_duration_seconds",
		Help:      "Duration of pipeline stages",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"stage"})

	AnchorMatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "styleum",
		Name:      "anchor_matches_total",
		Help:      "Vibe anchors matched above threshold across all analyses",
	})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "styleum",
		Name:      "queue_depth",
		Help:      "Number of pending analysis tasks in queue",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "styleum",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "styleum",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
