// Package observability exposes Prometheus metrics for query and
// retrieval traffic.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyquery_queries_total",
			Help: "Total catalog queries issued, by kind and outcome.",
		},
		[]string{"kind", "status"},
	)

	upstreamLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skyquery_upstream_latency_seconds",
			Help:    "Latency of upstream calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"upstream"},
	)

	retrievalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyquery_retrievals_total",
			Help: "Remote file retrievals, by kind and outcome.",
		},
		[]string{"kind", "status"},
	)

	cacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyquery_cache_results_total",
			Help: "Cache results by outcome.",
		},
		[]string{"outcome"},
	)

	cacheOpTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyquery_cache_op_total",
			Help: "Cache store operations by op and outcome.",
		},
		[]string{"op", "ok"},
	)

	cacheOpDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skyquery_cache_op_duration_seconds",
			Help:    "Duration of cache store operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"op"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "skyquery_build_info",
			Help: "Build information for the binary (value is always 1).",
		},
		[]string{"version"},
	)
)

func ObserveQuery(kind string, err error) {
	queriesTotal.WithLabelValues(kind, statusLabel(err)).Inc()
}

func ObserveUpstreamLatency(upstream string, durationSeconds float64) {
	upstreamLatencySeconds.WithLabelValues(upstream).Observe(durationSeconds)
}

func ObserveRetrieval(kind string, err error) {
	retrievalsTotal.WithLabelValues(kind, statusLabel(err)).Inc()
}

func IncCacheHit()  { cacheResults.WithLabelValues("hit").Inc() }
func IncCacheMiss() { cacheResults.WithLabelValues("miss").Inc() }

func ObserveCacheOp(op string, err error, durationSeconds float64) {
	ok := "true"
	if err != nil {
		ok = "false"
	}
	cacheOpTotal.WithLabelValues(op, ok).Inc()
	cacheOpDurationSeconds.WithLabelValues(op).Observe(durationSeconds)
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
