package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks fresh cache hits per key class.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storecore_cache_hits_total",
			Help: "Total number of fresh cache hits",
		},
		[]string{"key"},
	)

	// CacheMisses tracks cache misses (including stale entries) per key.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storecore_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"key"},
	)

	// CacheFallbackServes tracks static fallback payload serves.
	CacheFallbackServes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storecore_cache_fallback_serves_total",
			Help: "Total number of static fallback payloads served",
		},
		[]string{"class"},
	)

	// CacheStaleServes tracks stale-while-error serves.
	CacheStaleServes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storecore_cache_stale_serves_total",
			Help: "Total number of stale payloads served after a failed refresh",
		},
		[]string{"key"},
	)

	// LoaderErrors tracks backing-store loader failures by error kind.
	LoaderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storecore_cache_loader_errors_total",
			Help: "Total number of backing store loader failures",
		},
		[]string{"kind"},
	)

	// SettingsUpdates tracks settings engine updates.
	SettingsUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storecore_settings_updates_total",
			Help: "Total number of settings updates",
		},
		[]string{"name"},
	)

	// AuditSkipped tracks audit entries skipped because nothing changed.
	AuditSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storecore_audit_skipped_total",
			Help: "Total number of audit writes skipped (no field changed)",
		},
	)

	// SignalFailures tracks best-effort activity signal write failures.
	SignalFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storecore_signal_failures_total",
			Help: "Total number of failed activity signal writes",
		},
	)

	// NotifyAttempts tracks notification delivery attempts per provider.
	NotifyAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storecore_notify_attempts_total",
			Help: "Total number of notification delivery attempts",
		},
		[]string{"provider", "outcome"},
	)

	// NotifyFailovers tracks dispatches that moved past the first provider.
	NotifyFailovers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storecore_notify_failovers_total",
			Help: "Total number of notification provider failovers",
		},
	)

	// QueueDropped tracks background tasks dropped because the queue was full.
	QueueDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storecore_queue_dropped_total",
			Help: "Total number of background tasks dropped",
		},
		[]string{"task"},
	)

	// DBConnectionPoolUsage tracks DB pool usage percentage.
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storecore_db_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)
