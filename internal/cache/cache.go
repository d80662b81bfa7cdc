// Package cache implements the read-through, TTL-based cache over
// backing store collections, with tag-based invalidation, static
// fallback payloads on store outage, and stale-while-error serving.
package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/vietddude/storecore/internal/core/apperr"
	"github.com/vietddude/storecore/internal/metrics"
)

// LoaderFunc loads a payload from the backing store on miss. Loads
// must be idempotent reads: concurrent misses may run redundantly.
type LoaderFunc func(ctx context.Context) (any, error)

// Options configure one cache key.
type Options struct {
	// TTL after which the entry is refreshed on next access. Callers
	// choose per key class: ~1h for catalog data, ~5m for user-scoped.
	TTL time.Duration

	// Tags enable group invalidation without enumerating keys.
	Tags []string

	// FallbackClass selects the static fallback payload served when the
	// backing store is classified unavailable. Empty means no fallback.
	FallbackClass string
}

// InvalidationBus fans tag invalidations out to other processes.
type InvalidationBus interface {
	Publish(ctx context.Context, tag string) error
}

type entry struct {
	payload  any
	tags     []string
	storedAt time.Time
	ttl      time.Duration
	stale    bool
}

func (e *entry) fresh(now time.Time) bool {
	return !e.stale && now.Sub(e.storedAt) < e.ttl
}

// Manager is the cache. Safe for concurrent use; readers observe
// either the prior payload or the new one, never partial state.
type Manager struct {
	mu        sync.RWMutex
	entries   map[string]*entry
	fallbacks map[string]any

	reporter *apperr.Reporter
	bus      InvalidationBus
	clock    func() time.Time
}

// NewManager creates an empty cache manager. bus may be nil for
// single-process deployments.
func NewManager(reporter *apperr.Reporter, bus InvalidationBus) *Manager {
	return &Manager{
		entries:   make(map[string]*entry),
		fallbacks: make(map[string]any),
		reporter:  reporter,
		bus:       bus,
		clock:     time.Now,
	}
}

// RegisterFallback installs the compiled-in payload served for a
// fallback class when the backing store is unreachable.
func (m *Manager) RegisterFallback(class string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks[class] = payload
}

// Get returns the cached payload for key if fresh, otherwise invokes
// loader and stores the result tagged per opts.
//
// Loader failure policy:
//   - store outage (database/network/rate-limit classified) with a
//     registered fallback: serve the fallback and report one
//     medium-severity error;
//   - any failure with a previous value, even stale: serve the
//     previous value (stale-while-error);
//   - otherwise: propagate the classified error.
func (m *Manager) Get(ctx context.Context, key string, loader LoaderFunc, opts Options) (any, error) {
	now := m.clock()

	// Freshness reads the stale flag, which invalidateLocal flips under
	// the write lock, so it must be evaluated before releasing mu.
	m.mu.RLock()
	prev, exists := m.entries[key]
	fresh := exists && prev.fresh(now)
	m.mu.RUnlock()

	if fresh {
		metrics.CacheHits.WithLabelValues(key).Inc()
		return prev.payload, nil
	}
	metrics.CacheMisses.WithLabelValues(key).Inc()

	payload, err := loader(ctx)
	if err == nil {
		m.mu.Lock()
		m.entries[key] = &entry{
			payload:  payload,
			tags:     slices.Clone(opts.Tags),
			storedAt: m.clock(),
			ttl:      opts.TTL,
		}
		m.mu.Unlock()
		return payload, nil
	}

	kind := apperr.Classify(err)
	metrics.LoaderErrors.WithLabelValues(string(kind)).Inc()

	if apperr.IsStoreOutage(err) && opts.FallbackClass != "" {
		m.mu.RLock()
		fallback, hasFallback := m.fallbacks[opts.FallbackClass]
		m.mu.RUnlock()
		if hasFallback {
			m.reporter.Report(ctx, apperr.New(
				kind,
				"backing store unavailable, serving fallback payload",
				apperr.SeverityMedium,
				apperr.WithCause(err),
				apperr.WithMeta(map[string]any{"key": key, "fallback_class": opts.FallbackClass}),
			))
			metrics.CacheFallbackServes.WithLabelValues(opts.FallbackClass).Inc()
			return fallback, nil
		}
	}

	if exists {
		m.reporter.Report(ctx, apperr.New(
			kind,
			"cache refresh failed, serving previous value",
			apperr.SeverityMedium,
			apperr.WithCause(err),
			apperr.WithMeta(map[string]any{"key": key}),
		))
		metrics.CacheStaleServes.WithLabelValues(key).Inc()
		return prev.payload, nil
	}

	return nil, apperr.New(
		kind,
		"cache load failed with no previous value and no fallback",
		apperr.SeverityHigh,
		apperr.WithCause(err),
		apperr.WithMeta(map[string]any{"key": key}),
	)
}

// Invalidate lazily marks every entry carrying tag as stale; the next
// access refetches. No eager reload is triggered. The invalidation is
// also published on the bus so other processes stale-mark their own
// entries.
func (m *Manager) Invalidate(ctx context.Context, tag string) {
	m.invalidateLocal(tag)
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(ctx, tag); err != nil {
		m.reporter.Logger().Warn("failed to publish cache invalidation", "tag", tag, "error", err)
	}
}

// InvalidateLocal stale-marks entries for tag in this process only.
// Used as the subscriber callback for bus-delivered invalidations.
func (m *Manager) InvalidateLocal(tag string) {
	m.invalidateLocal(tag)
}

func (m *Manager) invalidateLocal(tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if slices.Contains(e.tags, tag) {
			e.stale = true
		}
	}
}

// SetClock overrides the time source. Test hook.
func (m *Manager) SetClock(clock func() time.Time) {
	m.clock = clock
}
