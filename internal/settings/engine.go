// Package settings is the typed configuration engine. Reads go
// through the cache manager (inheriting its TTL and fallback
// behavior); updates merge into storage, audit only real changes, and
// invalidate the setting's cache tag so the writing admin reads fresh.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vietddude/storecore/internal/audit"
	"github.com/vietddude/storecore/internal/cache"
	"github.com/vietddude/storecore/internal/core/apperr"
	"github.com/vietddude/storecore/internal/core/domain"
	"github.com/vietddude/storecore/internal/infra/store"
	"github.com/vietddude/storecore/internal/metrics"
)

const (
	// DefaultTTL for settings documents (user-scoped class).
	DefaultTTL = 5 * time.Minute

	// StoreName is the storewide operational settings document.
	StoreName = "store"
)

var lockFields = map[string]bool{
	fieldGlobalLock:  true,
	fieldLockUntil:   true,
	fieldLockMessage: true,
}

// Engine owns settings resolution and updates.
type Engine struct {
	cache *cache.Manager
	repo  store.SettingsRepository
	audit *audit.Recorder
	ttl   time.Duration
	clock func() time.Time
}

// New creates an Engine and registers an empty raw document as the
// settings fallback class, so a store outage resolves to pure defaults.
func New(cacheMgr *cache.Manager, repo store.SettingsRepository, rec *audit.Recorder, ttl time.Duration) *Engine {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cacheMgr.RegisterFallback(fallbackClass, map[string]any{})
	return &Engine{
		cache: cacheMgr,
		repo:  repo,
		audit: rec,
		ttl:   ttl,
		clock: time.Now,
	}
}

const fallbackClass = "settings"

func cacheTag(name string) string { return "settings:" + name }
func cacheKey(name string) string { return "settings:" + name }

// Read returns the fully typed, clamped settings for name. A missing
// document resolves to defaults; numeric fields never come back below
// their floors; an expired lock reads as inactive.
func (e *Engine) Read(ctx context.Context, name string) (domain.StoreSettings, error) {
	payload, err := e.cache.Get(ctx, cacheKey(name), func(ctx context.Context) (any, error) {
		raw, loadErr := e.repo.Get(ctx, name)
		if loadErr != nil {
			if loadErr == store.ErrNotFound {
				return map[string]any{}, nil
			}
			return nil, loadErr
		}
		return raw, nil
	}, cache.Options{
		TTL:           e.ttl,
		Tags:          []string{cacheTag(name)},
		FallbackClass: fallbackClass,
	})
	if err != nil {
		return Resolve(nil, Defaults(), e.clock()), err
	}

	raw, _ := payload.(map[string]any)
	return Resolve(raw, Defaults(), e.clock()), nil
}

// Update merges partial fields into the named settings document,
// appends an audit entry only when at least one field actually changed
// value, and invalidates the setting's cache tag. Updates touching the
// lock fields are flagged priority in the audit log.
func (e *Engine) Update(ctx context.Context, name string, partial map[string]any, actor string) (domain.StoreSettings, error) {
	if len(partial) == 0 {
		return domain.StoreSettings{}, apperr.New(
			apperr.KindValidation, "settings update without fields", apperr.SeverityLow)
	}
	for field := range partial {
		if !knownField(field) {
			return domain.StoreSettings{}, apperr.New(
				apperr.KindValidation,
				fmt.Sprintf("unknown settings field %q", field),
				apperr.SeverityLow,
				apperr.WithUserMessage("Unknown settings field: "+field),
			)
		}
	}

	current, err := e.repo.Get(ctx, name)
	if err != nil && err != store.ErrNotFound {
		return domain.StoreSettings{}, apperr.New(
			apperr.KindDatabase, "failed to load settings for update", apperr.SeverityHigh,
			apperr.WithCause(err), apperr.WithMeta(map[string]any{"name": name}),
		)
	}
	if current == nil {
		current = map[string]any{}
	}

	changes := make(map[string]domain.FieldChange)
	priority := false
	merge := make(map[string]any, len(partial)+2)
	for field, next := range partial {
		merge[field] = next
		if lockFields[field] {
			priority = true
		}
		if !valueEqual(current[field], next) {
			changes[field] = domain.FieldChange{From: current[field], To: next}
		}
	}

	// Expired locks are physically corrected here, on the explicit
	// update, never by a background job.
	if healLock(current, e.clock()) && !touchesLock(partial) {
		merge[fieldGlobalLock] = false
	}

	now := e.clock().UTC()
	merge[fieldUpdatedAt] = now.Format(time.RFC3339)
	if len(changes) > 0 {
		merge[fieldVersion] = intField(current, fieldVersion, 0) + 1
	}

	merged, err := e.repo.Upsert(ctx, name, merge)
	if err != nil {
		return domain.StoreSettings{}, apperr.New(
			apperr.KindDatabase, "failed to persist settings", apperr.SeverityHigh,
			apperr.WithCause(err), apperr.WithMeta(map[string]any{"name": name}),
		)
	}

	e.audit.Record(ctx, "settings.update", actor, changes, priority)
	e.cache.Invalidate(ctx, cacheTag(name))
	metrics.SettingsUpdates.WithLabelValues(name).Inc()

	return Resolve(merged, Defaults(), e.clock()), nil
}

func knownField(field string) bool {
	switch field {
	case fieldMaxOrdersPerUser, fieldMaxItemsPerOrder, fieldRateLimitPerMinute,
		fieldDeliveryFeeCents, fieldGlobalLock, fieldLockUntil, fieldLockMessage:
		return true
	default:
		return false
	}
}

func touchesLock(partial map[string]any) bool {
	for field := range partial {
		if lockFields[field] {
			return true
		}
	}
	return false
}

func healLock(current map[string]any, now time.Time) bool {
	if !boolField(current, fieldGlobalLock, false) {
		return false
	}
	until := timeField(current, fieldLockUntil)
	return !until.IsZero() && until.Before(now)
}

// valueEqual compares a stored raw value against an incoming one,
// normalizing the numeric and time representations a JSON round-trip
// produces.
func valueEqual(stored, next any) bool {
	if sf, storedNum := numericValue(stored); storedNum {
		if nf, nextNum := numericValue(next); nextNum {
			return sf == nf
		}
		return false
	}
	if st, storedTime := timeValue(stored); storedTime {
		if nt, nextTime := timeValue(next); nextTime {
			return st.Equal(nt)
		}
	}
	a, errA := json.Marshal(stored)
	b, errB := json.Marshal(next)
	if errA != nil || errB != nil {
		return false
	}
	return string(a) == string(b)
}

func timeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		return parsed, err == nil
	default:
		return time.Time{}, false
	}
}

// SetClock overrides the time source. Test hook.
func (e *Engine) SetClock(clock func() time.Time) { e.clock = clock }
