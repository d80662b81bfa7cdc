package settings

import (
	"encoding/json"
	"time"

	"github.com/vietddude/storecore/internal/core/domain"
)

// Raw document field names.
const (
	fieldMaxOrdersPerUser   = "max_orders_per_user"
	fieldMaxItemsPerOrder   = "max_items_per_order"
	fieldRateLimitPerMinute = "rate_limit_per_minute"
	fieldDeliveryFeeCents   = "delivery_fee_cents"
	fieldGlobalLock         = "global_lock"
	fieldLockUntil          = "lock_until"
	fieldLockMessage        = "lock_message"
	fieldVersion            = "version"
	fieldUpdatedAt          = "updated_at"
)

// Defaults is the compiled-in settings object used when no stored
// document exists or loading fails entirely.
func Defaults() domain.StoreSettings {
	return domain.StoreSettings{
		MaxOrdersPerUser:   5,
		MaxItemsPerOrder:   20,
		RateLimitPerMinute: 30,
		DeliveryFeeCents:   15000,
	}
}

// Resolve produces the typed, clamped settings value from a raw stored
// document and the defaults. Pure: no ambient state, no side effects.
// Missing or malformed fields fall back to defaults; numeric fields
// clamp to their floors; an expired lock reads as inactive even though
// the stored document still says locked.
func Resolve(raw map[string]any, defaults domain.StoreSettings, now time.Time) domain.StoreSettings {
	s := defaults

	s.MaxOrdersPerUser = clampInt(intField(raw, fieldMaxOrdersPerUser, defaults.MaxOrdersPerUser), 1)
	s.MaxItemsPerOrder = clampInt(intField(raw, fieldMaxItemsPerOrder, defaults.MaxItemsPerOrder), 1)
	s.RateLimitPerMinute = clampInt(intField(raw, fieldRateLimitPerMinute, defaults.RateLimitPerMinute), 1)
	s.DeliveryFeeCents = clampInt64(int64Field(raw, fieldDeliveryFeeCents, defaults.DeliveryFeeCents), 0)

	s.GlobalLock = boolField(raw, fieldGlobalLock, false)
	s.LockUntil = timeField(raw, fieldLockUntil)
	s.LockMessage = stringField(raw, fieldLockMessage, "")
	s.Version = intField(raw, fieldVersion, 0)
	s.UpdatedAt = timeField(raw, fieldUpdatedAt)

	// Read-side self-heal: an expired lock reports inactive. The stored
	// document is corrected on the next explicit update.
	if s.GlobalLock && !s.LockUntil.IsZero() && s.LockUntil.Before(now) {
		s.GlobalLock = false
	}

	return s
}

func clampInt(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

func clampInt64(v, floor int64) int64 {
	if v < floor {
		return floor
	}
	return v
}

func intField(raw map[string]any, key string, def int) int {
	f, found := numericValue(raw[key])
	if !found {
		return def
	}
	return int(f)
}

func int64Field(raw map[string]any, key string, def int64) int64 {
	f, found := numericValue(raw[key])
	if !found {
		return def
	}
	return int64(f)
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func boolField(raw map[string]any, key string, def bool) bool {
	if b, isBool := raw[key].(bool); isBool {
		return b
	}
	return def
}

func stringField(raw map[string]any, key, def string) string {
	if s, isStr := raw[key].(string); isStr {
		return s
	}
	return def
}

func timeField(raw map[string]any, key string) time.Time {
	switch v := raw[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
