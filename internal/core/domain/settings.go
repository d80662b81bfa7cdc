package domain

import "time"

// StoreSettings is the fully typed, clamped view of an operational
// settings document. Values are produced by the settings engine's
// resolve step; a StoreSettings never carries an out-of-range number
// even when the stored document is malformed.
type StoreSettings struct {
	MaxOrdersPerUser   int   `json:"max_orders_per_user"`
	MaxItemsPerOrder   int   `json:"max_items_per_order"`
	RateLimitPerMinute int   `json:"rate_limit_per_minute"`
	DeliveryFeeCents   int64 `json:"delivery_fee_cents"`

	// GlobalLock pauses ordering store-wide. The lock auto-expires:
	// a LockUntil in the past reads as unlocked regardless of the
	// stored document.
	GlobalLock  bool      `json:"global_lock"`
	LockUntil   time.Time `json:"lock_until"`
	LockMessage string    `json:"lock_message"`

	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}
