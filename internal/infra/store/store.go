// Package store defines the backing document store contracts.
// Collections are opaque named containers; implementations assign ids
// and server-side timestamps. The cache manager's loaders and the
// write path speak to the store only through these interfaces.
package store

import (
	"context"
	"errors"

	"github.com/vietddude/storecore/internal/core/domain"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// ProductRepository reads the product collection.
type ProductRepository interface {
	// List returns the full collection in stable insertion order.
	List(ctx context.Context) ([]domain.Product, error)

	// GetByID retrieves a single product.
	GetByID(ctx context.Context, id string) (domain.Product, error)

	// GetBySlug retrieves a single product by its slug field.
	GetBySlug(ctx context.Context, slug string) (domain.Product, error)
}

// SettingsRepository stores raw settings documents. Documents are kept
// raw (not typed) so the settings engine can resolve and clamp
// malformed content on read.
type SettingsRepository interface {
	// Get returns the raw document for a settings name.
	Get(ctx context.Context, name string) (map[string]any, error)

	// Upsert merges fields into the named document, creating it when
	// missing, and returns the merged result. The merge is a single
	// atomic document write.
	Upsert(ctx context.Context, name string, fields map[string]any) (map[string]any, error)
}

// OrderRepository writes primary order records.
type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (domain.Order, error)
}

// AuditRepository appends audit entries. Append-only; this core never
// reads it back.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditLogEntry) error
}

// SignalRepository appends activity signals. Append-only.
type SignalRepository interface {
	Append(ctx context.Context, signal *domain.ActivitySignal) error
}
