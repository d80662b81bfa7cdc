// Package memory is the in-memory store used for tests and storeless
// deployments. All repositories share one storage struct and lock.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/vietddude/storecore/internal/core/apperr"
	"github.com/vietddude/storecore/internal/core/domain"
	"github.com/vietddude/storecore/internal/infra/store"
)

type MemoryStorage struct {
	mu       sync.RWMutex
	products []domain.Product
	settings map[string]map[string]any
	orders   map[string]*domain.Order
	audit    []*domain.AuditLogEntry
	signals  []*domain.ActivitySignal
	errorLog []*apperr.Error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		settings: make(map[string]map[string]any),
		orders:   make(map[string]*domain.Order),
	}
}

// SeedProducts replaces the product collection. Intended for tests and
// demo bootstrapping.
func (s *MemoryStorage) SeedProducts(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = slices.Clone(products)
}

// -----------------------------------------------------------------------------
// Product Repository
// -----------------------------------------------------------------------------

type ProductRepo struct {
	store *MemoryStorage
}

func NewProductRepo(store *MemoryStorage) *ProductRepo {
	return &ProductRepo{store: store}
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return slices.Clone(r.store.products), nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, store.ErrNotFound
}

func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return domain.Product{}, store.ErrNotFound
}

// -----------------------------------------------------------------------------
// Settings Repository
// -----------------------------------------------------------------------------

type SettingsRepo struct {
	store *MemoryStorage
}

func NewSettingsRepo(store *MemoryStorage) *SettingsRepo {
	return &SettingsRepo{store: store}
}

func (r *SettingsRepo) Get(ctx context.Context, name string) (map[string]any, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	doc, found := r.store.settings[name]
	if !found {
		return nil, store.ErrNotFound
	}
	return maps.Clone(doc), nil
}

func (r *SettingsRepo) Upsert(ctx context.Context, name string, fields map[string]any) (map[string]any, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	doc, found := r.store.settings[name]
	if !found {
		doc = make(map[string]any)
	}
	merged := maps.Clone(doc)
	maps.Copy(merged, fields)
	r.store.settings[name] = merged
	return maps.Clone(merged), nil
}

// -----------------------------------------------------------------------------
// Order Repository
// -----------------------------------------------------------------------------

type OrderRepo struct {
	store *MemoryStorage
}

func NewOrderRepo(store *MemoryStorage) *OrderRepo {
	return &OrderRepo{store: store}
}

func (r *OrderRepo) Insert(ctx context.Context, order *domain.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *order
	r.store.orders[order.ID] = &cp
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	order, found := r.store.orders[id]
	if !found {
		return domain.Order{}, store.ErrNotFound
	}
	return *order, nil
}

// -----------------------------------------------------------------------------
// Audit / Signal / Error log Repositories
// -----------------------------------------------------------------------------

type AuditRepo struct {
	store *MemoryStorage
}

func NewAuditRepo(store *MemoryStorage) *AuditRepo {
	return &AuditRepo{store: store}
}

func (r *AuditRepo) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *entry
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	r.store.audit = append(r.store.audit, &cp)
	return nil
}

// Entries returns a snapshot of the audit log. Test helper.
func (r *AuditRepo) Entries() []*domain.AuditLogEntry {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return slices.Clone(r.store.audit)
}

type SignalRepo struct {
	store *MemoryStorage
}

func NewSignalRepo(store *MemoryStorage) *SignalRepo {
	return &SignalRepo{store: store}
}

func (r *SignalRepo) Append(ctx context.Context, signal *domain.ActivitySignal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *signal
	r.store.signals = append(r.store.signals, &cp)
	return nil
}

// Signals returns a snapshot of appended signals. Test helper.
func (r *SignalRepo) Signals() []*domain.ActivitySignal {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return slices.Clone(r.store.signals)
}

type ErrorLogRepo struct {
	store *MemoryStorage
}

func NewErrorLogRepo(store *MemoryStorage) *ErrorLogRepo {
	return &ErrorLogRepo{store: store}
}

func (r *ErrorLogRepo) AppendError(ctx context.Context, e *apperr.Error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.errorLog = append(r.store.errorLog, e)
	return nil
}

// Errors returns a snapshot of the persisted error log. Test helper.
func (r *ErrorLogRepo) Errors() []*apperr.Error {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return slices.Clone(r.store.errorLog)
}
