// Package catalog provides the read helpers for the product
// collection. Every helper is a pure function over the single cached
// full-collection payload: the backing store sees at most one list
// query per TTL window regardless of read fan-out.
package catalog

import (
	"context"
	"time"

	"github.com/vietddude/storecore/internal/cache"
	"github.com/vietddude/storecore/internal/core/apperr"
	"github.com/vietddude/storecore/internal/core/domain"
	"github.com/vietddude/storecore/internal/infra/store"
)

const (
	cacheKey = "catalog:products"

	// Tag invalidated when the product collection changes.
	Tag = "products"

	// FallbackClass selects the compiled-in product bundle.
	FallbackClass = "products"

	// DefaultTTL for catalog-type data.
	DefaultTTL = time.Hour
)

// Catalog serves product reads through the cache manager.
type Catalog struct {
	cache *cache.Manager
	repo  store.ProductRepository
	ttl   time.Duration
}

// New creates a Catalog and registers the fallback bundle with the
// cache manager.
func New(cacheMgr *cache.Manager, repo store.ProductRepository, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cacheMgr.RegisterFallback(FallbackClass, FallbackProducts())
	return &Catalog{cache: cacheMgr, repo: repo, ttl: ttl}
}

func (c *Catalog) load(ctx context.Context) ([]domain.Product, error) {
	payload, err := c.cache.Get(ctx, cacheKey, func(ctx context.Context) (any, error) {
		return c.repo.List(ctx)
	}, cache.Options{
		TTL:           c.ttl,
		Tags:          []string{Tag},
		FallbackClass: FallbackClass,
	})
	if err != nil {
		return nil, err
	}
	products, _ := payload.([]domain.Product)
	return products, nil
}

// List returns the full product collection.
func (c *Catalog) List(ctx context.Context) ([]domain.Product, error) {
	return c.load(ctx)
}

// ListN returns at most n products in collection order.
func (c *Catalog) ListN(ctx context.Context, n int) ([]domain.Product, error) {
	products, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if n > len(products) {
		n = len(products)
	}
	return products[:n], nil
}

// ByID looks a product up in the cached collection.
func (c *Catalog) ByID(ctx context.Context, id string) (domain.Product, error) {
	products, err := c.load(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, apperr.New(
		apperr.KindNotFound, "product not found", apperr.SeverityLow,
		apperr.WithMeta(map[string]any{"id": id}),
	)
}

// BySlug looks a product up by slug in the cached collection.
func (c *Catalog) BySlug(ctx context.Context, slug string) (domain.Product, error) {
	products, err := c.load(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return domain.Product{}, apperr.New(
		apperr.KindNotFound, "product not found", apperr.SeverityLow,
		apperr.WithMeta(map[string]any{"slug": slug}),
	)
}

// Similar returns products related to the given name/category,
// excluding excludeID. See SimilarIn for the matching rules.
func (c *Catalog) Similar(ctx context.Context, name, category, excludeID string) ([]domain.Product, error) {
	products, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return SimilarIn(products, name, category, excludeID), nil
}

// Invalidate marks the cached collection stale. Called after catalog
// mutations by administrative tooling.
func (c *Catalog) Invalidate(ctx context.Context) {
	c.cache.Invalidate(ctx, Tag)
}
