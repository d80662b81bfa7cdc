package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/storecore/internal/core/domain"
	"github.com/vietddude/storecore/internal/infra/store"
)

// ProductRepo implements store.ProductRepository using PostgreSQL.
type ProductRepo struct {
	db *DB
}

// NewProductRepo creates a new PostgreSQL product repository.
func NewProductRepo(db *DB) *ProductRepo {
	return &ProductRepo{db: db}
}

type productRow struct {
	ID          string    `db:"id"`
	Slug        string    `db:"slug"`
	Name        string    `db:"name"`
	Category    string    `db:"category"`
	Description string    `db:"description"`
	PriceCents  int64     `db:"price_cents"`
	Currency    string    `db:"currency"`
	ImageURL    string    `db:"image_url"`
	InStock     bool      `db:"in_stock"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{
		ID:          r.ID,
		Slug:        r.Slug,
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Currency:    r.Currency,
		ImageURL:    r.ImageURL,
		InStock:     r.InStock,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const productColumns = `id, slug, name, category, description, price_cents, currency, image_url, in_stock, created_at, updated_at`

// List returns the full collection in insertion order.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, nil
}

// GetByID retrieves a single product.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return row.toDomain(), nil
}

// GetBySlug retrieves a single product by slug.
func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to get product by slug: %w", err)
	}
	return row.toDomain(), nil
}
