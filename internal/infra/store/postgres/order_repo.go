package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vietddude/storecore/internal/core/domain"
	"github.com/vietddude/storecore/internal/infra/store"
)

// OrderRepo implements store.OrderRepository using PostgreSQL.
type OrderRepo struct {
	db *DB
}

// NewOrderRepo creates a new PostgreSQL order repository.
func NewOrderRepo(db *DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Insert writes the primary order record as one atomic document write.
func (r *OrderRepo) Insert(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders (id, origin, data, created_at)
		VALUES ($1, $2, $3::jsonb, $4)`,
		order.ID, order.Origin, data, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// GetByID retrieves an order.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (domain.Order, error) {
	var data []byte
	err := r.db.GetContext(ctx, &data,
		`SELECT data FROM orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return domain.Order{}, fmt.Errorf("failed to decode order: %w", err)
	}
	return order, nil
}
