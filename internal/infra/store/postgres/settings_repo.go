package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vietddude/storecore/internal/infra/store"
)

// SettingsRepo implements store.SettingsRepository using PostgreSQL.
// Documents live in a JSONB column; the merge relies on a single
// atomic upsert so no extra locking is needed.
type SettingsRepo struct {
	db *DB
}

// NewSettingsRepo creates a new PostgreSQL settings repository.
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the raw document for a settings name.
func (r *SettingsRepo) Get(ctx context.Context, name string) (map[string]any, error) {
	var data []byte
	err := r.db.GetContext(ctx, &data,
		`SELECT data FROM settings WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	doc := make(map[string]any)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode settings document: %w", err)
	}
	return doc, nil
}

// Upsert merges fields into the named document atomically via a JSONB
// concatenation upsert, creating the document when missing, and
// returns the merged result.
func (r *SettingsRepo) Upsert(ctx context.Context, name string, fields map[string]any) (map[string]any, error) {
	patch, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings patch: %w", err)
	}

	var data []byte
	err = r.db.GetContext(ctx, &data, `
		INSERT INTO settings (name, data, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (name)
		DO UPDATE SET data = settings.data || EXCLUDED.data, updated_at = now()
		RETURNING data`, name, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert settings: %w", err)
	}

	doc := make(map[string]any)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode merged settings: %w", err)
	}
	return doc, nil
}
