package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/vietddude/storecore/internal/core/apperr"
	"github.com/vietddude/storecore/internal/core/domain"
)

// AuditRepo implements store.AuditRepository. The audit log is
// append-only with server-assigned timestamps; this core never reads
// it back.
type AuditRepo struct {
	db *DB
}

// NewAuditRepo creates a new PostgreSQL audit repository.
func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Append writes one audit entry.
func (r *AuditRepo) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	changed, err := json.Marshal(entry.Changed)
	if err != nil {
		return fmt.Errorf("failed to encode audit snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, action, actor, changed, changed_fields, priority, created_at)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, now())`,
		entry.ID, entry.Action, entry.Actor, changed,
		pq.Array(entry.ChangedFields()), entry.Priority)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// SignalRepo implements store.SignalRepository. Append-only.
type SignalRepo struct {
	db *DB
}

// NewSignalRepo creates a new PostgreSQL signal repository.
func NewSignalRepo(db *DB) *SignalRepo {
	return &SignalRepo{db: db}
}

// Append writes one activity signal.
func (r *SignalRepo) Append(ctx context.Context, signal *domain.ActivitySignal) error {
	meta, err := json.Marshal(signal.Meta)
	if err != nil {
		return fmt.Errorf("failed to encode signal meta: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO activity_signals (id, kind, subject, meta, created_at)
		VALUES ($1, $2, $3, $4::jsonb, now())`,
		signal.ID, string(signal.Kind), signal.Subject, meta)
	if err != nil {
		return fmt.Errorf("failed to append activity signal: %w", err)
	}
	return nil
}

// ErrorLogRepo implements apperr.ErrorSink on the durable error log.
type ErrorLogRepo struct {
	db *DB
}

// NewErrorLogRepo creates a new PostgreSQL error log repository.
func NewErrorLogRepo(db *DB) *ErrorLogRepo {
	return &ErrorLogRepo{db: db}
}

// AppendError writes one error record.
func (r *ErrorLogRepo) AppendError(ctx context.Context, e *apperr.Error) error {
	meta, err := json.Marshal(e.Meta)
	if err != nil {
		return fmt.Errorf("failed to encode error meta: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO error_log (kind, severity, message, user_message, meta, created_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, now())`,
		string(e.Kind), e.Severity.String(), e.Message, e.UserMessage, meta)
	if err != nil {
		return fmt.Errorf("failed to append error record: %w", err)
	}
	return nil
}
