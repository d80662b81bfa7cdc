// Package audit appends administrative change records. Writes are
// deduplicated at the call site by change diffing: an empty change set
// is never written, which keeps idempotent re-saves out of the log.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vietddude/storecore/internal/core/domain"
	"github.com/vietddude/storecore/internal/infra/store"
	"github.com/vietddude/storecore/internal/metrics"
)

// Recorder writes audit entries best-effort. A failed audit write is
// logged and swallowed; it never fails the operation being audited.
type Recorder struct {
	repo  store.AuditRepository
	log   *slog.Logger
	clock func() time.Time
}

// NewRecorder creates a Recorder.
func NewRecorder(repo store.AuditRepository, log *slog.Logger) *Recorder {
	return &Recorder{repo: repo, log: log, clock: time.Now}
}

// Record appends one entry unless the change set is empty.
func (r *Recorder) Record(ctx context.Context, action, actor string, changes map[string]domain.FieldChange, priority bool) {
	if len(changes) == 0 {
		metrics.AuditSkipped.Inc()
		return
	}

	entry := &domain.AuditLogEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Actor:     actor,
		Changed:   changes,
		Priority:  priority,
		CreatedAt: r.clock().UTC(),
	}
	if err := r.repo.Append(ctx, entry); err != nil {
		r.log.Warn("failed to append audit entry",
			"action", action, "actor", actor, "error", err)
	}
}

// SetClock overrides the time source. Test hook.
func (r *Recorder) SetClock(clock func() time.Time) { r.clock = clock }
