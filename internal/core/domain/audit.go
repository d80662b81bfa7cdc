package domain

import "time"

// AuditLogEntry records an administrative change. Only fields that
// actually changed value are snapshotted; an entry with an empty
// change set is never written.
type AuditLogEntry struct {
	ID      string                 `json:"id"`
	Action  string                 `json:"action"`
	Actor   string                 `json:"actor"`
	Changed map[string]FieldChange `json:"changed"`

	// Priority marks operational emergencies (lock changes) so audit
	// review tooling can separate them from routine edits.
	Priority  bool      `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// FieldChange is the before/after pair for one changed field.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// ChangedFields returns the sorted-free list of field names in the snapshot.
func (e *AuditLogEntry) ChangedFields() []string {
	fields := make([]string, 0, len(e.Changed))
	for name := range e.Changed {
		fields = append(fields, name)
	}
	return fields
}
