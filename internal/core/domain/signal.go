package domain

import "time"

// ActivitySignal is a lightweight, append-only "something happened"
// record written best-effort after a primary write succeeds. It is
// never read transactionally by the write-path, only by downstream
// dashboards and alerts.
type ActivitySignal struct {
	ID        string         `json:"id"`
	Kind      SignalKind     `json:"kind"`
	Subject   string         `json:"subject"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type SignalKind string

const (
	SignalOrderPlaced        SignalKind = "order_placed"
	SignalOrderStatusChanged SignalKind = "order_status_changed"
	SignalSettingsChanged    SignalKind = "settings_changed"
)
