package domain

// NotificationJob describes one transactional message to deliver.
// Jobs are ephemeral: they exist only for the duration of a dispatch
// attempt and its failover chain, and are never persisted.
type NotificationJob struct {
	To         string            `json:"to"`
	Subject    string            `json:"subject"`
	TemplateID string            `json:"template_id"`
	Params     map[string]string `json:"params"`
}
