package notify

import (
	"context"

	"github.com/vietddude/storecore/internal/core/domain"
)

// Provider delivers one rendered message. Success is whatever the
// provider's transport reports as accepted; no downstream delivery
// confirmation is consulted.
type Provider interface {
	Name() string
	Send(ctx context.Context, subject, body string, job domain.NotificationJob) error
}
