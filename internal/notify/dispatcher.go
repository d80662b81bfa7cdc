// Package notify renders transactional messages and delivers them
// through an ordered provider failover chain: at most one attempt per
// provider per dispatch, failover being the only retry mechanism.
package notify

import (
	"context"

	"github.com/vietddude/storecore/internal/core/apperr"
	"github.com/vietddude/storecore/internal/core/domain"
	"github.com/vietddude/storecore/internal/metrics"
)

// Result is the outcome of a dispatch. Err carries the terminal
// failure description for logging; SendOrderEmail itself never
// returns an error because callers treat dispatch as fire-and-forget.
type Result struct {
	Success  bool
	Provider string
	Err      string
}

// Dispatcher walks the ordered provider chain.
type Dispatcher struct {
	providers []Provider
	reporter  *apperr.Reporter
}

// NewDispatcher creates a Dispatcher over the ordered providers.
func NewDispatcher(reporter *apperr.Reporter, providers ...Provider) *Dispatcher {
	return &Dispatcher{providers: providers, reporter: reporter}
}

// SendOrderEmail renders the job and tries each provider in order,
// stopping at the first acceptance. A failed dispatch never blocks or
// rolls back the business operation that triggered it.
func (d *Dispatcher) SendOrderEmail(ctx context.Context, job domain.NotificationJob) Result {
	subject, body := renderOrderEmail(job)

	var lastErr error
	for i, p := range d.providers {
		err := p.Send(ctx, subject, body, job)
		if err == nil {
			metrics.NotifyAttempts.WithLabelValues(p.Name(), "success").Inc()
			d.reporter.Logger().Info("notification delivered",
				"provider", p.Name(), "to", job.To, "template", job.TemplateID)
			return Result{Success: true, Provider: p.Name()}
		}

		lastErr = err
		metrics.NotifyAttempts.WithLabelValues(p.Name(), "failure").Inc()
		if i < len(d.providers)-1 {
			metrics.NotifyFailovers.Inc()
		}
		d.reporter.Logger().Warn("notification provider failed, trying next",
			"provider", p.Name(), "to", job.To, "error", err)
	}

	opts := []apperr.Option{
		apperr.WithMeta(map[string]any{"to": job.To, "template": job.TemplateID}),
	}
	if lastErr != nil {
		opts = append(opts, apperr.WithCause(lastErr))
	}
	d.reporter.Report(ctx, apperr.New(
		apperr.KindThirdParty,
		"all notification providers failed",
		apperr.SeverityMedium,
		opts...,
	))
	return Result{Err: "all providers failed"}
}
