package apperr

import (
	"context"
	"log/slog"
)

// ErrorSink appends an error record to a durable error log.
type ErrorSink interface {
	AppendError(ctx context.Context, e *Error) error
}

// Reporter logs errors and persists medium-and-above ones. Persistence
// failures are swallowed: a broken log pipe must never be able to fail
// a business operation.
type Reporter struct {
	log  *slog.Logger
	sink ErrorSink
}

// NewReporter creates a Reporter. sink may be nil, in which case
// errors are only logged.
func NewReporter(log *slog.Logger, sink ErrorSink) *Reporter {
	return &Reporter{log: log, sink: sink}
}

// Report logs err and, for medium severity and above, writes it to the
// durable error log.
func (r *Reporter) Report(ctx context.Context, err *Error) {
	if err == nil {
		return
	}
	Log(r.log, err)

	if r.sink == nil || err.Severity < SeverityMedium {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Debug("error sink panicked", "panic", rec)
		}
	}()
	if sinkErr := r.sink.AppendError(ctx, err); sinkErr != nil {
		r.log.Debug("failed to persist error", "error", sinkErr)
	}
}

// Logger exposes the underlying slog logger for components that need
// plain log lines alongside taxonomy reporting.
func (r *Reporter) Logger() *slog.Logger { return r.log }
