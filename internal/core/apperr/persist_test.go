package apperr

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

type recordingSink struct {
	appended []*Error
	err      error
	panics   bool
}

func (s *recordingSink) AppendError(ctx context.Context, e *Error) error {
	if s.panics {
		panic("sink gone")
	}
	s.appended = append(s.appended, e)
	return s.err
}

func TestReport_PersistsMediumAndAbove(t *testing.T) {
	sink := &recordingSink{}
	r := NewReporter(slog.Default(), sink)
	ctx := context.Background()

	r.Report(ctx, New(KindValidation, "low noise", SeverityLow))
	if len(sink.appended) != 0 {
		t.Errorf("expected low severity not persisted, got %d", len(sink.appended))
	}

	r.Report(ctx, New(KindDatabase, "pool exhausted", SeverityMedium))
	r.Report(ctx, New(KindDatabase, "primary down", SeverityCritical))
	if len(sink.appended) != 2 {
		t.Errorf("expected 2 persisted errors, got %d", len(sink.appended))
	}
}

func TestReport_SinkFailuresNeverPropagate(t *testing.T) {
	r := NewReporter(slog.Default(), &recordingSink{err: errors.New("disk full")})
	// Must not panic or error
	r.Report(context.Background(), New(KindDatabase, "x", SeverityHigh))

	r = NewReporter(slog.Default(), &recordingSink{panics: true})
	r.Report(context.Background(), New(KindDatabase, "x", SeverityHigh))
}

func TestReport_NilSafe(t *testing.T) {
	r := NewReporter(slog.Default(), nil)
	r.Report(context.Background(), nil)
	r.Report(context.Background(), New(KindDatabase, "x", SeverityHigh))
}
