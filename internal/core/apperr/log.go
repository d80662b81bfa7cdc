package apperr

import (
	"log/slog"
	"runtime/debug"
)

// Log writes err to the operational log at a verbosity matched to its
// severity: critical/high on the error channel with metadata and a
// stack, medium as a warning without a stack, low as info.
func Log(log *slog.Logger, err *Error) {
	if log == nil || err == nil {
		return
	}

	attrs := []any{
		"kind", string(err.Kind),
		"severity", err.Severity.String(),
	}
	if err.cause != nil {
		attrs = append(attrs, "cause", err.cause.Error())
	}
	for k, v := range err.Meta {
		attrs = append(attrs, k, v)
	}

	switch {
	case err.Severity >= SeverityHigh:
		attrs = append(attrs, "stack", string(debug.Stack()))
		log.Error(err.Message, attrs...)
	case err.Severity == SeverityMedium:
		log.Warn(err.Message, attrs...)
	default:
		log.Info(err.Message, attrs...)
	}
}
