package apperr

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"strings"

	"github.com/lib/pq"
)

// Classify maps an arbitrary error to a Kind. Typed errors are checked
// first; message-substring heuristics are a deliberate fallback for
// opaque third-party errors, not the primary mechanism.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	if errors.Is(err, sql.ErrNoRows) {
		return KindNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return KindDatabase
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}

	s := strings.ToLower(err.Error())
	switch {
	case containsAny(s, "rate limit", "too many requests", "429", "quota"):
		return KindRateLimit
	case containsAny(s, "not found", "404", "no rows"):
		return KindNotFound
	case containsAny(s, "auth", "token", "permission", "unauthorized", "forbidden"):
		return KindAuthentication
	case containsAny(s, "sql", "postgres", "database", "relation", "constraint", "connection pool", "duplicate key"):
		return KindDatabase
	case containsAny(s, "network", "fetch", "connection refused", "connection reset", "dial", "timeout", "unreachable"):
		return KindNetwork
	case containsAny(s, "validation", "invalid"):
		return KindValidation
	default:
		return KindUnknown
	}
}

// IsStoreOutage reports whether an error means the backing store is
// exhausted or unreachable, which is what the cache's fallback policy
// keys on.
func IsStoreOutage(err error) bool {
	kind := Classify(err)
	return kind == KindDatabase || kind == KindNetwork || kind == KindRateLimit
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
