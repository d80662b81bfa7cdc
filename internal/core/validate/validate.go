// Package validate provides field-level checks and sanitizers plus a
// schema composer used by the write paths.
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Result is the outcome of a single field check. Sanitized carries the
// normalized value only when OK is true.
type Result struct {
	OK        bool
	Errors    []string
	Sanitized any
}

func ok(sanitized any) Result {
	return Result{OK: true, Sanitized: sanitized}
}

func fail(msgs ...string) Result {
	return Result{Errors: msgs}
}

var (
	emailRe = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	// Vietnamese mobile numbers: 0 or +84 followed by a carrier prefix
	// and eight digits.
	phoneRe = regexp.MustCompile(`^(0|\+84)(3|5|7|8|9)\d{8}$`)
)

// Email validates and normalizes an email address (trimmed, lowercased).
func Email(s string) Result {
	v := strings.ToLower(strings.TrimSpace(s))
	if !emailRe.MatchString(v) {
		return fail("must be a valid email address")
	}
	return ok(v)
}

// Phone validates a mobile number in the national format and
// normalizes it to the leading-zero form.
func Phone(s string) Result {
	v := strings.NewReplacer(" ", "", "-", "", ".", "").Replace(strings.TrimSpace(s))
	if !phoneRe.MatchString(v) {
		return fail("must be a valid phone number")
	}
	if strings.HasPrefix(v, "+84") {
		v = "0" + v[3:]
	}
	return ok(v)
}

// Required rejects empty or whitespace-only strings.
func Required(s string) Result {
	v := strings.TrimSpace(s)
	if v == "" {
		return fail("is required")
	}
	return ok(v)
}

// Length checks a trimmed string length range (inclusive).
func Length(s string, min, max int) Result {
	v := strings.TrimSpace(s)
	if len(v) < min || len(v) > max {
		return fail(fmt.Sprintf("must be between %d and %d characters", min, max))
	}
	return ok(v)
}

// Range checks a numeric value range (inclusive).
func Range(v, min, max float64) Result {
	if v < min || v > max {
		return fail(fmt.Sprintf("must be between %v and %v", min, max))
	}
	return ok(v)
}

// ArrayLength checks the length of a slice value.
func ArrayLength(length, min, max int) Result {
	if length < min || length > max {
		return fail(fmt.Sprintf("must contain between %d and %d items", min, max))
	}
	return ok(length)
}

// URL validates URL well-formedness (absolute http/https only).
func URL(s string) Result {
	v := strings.TrimSpace(s)
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fail("must be a valid http(s) URL")
	}
	return ok(v)
}
