package strategy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"

	"github.com/gauravsurtani/social-media-reader/internal/safeurl"
)

// Kind classifies a failure for retry and fallback decisions.
type Kind int

const (
	// KindNetwork covers timeouts, DNS and HTTP 5xx, worth retrying later.
	KindNetwork Kind = iota
	// KindBlocked covers login walls and 403/999-style denials. The same
	// strategy will not succeed, but a later one may.
	KindBlocked
	// KindMalformed covers unexpected payload shapes.
	KindMalformed
	// KindToolUnavailable means a required external binary is missing.
	KindToolUnavailable
	// KindInvalidInput means the caller passed a bad or SSRF-blocked URL.
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindBlocked:
		return "blocked"
	case KindMalformed:
		return "malformed"
	case KindToolUnavailable:
		return "tool-unavailable"
	case KindInvalidInput:
		return "invalid-input"
	}
	return "unknown"
}

// Failure is the only error shape that crosses a strategy boundary. It is
// never fatal to a chain: the runner records it and moves on.
type Failure struct {
	Stage     string
	Kind      Kind
	Message   string
	Retryable bool
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s (%s)", f.Stage, f.Message, f.Kind)
}

// NewFailure builds a Failure with retryability derived from the kind.
func NewFailure(stage string, kind Kind, format string, args ...any) *Failure {
	return &Failure{
		Stage:     stage,
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		Retryable: kind == KindNetwork,
	}
}

// FromError converts an arbitrary strategy error into a Failure. Existing
// failures pass through unchanged.
func FromError(stage string, err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	switch {
	case errors.Is(err, safeurl.ErrInvalidURL):
		return NewFailure(stage, KindInvalidInput, "%v", err)
	case errors.Is(err, exec.ErrNotFound):
		return NewFailure(stage, KindToolUnavailable, "%v", err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewFailure(stage, KindNetwork, "timed out: %v", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return NewFailure(stage, KindNetwork, "%v", err)
	}

	return NewFailure(stage, KindMalformed, "%v", err)
}

// ClassifyHTTPStatus maps a non-2xx response to a Failure. 999 is LinkedIn's
// "Request Denied" status for unauthenticated scrapers.
func ClassifyHTTPStatus(stage string, status int) *Failure {
	switch {
	case status == 401 || status == 403 || status == 999:
		return NewFailure(stage, KindBlocked, "HTTP %d", status)
	case status == 429 || status >= 500:
		return NewFailure(stage, KindNetwork, "HTTP %d", status)
	default:
		return NewFailure(stage, KindMalformed, "HTTP %d", status)
	}
}
