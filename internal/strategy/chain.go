package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gauravsurtani/social-media-reader/internal/post"
)

// Strategy is a single acquisition attempt for one platform. Implementations
// must confine failures to the returned error; the chain treats any error as
// "try the next one".
type Strategy interface {
	// Name is the unique identifier recorded as the extraction method.
	Name() string

	// Attempt tries to extract a payload for the target identifier.
	Attempt(ctx context.Context, target string) (*post.Partial, error)
}

// Attempt records the outcome of one strategy invocation.
type Attempt struct {
	Name    string
	Payload *post.Partial
	Failure *Failure
}

// Run executes strategies strictly in order, stopping at the first success.
// It returns the winning payload and strategy name, the full attempt log, and
// a non-nil aggregate Failure only when every strategy failed. The aggregate
// is retryable iff at least one underlying failure was.
func Run(ctx context.Context, target string, strategies []Strategy) (*post.Partial, string, []Attempt, *Failure) {
	attempts := make([]Attempt, 0, len(strategies))

	for _, s := range strategies {
		payload, err := s.Attempt(ctx, target)
		if err == nil && payload != nil {
			attempts = append(attempts, Attempt{Name: s.Name(), Payload: payload})
			log.Debug().Str("strategy", s.Name()).Int("attempts", len(attempts)).Msg("extraction succeeded")
			return payload, s.Name(), attempts, nil
		}

		if err == nil {
			err = fmt.Errorf("strategy returned no payload")
		}
		failure := FromError(s.Name(), err)
		attempts = append(attempts, Attempt{Name: s.Name(), Failure: failure})
		log.Debug().Str("strategy", s.Name()).Str("kind", failure.Kind.String()).Msg(failure.Message)
	}

	return nil, "", attempts, aggregate(target, attempts)
}

func aggregate(target string, attempts []Attempt) *Failure {
	if len(attempts) == 0 {
		return &Failure{
			Stage:   "chain",
			Kind:    KindInvalidInput,
			Message: fmt.Sprintf("no strategies configured for %s", target),
		}
	}

	retryable := false
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		if a.Failure == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", a.Name, a.Failure.Message))
		if a.Failure.Retryable {
			retryable = true
		}
	}

	return &Failure{
		Stage:     "chain",
		Kind:      KindBlocked,
		Message:   fmt.Sprintf("all %d strategies failed: %s", len(attempts), strings.Join(parts, "; ")),
		Retryable: retryable,
	}
}
