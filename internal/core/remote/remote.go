// Package remote calls the external text-classification service and
// converts its answer into a tagged outcome. Failures are reported as
// values, never as panics or errors surfaced to the request path.
package remote

import (
	"context"
	"errors"

	"github.com/mailsense/mailsense/internal/core/domain"
)

// Status tags the outcome of a remote classification attempt.
type Status int

const (
	// StatusOK means the service answered with a well-formed payload.
	StatusOK Status = iota
	// StatusUnavailable covers a missing credential, construction failure,
	// open circuit breaker, and any network/timeout/auth error.
	StatusUnavailable
	// StatusMalformed means the call succeeded but the payload did not
	// match the expected shape.
	StatusMalformed
)

// Classification is the validated payload of a successful remote call. It
// is converted into a domain.Result by the orchestrator and never exposed
// raw.
type Classification struct {
	Category       domain.Category
	Confidence     float64
	ShortReason    string
	SuggestedReply string
}

// Outcome is the tagged union returned by Classify.
type Outcome struct {
	Status         Status
	Classification Classification
	Err            error
}

// Classifier is the capability interface for the remote service. The no-op
// variant is selected at startup when no credential is configured.
type Classifier interface {
	Classify(ctx context.Context, text string) Outcome
}

// ErrNotConfigured is reported by the no-op classifier.
var ErrNotConfigured = errors.New("remote classifier not configured")

type noop struct{}

// NewNoop returns a classifier that always reports unavailable.
func NewNoop() Classifier {
	return noop{}
}

func (noop) Classify(_ context.Context, _ string) Outcome {
	return Outcome{Status: StatusUnavailable, Err: ErrNotConfigured}
}
