package reagent

import (
	"context"
	"errors"
)

// TerminationReason indicates why a run ended.
type TerminationReason string

const (
	// TerminationSuccess means the model produced a final answer.
	TerminationSuccess TerminationReason = "success"

	// TerminationModelUnavailable means a model call failed.
	TerminationModelUnavailable TerminationReason = "model_unavailable"

	// TerminationLimitExceeded means a [Limit] was exceeded, usually the iteration limit.
	TerminationLimitExceeded TerminationReason = "limit_exceeded"

	// TerminationContextCanceled means the caller's context was canceled.
	TerminationContextCanceled TerminationReason = "context_canceled"

	// TerminationError means the agent loop returned any other error.
	TerminationError TerminationReason = "error"
)

// ReasonFor classifies a run-ending error. A nil error is a success.
func ReasonFor(err error) TerminationReason {
	switch {
	case err == nil:
		return TerminationSuccess
	case errors.Is(err, ErrLimitExceeded):
		return TerminationLimitExceeded
	case errors.Is(err, ErrModelUnavailable):
		return TerminationModelUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return TerminationContextCanceled
	default:
		return TerminationError
	}
}
