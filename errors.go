package reagent

import (
	"errors"
	"fmt"
)

// Errors surfaced by the loop. Only [ErrModelUnavailable] and [ErrIterationLimitExceeded]
// (or another [ErrLimitExceeded]) end a run; tool and parse problems are written back into
// the conversation as observations so the model can correct itself.
var (
	// ErrModelUnavailable means the model could not produce a turn (network, auth, quota).
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrLimitExceeded means a configured [Limit] was exceeded.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrIterationLimitExceeded means the run reached its maximum iteration count without
	// a final answer.
	ErrIterationLimitExceeded = errors.New("iteration limit exceeded")

	// ErrUnknownTool means a parsed action named a tool absent from the registry.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrDuplicateTool means a tool with the same name is already registered.
	ErrDuplicateTool = errors.New("duplicate tool")

	// ErrInvalidTool means a tool is nil or has an empty name.
	ErrInvalidTool = errors.New("invalid tool")

	// ErrToolExecution means a registered tool failed while running.
	ErrToolExecution = errors.New("tool execution failed")

	// ErrParseMiss means a model turn contained no recognized action or answer.
	ErrParseMiss = errors.New("unrecognized model output")

	// ErrInvalidTransition means the loop attempted an illegal state transition.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// ToolExecutionError wraps a failure raised by a tool's function.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrToolExecution) hold for every ToolExecutionError.
func (e *ToolExecutionError) Is(target error) bool {
	return target == ErrToolExecution
}

// LimitExceededError reports which limit ended a run.
type LimitExceededError struct {
	Limit Limit
	Value float64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("limit exceeded: %s > %v", e.Limit.Key, e.Limit.MaxValue)
}

// Is matches ErrLimitExceeded for every limit, and ErrIterationLimitExceeded for the
// iteration limit.
func (e *LimitExceededError) Is(target error) bool {
	switch target {
	case ErrLimitExceeded:
		return true
	case ErrIterationLimitExceeded:
		return e.Limit.Key == KeyIterations
	default:
		return false
	}
}

// ModelUnavailable wraps err so that errors.Is(err, ErrModelUnavailable) holds.
// Already-wrapped errors are returned unchanged.
func ModelUnavailable(err error) error {
	if err == nil || errors.Is(err, ErrModelUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrModelUnavailable, err)
}

func isUnknownTool(err error) bool {
	return err != nil && errors.Is(err, ErrUnknownTool)
}
