package reagent

import (
	"context"
	"time"
)

// Model is the model caller consumed by the loop. It is an external collaborator: given
// the full ordered conversation it returns one new turn of role [RoleModel].
//
// Implementations must return errors wrapped so that errors.Is(err, ErrModelUnavailable)
// holds (see [ModelUnavailable]). The loop never retries a failed call; wrap the model
// (e.g., with the policy/retry package) if retries are wanted.
//
// When an ExecutionContext is provided, implementations publish model call events with
// [ExecutionContext.PublishAfterModelCall]. Pass nil to skip events and stats.
type Model interface {
	GenerateTurn(
		ctx context.Context,
		execCtx *ExecutionContext,
		turns []Turn,
	) (*ModelResponse, error)
}

// ModelResponse is the result of a GenerateTurn call.
type ModelResponse struct {
	// Turn is the generated turn. Its Role is always RoleModel.
	Turn Turn

	// Info contains generation metadata. May be nil.
	Info *GenerationInfo
}

// GenerationInfo contains metadata about one generation, with token counts normalized
// across providers.
type GenerationInfo struct {
	// InputTokens is the number of prompt tokens used.
	InputTokens int

	// OutputTokens is the number of completion tokens generated.
	OutputTokens int

	// TotalTokens is InputTokens + OutputTokens unless the provider reports it directly.
	TotalTokens int

	// Duration is how long the generation took.
	Duration time.Duration
}
