// Package retry wraps a reagent.Model with host-side retries.
//
// The loop itself never retries a failed model call: a ModelUnavailable error ends the
// run. Hosts that want transient failures absorbed wrap their model before handing it to
// the agent:
//
//	model := retry.WrapModel(models.NewLCGWrapper(llm), retry.Config{MaxAttempts: 3})
//	agent := react.NewAgent(model, registry)
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rickchristie/reagent"
)

// Default backoff intervals.
const (
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxInterval     = 10 * time.Second
)

// Config controls retry behavior for a wrapped model.
type Config struct {
	// MaxAttempts is the total number of calls, including the first. Values below 1
	// mean a single attempt.
	MaxAttempts int

	// InitialInterval is the wait before the second attempt. It grows exponentially up
	// to MaxInterval. Zero values use the defaults.
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// ShouldRetry decides whether err is transient. Nil retries every
	// reagent.ErrModelUnavailable error that was not caused by context cancellation.
	ShouldRetry func(error) bool

	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// WrapModel wraps a model with exponential backoff retries. It returns nil for a nil
// model.
//
// Each attempt is a full GenerateTurn call on the wrapped model, so model call events
// and stats are recorded per attempt. Retrying stops as soon as ctx is done.
func WrapModel(model reagent.Model, cfg Config) reagent.Model {
	if model == nil {
		return nil
	}
	return &modelWrapper{next: model, cfg: cfg}
}

type modelWrapper struct {
	next reagent.Model
	cfg  Config
}

func (w *modelWrapper) GenerateTurn(
	ctx context.Context,
	execCtx *reagent.ExecutionContext,
	turns []reagent.Turn,
) (*reagent.ModelResponse, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, reagent.ModelUnavailable(ctxErr)
	}

	var response *reagent.ModelResponse
	attempt := 0
	operation := func() error {
		attempt++
		resp, err := w.next.GenerateTurn(ctx, execCtx, turns)
		if err == nil {
			response = resp
			return nil
		}
		if !shouldRetry(ctx, w.cfg, err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		if w.cfg.OnRetry != nil {
			w.cfg.OnRetry(attempt, err, wait)
		}
	}

	err := backoff.RetryNotify(operation, w.policy(ctx), notify)
	if err != nil {
		return nil, reagent.ModelUnavailable(err)
	}
	return response, nil
}

func (w *modelWrapper) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = DefaultInitialInterval
	if w.cfg.InitialInterval > 0 {
		exp.InitialInterval = w.cfg.InitialInterval
	}
	exp.MaxInterval = DefaultMaxInterval
	if w.cfg.MaxInterval > 0 {
		exp.MaxInterval = w.cfg.MaxInterval
	}
	// Attempts bound the retries, not wall time.
	exp.MaxElapsedTime = 0
	exp.Reset()

	retries := uint64(normalizedAttempts(w.cfg.MaxAttempts) - 1)
	return backoff.WithContext(backoff.WithMaxRetries(exp, retries), ctx)
}

func normalizedAttempts(maxAttempts int) int {
	if maxAttempts < 1 {
		return 1
	}
	return maxAttempts
}

func shouldRetry(ctx context.Context, cfg Config, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if cfg.ShouldRetry != nil {
		return cfg.ShouldRetry(err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, reagent.ErrModelUnavailable)
}

var _ reagent.Model = (*modelWrapper)(nil)
