package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rickchristie/reagent"
	"github.com/rickchristie/reagent/hooks"
)

// Config holds configuration options for the Executor.
type Config struct {
	// Name labels the ExecutionContext created by Run (default "main").
	Name string

	// Limits are applied to the ExecutionContext created by Run. Nil means
	// reagent.DefaultLimits(). Execute uses whatever limits the caller set.
	Limits []reagent.Limit

	// Clock is used for event timestamps (default reagent.SystemClock).
	Clock reagent.Clock
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{Name: "main"}
}

// Executor drives an AgentLoop until it terminates, managing the lifecycle, hooks and
// limits via the ExecutionContext.
//
// The Executor is responsible for:
//   - Running the AgentLoop repeatedly until it returns [reagent.LATerminate]
//   - Counting iterations and stopping before a call that would exceed a limit
//   - Moving the state machine to Failed on any run-ending error
//   - Invoking lifecycle hooks at appropriate points
//
// An Executor holds no per-run state; concurrent runs each need their own
// ExecutionContext.
type Executor struct {
	loop   reagent.AgentLoop
	config Config
	hooks  *hooks.Registry
}

// New creates a new Executor with the given AgentLoop and configuration.
func New(loop reagent.AgentLoop, config Config) *Executor {
	return &Executor{
		loop:   loop,
		config: config,
		hooks:  hooks.NewRegistry(),
	}
}

// WithHooks replaces the executor's hook registry with the provided one.
// Use this when you need to share a registry across multiple executors.
// Returns the executor for chaining.
func (e *Executor) WithHooks(h *hooks.Registry) *Executor {
	e.hooks = h
	return e
}

// RegisterHook adds a hook to the executor's hook registry.
// The hook can implement any combination of hook interfaces.
// Returns the executor for chaining.
//
// Example:
//
//	exec := executor.New(agent, config).
//	    RegisterHook(loggers.NewSlogHook(logger)).
//	    RegisterHook(&MetricsHook{})
func (e *Executor) RegisterHook(hook any) *Executor {
	e.hooks.Register(hook)
	return e
}

// Run asks question in a fresh conversation and returns the final answer.
//
// The error wraps reagent.ErrModelUnavailable, reagent.ErrIterationLimitExceeded (or
// reagent.ErrLimitExceeded for other limits), or the context's error.
func (e *Executor) Run(ctx context.Context, question string) (string, error) {
	execCtx := e.NewExecutionContext(ctx, reagent.NewConversation(reagent.UserTurn(question)))
	e.Execute(execCtx)
	return execCtx.FinalAnswer(), execCtx.Error()
}

// NewExecutionContext creates an ExecutionContext for conv with the executor's
// configured name, limits and clock.
func (e *Executor) NewExecutionContext(ctx context.Context, conv *reagent.Conversation) *reagent.ExecutionContext {
	name := e.config.Name
	if name == "" {
		name = "main"
	}
	execCtx := reagent.NewExecutionContext(ctx, name, conv)
	if e.config.Limits != nil {
		execCtx.SetLimits(e.config.Limits)
	}
	if e.config.Clock != nil {
		execCtx.SetClock(e.config.Clock)
	}
	return execCtx
}

// Execute runs the AgentLoop until termination.
//
// The execution flow:
//  1. Fire BeforeExecution
//  2. Repeatedly:
//     - stop if the context is canceled
//     - count the iteration and stop if a limit is now exceeded
//     - call AgentLoop.Next
//  3. Fire AfterExecution
//
// The outcome is stored on execCtx: see TerminationReason, FinalAnswer and Error.
//
// Example:
//
//	execCtx := reagent.NewExecutionContext(ctx, "main", conv)
//	execCtx.SetLimits([]reagent.Limit{reagent.MaxIterations(3)}) // optional
//	exec.Execute(execCtx)
//	if err := execCtx.Error(); err != nil {
//	    // handle error
//	}
func (e *Executor) Execute(execCtx *reagent.ExecutionContext) {
	if e.hooks != nil {
		execCtx.SetDispatcher(e.hooks)
	}

	question := ""
	if last, ok := execCtx.Conversation().Last(); ok && last.Role == reagent.RoleUser {
		question = last.Text
	}
	execCtx.PublishBeforeExecution(question)
	defer execCtx.PublishAfterExecution()

	for {
		// Check context cancellation (handles both user cancel and limit exceeded)
		if execCtx.Context().Err() != nil {
			e.fail(execCtx, execCtx.Context().Err())
			return
		}

		execCtx.StartIteration()
		if execCtx.ExceededLimit() != nil {
			e.fail(execCtx, nil)
			return
		}

		execCtx.PublishBeforeIteration()
		iterStart := time.Now()
		result, err := e.loop.Next(execCtx.Context(), execCtx)
		execCtx.PublishAfterIteration(result, time.Since(iterStart))

		if err != nil {
			e.fail(execCtx, fmt.Errorf("iteration %d: %w", execCtx.Iteration(), err))
			return
		}

		if result.Action == reagent.LATerminate {
			if execCtx.State() != reagent.StateDone {
				// Loops other than react.Agent may not drive the state machine.
				_ = execCtx.Transition(reagent.StateParsingTurn)
				_ = execCtx.Transition(reagent.StateDone)
			}
			execCtx.SetTermination(reagent.TerminationSuccess, result.Answer, nil)
			return
		}
	}
}

// fail records a failed run. An exceeded limit takes precedence over err, and a canceled
// context over the error it caused.
func (e *Executor) fail(execCtx *reagent.ExecutionContext, err error) {
	reason := reagent.ReasonFor(err)
	if limitErr := execCtx.LimitError(); limitErr != nil {
		err, reason = limitErr, reagent.TerminationLimitExceeded
	} else if ctxErr := execCtx.Context().Err(); ctxErr != nil {
		if !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		reason = reagent.TerminationContextCanceled
	}

	if execCtx.State() != reagent.StateFailed {
		_ = execCtx.Transition(reagent.StateFailed)
	}
	execCtx.PublishError(err)
	execCtx.SetTermination(reason, "", err)
}
