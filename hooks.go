package reagent

import "context"

// Dispatcher delivers published events to hooks. hooks.Registry is the standard
// implementation; install one with [ExecutionContext.SetDispatcher].
//
// Dispatch is called synchronously on the goroutine that published the event. A panicking
// hook stops the run.
type Dispatcher interface {
	Dispatch(ctx context.Context, execCtx *ExecutionContext, event HookEvent)
}

// -----------------------------------------------------------------------------
// Executor Hook Interfaces
// -----------------------------------------------------------------------------

// BeforeExecutionHook is implemented by hooks that want to be notified before a run starts.
type BeforeExecutionHook interface {
	OnBeforeExecution(ctx context.Context, execCtx *ExecutionContext, event BeforeExecutionEvent)
}

// AfterExecutionHook is implemented by hooks that want to be notified after a run ends.
// It is always called, whatever the termination reason.
type AfterExecutionHook interface {
	OnAfterExecution(ctx context.Context, execCtx *ExecutionContext, event AfterExecutionEvent)
}

// BeforeIterationHook is implemented by hooks that want to be notified before each
// AgentLoop.Next call.
type BeforeIterationHook interface {
	OnBeforeIteration(ctx context.Context, execCtx *ExecutionContext, event BeforeIterationEvent)
}

// AfterIterationHook is implemented by hooks that want to be notified after each
// AgentLoop.Next call.
type AfterIterationHook interface {
	OnAfterIteration(ctx context.Context, execCtx *ExecutionContext, event AfterIterationEvent)
}

// ErrorHook is implemented by hooks that want to be notified of run-ending errors.
// The error is still returned from Execute.
type ErrorHook interface {
	OnError(ctx context.Context, execCtx *ExecutionContext, event ErrorEvent)
}

// -----------------------------------------------------------------------------
// Model and Tool Hook Interfaces
// -----------------------------------------------------------------------------

type BeforeModelCallHook interface {
	OnBeforeModelCall(ctx context.Context, execCtx *ExecutionContext, event BeforeModelCallEvent)
}

type AfterModelCallHook interface {
	OnAfterModelCall(ctx context.Context, execCtx *ExecutionContext, event AfterModelCallEvent)
}

// BeforeToolCallHook may modify event.Argument to change the tool input.
type BeforeToolCallHook interface {
	OnBeforeToolCall(ctx context.Context, execCtx *ExecutionContext, event *BeforeToolCallEvent)
}

type AfterToolCallHook interface {
	OnAfterToolCall(ctx context.Context, execCtx *ExecutionContext, event AfterToolCallEvent)
}

// -----------------------------------------------------------------------------
// Loop Hook Interfaces
// -----------------------------------------------------------------------------

type ParseMissHook interface {
	OnParseMiss(ctx context.Context, execCtx *ExecutionContext, event ParseMissEvent)
}

type StateChangeHook interface {
	OnStateChange(ctx context.Context, execCtx *ExecutionContext, event StateChangeEvent)
}

type LimitExceededHook interface {
	OnLimitExceeded(ctx context.Context, execCtx *ExecutionContext, event LimitExceededEvent)
}
