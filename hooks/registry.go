package hooks

import (
	"context"
	"sync"

	"github.com/rickchristie/reagent"
)

// Registry stores hooks in registration order and dispatches each event to the hooks
// that implement the matching interface.
//
// Registry implements [reagent.Dispatcher]. It is safe for concurrent use, so one
// registry can serve concurrent runs.
type Registry struct {
	mu    sync.RWMutex
	hooks []any
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make([]any, 0)}
}

// Register adds a hook. A hook may implement any combination of hook interfaces; a value
// implementing none is accepted and never called.
// Returns the registry for chaining.
func (r *Registry) Register(hook any) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
	return r
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks)
}

// Clear removes all registered hooks.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = make([]any, 0)
}

func (r *Registry) snapshot() []any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]any(nil), r.hooks...)
}

// Dispatch delivers event to every hook implementing the matching interface, in
// registration order.
func (r *Registry) Dispatch(ctx context.Context, execCtx *reagent.ExecutionContext, event reagent.HookEvent) {
	for _, h := range r.snapshot() {
		switch e := event.(type) {
		case *reagent.BeforeExecutionEvent:
			if hook, ok := h.(reagent.BeforeExecutionHook); ok {
				hook.OnBeforeExecution(ctx, execCtx, *e)
			}
		case *reagent.AfterExecutionEvent:
			if hook, ok := h.(reagent.AfterExecutionHook); ok {
				hook.OnAfterExecution(ctx, execCtx, *e)
			}
		case *reagent.BeforeIterationEvent:
			if hook, ok := h.(reagent.BeforeIterationHook); ok {
				hook.OnBeforeIteration(ctx, execCtx, *e)
			}
		case *reagent.AfterIterationEvent:
			if hook, ok := h.(reagent.AfterIterationHook); ok {
				hook.OnAfterIteration(ctx, execCtx, *e)
			}
		case *reagent.ErrorEvent:
			if hook, ok := h.(reagent.ErrorHook); ok {
				hook.OnError(ctx, execCtx, *e)
			}
		case *reagent.BeforeModelCallEvent:
			if hook, ok := h.(reagent.BeforeModelCallHook); ok {
				hook.OnBeforeModelCall(ctx, execCtx, *e)
			}
		case *reagent.AfterModelCallEvent:
			if hook, ok := h.(reagent.AfterModelCallHook); ok {
				hook.OnAfterModelCall(ctx, execCtx, *e)
			}
		case *reagent.BeforeToolCallEvent:
			// Passed by pointer so hooks can rewrite the argument.
			if hook, ok := h.(reagent.BeforeToolCallHook); ok {
				hook.OnBeforeToolCall(ctx, execCtx, e)
			}
		case *reagent.AfterToolCallEvent:
			if hook, ok := h.(reagent.AfterToolCallHook); ok {
				hook.OnAfterToolCall(ctx, execCtx, *e)
			}
		case *reagent.ParseMissEvent:
			if hook, ok := h.(reagent.ParseMissHook); ok {
				hook.OnParseMiss(ctx, execCtx, *e)
			}
		case *reagent.StateChangeEvent:
			if hook, ok := h.(reagent.StateChangeHook); ok {
				hook.OnStateChange(ctx, execCtx, *e)
			}
		case *reagent.LimitExceededEvent:
			if hook, ok := h.(reagent.LimitExceededHook); ok {
				hook.OnLimitExceeded(ctx, execCtx, *e)
			}
		}
	}
}

// Compile-time check.
var _ reagent.Dispatcher = (*Registry)(nil)
