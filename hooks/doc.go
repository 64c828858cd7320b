// Package hooks provides a registry for execution lifecycle hooks.
//
// Hooks observe events during a run. Each hook interface corresponds to one event type;
// implement only the interfaces you need.
//
// # Hook Interfaces
//
// Executor lifecycle hooks:
//   - [reagent.BeforeExecutionHook] - once before the first iteration
//   - [reagent.AfterExecutionHook] - once after the run ends
//   - [reagent.BeforeIterationHook] / [reagent.AfterIterationHook] - around each iteration
//   - [reagent.ErrorHook] - when a run ends with an error
//
// Model and tool hooks:
//   - [reagent.BeforeModelCallHook] / [reagent.AfterModelCallHook]
//   - [reagent.BeforeToolCallHook] (may rewrite the argument) / [reagent.AfterToolCallHook]
//
// Loop hooks:
//   - [reagent.ParseMissHook] - a model turn matched no marker
//   - [reagent.StateChangeHook] - every state machine transition
//   - [reagent.LimitExceededHook] - the first exceeded limit
//
// # Creating a Hook
//
//	type ToolTimer struct{}
//
//	func (h *ToolTimer) OnAfterToolCall(
//	    ctx context.Context,
//	    execCtx *reagent.ExecutionContext,
//	    event reagent.AfterToolCallEvent,
//	) {
//	    metrics.RecordToolCall(event.ToolName, event.Duration)
//	}
//
//	// Compile-time check
//	var _ reagent.AfterToolCallHook = (*ToolTimer)(nil)
//
// # Registering Hooks
//
//	exec := executor.New(agent, config).
//	    RegisterHook(&loggers.SlogHook{}).
//	    RegisterHook(&ToolTimer{})
//
// Or share one registry across executors with executor.WithHooks.
package hooks
