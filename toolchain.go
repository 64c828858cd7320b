package reagent

import "context"

// ToolChain is the tool registry consumed by the loop.
//
// # Responsibilities
//
//   - AvailableToolsPrompt: the tool catalog placed in the system prompt
//   - Invoke: look up a tool by name and run it
//
// # Event Publishing Requirements
//
// Invoke MUST publish tool call events when execCtx is not nil, for stats tracking and
// hook notification:
//
//	execCtx.PublishBeforeToolCall(name, argument)
//	start := time.Now()
//	output, err := tool.Call(ctx, argument)
//	execCtx.PublishAfterToolCall(name, argument, output, time.Since(start), err)
//
// # Errors
//
// Invoke returns an error wrapping [ErrUnknownTool] when the name is not registered, and a
// [*ToolExecutionError] when the tool fails. The loop turns both into observation turns.
//
// See toolchain.Registry for the standard implementation.
type ToolChain interface {
	// AvailableToolsPrompt returns the tool catalog for the system prompt.
	AvailableToolsPrompt() string

	// Names returns registered tool names in registration order.
	Names() []string

	// Invoke runs the named tool with the raw argument text.
	Invoke(ctx context.Context, execCtx *ExecutionContext, name, argument string) (string, error)
}
