package reagent

import (
	"context"
)

// Tool is a named text-in/text-out capability the model can invoke by name.
//
// The description is shown to the model in the system prompt, so write it for the model:
// say what the tool returns and what the argument should look like.
//
// Tools are registered once at startup (see the toolchain package) and must be safe to
// call from concurrent runs.
type Tool interface {
	// Name returns the identifier used in "Action: <name>: <argument>" lines.
	Name() string

	// Description returns a human-readable description for the model.
	Description() string

	// Call runs the tool with the raw argument text. A returned error is reported back
	// to the model as an observation; it never ends the run.
	Call(ctx context.Context, argument string) (string, error)
}

// Exampler is optionally implemented by tools that provide an example argument shown in
// the tool catalog, e.g. "4 * 7 / 3" for a calculator.
type Exampler interface {
	Example() string
}

// ToolFunc is a convenience type for creating tools from functions.
type ToolFunc struct {
	name        string
	description string
	example     string
	fn          func(ctx context.Context, argument string) (string, error)
}

// NewToolFunc creates a new ToolFunc.
func NewToolFunc(
	name, description string,
	fn func(ctx context.Context, argument string) (string, error),
) *ToolFunc {
	return &ToolFunc{
		name:        name,
		description: description,
		fn:          fn,
	}
}

// WithExample sets the example argument shown in the tool catalog.
func (t *ToolFunc) WithExample(example string) *ToolFunc {
	t.example = example
	return t
}

// Name returns the tool's identifier.
func (t *ToolFunc) Name() string {
	return t.name
}

// Description returns a human-readable description for the model.
func (t *ToolFunc) Description() string {
	return t.description
}

// Example returns the example argument, or "" if none was set.
func (t *ToolFunc) Example() string {
	return t.example
}

// Call executes the tool function.
func (t *ToolFunc) Call(ctx context.Context, argument string) (string, error) {
	return t.fn(ctx, argument)
}

// Compile-time checks.
var (
	_ Tool     = (*ToolFunc)(nil)
	_ Exampler = (*ToolFunc)(nil)
)
