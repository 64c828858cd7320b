package toolchain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rickchristie/reagent"
)

// Registry is the standard [reagent.ToolChain]: an ordered, name-unique set of tools.
type Registry struct {
	tools  []reagent.Tool
	byName map[string]reagent.Tool
}

// NewRegistry creates a Registry holding tools in the given order.
// Returns an error if any tool is invalid or a name repeats.
func NewRegistry(tools ...reagent.Tool) (*Registry, error) {
	r := &Registry{
		tools:  make([]reagent.Tool, 0, len(tools)),
		byName: make(map[string]reagent.Tool, len(tools)),
	}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool. Fails with [reagent.ErrInvalidTool] for a nil tool or empty name,
// and [reagent.ErrDuplicateTool] if the name is taken.
//
// Register must not be called once runs using the registry have started.
func (r *Registry) Register(tool reagent.Tool) error {
	if tool == nil {
		return fmt.Errorf("%w: nil tool", reagent.ErrInvalidTool)
	}
	name := tool.Name()
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", reagent.ErrInvalidTool)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %q", reagent.ErrDuplicateTool, name)
	}
	r.tools = append(r.tools, tool)
	r.byName[name] = tool
	return nil
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name()
	}
	return names
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []reagent.Tool {
	return append([]reagent.Tool(nil), r.tools...)
}

// Lookup returns the named tool.
func (r *Registry) Lookup(name string) (reagent.Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// AvailableToolsPrompt lists each tool as
//
//	<name>:
//	e.g., <name>: <example>
//	<description>
//
// separated by blank lines, in registration order. The example line is omitted for
// tools that do not implement [reagent.Exampler].
func (r *Registry) AvailableToolsPrompt() string {
	var sb strings.Builder
	for i, t := range r.tools {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s:\n", t.Name())
		if ex, ok := t.(reagent.Exampler); ok && ex.Example() != "" {
			fmt.Fprintf(&sb, "e.g., %s: %s\n", t.Name(), ex.Example())
		}
		fmt.Fprintf(&sb, "%s\n", t.Description())
	}
	return sb.String()
}

// Invoke runs the named tool with argument.
//
// When execCtx is not nil, tool call events are published and stats updated; hooks may
// rewrite the argument before the call.
func (r *Registry) Invoke(
	ctx context.Context,
	execCtx *reagent.ExecutionContext,
	name, argument string,
) (string, error) {
	tool, ok := r.byName[name]
	if !ok {
		err := fmt.Errorf("%w: %q (available: %s)",
			reagent.ErrUnknownTool, name, strings.Join(r.Names(), ", "))
		if execCtx != nil {
			execCtx.PublishAfterToolCall(name, argument, "", 0, err)
		}
		return "", err
	}

	if execCtx != nil {
		argument = execCtx.PublishBeforeToolCall(name, argument).Argument
	}

	start := time.Now()
	output, err := safeCall(ctx, tool, argument)
	duration := time.Since(start)

	if err != nil {
		err = &reagent.ToolExecutionError{Tool: name, Err: err}
	}
	if execCtx != nil {
		execCtx.PublishAfterToolCall(name, argument, output, duration, err)
	}
	if err != nil {
		return "", err
	}
	return output, nil
}

// safeCall converts a panicking tool into an error.
func safeCall(ctx context.Context, tool reagent.Tool, argument string) (output string, err error) {
	defer func() {
		if p := recover(); p != nil {
			output, err = "", fmt.Errorf("panic: %v", p)
		}
	}()
	return tool.Call(ctx, argument)
}

// Compile-time check.
var _ reagent.ToolChain = (*Registry)(nil)
