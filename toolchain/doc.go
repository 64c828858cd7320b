// Package toolchain provides the tool registry used by the ReAct loop.
//
// # Overview
//
// A [Registry] maps tool names to [reagent.Tool] values. It is responsible for:
//  1. Describing the available tools to the model (AvailableToolsPrompt)
//  2. Looking up and invoking the tool named by a parsed action (Invoke)
//
// # Lifecycle
//
// Register every tool before the first run. After that the registry is read-only, so a
// single Registry can be shared by any number of concurrent runs without locking.
//
// # Errors
//
// Invoke never panics. An unregistered name yields an error wrapping
// [reagent.ErrUnknownTool]; a failing or panicking tool yields a
// [*reagent.ToolExecutionError]. The loop renders both as observations so the model can
// correct itself.
//
// # Example Usage
//
//	reg, err := toolchain.NewRegistry(
//	    tools.NewCalculate(),
//	    tools.NewGetCost(),
//	)
//	if err != nil {
//	    return err
//	}
//	out, err := reg.Invoke(ctx, execCtx, "calculate", "1879 * 5") // "9395"
package toolchain
