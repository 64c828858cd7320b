// Package format implements the action parser: it classifies one model turn into a
// [reagent.Outcome] before the loop dispatches anything.
//
// # Grammar
//
// [Lines] recognizes one fixed, line-oriented grammar:
//
//	Thought: <free text>          reasoning, ignored by dispatch
//	Action: <tool>: <argument>    request a tool call ("Action: <tool>" for no argument)
//	PAUSE                         must follow the Action line (blank lines allowed)
//	Answer: <text>                final answer; continues until the next marker line
//
// Markers are matched on trimmed lines and are case-sensitive. Text that is not part of a
// marker is ignored, so the model may think aloud around them. When a turn contains more
// than one well-formed action or answer, the last one wins: earlier markers are treated
// as superseded self-corrections.
//
// "Observation:" lines written by the model are ignored. Observations are only ever
// produced by the loop.
//
// # Example Usage
//
//	f := format.NewLines()
//	switch o := f.Parse(text).(type) {
//	case reagent.FinalAnswer:
//	    return o.Text
//	case reagent.ActionRequest:
//	    out, err := registry.Invoke(ctx, execCtx, o.ToolName, o.Argument)
//	    ...
//	case reagent.Unrecognized:
//	    ...
//	}
package format
