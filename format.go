package reagent

// TextFormat is the action parser: it turns one model turn into exactly one [Outcome]
// before anything is dispatched, so the loop never acts on unvalidated text.
//
// See format.Lines for the standard marker grammar.
type TextFormat interface {
	// DescribeStructure returns the prompt text explaining the marker grammar to the model.
	DescribeStructure() string

	// Parse classifies a model turn's text. It never fails: text that matches no marker
	// yields [Unrecognized].
	Parse(text string) Outcome
}

// Outcome is the closed set of parse results: [FinalAnswer], [ActionRequest] or
// [Unrecognized]. No other implementations exist.
type Outcome interface {
	outcome()
}

// FinalAnswer means the turn carries a terminal answer; the loop stops and returns Text.
type FinalAnswer struct {
	Text string
}

// ActionRequest means the turn asks for a tool invocation followed by a pause.
type ActionRequest struct {
	ToolName string
	Argument string
}

// Unrecognized means the turn matched neither an answer nor a well-formed action.
// Reason is shown to the model in the corrective observation.
type Unrecognized struct {
	Reason string
}

func (FinalAnswer) outcome()   {}
func (ActionRequest) outcome() {}
func (Unrecognized) outcome()  {}
