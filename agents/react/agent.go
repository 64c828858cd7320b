package react

import (
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/rickchristie/reagent"
	"github.com/rickchristie/reagent/format"
)

// Agent implements the ReAct (Reasoning and Acting) loop as a [reagent.AgentLoop].
// Flow: Thought -> Action -> PAUSE -> Observation -> ... -> Answer.
//
// Every call to Next sends "[system prompt] + conversation" to the model. The system
// prompt is rendered from a template at each call and is never stored in the
// conversation.
//
// An Agent holds no per-run state and may be shared by concurrent runs, provided its
// model, format and tool chain are themselves safe for concurrent use.
type Agent struct {
	behaviorAndContext string
	examples           string
	systemTemplate     *template.Template
	model              reagent.Model
	format             reagent.TextFormat
	toolChain          reagent.ToolChain
	clock              reagent.Clock
	parseMissFeedback  func(reagent.Unrecognized) string
}

// NewAgent creates a new Agent with the given model and tool chain.
// Defaults:
//   - Format: format.NewLines()
//   - SystemTemplate: DefaultSystemTemplate
//   - Examples: DefaultExamples
//   - Clock: none (the template's Now is zero)
func NewAgent(model reagent.Model, toolChain reagent.ToolChain) *Agent {
	return &Agent{
		model:             model,
		toolChain:         toolChain,
		format:            format.NewLines(),
		systemTemplate:    DefaultSystemTemplate,
		examples:          DefaultExamples,
		parseMissFeedback: DefaultParseMissFeedback,
	}
}

// WithBehaviorAndContext sets text placed at the top of the system prompt.
func (r *Agent) WithBehaviorAndContext(prompt string) *Agent {
	r.behaviorAndContext = prompt
	return r
}

// WithExamples replaces the worked examples. Pass "" to omit them.
func (r *Agent) WithExamples(examples string) *Agent {
	r.examples = examples
	return r
}

// WithSystemTemplate sets a custom system prompt template.
// See SystemPromptData for the available fields.
func (r *Agent) WithSystemTemplate(tmpl *template.Template) *Agent {
	r.systemTemplate = tmpl
	return r
}

// WithSystemTemplateString sets a custom system prompt template from a string.
//
// Example:
//
//	agent.WithSystemTemplateString(`You are a shopping assistant.
//	{{.OutputPrompt}}
//	Actions:
//	{{.ToolsPrompt}}`)
//
// Returns error if the template string is invalid.
func (r *Agent) WithSystemTemplateString(tmplStr string) (*Agent, error) {
	tmpl, err := template.New("react_system").Parse(tmplStr)
	if err != nil {
		return r, fmt.Errorf("failed to parse template: %w", err)
	}
	r.systemTemplate = tmpl
	return r, nil
}

// WithFormat sets the action parser.
func (r *Agent) WithFormat(f reagent.TextFormat) *Agent {
	r.format = f
	return r
}

// WithClock exposes the current time to the system prompt template.
func (r *Agent) WithClock(c reagent.Clock) *Agent {
	r.clock = c
	return r
}

// WithParseMissFeedback sets the function that writes the corrective observation
// appended after an unrecognized model turn.
func (r *Agent) WithParseMissFeedback(fn func(reagent.Unrecognized) string) *Agent {
	r.parseMissFeedback = fn
	return r
}

// DefaultParseMissFeedback tells the model what was wrong with its last turn.
func DefaultParseMissFeedback(u reagent.Unrecognized) string {
	return fmt.Sprintf("Error: could not understand your last response (%s). "+
		"Reply with an Action followed by PAUSE, or with an Answer.", u.Reason)
}

// ToolObservation renders a tool invocation result as observation text. Errors become
// "Error: ..." so the model can correct itself.
func ToolObservation(output string, err error) string {
	if err != nil {
		return "Error: " + err.Error()
	}
	return output
}

// SystemPrompt renders the system prompt.
func (r *Agent) SystemPrompt() (string, error) {
	data := SystemPromptData{
		BehaviorAndContext: r.behaviorAndContext,
		OutputPrompt:       r.format.DescribeStructure(),
		ToolsPrompt:        r.toolChain.AvailableToolsPrompt(),
		Examples:           r.examples,
	}
	if r.clock != nil {
		data.Now = r.clock.Now()
	}
	return ExecuteTemplate(r.systemTemplate, data)
}

// Next performs one iteration: exactly one model call and at most one tool call.
//
// State transitions on execCtx:
//   - AwaitingModel -> ParsingTurn after the model answers
//   - ParsingTurn -> Done for a final answer (the model turn is appended)
//   - ParsingTurn -> Invoking -> AwaitingModel for an action (model turn and
//     observation are appended)
//   - ParsingTurn -> AwaitingModel for an unrecognized turn (model turn and a
//     corrective observation are appended)
//
// A failed model call returns an error wrapping [reagent.ErrModelUnavailable] and
// appends nothing. Moving to Failed is left to the executor.
func (r *Agent) Next(ctx context.Context, execCtx *reagent.ExecutionContext) (*reagent.AgentLoopResult, error) {
	if execCtx == nil {
		panic("react: Next called with nil ExecutionContext")
	}
	if s := execCtx.State(); s != reagent.StateAwaitingModel {
		return nil, fmt.Errorf("%w: Next called in state %s", reagent.ErrInvalidTransition, s)
	}

	systemPrompt, err := r.SystemPrompt()
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}

	conv := execCtx.Conversation()
	turns := append([]reagent.Turn{reagent.SystemTurn(systemPrompt)}, conv.Render()...)

	response, err := r.model.GenerateTurn(ctx, execCtx, turns)
	if err != nil {
		return nil, reagent.ModelUnavailable(err)
	}
	if response == nil {
		return nil, reagent.ModelUnavailable(errors.New("model returned no turn"))
	}
	modelTurn := reagent.ModelTurn(response.Turn.Text)

	if err := execCtx.Transition(reagent.StateParsingTurn); err != nil {
		return nil, err
	}
	outcome := r.format.Parse(modelTurn.Text)
	conv.Append(modelTurn)

	switch o := outcome.(type) {
	case reagent.FinalAnswer:
		execCtx.ResetParseMissStreak()
		if err := execCtx.Transition(reagent.StateDone); err != nil {
			return nil, err
		}
		return &reagent.AgentLoopResult{
			Action:  reagent.LATerminate,
			Answer:  o.Text,
			Outcome: o,
		}, nil

	case reagent.ActionRequest:
		execCtx.ResetParseMissStreak()
		if err := execCtx.Transition(reagent.StateInvoking); err != nil {
			return nil, err
		}
		output, invokeErr := r.toolChain.Invoke(ctx, execCtx, o.ToolName, o.Argument)
		conv.Append(reagent.ObservationTurn(ToolObservation(output, invokeErr)))

	case reagent.Unrecognized:
		execCtx.PublishParseMiss(modelTurn.Text, o.Reason)
		conv.Append(reagent.ObservationTurn(r.parseMissFeedback(o)))

	default:
		return nil, fmt.Errorf("unexpected outcome type %T", outcome)
	}

	if err := execCtx.Transition(reagent.StateAwaitingModel); err != nil {
		return nil, err
	}
	return &reagent.AgentLoopResult{
		Action:  reagent.LAContinue,
		Outcome: outcome,
	}, nil
}

// Compile-time check.
var _ reagent.AgentLoop = (*Agent)(nil)
