package reagent

import (
	"context"
)

// AgentLoop is responsible for:
//  1. Constructing the prompt sent to the model from the conversation.
//  2. Calling the model exactly once.
//  3. Parsing the model turn and, for an action, invoking at most one tool.
//  4. Deciding whether to continue the loop or terminate with an answer.
//
// The executor calls [AgentLoop.Next] repeatedly until it returns [LATerminate], an error,
// or a limit is exceeded. Next drives the state machine on execCtx (see [State]) and
// appends every turn it produces to execCtx.Conversation().
type AgentLoop interface {
	// Next performs one iteration. A returned error ends the run; errors wrapping
	// ErrModelUnavailable are reported as such.
	Next(ctx context.Context, execCtx *ExecutionContext) (*AgentLoopResult, error)
}

type LoopAction string

const (
	LAContinue  LoopAction = "continue"
	LATerminate LoopAction = "terminate"
)

// AgentLoopResult is the outcome of one iteration.
type AgentLoopResult struct {
	// Action indicates whether to continue or terminate the loop.
	Action LoopAction

	// Answer is only set when Action is [LATerminate].
	Answer string

	// Outcome is the parse result of this iteration's model turn.
	Outcome Outcome
}
