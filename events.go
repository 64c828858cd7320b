package reagent

import "time"

// Event name constants follow the pattern "namespace:category:timing". Application events
// should use their own namespace (e.g., "myapp:cache_hit").
const (
	EventNameExecutionBefore = "reagent:execution:before"
	EventNameExecutionAfter  = "reagent:execution:after"

	EventNameIterationBefore = "reagent:iteration:before"
	EventNameIterationAfter  = "reagent:iteration:after"

	EventNameModelCallBefore = "reagent:model_call:before"
	EventNameModelCallAfter  = "reagent:model_call:after"

	EventNameToolCallBefore = "reagent:tool_call:before"
	EventNameToolCallAfter  = "reagent:tool_call:after"

	EventNameParseMiss     = "reagent:parse_miss"
	EventNameStateChange   = "reagent:state_change"
	EventNameLimitExceeded = "reagent:limit_exceeded"
	EventNameError         = "reagent:error"
)

// -----------------------------------------------------------------------------
// Hook Event Interface
// -----------------------------------------------------------------------------

// HookEvent is implemented by every event published through an [ExecutionContext].
type HookEvent interface {
	hookEvent()

	// Name returns the EventName, e.g. [EventNameToolCallAfter].
	Name() string
}

// BaseEvent holds the fields common to all events. The ExecutionContext fills them in
// when the event is published.
type BaseEvent struct {
	EventName string
	Timestamp time.Time

	// Iteration is the iteration the event belongs to (0 before the first model call).
	Iteration int
}

// Name returns the event name.
func (e BaseEvent) Name() string {
	return e.EventName
}

// -----------------------------------------------------------------------------
// Executor Events
// -----------------------------------------------------------------------------

// BeforeExecutionEvent is emitted once before the first iteration begins.
type BeforeExecutionEvent struct {
	BaseEvent

	// Question is the user turn that started the run.
	Question string
}

// AfterExecutionEvent is emitted once after the run terminates.
type AfterExecutionEvent struct {
	BaseEvent

	TerminationReason TerminationReason

	// Answer is the final answer (empty unless TerminationReason is TerminationSuccess).
	Answer string

	// Error is the error if the run failed (nil on success).
	Error error
}

// BeforeIterationEvent is emitted before each AgentLoop.Next call.
type BeforeIterationEvent struct {
	BaseEvent
}

// AfterIterationEvent is emitted after each AgentLoop.Next call.
type AfterIterationEvent struct {
	BaseEvent

	// Result is nil if Next returned an error.
	Result   *AgentLoopResult
	Duration time.Duration
}

// ErrorEvent is emitted when a run ends with an error.
type ErrorEvent struct {
	BaseEvent

	Err error
}

// -----------------------------------------------------------------------------
// Model Call Events
// -----------------------------------------------------------------------------

// BeforeModelCallEvent is emitted before each model call.
type BeforeModelCallEvent struct {
	BaseEvent

	// Model is the model identifier.
	Model string

	// Turns is the conversation as submitted to the model.
	Turns []Turn
}

// AfterModelCallEvent is emitted after each model call completes.
type AfterModelCallEvent struct {
	BaseEvent

	Model    string
	Turns    []Turn
	Response *ModelResponse

	// InputTokens and OutputTokens are copied from Response.Info for convenience.
	InputTokens  int
	OutputTokens int

	Duration time.Duration

	// Error is nil if the call succeeded.
	Error error
}

// -----------------------------------------------------------------------------
// Tool Call Events
// -----------------------------------------------------------------------------

// BeforeToolCallEvent is emitted before each tool invocation. Hooks may rewrite Argument;
// the tool receives the value left in the event.
type BeforeToolCallEvent struct {
	BaseEvent

	ToolName string
	Argument string
}

// AfterToolCallEvent is emitted after each tool invocation, including invocations of
// unknown tools.
type AfterToolCallEvent struct {
	BaseEvent

	ToolName string
	Argument string
	Output   string
	Duration time.Duration
	Error    error
}

// -----------------------------------------------------------------------------
// Loop Events
// -----------------------------------------------------------------------------

// ParseMissEvent is emitted when a model turn matches no marker.
type ParseMissEvent struct {
	BaseEvent

	// Text is the offending model turn.
	Text   string
	Reason string
}

// StateChangeEvent is emitted on every state machine transition.
type StateChangeEvent struct {
	BaseEvent

	From State
	To   State
}

// LimitExceededEvent is emitted once, when the first limit is exceeded.
type LimitExceededEvent struct {
	BaseEvent

	Limit Limit
	Value float64
}

func (BeforeExecutionEvent) hookEvent() {}
func (AfterExecutionEvent) hookEvent()  {}
func (BeforeIterationEvent) hookEvent() {}
func (AfterIterationEvent) hookEvent()  {}
func (ErrorEvent) hookEvent()           {}
func (BeforeModelCallEvent) hookEvent() {}
func (AfterModelCallEvent) hookEvent()  {}
func (BeforeToolCallEvent) hookEvent()  {}
func (AfterToolCallEvent) hookEvent()   {}
func (ParseMissEvent) hookEvent()       {}
func (StateChangeEvent) hookEvent()     {}
func (LimitExceededEvent) hookEvent()   {}
