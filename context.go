package reagent

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ExecutionContext is the per-run state passed through everything in the loop: the
// conversation, the state machine position, stats and limits, and the hook dispatcher.
//
// All loop components (Model, ToolChain, AgentLoop, hooks) receive the ExecutionContext,
// so stats and events are collected without manual wiring.
//
// The embedded context.Context is canceled when a limit is exceeded, which aborts
// in-flight model and tool calls. Use [ExecutionContext.Context] for blocking work.
type ExecutionContext struct {
	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc

	// Execution name (e.g., "main", "chat:3")
	name string

	conversation *Conversation
	state        State

	stats         *ExecutionStats
	limits        []Limit
	exceededLimit *Limit
	exceededValue float64

	dispatcher Dispatcher
	clock      Clock

	startTime time.Time
	endTime   time.Time

	terminationReason TerminationReason
	finalAnswer       string
	err               error
}

// NewExecutionContext creates an ExecutionContext for one run over conv. A nil conv
// starts an empty conversation. [DefaultLimits] apply until [ExecutionContext.SetLimits]
// is called.
func NewExecutionContext(ctx context.Context, name string, conv *Conversation) *ExecutionContext {
	if conv == nil {
		conv = NewConversation()
	}
	runCtx, cancel := context.WithCancel(ctx)
	execCtx := &ExecutionContext{
		ctx:          runCtx,
		cancel:       cancel,
		name:         name,
		conversation: conv,
		state:        StateAwaitingModel,
		stats:        NewExecutionStats(),
		limits:       DefaultLimits(),
		clock:        SystemClock{},
	}
	execCtx.stats.onChange = execCtx.checkLimits
	execCtx.startTime = execCtx.clock.Now()
	return execCtx
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// Context returns the run's context. It is canceled when a limit is exceeded or the
// run terminates.
func (c *ExecutionContext) Context() context.Context {
	return c.ctx
}

// Name returns the name of this execution.
func (c *ExecutionContext) Name() string {
	return c.name
}

// Conversation returns the run's conversation log.
func (c *ExecutionContext) Conversation() *Conversation {
	return c.conversation
}

// Stats returns the run's stats. Custom counters may be added with IncrCounter.
func (c *ExecutionContext) Stats() *ExecutionStats {
	return c.stats
}

// Iteration returns the current iteration number (1-indexed), or 0 before the first.
func (c *ExecutionContext) Iteration() int {
	return int(c.stats.GetIterations())
}

// SetDispatcher installs the hook dispatcher. Must be called before the run starts.
func (c *ExecutionContext) SetDispatcher(d Dispatcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatcher = d
}

// SetClock replaces the clock used for event timestamps and timing.
func (c *ExecutionContext) SetClock(clock Clock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clock
	c.startTime = clock.Now()
}

// Clock returns the clock in use.
func (c *ExecutionContext) Clock() Clock {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clock
}

// -----------------------------------------------------------------------------
// State Machine
// -----------------------------------------------------------------------------

// State returns the current state.
func (c *ExecutionContext) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Transition moves the state machine to next and publishes a [StateChangeEvent].
// Returns an error wrapping [ErrInvalidTransition] if the move is not allowed.
func (c *ExecutionContext) Transition(next State) error {
	c.mu.Lock()
	from := c.state
	if !from.CanTransition(next) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
	}
	c.state = next
	c.mu.Unlock()

	c.dispatch(&StateChangeEvent{From: from, To: next}, EventNameStateChange)
	return nil
}

// -----------------------------------------------------------------------------
// Limits
// -----------------------------------------------------------------------------

// SetLimits replaces the configured limits. An empty slice disables limit checking,
// including the iteration limit.
func (c *ExecutionContext) SetLimits(limits []Limit) {
	c.mu.Lock()
	c.limits = append([]Limit(nil), limits...)
	c.mu.Unlock()
	c.checkLimits()
}

// Limits returns a copy of the configured limits.
func (c *ExecutionContext) Limits() []Limit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Limit(nil), c.limits...)
}

// ExceededLimit returns the first limit that was exceeded, or nil.
func (c *ExecutionContext) ExceededLimit() *Limit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.exceededLimit
}

// LimitError returns a [*LimitExceededError] for the exceeded limit, or nil.
func (c *ExecutionContext) LimitError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.exceededLimit == nil {
		return nil
	}
	return &LimitExceededError{Limit: *c.exceededLimit, Value: c.exceededValue}
}

// checkLimits records the first exceeded limit and cancels the run context.
func (c *ExecutionContext) checkLimits() {
	c.mu.Lock()
	if c.exceededLimit != nil {
		c.mu.Unlock()
		return
	}
	var (
		hit   *Limit
		value float64
	)
	for i := range c.limits {
		for _, v := range c.stats.valuesMatching(c.limits[i]) {
			if v > c.limits[i].MaxValue {
				l := c.limits[i]
				hit, value = &l, v
				break
			}
		}
		if hit != nil {
			break
		}
	}
	if hit == nil {
		c.mu.Unlock()
		return
	}
	c.exceededLimit = hit
	c.exceededValue = value
	c.mu.Unlock()

	c.cancel()
	c.dispatch(&LimitExceededEvent{Limit: *hit, Value: value}, EventNameLimitExceeded)
}

// -----------------------------------------------------------------------------
// Iteration Management
// -----------------------------------------------------------------------------

// StartIteration counts one iteration. Called by the executor right before each
// AgentLoop.Next. If this pushes the count past the iteration limit,
// [ExecutionContext.ExceededLimit] becomes non-nil.
func (c *ExecutionContext) StartIteration() {
	c.stats.incrCounterDirect(KeyIterations, 1)
}

// -----------------------------------------------------------------------------
// Event Publishing
// -----------------------------------------------------------------------------

// PublishBeforeExecution publishes a BeforeExecutionEvent.
func (c *ExecutionContext) PublishBeforeExecution(question string) *BeforeExecutionEvent {
	e := &BeforeExecutionEvent{Question: question}
	c.dispatch(e, EventNameExecutionBefore)
	return e
}

// PublishAfterExecution publishes an AfterExecutionEvent built from the termination state.
func (c *ExecutionContext) PublishAfterExecution() *AfterExecutionEvent {
	e := &AfterExecutionEvent{
		TerminationReason: c.TerminationReason(),
		Answer:            c.FinalAnswer(),
		Error:             c.Error(),
	}
	c.dispatch(e, EventNameExecutionAfter)
	return e
}

// PublishBeforeIteration publishes a BeforeIterationEvent.
func (c *ExecutionContext) PublishBeforeIteration() *BeforeIterationEvent {
	e := &BeforeIterationEvent{}
	c.dispatch(e, EventNameIterationBefore)
	return e
}

// PublishAfterIteration publishes an AfterIterationEvent.
func (c *ExecutionContext) PublishAfterIteration(
	result *AgentLoopResult,
	duration time.Duration,
) *AfterIterationEvent {
	e := &AfterIterationEvent{Result: result, Duration: duration}
	c.dispatch(e, EventNameIterationAfter)
	return e
}

// PublishError publishes an ErrorEvent.
func (c *ExecutionContext) PublishError(err error) *ErrorEvent {
	e := &ErrorEvent{Err: err}
	c.dispatch(e, EventNameError)
	return e
}

// PublishBeforeModelCall publishes a BeforeModelCallEvent.
func (c *ExecutionContext) PublishBeforeModelCall(model string, turns []Turn) *BeforeModelCallEvent {
	e := &BeforeModelCallEvent{Model: model, Turns: turns}
	c.dispatch(e, EventNameModelCallBefore)
	return e
}

// PublishAfterModelCall publishes an AfterModelCallEvent and updates
// [KeyModelCalls], [KeyModelCallErrors], [KeyInputTokens] and [KeyOutputTokens].
func (c *ExecutionContext) PublishAfterModelCall(
	model string,
	turns []Turn,
	response *ModelResponse,
	duration time.Duration,
	err error,
) *AfterModelCallEvent {
	e := &AfterModelCallEvent{
		Model:    model,
		Turns:    turns,
		Response: response,
		Duration: duration,
		Error:    err,
	}
	if response != nil && response.Info != nil {
		e.InputTokens = response.Info.InputTokens
		e.OutputTokens = response.Info.OutputTokens
	}

	c.stats.IncrCounter(KeyModelCalls, 1)
	if err != nil {
		c.stats.IncrCounter(KeyModelCallErrors, 1)
	}
	if e.InputTokens > 0 {
		c.stats.IncrCounter(KeyInputTokens, int64(e.InputTokens))
	}
	if e.OutputTokens > 0 {
		c.stats.IncrCounter(KeyOutputTokens, int64(e.OutputTokens))
	}

	c.dispatch(e, EventNameModelCallAfter)
	return e
}

// PublishBeforeToolCall publishes a BeforeToolCallEvent. Hooks may rewrite the
// argument; callers must pass event.Argument to the tool.
func (c *ExecutionContext) PublishBeforeToolCall(name, argument string) *BeforeToolCallEvent {
	e := &BeforeToolCallEvent{ToolName: name, Argument: argument}
	c.dispatch(e, EventNameToolCallBefore)
	return e
}

// PublishAfterToolCall publishes an AfterToolCallEvent and updates the tool call stats.
// Unknown-tool errors count toward [KeyUnknownToolTotal] rather than [KeyToolCalls].
func (c *ExecutionContext) PublishAfterToolCall(
	name, argument, output string,
	duration time.Duration,
	err error,
) *AfterToolCallEvent {
	e := &AfterToolCallEvent{
		ToolName: name,
		Argument: argument,
		Output:   output,
		Duration: duration,
		Error:    err,
	}

	switch {
	case isUnknownTool(err):
		c.stats.IncrCounter(KeyUnknownToolTotal, 1)
		c.stats.IncrCounter(KeyToolCallsErrorTotal, 1)
		c.stats.IncrGauge(KeyToolCallsErrorStreak, 1)
	case err != nil:
		c.stats.IncrCounter(KeyToolCalls, 1)
		c.stats.IncrCounter(KeyToolCallsFor+StatKey(name), 1)
		c.stats.IncrCounter(KeyToolCallsErrorTotal, 1)
		c.stats.IncrCounter(KeyToolCallsErrorFor+StatKey(name), 1)
		c.stats.IncrGauge(KeyToolCallsErrorStreak, 1)
	default:
		c.stats.IncrCounter(KeyToolCalls, 1)
		c.stats.IncrCounter(KeyToolCallsFor+StatKey(name), 1)
		c.stats.ResetGauge(KeyToolCallsErrorStreak)
	}

	c.dispatch(e, EventNameToolCallAfter)
	return e
}

// PublishParseMiss publishes a ParseMissEvent and updates [KeyParseMissTotal] and
// [KeyParseMissConsecutive].
func (c *ExecutionContext) PublishParseMiss(text, reason string) *ParseMissEvent {
	e := &ParseMissEvent{Text: text, Reason: reason}
	c.stats.IncrCounter(KeyParseMissTotal, 1)
	c.stats.IncrGauge(KeyParseMissConsecutive, 1)
	c.dispatch(e, EventNameParseMiss)
	return e
}

// ResetParseMissStreak clears [KeyParseMissConsecutive] after a recognized turn.
func (c *ExecutionContext) ResetParseMissStreak() {
	c.stats.ResetGauge(KeyParseMissConsecutive)
}

// dispatch fills in the base fields and hands the event to the dispatcher.
func (c *ExecutionContext) dispatch(event HookEvent, name string) {
	c.mu.RLock()
	d, clock := c.dispatcher, c.clock
	c.mu.RUnlock()

	base := BaseEvent{EventName: name, Timestamp: clock.Now(), Iteration: c.Iteration()}
	switch e := event.(type) {
	case *BeforeExecutionEvent:
		e.BaseEvent = base
	case *AfterExecutionEvent:
		e.BaseEvent = base
	case *BeforeIterationEvent:
		e.BaseEvent = base
	case *AfterIterationEvent:
		e.BaseEvent = base
	case *ErrorEvent:
		e.BaseEvent = base
	case *BeforeModelCallEvent:
		e.BaseEvent = base
	case *AfterModelCallEvent:
		e.BaseEvent = base
	case *BeforeToolCallEvent:
		e.BaseEvent = base
	case *AfterToolCallEvent:
		e.BaseEvent = base
	case *ParseMissEvent:
		e.BaseEvent = base
	case *StateChangeEvent:
		e.BaseEvent = base
	case *LimitExceededEvent:
		e.BaseEvent = base
	}

	if d != nil {
		d.Dispatch(c.ctx, c, event)
	}
}

// -----------------------------------------------------------------------------
// Termination
// -----------------------------------------------------------------------------

// SetTermination records how the run ended and releases the run context.
// Called by the executor exactly once.
func (c *ExecutionContext) SetTermination(reason TerminationReason, answer string, err error) {
	c.mu.Lock()
	c.terminationReason = reason
	c.finalAnswer = answer
	c.err = err
	c.endTime = c.clock.Now()
	c.mu.Unlock()
	c.cancel()
}

// TerminationReason returns why the run ended, or "" while it is running.
func (c *ExecutionContext) TerminationReason() TerminationReason {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.terminationReason
}

// FinalAnswer returns the answer text of a successful run.
func (c *ExecutionContext) FinalAnswer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.finalAnswer
}

// Error returns the error that ended the run, or nil.
func (c *ExecutionContext) Error() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// StartTime returns when the run started.
func (c *ExecutionContext) StartTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.startTime
}

// Duration returns the run's duration, measured up to now while it is still running.
func (c *ExecutionContext) Duration() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.endTime.IsZero() {
		return c.clock.Now().Sub(c.startTime)
	}
	return c.endTime.Sub(c.startTime)
}
