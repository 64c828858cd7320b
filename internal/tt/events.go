package tt

import (
	"context"
	"sync"

	"github.com/rickchristie/reagent"
)

// Recorder keeps every published event in order. Use it directly as a
// reagent.Dispatcher, or register it as a hook: it implements every hook interface.
type Recorder struct {
	mu     sync.Mutex
	events []reagent.HookEvent
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Dispatch implements reagent.Dispatcher.
func (r *Recorder) Dispatch(_ context.Context, _ *reagent.ExecutionContext, event reagent.HookEvent) {
	r.record(event)
}

func (r *Recorder) record(event reagent.HookEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) OnBeforeExecution(_ context.Context, _ *reagent.ExecutionContext, e reagent.BeforeExecutionEvent) {
	r.record(&e)
}

func (r *Recorder) OnAfterExecution(_ context.Context, _ *reagent.ExecutionContext, e reagent.AfterExecutionEvent) {
	r.record(&e)
}

func (r *Recorder) OnBeforeIteration(_ context.Context, _ *reagent.ExecutionContext, e reagent.BeforeIterationEvent) {
	r.record(&e)
}

func (r *Recorder) OnAfterIteration(_ context.Context, _ *reagent.ExecutionContext, e reagent.AfterIterationEvent) {
	r.record(&e)
}

func (r *Recorder) OnError(_ context.Context, _ *reagent.ExecutionContext, e reagent.ErrorEvent) {
	r.record(&e)
}

func (r *Recorder) OnBeforeModelCall(_ context.Context, _ *reagent.ExecutionContext, e reagent.BeforeModelCallEvent) {
	r.record(&e)
}

func (r *Recorder) OnAfterModelCall(_ context.Context, _ *reagent.ExecutionContext, e reagent.AfterModelCallEvent) {
	r.record(&e)
}

func (r *Recorder) OnBeforeToolCall(_ context.Context, _ *reagent.ExecutionContext, e *reagent.BeforeToolCallEvent) {
	r.record(e)
}

func (r *Recorder) OnAfterToolCall(_ context.Context, _ *reagent.ExecutionContext, e reagent.AfterToolCallEvent) {
	r.record(&e)
}

func (r *Recorder) OnParseMiss(_ context.Context, _ *reagent.ExecutionContext, e reagent.ParseMissEvent) {
	r.record(&e)
}

func (r *Recorder) OnStateChange(_ context.Context, _ *reagent.ExecutionContext, e reagent.StateChangeEvent) {
	r.record(&e)
}

func (r *Recorder) OnLimitExceeded(_ context.Context, _ *reagent.ExecutionContext, e reagent.LimitExceededEvent) {
	r.record(&e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []reagent.HookEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]reagent.HookEvent(nil), r.events...)
}

// Names returns the recorded event names in order, skipping state changes.
func (r *Recorder) Names() []string {
	var names []string
	for _, e := range r.Events() {
		if e.Name() == reagent.EventNameStateChange {
			continue
		}
		names = append(names, e.Name())
	}
	return names
}

// States returns the target state of every recorded StateChangeEvent.
func (r *Recorder) States() []reagent.State {
	var states []reagent.State
	for _, e := range r.Events() {
		if sc, ok := e.(*reagent.StateChangeEvent); ok {
			states = append(states, sc.To)
		}
	}
	return states
}

// Count returns how many events with the given name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, e := range r.Events() {
		if e.Name() == name {
			n++
		}
	}
	return n
}

var (
	_ reagent.Dispatcher          = (*Recorder)(nil)
	_ reagent.BeforeExecutionHook = (*Recorder)(nil)
	_ reagent.AfterToolCallHook   = (*Recorder)(nil)
	_ reagent.StateChangeHook     = (*Recorder)(nil)
	_ reagent.LimitExceededHook   = (*Recorder)(nil)
)

// -----------------------------------------------------------------------------
// Limit helpers
// -----------------------------------------------------------------------------

// ExactLimit creates an exact key limit.
func ExactLimit(key reagent.StatKey, maxValue float64) reagent.Limit {
	return reagent.Limit{Type: reagent.LimitExactKey, Key: key, MaxValue: maxValue}
}

// PrefixLimit creates a prefix limit.
func PrefixLimit(key reagent.StatKey, maxValue float64) reagent.Limit {
	return reagent.Limit{Type: reagent.LimitKeyPrefix, Key: key, MaxValue: maxValue}
}
