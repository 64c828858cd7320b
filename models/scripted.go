package models

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rickchristie/reagent"
)

// ScriptStep is one scripted model reply. Exactly one of Text or Err is used; a non-nil
// Err takes precedence.
type ScriptStep struct {
	Text string
	Err  error
}

// ScriptedModel replays a fixed script of replies, one per GenerateTurn call, ignoring
// the turns it is given. It backs the CLI's offline mode and deterministic tests.
//
// Once the script is exhausted every call fails with reagent.ErrModelUnavailable.
// ScriptedModel is safe for concurrent use but the script is shared, so concurrent runs
// consume each other's steps. Use Reset between runs.
type ScriptedModel struct {
	mu    sync.Mutex
	name  string
	steps []ScriptStep
	next  int
}

// NewScriptedModel creates a ScriptedModel that replies with texts in order.
func NewScriptedModel(texts ...string) *ScriptedModel {
	m := &ScriptedModel{name: "scripted"}
	for _, t := range texts {
		m.steps = append(m.steps, ScriptStep{Text: t})
	}
	return m
}

// WithModelName sets the model name used in events.
func (m *ScriptedModel) WithModelName(name string) *ScriptedModel {
	m.name = name
	return m
}

// Then appends a text reply to the script.
func (m *ScriptedModel) Then(text string) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, ScriptStep{Text: text})
	return m
}

// ThenError appends a failing call to the script.
func (m *ScriptedModel) ThenError(err error) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, ScriptStep{Err: err})
	return m
}

// Remaining returns the number of unplayed steps.
func (m *ScriptedModel) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.steps) - m.next
}

// Reset rewinds the script to the first step.
func (m *ScriptedModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next = 0
}

// GenerateTurn implements reagent.Model.
func (m *ScriptedModel) GenerateTurn(
	ctx context.Context,
	execCtx *reagent.ExecutionContext,
	turns []reagent.Turn,
) (*reagent.ModelResponse, error) {
	if execCtx != nil {
		execCtx.PublishBeforeModelCall(m.name, turns)
	}
	start := time.Now()

	var response *reagent.ModelResponse
	err := ctx.Err()
	if err == nil {
		var step ScriptStep
		step, err = m.pop()
		if err == nil {
			err = step.Err
		}
		if err == nil {
			response = &reagent.ModelResponse{
				Turn: reagent.ModelTurn(step.Text),
				Info: &reagent.GenerationInfo{Duration: time.Since(start)},
			}
		}
	}
	if err != nil {
		err = reagent.ModelUnavailable(err)
	}

	if execCtx != nil {
		execCtx.PublishAfterModelCall(m.name, turns, response, time.Since(start), err)
	}
	return response, err
}

func (m *ScriptedModel) pop() (ScriptStep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next >= len(m.steps) {
		return ScriptStep{}, fmt.Errorf("script exhausted after %d replies", len(m.steps))
	}
	step := m.steps[m.next]
	m.next++
	return step, nil
}

var _ reagent.Model = (*ScriptedModel)(nil)
