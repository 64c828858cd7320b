package tt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rickchristie/reagent"
)

// -----------------------------------------------------------------------------
// MockModel - implements reagent.Model with proper event publishing
// -----------------------------------------------------------------------------

// MockModel replays queued responses and errors in order.
// It publishes BeforeModelCall and AfterModelCall events as required by the interface.
// Calls past the end of the queue fail with reagent.ErrModelUnavailable.
type MockModel struct {
	mu        sync.Mutex
	name      string
	responses []*reagent.ModelResponse
	errors    []error
	callCount int

	// CapturedTurns stores the turns passed to each GenerateTurn call.
	CapturedTurns [][]reagent.Turn
}

// NewMockModel creates a new MockModel with the default name "test-model".
func NewMockModel() *MockModel {
	return &MockModel{name: "test-model"}
}

// WithName sets the model name used for event publishing.
func (m *MockModel) WithName(name string) *MockModel {
	m.name = name
	return m
}

// AddResponse queues a model turn with the specified token counts.
func (m *MockModel) AddResponse(text string, inputTokens, outputTokens int) *MockModel {
	m.responses = append(m.responses, &reagent.ModelResponse{
		Turn: reagent.ModelTurn(text),
		Info: &reagent.GenerationInfo{
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
			TotalTokens:  inputTokens + outputTokens,
		},
	})
	m.errors = append(m.errors, nil)
	return m
}

// AddTexts queues one response per text with zero token counts.
func (m *MockModel) AddTexts(texts ...string) *MockModel {
	for _, text := range texts {
		m.AddResponse(text, 0, 0)
	}
	return m
}

// AddError queues an error for the next call. Errors are wrapped with
// reagent.ModelUnavailable before being returned.
func (m *MockModel) AddError(err error) *MockModel {
	m.responses = append(m.responses, nil)
	m.errors = append(m.errors, err)
	return m
}

// CallCount returns the number of times GenerateTurn has been called.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// GenerateTurn implements reagent.Model.
func (m *MockModel) GenerateTurn(
	ctx context.Context,
	execCtx *reagent.ExecutionContext,
	turns []reagent.Turn,
) (*reagent.ModelResponse, error) {
	m.mu.Lock()
	idx := m.callCount
	m.callCount++
	m.CapturedTurns = append(m.CapturedTurns, turns)
	m.mu.Unlock()

	if execCtx != nil {
		execCtx.PublishBeforeModelCall(m.name, turns)
	}
	start := time.Now()

	var (
		resp *reagent.ModelResponse
		err  error
	)
	switch {
	case ctx.Err() != nil:
		err = reagent.ModelUnavailable(ctx.Err())
	case idx >= len(m.responses):
		err = reagent.ModelUnavailable(errors.New("mock model: no more responses"))
	case m.errors[idx] != nil:
		err = reagent.ModelUnavailable(m.errors[idx])
	default:
		resp = m.responses[idx]
	}

	if execCtx != nil {
		execCtx.PublishAfterModelCall(m.name, turns, resp, time.Since(start), err)
	}
	return resp, err
}

var _ reagent.Model = (*MockModel)(nil)

// -----------------------------------------------------------------------------
// Tools
// -----------------------------------------------------------------------------

// StaticTool returns a tool that always answers output.
func StaticTool(name, output string) *reagent.ToolFunc {
	return reagent.NewToolFunc(name, "test tool "+name,
		func(context.Context, string) (string, error) {
			return output, nil
		})
}

// FailingTool returns a tool that always fails with err.
func FailingTool(name string, err error) *reagent.ToolFunc {
	return reagent.NewToolFunc(name, "failing tool "+name,
		func(context.Context, string) (string, error) {
			return "", err
		})
}

// RecordingTool returns a tool that records every argument it receives and answers
// with fn(argument).
func RecordingTool(name string, fn func(string) string) (*reagent.ToolFunc, *[]string) {
	var (
		mu   sync.Mutex
		args []string
	)
	tool := reagent.NewToolFunc(name, "recording tool "+name,
		func(_ context.Context, arg string) (string, error) {
			mu.Lock()
			args = append(args, arg)
			mu.Unlock()
			return fn(arg), nil
		})
	return tool, &args
}
