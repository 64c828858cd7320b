package toolchain

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rickchristie/reagent"
	"github.com/rickchristie/reagent/internal/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name    string
		tools   []reagent.Tool
		wantErr error
		names   []string
	}{
		{
			name:  "empty",
			names: []string{},
		},
		{
			name:  "keeps registration order",
			tools: []reagent.Tool{tt.StaticTool("b", ""), tt.StaticTool("a", ""), tt.StaticTool("c", "")},
			names: []string{"b", "a", "c"},
		},
		{
			name:    "duplicate name",
			tools:   []reagent.Tool{tt.StaticTool("a", "1"), tt.StaticTool("a", "2")},
			wantErr: reagent.ErrDuplicateTool,
		},
		{
			name:    "nil tool",
			tools:   []reagent.Tool{nil},
			wantErr: reagent.ErrInvalidTool,
		},
		{
			name:    "empty name",
			tools:   []reagent.Tool{tt.StaticTool("  ", "")},
			wantErr: reagent.ErrInvalidTool,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg, err := NewRegistry(tc.tools...)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, reg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.names, reg.Names())
		})
	}
}

func TestRegistry_AvailableToolsPrompt(t *testing.T) {
	reg, err := NewRegistry(
		reagent.NewToolFunc("calculate", "Runs a calculation and returns the number",
			func(context.Context, string) (string, error) { return "", nil }).
			WithExample("4 * 7 / 3"),
		reagent.NewToolFunc("get_cost", "returns the cost of a book",
			func(context.Context, string) (string, error) { return "", nil }).
			WithExample("book"),
		tt.StaticTool("noop", ""),
	)
	require.NoError(t, err)

	expected := "calculate:\n" +
		"e.g., calculate: 4 * 7 / 3\n" +
		"Runs a calculation and returns the number\n" +
		"\n" +
		"get_cost:\n" +
		"e.g., get_cost: book\n" +
		"returns the cost of a book\n" +
		"\n" +
		"noop:\n" +
		"test tool noop\n"
	assert.Equal(t, expected, reg.AvailableToolsPrompt())
}

func TestRegistry_Invoke(t *testing.T) {
	boom := errors.New("boom")

	reg, err := NewRegistry(
		tt.StaticTool("get_cost", "A pen costs $5"),
		tt.FailingTool("broken", boom),
		reagent.NewToolFunc("panics", "panics",
			func(context.Context, string) (string, error) { panic("kaboom") }),
	)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		out, err := reg.Invoke(context.Background(), nil, "get_cost", "pen")
		require.NoError(t, err)
		assert.Equal(t, "A pen costs $5", out)
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := reg.Invoke(context.Background(), nil, "search", "x")
		assert.ErrorIs(t, err, reagent.ErrUnknownTool)
		assert.Contains(t, err.Error(), `"search"`)
		assert.Contains(t, err.Error(), "get_cost, broken, panics")
	})

	t.Run("tool error", func(t *testing.T) {
		_, err := reg.Invoke(context.Background(), nil, "broken", "x")
		assert.ErrorIs(t, err, reagent.ErrToolExecution)
		assert.ErrorIs(t, err, boom)

		var te *reagent.ToolExecutionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "broken", te.Tool)
	})

	t.Run("tool panic", func(t *testing.T) {
		_, err := reg.Invoke(context.Background(), nil, "panics", "x")
		assert.ErrorIs(t, err, reagent.ErrToolExecution)
		assert.Contains(t, err.Error(), "kaboom")
	})
}

func TestRegistry_Invoke_PublishesEvents(t *testing.T) {
	reg, err := NewRegistry(
		tt.StaticTool("get_cost", "A pen costs $5"),
		tt.FailingTool("broken", errors.New("boom")),
	)
	require.NoError(t, err)

	rec := tt.NewRecorder()
	execCtx := reagent.NewExecutionContext(context.Background(), "test", nil)
	execCtx.SetDispatcher(rec)

	_, _ = reg.Invoke(execCtx.Context(), execCtx, "get_cost", "pen")
	_, _ = reg.Invoke(execCtx.Context(), execCtx, "broken", "x")
	_, _ = reg.Invoke(execCtx.Context(), execCtx, "missing", "x")

	assert.Equal(t, []string{
		reagent.EventNameToolCallBefore,
		reagent.EventNameToolCallAfter,
		reagent.EventNameToolCallBefore,
		reagent.EventNameToolCallAfter,
		reagent.EventNameToolCallAfter,
	}, rec.Names())

	stats := execCtx.Stats()
	assert.Equal(t, int64(2), stats.GetCounter(reagent.KeyToolCalls))
	assert.Equal(t, int64(1), stats.GetCounter(reagent.KeyToolCallsFor+"get_cost"))
	assert.Equal(t, int64(1), stats.GetCounter(reagent.KeyToolCallsErrorFor+"broken"))
	assert.Equal(t, int64(2), stats.GetCounter(reagent.KeyToolCallsErrorTotal))
	assert.Equal(t, int64(1), stats.GetCounter(reagent.KeyUnknownToolTotal))
	assert.Equal(t, float64(2), stats.GetGauge(reagent.KeyToolCallsErrorStreak))
}

type rewriteArgHook struct{}

func (rewriteArgHook) Dispatch(_ context.Context, _ *reagent.ExecutionContext, e reagent.HookEvent) {
	if before, ok := e.(*reagent.BeforeToolCallEvent); ok {
		before.Argument = "book"
	}
}

func TestRegistry_Invoke_HookRewritesArgument(t *testing.T) {
	tool, args := tt.RecordingTool("get_cost", func(a string) string { return "cost of " + a })
	reg, err := NewRegistry(tool)
	require.NoError(t, err)

	execCtx := reagent.NewExecutionContext(context.Background(), "test", nil)
	execCtx.SetDispatcher(rewriteArgHook{})

	out, err := reg.Invoke(execCtx.Context(), execCtx, "get_cost", "pen")
	require.NoError(t, err)
	assert.Equal(t, "cost of book", out)
	assert.Equal(t, []string{"book"}, *args)
}

func TestRegistry_Invoke_Concurrent(t *testing.T) {
	reg, err := NewRegistry(tt.StaticTool("get_cost", "A pen costs $5"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			execCtx := reagent.NewExecutionContext(context.Background(), "worker", nil)
			out, err := reg.Invoke(execCtx.Context(), execCtx, "get_cost", "pen")
			assert.NoError(t, err)
			assert.Equal(t, "A pen costs $5", out)
		}()
	}
	wg.Wait()
}
