package loggers_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rickchristie/reagent"
	"github.com/rickchristie/reagent/agents/react"
	"github.com/rickchristie/reagent/executor"
	"github.com/rickchristie/reagent/format"
	"github.com/rickchristie/reagent/internal/tt"
	"github.com/rickchristie/reagent/loggers"
	"github.com/rickchristie/reagent/toolchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

func runPenQuestion(t *testing.T, hooks ...any) *reagent.ExecutionContext {
	t.Helper()
	model := tt.NewMockModel().AddTexts(
		"Thought: I should look up the pen cost\nAction: get_cost: pen\nPAUSE",
		"I am not sure what to do",
		"Answer: A pen costs $5",
	)
	reg, err := toolchain.NewRegistry(tt.StaticTool("get_cost", "A pen costs $5"))
	require.NoError(t, err)

	exec := executor.New(react.NewAgent(model, reg), executor.DefaultConfig())
	for _, h := range hooks {
		exec.RegisterHook(h)
	}
	execCtx := exec.NewExecutionContext(context.Background(),
		reagent.NewConversation(reagent.UserTurn("How much does a pen cost?")))
	exec.Execute(execCtx)
	require.NoError(t, execCtx.Error())
	return execCtx
}

func logLines(buf *bytes.Buffer) []gjson.Result {
	var lines []gjson.Result
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		lines = append(lines, gjson.Parse(line))
	}
	return lines
}

func TestSlogHook_Info(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	runPenQuestion(t, loggers.NewSlogHook(logger))

	var msgs []string
	for _, l := range logLines(&buf) {
		msgs = append(msgs, l.Get("msg").String())
	}
	assert.Equal(t, []string{
		"execution started",
		"tool call",
		"unrecognized model turn",
		"execution finished",
	}, msgs)

	lines := logLines(&buf)
	assert.Equal(t, "How much does a pen cost?", lines[0].Get("question").String())
	assert.Equal(t, "main", lines[0].Get("run").String())

	assert.Equal(t, "get_cost", lines[1].Get("tool").String())
	assert.Equal(t, "pen", lines[1].Get("argument").String())
	assert.Equal(t, "A pen costs $5", lines[1].Get("output").String())
	assert.Equal(t, int64(1), lines[1].Get("iteration").Int())

	assert.Equal(t, "WARN", lines[2].Get("level").String())
	assert.Equal(t, format.ReasonNoMarker, lines[2].Get("reason").String())

	assert.Equal(t, "success", lines[3].Get("reason").String())
	assert.Equal(t, "A pen costs $5", lines[3].Get("answer").String())
	assert.Equal(t, int64(3), lines[3].Get("model_calls").Int())
	assert.Equal(t, int64(1), lines[3].Get("tool_calls").Int())
	assert.Equal(t, int64(1), lines[3].Get("parse_misses").Int())
}

func TestSlogHook_DebugIncludesModelCalls(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	runPenQuestion(t, loggers.NewSlogHook(logger))

	counts := map[string]int{}
	for _, l := range logLines(&buf) {
		counts[l.Get("msg").String()]++
	}
	assert.Equal(t, 3, counts["model call"])
	assert.Equal(t, 3, counts["iteration started"])
	assert.Equal(t, 3, counts["iteration finished"])
	assert.Positive(t, counts["state change"])
}

func TestSlogHook_Failure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	model := tt.NewMockModel().AddTexts("Action: get_cost: pen\nPAUSE", "Action: get_cost: pen\nPAUSE")
	reg, err := toolchain.NewRegistry(tt.StaticTool("get_cost", "$5"))
	require.NoError(t, err)

	exec := executor.New(react.NewAgent(model, reg), executor.Config{
		Limits: []reagent.Limit{reagent.MaxIterations(1)},
	}).RegisterHook(loggers.NewSlogHook(logger))
	_, err = exec.Run(context.Background(), "q")
	require.ErrorIs(t, err, reagent.ErrIterationLimitExceeded)

	var msgs []string
	for _, l := range logLines(&buf) {
		msgs = append(msgs, l.Get("msg").String())
	}
	assert.Contains(t, msgs, "limit exceeded")
	assert.Contains(t, msgs, "run error")
	assert.Equal(t, "execution failed", msgs[len(msgs)-1])
}

func TestWriteTranscript(t *testing.T) {
	execCtx := runPenQuestion(t)

	var buf bytes.Buffer
	require.NoError(t, loggers.WriteTranscript(&buf, execCtx))

	assert.Contains(t, buf.String(), "text: |-\n")

	var got loggers.Transcript
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "main", got.Name)
	assert.Equal(t, "success", got.TerminationReason)
	assert.Equal(t, "A pen costs $5", got.Answer)
	assert.Empty(t, got.Error)
	assert.Equal(t, 3, got.Iterations)
	assert.Equal(t, int64(3), got.Counters[string(reagent.KeyModelCalls)])

	var roles []string
	for _, turn := range got.Turns {
		roles = append(roles, turn.Role)
	}
	assert.Equal(t, []string{"user", "model", "observation", "model", "observation", "model"}, roles)
	assert.Equal(t, "Thought: I should look up the pen cost\nAction: get_cost: pen\nPAUSE", got.Turns[1].Text)
}

func TestWriteTranscriptFile(t *testing.T) {
	execCtx := runPenQuestion(t)
	path := filepath.Join(t.TempDir(), "runs", "pen.yaml")

	require.NoError(t, loggers.WriteTranscriptFile(path, execCtx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "termination_reason: success")
}
