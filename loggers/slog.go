// Package loggers provides hooks and helpers that record what happens during a run.
package loggers

import (
	"context"
	"log/slog"

	"github.com/rickchristie/reagent"
)

// SlogHook logs run events to a slog.Logger.
//
// Lifecycle and tool calls are logged at Info, parse misses and exceeded limits at Warn,
// run errors at Error, and everything else (iterations, model calls, state changes) at
// Debug. Nothing is truncated.
//
// Register it like any other hook:
//
//	exec.RegisterHook(loggers.NewSlogHook(logger))
type SlogHook struct {
	logger *slog.Logger
}

// NewSlogHook creates a SlogHook. A nil logger uses slog.Default().
func NewSlogHook(logger *slog.Logger) *SlogHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogHook{logger: logger}
}

func (h *SlogHook) log(ctx context.Context, level slog.Level, execCtx *reagent.ExecutionContext, msg string, attrs ...slog.Attr) {
	if !h.logger.Enabled(ctx, level) {
		return
	}
	if execCtx != nil {
		attrs = append([]slog.Attr{
			slog.String("run", execCtx.Name()),
			slog.Int("iteration", execCtx.Iteration()),
		}, attrs...)
	}
	h.logger.LogAttrs(ctx, level, msg, attrs...)
}

// OnBeforeExecution logs the question.
func (h *SlogHook) OnBeforeExecution(ctx context.Context, execCtx *reagent.ExecutionContext, e reagent.BeforeExecutionEvent) {
	h.log(ctx, slog.LevelInfo, execCtx, "execution started", slog.String("question", e.Question))
}

// OnAfterExecution logs the outcome and final stats.
func (h *SlogHook) OnAfterExecution(ctx context.Context, execCtx *reagent.ExecutionContext, e reagent.AfterExecutionEvent) {
	attrs := []slog.Attr{
		slog.String("reason", string(e.TerminationReason)),
	}
	if execCtx != nil {
		stats := execCtx.Stats()
		attrs = append(attrs,
			slog.Duration("duration", execCtx.Duration()),
			slog.Int64("model_calls", stats.GetCounter(reagent.KeyModelCalls)),
			slog.Int64("tool_calls", stats.GetToolCallCount()),
			slog.Int64("parse_misses", stats.GetCounter(reagent.KeyParseMissTotal)),
			slog.Int64("input_tokens", stats.GetTotalInputTokens()),
			slog.Int64("output_tokens", stats.GetTotalOutputTokens()),
		)
	}

	if e.Error != nil {
		h.log(ctx, slog.LevelError, execCtx, "execution failed", append(attrs, slog.Any("error", e.Error))...)
		return
	}
	h.log(ctx, slog.LevelInfo, execCtx, "execution finished", append(attrs, slog.String("answer", e.Answer))...)
}

// OnBeforeIteration logs at Debug.
func (h *SlogHook) OnBeforeIteration(ctx context.Context, execCtx *reagent.ExecutionContext, _ reagent.BeforeIterationEvent) {
	h.log(ctx, slog.LevelDebug, execCtx, "iteration started")
}

// OnAfterIteration logs the loop action and duration at Debug.
func (h *SlogHook) OnAfterIteration(ctx context.Context, execCtx *reagent.ExecutionContext, e reagent.AfterIterationEvent) {
	attrs := []slog.Attr{slog.Duration("duration", e.Duration)}
	if e.Result != nil {
		attrs = append(attrs, slog.String("action", string(e.Result.Action)))
	}
	h.log(ctx, slog.LevelDebug, execCtx, "iteration finished", attrs...)
}

// OnError logs the run-ending error.
func (h *SlogHook) OnError(ctx context.Context, execCtx *reagent.ExecutionContext, e reagent.ErrorEvent) {
	h.log(ctx, slog.LevelError, execCtx, "run error", slog.Any("error", e.Err))
}

// OnAfterModelCall logs token usage at Debug, or the failure at Warn.
func (h *SlogHook) OnAfterModelCall(ctx context.Context, execCtx *reagent.ExecutionContext, e reagent.AfterModelCallEvent) {
	attrs := []slog.Attr{
		slog.String("model", e.Model),
		slog.Int("turns", len(e.Turns)),
		slog.Duration("duration", e.Duration),
	}
	if e.Error != nil {
		h.log(ctx, slog.LevelWarn, execCtx, "model call failed", append(attrs, slog.Any("error", e.Error))...)
		return
	}
	attrs = append(attrs,
		slog.Int("input_tokens", e.InputTokens),
		slog.Int("output_tokens", e.OutputTokens),
	)
	if e.Response != nil {
		attrs = append(attrs, slog.String("text", e.Response.Turn.Text))
	}
	h.log(ctx, slog.LevelDebug, execCtx, "model call", attrs...)
}

// OnAfterToolCall logs the invocation and its observation.
func (h *SlogHook) OnAfterToolCall(ctx context.Context, execCtx *reagent.ExecutionContext, e reagent.AfterToolCallEvent) {
	attrs := []slog.Attr{
		slog.String("tool", e.ToolName),
		slog.String("argument", e.Argument),
		slog.Duration("duration", e.Duration),
	}
	if e.Error != nil {
		h.log(ctx, slog.LevelWarn, execCtx, "tool call failed", append(attrs, slog.Any("error", e.Error))...)
		return
	}
	h.log(ctx, slog.LevelInfo, execCtx, "tool call", append(attrs, slog.String("output", e.Output))...)
}

// OnParseMiss logs an unrecognized model turn.
func (h *SlogHook) OnParseMiss(ctx context.Context, execCtx *reagent.ExecutionContext, e reagent.ParseMissEvent) {
	h.log(ctx, slog.LevelWarn, execCtx, "unrecognized model turn",
		slog.String("reason", e.Reason),
		slog.String("text", e.Text),
	)
}

// OnStateChange logs at Debug.
func (h *SlogHook) OnStateChange(ctx context.Context, execCtx *reagent.ExecutionContext, e reagent.StateChangeEvent) {
	h.log(ctx, slog.LevelDebug, execCtx, "state change",
		slog.String("from", e.From.String()),
		slog.String("to", e.To.String()),
	)
}

// OnLimitExceeded logs the first exceeded limit.
func (h *SlogHook) OnLimitExceeded(ctx context.Context, execCtx *reagent.ExecutionContext, e reagent.LimitExceededEvent) {
	h.log(ctx, slog.LevelWarn, execCtx, "limit exceeded",
		slog.String("key", string(e.Limit.Key)),
		slog.Float64("max", e.Limit.MaxValue),
		slog.Float64("value", e.Value),
	)
}

// Compile-time checks.
var (
	_ reagent.BeforeExecutionHook = (*SlogHook)(nil)
	_ reagent.AfterExecutionHook  = (*SlogHook)(nil)
	_ reagent.BeforeIterationHook = (*SlogHook)(nil)
	_ reagent.AfterIterationHook  = (*SlogHook)(nil)
	_ reagent.ErrorHook           = (*SlogHook)(nil)
	_ reagent.AfterModelCallHook  = (*SlogHook)(nil)
	_ reagent.AfterToolCallHook   = (*SlogHook)(nil)
	_ reagent.ParseMissHook       = (*SlogHook)(nil)
	_ reagent.StateChangeHook     = (*SlogHook)(nil)
	_ reagent.LimitExceededHook   = (*SlogHook)(nil)
)
