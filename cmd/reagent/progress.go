package main

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/rickchristie/reagent"
)

// progressHook prints each step of a run as it happens.
type progressHook struct {
	w     io.Writer
	dim   *color.Color
	warn  *color.Color
	issue *color.Color
}

func newProgressHook(w io.Writer) *progressHook {
	return &progressHook{
		w:     w,
		dim:   color.New(color.Faint),
		warn:  color.New(color.FgYellow),
		issue: color.New(color.FgRed),
	}
}

func (h *progressHook) OnAfterToolCall(_ context.Context, _ *reagent.ExecutionContext, e reagent.AfterToolCallEvent) {
	if e.Error != nil {
		h.issue.Fprintf(h.w, "  %s: %s -> %v\n", e.ToolName, e.Argument, e.Error)
		return
	}
	h.dim.Fprintf(h.w, "  %s: %s -> %s\n", e.ToolName, e.Argument, e.Output)
}

func (h *progressHook) OnParseMiss(_ context.Context, _ *reagent.ExecutionContext, e reagent.ParseMissEvent) {
	h.warn.Fprintf(h.w, "  unrecognized reply (%s)\n", e.Reason)
}

func (h *progressHook) OnLimitExceeded(_ context.Context, _ *reagent.ExecutionContext, e reagent.LimitExceededEvent) {
	if e.Limit.Key == reagent.KeyIterations {
		h.issue.Fprintf(h.w, "  gave up after %g iterations\n", e.Limit.MaxValue)
		return
	}
	h.issue.Fprintf(h.w, "  limit %s exceeded (%g > %g)\n", e.Limit.Key, e.Value, e.Limit.MaxValue)
}

var (
	_ reagent.AfterToolCallHook = (*progressHook)(nil)
	_ reagent.ParseMissHook     = (*progressHook)(nil)
	_ reagent.LimitExceededHook = (*progressHook)(nil)
)
