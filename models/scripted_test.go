package models

import (
	"context"
	"errors"
	"testing"

	"github.com/rickchristie/reagent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedModel(t *testing.T) {
	cause := errors.New("rate limited")
	model := NewScriptedModel("Thought: hmm", "Answer: 5").ThenError(cause)
	ctx := context.Background()

	resp, err := model.GenerateTurn(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, reagent.ModelTurn("Thought: hmm"), resp.Turn)

	resp, err = model.GenerateTurn(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Answer: 5", resp.Turn.Text)

	_, err = model.GenerateTurn(ctx, nil, nil)
	assert.ErrorIs(t, err, reagent.ErrModelUnavailable)
	assert.ErrorIs(t, err, cause)

	_, err = model.GenerateTurn(ctx, nil, nil)
	assert.ErrorIs(t, err, reagent.ErrModelUnavailable)
	assert.Contains(t, err.Error(), "script exhausted after 3 replies")
	assert.Equal(t, 0, model.Remaining())

	model.Reset()
	assert.Equal(t, 3, model.Remaining())
}

func TestScriptedModel_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := NewScriptedModel("Answer: 5")
	_, err := model.GenerateTurn(ctx, nil, nil)
	assert.ErrorIs(t, err, reagent.ErrModelUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, model.Remaining())
}

func TestScriptedModel_Stats(t *testing.T) {
	execCtx := reagent.NewExecutionContext(context.Background(), "test", nil)
	model := NewScriptedModel("Answer: 5")

	_, _ = model.GenerateTurn(execCtx.Context(), execCtx, nil)
	_, _ = model.GenerateTurn(execCtx.Context(), execCtx, nil)

	assert.Equal(t, int64(2), execCtx.Stats().GetCounter(reagent.KeyModelCalls))
	assert.Equal(t, int64(1), execCtx.Stats().GetCounter(reagent.KeyModelCallErrors))
}
