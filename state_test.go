package reagent_test

import (
	"testing"

	"github.com/rickchristie/reagent"
	"github.com/stretchr/testify/assert"
)

func TestState_CanTransition(t *testing.T) {
	all := []reagent.State{
		reagent.StateAwaitingModel,
		reagent.StateParsingTurn,
		reagent.StateInvoking,
		reagent.StateDone,
		reagent.StateFailed,
	}
	legal := map[reagent.State][]reagent.State{
		reagent.StateAwaitingModel: {reagent.StateParsingTurn, reagent.StateFailed},
		reagent.StateParsingTurn: {
			reagent.StateInvoking, reagent.StateAwaitingModel, reagent.StateDone, reagent.StateFailed,
		},
		reagent.StateInvoking: {reagent.StateAwaitingModel, reagent.StateFailed},
	}

	for _, from := range all {
		for _, to := range all {
			expected := false
			for _, s := range legal[from] {
				if s == to {
					expected = true
				}
			}
			assert.Equal(t, expected, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    reagent.State
		expected string
		terminal bool
	}{
		{state: reagent.StateAwaitingModel, expected: "awaiting_model"},
		{state: reagent.StateParsingTurn, expected: "parsing_turn"},
		{state: reagent.StateInvoking, expected: "invoking"},
		{state: reagent.StateDone, expected: "done", terminal: true},
		{state: reagent.StateFailed, expected: "failed", terminal: true},
		{state: reagent.State(42), expected: "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.state.String())
			assert.Equal(t, tc.terminal, tc.state.Terminal())
		})
	}
}
