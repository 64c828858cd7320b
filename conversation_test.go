package reagent_test

import (
	"testing"

	"github.com/rickchristie/reagent"
	"github.com/rickchristie/reagent/internal/tt"
	"github.com/stretchr/testify/assert"
)

func TestConversation_AppendKeepsOrder(t *testing.T) {
	conv := reagent.NewConversation(reagent.UserTurn("How much does a pen cost?"))
	conv.Append(reagent.ModelTurn("Action: get_cost: pen\nPAUSE"))
	conv.Append(reagent.ObservationTurn("A pen costs $5"))
	conv.Append(reagent.ModelTurn("Answer: A pen costs $5"))

	tt.AssertTurns(t, []reagent.Turn{
		{Role: reagent.RoleUser, Text: "How much does a pen cost?"},
		{Role: reagent.RoleModel, Text: "Action: get_cost: pen\nPAUSE"},
		{Role: reagent.RoleObservation, Text: "A pen costs $5"},
		{Role: reagent.RoleModel, Text: "Answer: A pen costs $5"},
	}, conv.Render())
	assert.Equal(t, 4, conv.Len())
}

func TestConversation_RenderReturnsCopy(t *testing.T) {
	conv := reagent.NewConversation(reagent.UserTurn("q"))

	rendered := conv.Render()
	rendered[0].Text = "changed"
	rendered = append(rendered, reagent.ModelTurn("extra"))

	assert.Equal(t, 1, conv.Len())
	assert.Equal(t, "q", conv.Render()[0].Text)
	assert.Len(t, rendered, 2)
}

func TestConversation_Last(t *testing.T) {
	conv := reagent.NewConversation()
	_, ok := conv.Last()
	assert.False(t, ok)

	conv.Append(reagent.UserTurn("first"))
	conv.Append(reagent.ObservationTurn("second"))

	last, ok := conv.Last()
	assert.True(t, ok)
	assert.Equal(t, reagent.ObservationTurn("second"), last)
}

func TestConversation_PrefixIsStable(t *testing.T) {
	conv := reagent.NewConversation(reagent.UserTurn("q"))

	var snapshots [][]reagent.Turn
	for i := 0; i < 5; i++ {
		snapshots = append(snapshots, conv.Render())
		conv.Append(reagent.ModelTurn("m"))
		conv.Append(reagent.ObservationTurn("o"))
	}

	final := conv.Render()
	assert.Len(t, final, 11)
	for _, snap := range snapshots {
		assert.Equal(t, snap, final[:len(snap)])
	}
}

func TestConversation_UnknownRolePanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{name: "append", fn: func() { reagent.NewConversation().Append(reagent.Turn{Role: "tool", Text: "x"}) }},
		{name: "seed", fn: func() { reagent.NewConversation(reagent.Turn{Text: "no role"}) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Panics(t, tc.fn)
		})
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []reagent.Role{reagent.RoleSystem, reagent.RoleUser, reagent.RoleModel, reagent.RoleObservation} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, reagent.Role("assistant").Valid())
}
