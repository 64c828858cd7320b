package format

import (
	"testing"

	"github.com/rickchristie/reagent"
	"github.com/stretchr/testify/assert"
)

func TestLines_Parse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected reagent.Outcome
	}{
		{
			name:     "action followed by pause",
			input:    "Thought: look up cost\nAction: get_cost: pen\nPAUSE",
			expected: reagent.ActionRequest{ToolName: "get_cost", Argument: "pen"},
		},
		{
			name:     "answer only",
			input:    "Answer: 42",
			expected: reagent.FinalAnswer{Text: "42"},
		},
		{
			name:     "argument keeps inner colons",
			input:    "Action: wikipedia: Python: the language\nPAUSE",
			expected: reagent.ActionRequest{ToolName: "wikipedia", Argument: "Python: the language"},
		},
		{
			name:     "action without argument",
			input:    "Action: get_time\nPAUSE",
			expected: reagent.ActionRequest{ToolName: "get_time", Argument: ""},
		},
		{
			name:     "blank lines between action and pause",
			input:    "Action: calculate: 1879 * 5\n\n   \nPAUSE\n",
			expected: reagent.ActionRequest{ToolName: "calculate", Argument: "1879 * 5"},
		},
		{
			name:     "crlf line endings",
			input:    "Thought: hi\r\nAction: get_cost: book\r\nPAUSE\r\n",
			expected: reagent.ActionRequest{ToolName: "get_cost", Argument: "book"},
		},
		{
			name:     "indented markers",
			input:    "  Action: get_cost: pen  \n\tPAUSE",
			expected: reagent.ActionRequest{ToolName: "get_cost", Argument: "pen"},
		},
		{
			name: "commentary around markers",
			input: `Let me think about this for a moment.
Thought: I should look up the price
Action: get_cost: stapler
PAUSE
I will wait for the observation.`,
			expected: reagent.ActionRequest{ToolName: "get_cost", Argument: "stapler"},
		},
		{
			name: "last action wins",
			input: `Action: get_cost: pen
PAUSE
Thought: actually I meant the book
Action: get_cost: book
PAUSE`,
			expected: reagent.ActionRequest{ToolName: "get_cost", Argument: "book"},
		},
		{
			name: "answer after action wins",
			input: `Action: get_cost: pen
PAUSE
Observation: A pen costs $5
Answer: A pen costs $5`,
			expected: reagent.FinalAnswer{Text: "A pen costs $5"},
		},
		{
			name: "action after answer wins",
			input: `Answer: I am not sure
Thought: I should check instead
Action: wikipedia: Albert Einstein
PAUSE`,
			expected: reagent.ActionRequest{ToolName: "wikipedia", Argument: "Albert Einstein"},
		},
		{
			name: "multi-line answer stops at next marker",
			input: `Answer: The year Albert Einstein was born is 1879.
When multiplied by 5, the result is 9395.
Thought: done`,
			expected: reagent.FinalAnswer{
				Text: "The year Albert Einstein was born is 1879.\nWhen multiplied by 5, the result is 9395.",
			},
		},
		{
			name:     "superseded action without pause is ignored",
			input:    "Action: get_cost pen\nAction: get_cost: pen\nPAUSE",
			expected: reagent.ActionRequest{ToolName: "get_cost", Argument: "pen"},
		},
		{
			name:     "empty turn",
			input:    "  \n\n ",
			expected: reagent.Unrecognized{Reason: ReasonEmptyTurn},
		},
		{
			name:     "no markers",
			input:    "I think the pen costs five dollars.",
			expected: reagent.Unrecognized{Reason: ReasonNoMarker},
		},
		{
			name:     "thought only",
			input:    "Thought: I should use get_cost",
			expected: reagent.Unrecognized{Reason: ReasonNoMarker},
		},
		{
			name:     "action without pause",
			input:    "Action: get_cost: pen",
			expected: reagent.Unrecognized{Reason: ReasonMissingPause},
		},
		{
			name:     "action followed by text instead of pause",
			input:    "Action: get_cost: pen\nObservation: A pen costs $5",
			expected: reagent.Unrecognized{Reason: ReasonMissingPause},
		},
		{
			name:     "empty answer",
			input:    "Answer:   ",
			expected: reagent.Unrecognized{Reason: ReasonEmptyAnswer},
		},
		{
			name:     "malformed tool name",
			input:    "Action: get cost: pen\nPAUSE",
			expected: reagent.Unrecognized{Reason: ReasonMalformedAction},
		},
		{
			name:     "empty action",
			input:    "Action:\nPAUSE",
			expected: reagent.Unrecognized{Reason: ReasonMalformedAction},
		},
		{
			name:     "markers are case-sensitive",
			input:    "action: get_cost: pen\npause",
			expected: reagent.Unrecognized{Reason: ReasonNoMarker},
		},
		{
			name:     "lowercase pause does not complete action",
			input:    "Action: get_cost: pen\npause",
			expected: reagent.Unrecognized{Reason: ReasonMissingPause},
		},
		{
			name:     "observation lines from the model are ignored",
			input:    "Observation: 9395",
			expected: reagent.Unrecognized{Reason: ReasonNoMarker},
		},
	}

	f := NewLines()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Parse(tt.input))
		})
	}
}

func TestLines_WithMarkers(t *testing.T) {
	f := NewLines().WithMarkers(Markers{
		Action: "Act:",
		Pause:  "WAIT",
		Answer: "Final:",
	})

	assert.Equal(t, "Thought:", f.Markers().Thought)
	assert.Equal(t,
		reagent.ActionRequest{ToolName: "get_cost", Argument: "pen"},
		f.Parse("Thought: hmm\nAct: get_cost: pen\nWAIT"),
	)
	assert.Equal(t, reagent.FinalAnswer{Text: "5"}, f.Parse("Final: 5"))
	assert.Equal(t,
		reagent.Unrecognized{Reason: ReasonNoMarker},
		f.Parse("Action: get_cost: pen\nPAUSE"),
	)
}

func TestLines_DescribeStructure(t *testing.T) {
	got := NewLines().DescribeStructure()

	assert.Contains(t, got, "You run in a loop of Thought, Action, PAUSE, Observation.")
	assert.Contains(t, got, "At the end of the loop you output an Answer.")
	assert.Contains(t, got, "Action: <action name>: <input>\nPAUSE")
	assert.Contains(t, got, "Answer: <your final answer>")
}
