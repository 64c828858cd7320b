package reagent

import "fmt"

// Role tags who produced a [Turn].
type Role string

const (
	// RoleSystem carries instructions for the model (available actions, output grammar).
	RoleSystem Role = "system"

	// RoleUser carries input from the person asking the question.
	RoleUser Role = "user"

	// RoleModel carries text generated by the model.
	RoleModel Role = "model"

	// RoleObservation carries text injected by the loop: tool results, tool errors and
	// parse-miss corrections.
	RoleObservation Role = "observation"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleModel, RoleObservation:
		return true
	default:
		return false
	}
}

// Turn is one role-tagged entry of a [Conversation].
//
// Turn is a value type. Once appended to a Conversation it is never edited; callers only
// ever receive copies.
type Turn struct {
	Role Role   `yaml:"role" json:"role"`
	Text string `yaml:"text" json:"text"`
}

// SystemTurn creates a system turn.
func SystemTurn(text string) Turn { return Turn{Role: RoleSystem, Text: text} }

// UserTurn creates a user turn.
func UserTurn(text string) Turn { return Turn{Role: RoleUser, Text: text} }

// ModelTurn creates a model turn.
func ModelTurn(text string) Turn { return Turn{Role: RoleModel, Text: text} }

// ObservationTurn creates an observation turn.
func ObservationTurn(text string) Turn { return Turn{Role: RoleObservation, Text: text} }

// Conversation is the ordered, append-only log of turns for one loop run.
//
// Insertion order defines the model's context: every model call sees the full prefix, and
// turns are never reordered, removed or deduplicated. A Conversation is owned by a single
// run and is not safe for concurrent use.
type Conversation struct {
	turns []Turn
}

// NewConversation creates a Conversation seeded with the given turns, in order.
//
// Panics if any turn has an unknown role.
func NewConversation(turns ...Turn) *Conversation {
	c := &Conversation{turns: make([]Turn, 0, len(turns)+4)}
	for _, t := range turns {
		c.Append(t)
	}
	return c
}

// Append adds one turn at the end of the log.
//
// Panics if the turn has an unknown role.
func (c *Conversation) Append(turn Turn) {
	if !turn.Role.Valid() {
		panic(fmt.Sprintf("reagent: Append called with unknown role %q", turn.Role))
	}
	c.turns = append(c.turns, turn)
}

// Render returns the ordered turns for submission to a [Model].
// The returned slice is a copy; modifying it does not affect the log.
func (c *Conversation) Render() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Last returns the most recent turn, or false if the log is empty.
func (c *Conversation) Last() (Turn, bool) {
	if len(c.turns) == 0 {
		return Turn{}, false
	}
	return c.turns[len(c.turns)-1], true
}
