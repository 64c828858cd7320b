package reagent

// State is a position in the loop driver's state machine:
//
//	AwaitingModel ──► ParsingTurn ──► Invoking ──► AwaitingModel
//	      │                │
//	      │                ├──► AwaitingModel   (unrecognized turn)
//	      │                └──► Done            (final answer)
//	      └──► Failed                           (model unavailable, limit, cancel)
//
// Done and Failed are terminal.
type State int

const (
	StateAwaitingModel State = iota
	StateParsingTurn
	StateInvoking
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateParsingTurn:
		return "parsing_turn"
	case StateInvoking:
		return "invoking"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are allowed.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// transitions lists every legal move. Any state except Done may fail: a limit or
// cancellation is detected between transitions wherever the loop is.
var transitions = map[State][]State{
	StateAwaitingModel: {StateParsingTurn, StateFailed},
	StateParsingTurn:   {StateInvoking, StateAwaitingModel, StateDone, StateFailed},
	StateInvoking:      {StateAwaitingModel, StateFailed},
}

// CanTransition reports whether moving from s to next is legal.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
