package engine

import "fmt"

// State is the engine's externally visible state.
type State int

const (
	StateIdle State = iota
	StateOneSelected
	StateResolving
	StateComplete
)

var stateNames = map[State]string{
	StateIdle:        "Idle",
	StateOneSelected: "OneSelected",
	StateResolving:   "Resolving",
	StateComplete:    "Complete",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseState converts a state name back to a State.
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return StateIdle, fmt.Errorf("unknown engine state %q", name)
}

// Outcome is the visible effect of a single engine operation.
type Outcome int

const (
	// OutcomeIgnored: nothing changed.
	OutcomeIgnored Outcome = iota
	// OutcomeRevealed: the first tile of a pair was turned up.
	OutcomeRevealed
	// OutcomeMatched: the second tile matched; both are now Matched.
	OutcomeMatched
	// OutcomeMismatched: the second tile differs; input is locked.
	OutcomeMismatched
	// OutcomeHidden: the resolve delay elapsed and the pair was turned down.
	OutcomeHidden
)

var outcomeNames = map[Outcome]string{
	OutcomeIgnored:    "ignored",
	OutcomeRevealed:   "revealed",
	OutcomeMatched:    "matched",
	OutcomeMismatched: "mismatched",
	OutcomeHidden:     "hidden",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(text []byte) error {
	parsed, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOutcome converts an outcome name back to an Outcome.
func ParseOutcome(name string) (Outcome, error) {
	for o, n := range outcomeNames {
		if n == name {
			return o, nil
		}
	}
	return OutcomeIgnored, fmt.Errorf("unknown outcome %q", name)
}

// EventType distinguishes the two operations that drive the engine.
type EventType int

const (
	// EventClick is a call to OnTileClicked.
	EventClick EventType = iota + 1
	// EventResolve is a call to OnResolveTimeout.
	EventResolve
)

func (t EventType) String() string {
	switch t {
	case EventClick:
		return "click"
	case EventResolve:
		return "resolve"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Transition describes one processed operation. Observers receive one for
// every call, including no-ops and rejected indices.
type Transition struct {
	Event   EventType
	Tile    int // clicked index; -1 for EventResolve
	Outcome Outcome
	State   State // state after the operation
	Err     error // non-nil only for an out-of-range click
}
