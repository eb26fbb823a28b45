package board

import "fmt"

// Status is the visibility of a tile.
type Status int

const (
	// Hidden tiles show their back.
	Hidden Status = iota
	// Revealed tiles show their symbol but are not yet paired.
	Revealed
	// Matched tiles have been paired and stay face up for good.
	Matched
)

func (s Status) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// Tile is one cell of the board.
type Tile struct {
	Symbol Symbol
	Status Status
}

// reveal moves Hidden to Revealed. Revealing an already revealed tile is a
// no-op so duplicate clicks can be ignored upstream without special cases.
func (t *Tile) reveal(index int) error {
	switch t.Status {
	case Hidden:
		t.Status = Revealed
		return nil
	case Revealed:
		return nil
	default:
		return &InvalidTransitionError{Index: index, From: t.Status, Op: "reveal"}
	}
}

func (t *Tile) markMatched(index int) error {
	if t.Status != Revealed {
		return &InvalidTransitionError{Index: index, From: t.Status, Op: "mark matched"}
	}
	t.Status = Matched
	return nil
}

// hide moves Revealed back to Hidden; hiding a hidden tile is a no-op.
func (t *Tile) hide(index int) error {
	switch t.Status {
	case Revealed:
		t.Status = Hidden
		return nil
	case Hidden:
		return nil
	default:
		return &InvalidTransitionError{Index: index, From: t.Status, Op: "hide"}
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus converts a status name back to a Status.
func ParseStatus(name string) (Status, error) {
	switch name {
	case "hidden":
		return Hidden, nil
	case "revealed":
		return Revealed, nil
	case "matched":
		return Matched, nil
	default:
		return Hidden, fmt.Errorf("unknown tile status %q", name)
	}
}
