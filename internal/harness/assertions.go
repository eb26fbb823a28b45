package harness

import (
	"fmt"

	"github.com/roach88/pairs/internal/board"
	"github.com/roach88/pairs/internal/engine"
	"github.com/roach88/pairs/internal/schedule"
	"github.com/roach88/pairs/internal/session"
)

// AssertionError is a failed final assertion.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion against the finished session
// and returns one message per failure.
func EvaluateAssertions(c *session.Controller, sched *schedule.Virtual, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(c, sched, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(c *session.Controller, sched *schedule.Virtual, a Assertion) error {
	switch a.Type {
	case AssertState:
		return assertState(c.State(), a)
	case AssertTileStatus:
		return assertTileStatus(c.Frame(), a)
	case AssertPendingTimers:
		return assertPendingTimers(sched.Pending(), a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertState(got engine.State, a Assertion) error {
	if got.String() != a.State {
		return &AssertionError{Type: AssertState, Expected: a.State, Actual: got.String()}
	}
	return nil
}

func assertTileStatus(f session.Frame, a Assertion) error {
	i := *a.Tile
	if i < 0 || i >= len(f.Tiles) {
		return &board.IndexError{Index: i, Len: len(f.Tiles)}
	}
	if got := f.Tiles[i].Status.String(); got != a.Status {
		return &AssertionError{
			Type:     AssertTileStatus,
			Expected: fmt.Sprintf("tile %d %s", i, a.Status),
			Actual:   got,
		}
	}
	return nil
}

func assertPendingTimers(got int, a Assertion) error {
	if got != *a.Count {
		return &AssertionError{
			Type:     AssertPendingTimers,
			Expected: fmt.Sprint(*a.Count),
			Actual:   fmt.Sprint(got),
		}
	}
	return nil
}
