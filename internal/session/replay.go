package session

import (
	"fmt"
	"reflect"

	"github.com/roach88/pairs/internal/schedule"
)

// ReplayResult compares a recorded session with a re-run of its inputs.
type ReplayResult struct {
	Session       string `json:"session"`
	Frames        int    `json:"frames"`
	Rounds        int    `json:"rounds"`
	Deterministic bool   `json:"deterministic"`

	// Divergence is the index of the first frame that differs, or -1.
	Divergence int    `json:"divergence"`
	Detail     string `json:"detail,omitempty"`
}

// Replay re-runs the inputs behind recorded on a virtual scheduler and
// compares every regenerated frame with the recording. deal must produce
// the same boards as the original session did, which for a shuffled
// session means a fresh source with the same seed.
//
// Resolve frames are reproduced by firing the earliest pending callback,
// so wall-clock timing does not matter, only input order.
func Replay(recorded []Frame, deal Dealer, opts ...Option) (*ReplayResult, error) {
	if len(recorded) == 0 {
		return nil, fmt.Errorf("replay: no frames")
	}
	if recorded[0].Cause.Kind != CauseStart {
		return nil, fmt.Errorf("replay: first frame is %s, want %s", recorded[0].Cause.Kind, CauseStart)
	}

	var got []Frame
	sched := schedule.NewVirtual()
	opts = append(opts,
		WithSink(SinkFunc(func(f Frame) { got = append(got, f) })),
		WithIDs(NewFixedIDs(recorded[0].Session)),
	)
	c, err := New(deal, sched, opts...)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	result := &ReplayResult{
		Session:       recorded[0].Session,
		Frames:        len(recorded),
		Deterministic: true,
		Divergence:    -1,
	}

	for i, f := range recorded[1:] {
		if err := drive(c, sched, f); err != nil {
			result.diverge(i+1, err.Error())
			return result, nil
		}
	}

	for i, want := range recorded {
		if i >= len(got) {
			result.diverge(i, "frame missing from replay")
			return result, nil
		}
		if !reflect.DeepEqual(want, got[i]) {
			result.diverge(i, fmt.Sprintf("seq %d: recorded %s, replayed %s", want.Seq, summarize(want), summarize(got[i])))
			return result, nil
		}
	}
	if len(got) > len(recorded) {
		result.diverge(len(recorded), "replay produced extra frames")
		return result, nil
	}

	result.Rounds = c.Round()
	return result, nil
}

// drive feeds the input behind one recorded frame to the controller.
func drive(c *Controller, sched *schedule.Virtual, f Frame) error {
	switch f.Cause.Kind {
	case CauseClick:
		if f.Cause.Tile == nil {
			return fmt.Errorf("seq %d: click without tile", f.Seq)
		}
		// Rejected clicks are part of the recording too.
		_ = c.Click(*f.Cause.Tile)
	case CauseResolve:
		if !sched.RunNext() {
			return fmt.Errorf("seq %d: resolve recorded but nothing pending", f.Seq)
		}
	case CauseReset:
		if err := c.Reset(); err != nil {
			return fmt.Errorf("seq %d: %w", f.Seq, err)
		}
	default:
		return fmt.Errorf("seq %d: unexpected %s frame", f.Seq, f.Cause.Kind)
	}
	return nil
}

func (r *ReplayResult) diverge(index int, detail string) {
	r.Deterministic = false
	r.Divergence = index
	r.Detail = detail
}

func summarize(f Frame) string {
	s := fmt.Sprintf("round %d %s", f.Round, f.Cause.Kind)
	if f.Cause.Tile != nil {
		s += fmt.Sprintf("(%d)", *f.Cause.Tile)
	}
	return fmt.Sprintf("%s -> %s, %s", s, f.Cause.Outcome, f.State)
}
