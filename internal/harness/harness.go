package harness

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/roach88/pairs/internal/board"
	"github.com/roach88/pairs/internal/schedule"
	"github.com/roach88/pairs/internal/session"
	"github.com/roach88/pairs/internal/testutil"
)

// Harness holds one scenario run: a session on a virtual scheduler and the
// result being collected.
type Harness struct {
	sched  *schedule.Virtual
	ctrl   *session.Controller
	result *Result
	logger *slog.Logger
}

// Run executes a scenario on a fresh virtual scheduler and returns its
// result. The error is non-nil only if the scenario could not be set up;
// failed expectations are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, testutil.DiscardLogger())
}

// RunWithLogger is Run with engine and session logs sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	delay, err := scenario.resolveDelay()
	if err != nil {
		return nil, err
	}

	h := &Harness{
		sched:  schedule.NewVirtual(),
		result: NewResult(),
		logger: logger.With("scenario", scenario.Name),
	}

	record := session.SinkFunc(func(f session.Frame) {
		h.result.Trace = append(h.result.Trace, TraceEvent{At: h.sched.Now(), Frame: f})
	})

	deal := session.LayoutDealer(scenario.Board.Width, scenario.Board.Height, board.Symbols(scenario.Board.Layout...))
	h.ctrl, err = session.New(deal, h.sched,
		session.WithSink(record),
		session.WithIDs(session.NewFixedIDs(scenario.Name)),
		session.WithResolveDelay(delay),
		session.WithLogger(h.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	for i, step := range scenario.Steps {
		h.executeStep(i, step)
	}

	for _, msg := range EvaluateAssertions(h.ctrl, h.sched, scenario.Assertions) {
		h.result.AddError(msg)
	}
	return h.result, nil
}

func (h *Harness) executeStep(index int, step Step) {
	var err error
	switch {
	case step.Click != nil:
		err = h.ctrl.Click(*step.Click)
	case step.Advance != "":
		d, _ := time.ParseDuration(step.Advance)
		h.sched.Advance(d)
	case step.Reset:
		err = h.ctrl.Reset()
	}

	for _, msg := range checkExpect(step.Expect, h.ctrl.Frame(), err) {
		h.result.AddError(fmt.Sprintf("steps[%d]: %s", index, msg))
	}
}

// checkExpect compares the latest frame and the step's error with the
// expectation.
func checkExpect(e *Expect, f session.Frame, stepErr error) []string {
	var errs []string

	wantErr := ""
	if e != nil {
		wantErr = e.Error
	}
	switch {
	case stepErr != nil && wantErr == "":
		errs = append(errs, fmt.Sprintf("unexpected error: %v", stepErr))
	case stepErr != nil && !strings.Contains(stepErr.Error(), wantErr):
		errs = append(errs, fmt.Sprintf("error: expected %q, got %q", wantErr, stepErr.Error()))
	case stepErr == nil && wantErr != "":
		errs = append(errs, fmt.Sprintf("error: expected %q, got none", wantErr))
	}

	if e == nil {
		return errs
	}

	if e.State != "" && f.State.String() != e.State {
		errs = append(errs, fmt.Sprintf("state: expected %s, got %s", e.State, f.State))
	}
	if e.Outcome != "" && f.Cause.Outcome.String() != e.Outcome {
		errs = append(errs, fmt.Sprintf("outcome: expected %s, got %s", e.Outcome, f.Cause.Outcome))
	}
	if e.Revealed != nil {
		if got := tilesWith(f, board.Revealed); !sameIndices(got, e.Revealed) {
			errs = append(errs, fmt.Sprintf("revealed: expected %v, got %v", e.Revealed, got))
		}
	}
	if e.Matched != nil {
		if got := tilesWith(f, board.Matched); !sameIndices(got, e.Matched) {
			errs = append(errs, fmt.Sprintf("matched: expected %v, got %v", e.Matched, got))
		}
	}
	return errs
}

func tilesWith(f session.Frame, status board.Status) []int {
	out := []int{}
	for i, t := range f.Tiles {
		if t.Status == status {
			out = append(out, i)
		}
	}
	return out
}

func sameIndices(got, want []int) bool {
	return slices.Equal(got, slices.Sorted(slices.Values(want)))
}
