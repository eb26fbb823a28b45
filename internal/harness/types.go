package harness

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/pairs/internal/board"
	"github.com/roach88/pairs/internal/session"
)

// TraceEvent is one emitted frame and the virtual time it was emitted at.
type TraceEvent struct {
	At    time.Duration `json:"at"`
	Frame session.Frame `json:"frame"`
}

// String renders the event as one transcript line, for example
//
//	0003 +0s round=1 click(1) -> mismatched state=Resolving board=A B | . .
//
// Hidden tiles print as ".", matched tiles in brackets.
func (e TraceEvent) String() string {
	f := e.Frame

	var b strings.Builder
	fmt.Fprintf(&b, "%04d +%s round=%d %s", f.Seq, e.At, f.Round, f.Cause.Kind)
	if f.Cause.Tile != nil {
		fmt.Fprintf(&b, "(%d)", *f.Cause.Tile)
	}
	if f.Cause.Kind == session.CauseClick || f.Cause.Kind == session.CauseResolve {
		fmt.Fprintf(&b, " -> %s", f.Cause.Outcome)
	}
	if f.Cause.Error != "" {
		fmt.Fprintf(&b, " error=%q", f.Cause.Error)
	}
	fmt.Fprintf(&b, " state=%s board=%s", f.State, RenderBoard(f))
	return b.String()
}

// RenderBoard draws a frame's tiles on one line, rows separated by "|".
func RenderBoard(f session.Frame) string {
	var b strings.Builder
	for i, t := range f.Tiles {
		if i > 0 {
			if f.Width > 0 && i%f.Width == 0 {
				b.WriteString(" | ")
			} else {
				b.WriteByte(' ')
			}
		}
		switch {
		case t.Symbol == nil:
			b.WriteByte('.')
		case t.Status == board.Matched:
			fmt.Fprintf(&b, "[%s]", *t.Symbol)
		default:
			b.WriteString(string(*t.Symbol))
		}
	}
	return b.String()
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace holds every frame in emission order.
	Trace []TraceEvent `json:"trace"`

	// Errors describes each failed expectation. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Transcript renders the trace, one line per frame, under a header naming
// the scenario.
func (r *Result) Transcript(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	for _, e := range r.Trace {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
