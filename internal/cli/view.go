package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/pairs/internal/board"
	"github.com/roach88/pairs/internal/engine"
	"github.com/roach88/pairs/internal/session"
)

// terminalView renders frames for a human (text) or a program (JSON lines).
// It is a session.Sink and runs on the session loop's goroutine.
type terminalView struct {
	w    io.Writer
	json bool
	enc  *json.Encoder
}

func newTerminalView(w io.Writer, format string) *terminalView {
	return &terminalView{w: w, json: format == "json", enc: json.NewEncoder(w)}
}

// Emit implements session.Sink.
func (v *terminalView) Emit(f session.Frame) {
	if v.json {
		_ = v.enc.Encode(f)
		return
	}

	if f.Cause.Kind == session.CauseStart {
		fmt.Fprintf(v.w, "session %s\n", f.Session)
	}
	fmt.Fprintf(v.w, "round %d | %s | %s\n", f.Round, describeCause(f.Cause), f.State)
	if f.Cause.Error != "" {
		fmt.Fprintf(v.w, "! %s\n", f.Cause.Error)
	}
	renderGrid(v.w, f.Snapshot)
	if f.State == engine.StateComplete && f.Cause.Outcome == engine.OutcomeMatched {
		fmt.Fprintln(v.w, "all pairs matched: r for a new round, q to quit")
	}
}

// notice reports input the session never saw, such as a line that is not
// a tile number.
func (v *terminalView) notice(msg string) {
	if v.json {
		_ = v.enc.Encode(map[string]string{"notice": msg})
		return
	}
	fmt.Fprintf(v.w, "? %s\n", msg)
}

// describeCause renders a frame's cause as "click 3 -> mismatched".
func describeCause(c session.Cause) string {
	switch c.Kind {
	case session.CauseStart:
		return "new board"
	case session.CauseReset:
		return "reset"
	case session.CauseClick:
		tile := "?"
		if c.Tile != nil {
			tile = strconv.Itoa(*c.Tile)
		}
		return fmt.Sprintf("click %s -> %s", tile, c.Outcome)
	default:
		return fmt.Sprintf("%s -> %s", c.Kind, c.Outcome)
	}
}

// renderGrid draws the board: hidden tiles show their index so the player
// knows what to type, matched tiles are parenthesized.
func renderGrid(w io.Writer, s engine.Snapshot) {
	if s.Width <= 0 {
		return
	}
	var line strings.Builder
	for i, t := range s.Tiles {
		var cell string
		switch {
		case t.Symbol == nil:
			cell = strconv.Itoa(i)
		case t.Status == board.Matched:
			cell = "(" + string(*t.Symbol) + ")"
		default:
			cell = string(*t.Symbol)
		}
		fmt.Fprintf(&line, "%5s", cell)

		if (i+1)%s.Width == 0 {
			fmt.Fprintln(w, line.String())
			line.Reset()
		}
	}
}
