package session

import "github.com/roach88/pairs/internal/engine"

// CauseKind names what produced a frame.
type CauseKind string

const (
	CauseStart   CauseKind = "start"
	CauseClick   CauseKind = "click"
	CauseResolve CauseKind = "resolve"
	CauseReset   CauseKind = "reset"
)

// Cause records the input behind a frame.
type Cause struct {
	Kind    CauseKind      `json:"kind"`
	Tile    *int           `json:"tile,omitempty"`
	Outcome engine.Outcome `json:"outcome"`
	Error   string         `json:"error,omitempty"`
}

// Frame is the render state emitted after every transition, no-ops
// included. Views may diff consecutive frames.
type Frame struct {
	Session string `json:"session"`
	Round   int    `json:"round"`
	Seq     int64  `json:"seq"`
	Cause   Cause  `json:"cause"`
	engine.Snapshot
}

// Sink receives frames. Emit runs on the controller's goroutine and must
// not call back into the controller.
type Sink interface {
	Emit(f Frame)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(f Frame)

// Emit calls fn(f).
func (fn SinkFunc) Emit(f Frame) {
	fn(f)
}
