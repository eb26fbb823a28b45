// Package schedule abstracts "run this later, unless canceled".
//
// The match engine never owns a timer. It asks a Scheduler for one delayed
// callback and keeps the Token so the callback can be withdrawn. Two
// implementations are provided:
//
//   - Virtual: a deterministic fake clock advanced explicitly by the caller.
//     Tests, the scenario harness and journal replay use it.
//   - Wall: real time.AfterFunc timers whose callbacks are handed to a
//     Dispatcher, so they run on the same goroutine as input handling.
package schedule

import "time"

// Token identifies one scheduled callback. The zero Token refers to nothing
// and canceling it is a no-op.
type Token struct {
	id uint64
}

// IsZero reports whether t refers to no callback.
func (t Token) IsZero() bool {
	return t.id == 0
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	// After arranges for fn to run once, d from now, unless canceled first.
	After(d time.Duration, fn func()) Token

	// Cancel guarantees the callback for t will not run if it has not
	// already started. Canceling twice, or canceling a callback that
	// already ran, is a no-op.
	Cancel(t Token)
}
