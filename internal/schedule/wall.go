package schedule

import (
	"sync"
	"time"
)

// Dispatcher hands a function to the goroutine that owns game state.
// session.Loop implements it.
type Dispatcher interface {
	// Post queues fn for execution. It returns false if the dispatcher has
	// shut down and fn will never run.
	Post(fn func()) bool
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(fn func()) bool

// Post calls f(fn).
func (f DispatcherFunc) Post(fn func()) bool {
	return f(fn)
}

// Wall is a Scheduler backed by real timers.
//
// A timer firing does not run the callback directly; it posts a closure to
// the Dispatcher. That closure runs the callback only if the token is still
// live, so a Cancel issued on the dispatcher goroutine after the timer fired
// but before the closure ran still wins.
type Wall struct {
	dispatch Dispatcher

	mu     sync.Mutex
	nextID uint64
	timers map[uint64]*time.Timer
}

// NewWall creates a wall-clock scheduler posting callbacks to d.
func NewWall(d Dispatcher) *Wall {
	return &Wall{
		dispatch: d,
		timers:   make(map[uint64]*time.Timer),
	}
}

// After starts a timer for fn.
func (w *Wall) After(d time.Duration, fn func()) Token {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	id := w.nextID
	w.timers[id] = time.AfterFunc(d, func() {
		w.dispatch.Post(func() {
			if w.claim(id) {
				fn()
			}
		})
	})
	return Token{id: id}
}

// Cancel stops the timer for tok and drops its callback if already posted.
func (w *Wall) Cancel(tok Token) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[tok.id]; ok {
		t.Stop()
		delete(w.timers, tok.id)
	}
}

// Pending returns the number of callbacks that have not run or been canceled.
func (w *Wall) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

// Stop cancels every pending callback.
func (w *Wall) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, t := range w.timers {
		t.Stop()
		delete(w.timers, id)
	}
}

// claim removes id from the live set and reports whether it was there.
func (w *Wall) claim(id uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.timers[id]; !ok {
		return false
	}
	delete(w.timers, id)
	return true
}
