package session

import (
	"context"
	"log/slog"
	"sync"
)

// Loop runs posted functions one at a time on the goroutine that calls Run.
//
// It is the single writer for a real-time game: stdin readers and wall
// timers Post into it, and only Run's goroutine touches the controller.
// The queue is unbounded so Post never blocks.
type Loop struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	signal chan struct{} // buffered, size 1; closed by Stop
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{
		tasks:  make([]func(), 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Post queues fn. Safe from any goroutine. Returns false after Stop.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}
	l.tasks = append(l.tasks, fn)

	// Buffer of 1 coalesces wakeups.
	select {
	case l.signal <- struct{}{}:
	default:
	}
	return true
}

// Run executes posted functions until ctx is canceled or Stop is called and
// the queue has drained. Must be called from exactly one goroutine.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if fn, ok := l.next(); ok {
			fn()
			continue
		}

		select {
		case <-ctx.Done():
			slog.Debug("loop stopping: context canceled")
			l.Stop()
			return ctx.Err()
		case _, open := <-l.signal:
			if !open && l.Len() == 0 {
				slog.Debug("loop stopping: closed")
				return nil
			}
		}
	}
}

// Stop refuses further posts and lets Run return once drained.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true
	close(l.signal)
}

// Len returns the number of queued functions.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.tasks) == 0 {
		return nil, false
	}
	fn := l.tasks[0]
	l.tasks[0] = nil
	if len(l.tasks) == 1 {
		l.tasks = l.tasks[:0]
	} else {
		l.tasks = l.tasks[1:]
	}
	return fn, true
}
