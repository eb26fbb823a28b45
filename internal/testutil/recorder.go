// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"sync"

	"github.com/roach88/pairs/internal/session"
)

// FrameRecorder is a session.Sink that keeps every frame.
//
// Thread-safety: safe for concurrent use, so tests may read it while a
// session loop emits on another goroutine.
type FrameRecorder struct {
	mu     sync.Mutex
	frames []session.Frame
	notify chan struct{}
}

// NewFrameRecorder returns an empty recorder.
func NewFrameRecorder() *FrameRecorder {
	return &FrameRecorder{notify: make(chan struct{}, 1)}
}

// Emit implements session.Sink.
func (r *FrameRecorder) Emit(f session.Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Frames returns a copy of the recorded frames.
func (r *FrameRecorder) Frames() []session.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]session.Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Len returns the number of recorded frames.
func (r *FrameRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Last returns the latest frame. It panics if nothing was recorded.
func (r *FrameRecorder) Last() session.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[len(r.frames)-1]
}

// Updated is signaled after each Emit. Signals coalesce; check Len after
// receiving.
func (r *FrameRecorder) Updated() <-chan struct{} {
	return r.notify
}
