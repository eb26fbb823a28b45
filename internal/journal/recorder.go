package journal

import (
	"context"
	"log/slog"

	"github.com/roach88/pairs/internal/session"
)

// Recorder is a session.Sink that journals every frame. The session row is
// written when the first frame arrives, since that is when the session ID
// is known.
//
// Emit cannot fail, so the first write error is kept and returned by Err;
// later frames are dropped.
type Recorder struct {
	ctx     context.Context
	j       *Journal
	meta    Session
	started bool
	err     error
	log     *slog.Logger
}

// NewRecorder returns a recorder for a session dealt with meta's seed and
// shape. meta.ID is taken from the frames.
func NewRecorder(ctx context.Context, j *Journal, meta Session, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{ctx: ctx, j: j, meta: meta, log: log}
}

// Emit implements session.Sink.
func (r *Recorder) Emit(f session.Frame) {
	if r.err != nil {
		return
	}
	if !r.started {
		r.meta.ID = f.Session
		if r.err = r.j.WriteSession(r.ctx, r.meta); r.err != nil {
			r.log.Error("journal disabled", "error", r.err)
			return
		}
		r.started = true
	}
	if r.err = r.j.WriteFrame(r.ctx, f); r.err != nil {
		r.log.Error("journal disabled", "seq", f.Seq, "error", r.err)
	}
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	return r.err
}

// Session returns the recorded session metadata.
func (r *Recorder) Session() Session {
	return r.meta
}
