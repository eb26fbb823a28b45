package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/roach88/pairs/internal/board"
	"github.com/roach88/pairs/internal/session"
)

// Session is what the journal keeps about a session besides its frames:
// enough to deal the same sequence of boards again.
type Session struct {
	ID           string
	Seed         uint64
	Width        int
	Height       int
	Alphabet     []board.Symbol
	ResolveDelay time.Duration
}

// WriteSession inserts a session record. Writing the same ID twice is
// silently ignored.
func (j *Journal) WriteSession(ctx context.Context, s Session) error {
	alphabet, err := json.Marshal(s.Alphabet)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	// The seed is stored as text: the driver rejects uint64 values with
	// the high bit set.
	_, err = j.db.ExecContext(ctx, `
		INSERT INTO sessions (id, seed, width, height, alphabet, resolve_delay_ms)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		s.ID,
		strconv.FormatUint(s.Seed, 10),
		s.Width,
		s.Height,
		string(alphabet),
		s.ResolveDelay.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteFrame appends a frame. The session must already be recorded.
// A duplicate (session, seq) is silently ignored.
func (j *Journal) WriteFrame(ctx context.Context, f session.Frame) error {
	tiles, err := json.Marshal(f.Tiles)
	if err != nil {
		return fmt.Errorf("write frame %d: %w", f.Seq, err)
	}

	var tile sql.NullInt64
	if f.Cause.Tile != nil {
		tile = sql.NullInt64{Int64: int64(*f.Cause.Tile), Valid: true}
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO frames (session_id, seq, round, cause, tile, outcome, error, state, tiles)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		f.Session,
		f.Seq,
		f.Round,
		string(f.Cause.Kind),
		tile,
		f.Cause.Outcome.String(),
		f.Cause.Error,
		f.State.String(),
		string(tiles),
	)
	if err != nil {
		return fmt.Errorf("write frame %d: %w", f.Seq, err)
	}
	return nil
}
