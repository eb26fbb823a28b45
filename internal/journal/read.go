package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/roach88/pairs/internal/engine"
	"github.com/roach88/pairs/internal/session"
)

// ReadSession returns one session. A missing ID yields an error wrapping
// sql.ErrNoRows.
func (j *Journal) ReadSession(ctx context.Context, id string) (Session, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, seed, width, height, alphabet, resolve_delay_ms
		FROM sessions
		WHERE id = ?
	`, id)

	s, err := scanSession(row)
	if err != nil {
		return Session{}, fmt.Errorf("read session %s: %w", id, err)
	}
	return s, nil
}

// LatestSession returns the most recently started session. Session IDs are
// UUIDv7, so the greatest ID is the newest.
func (j *Journal) LatestSession(ctx context.Context) (Session, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, seed, width, height, alphabet, resolve_delay_ms
		FROM sessions
		ORDER BY id COLLATE BINARY DESC
		LIMIT 1
	`)

	s, err := scanSession(row)
	if err != nil {
		return Session{}, fmt.Errorf("read latest session: %w", err)
	}
	return s, nil
}

// ListSessions returns every session ordered by ID.
// Returns an empty slice (not nil) for an empty journal.
func (j *Journal) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, seed, width, height, alphabet, resolve_delay_ms
		FROM sessions
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadFrames returns a session's frames in emission order.
// Returns an empty slice (not nil) if none were recorded.
func (j *Journal) ReadFrames(ctx context.Context, sessionID string) ([]session.Frame, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT f.session_id, f.seq, f.round, f.cause, f.tile, f.outcome, f.error,
		       f.state, f.tiles, s.width, s.height
		FROM frames f
		JOIN sessions s ON f.session_id = s.id
		WHERE f.session_id = ?
		ORDER BY f.seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query frames: %w", err)
	}
	defer rows.Close()

	frames := []session.Frame{}
	for rows.Next() {
		f, err := scanFrame(rows)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate frames: %w", err)
	}
	return frames, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var (
		s        Session
		seed     string
		alphabet string
		delayMS  int64
	)
	if err := row.Scan(&s.ID, &seed, &s.Width, &s.Height, &alphabet, &delayMS); err != nil {
		return Session{}, err
	}

	var err error
	if s.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return Session{}, fmt.Errorf("session %s: parse seed: %w", s.ID, err)
	}
	if err := json.Unmarshal([]byte(alphabet), &s.Alphabet); err != nil {
		return Session{}, fmt.Errorf("session %s: parse alphabet: %w", s.ID, err)
	}
	s.ResolveDelay = time.Duration(delayMS) * time.Millisecond
	return s, nil
}

func scanFrame(row scanner) (session.Frame, error) {
	var (
		f       session.Frame
		cause   string
		tile    sql.NullInt64
		outcome string
		state   string
		tiles   string
	)
	if err := row.Scan(
		&f.Session, &f.Seq, &f.Round, &cause, &tile, &outcome, &f.Cause.Error,
		&state, &tiles, &f.Width, &f.Height,
	); err != nil {
		return session.Frame{}, fmt.Errorf("scan frame: %w", err)
	}

	f.Cause.Kind = session.CauseKind(cause)
	if tile.Valid {
		i := int(tile.Int64)
		f.Cause.Tile = &i
	}

	var err error
	if f.Cause.Outcome, err = engine.ParseOutcome(outcome); err != nil {
		return session.Frame{}, fmt.Errorf("frame %d: %w", f.Seq, err)
	}
	if f.State, err = engine.ParseState(state); err != nil {
		return session.Frame{}, fmt.Errorf("frame %d: %w", f.Seq, err)
	}
	if err := json.Unmarshal([]byte(tiles), &f.Tiles); err != nil {
		return session.Frame{}, fmt.Errorf("frame %d: parse tiles: %w", f.Seq, err)
	}
	return f, nil
}
