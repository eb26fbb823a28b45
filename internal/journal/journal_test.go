package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pairs/internal/board"
	"github.com/roach88/pairs/internal/engine"
	"github.com/roach88/pairs/internal/schedule"
	"github.com/roach88/pairs/internal/session"
	"github.com/roach88/pairs/internal/testutil"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func testSession(id string) Session {
	return Session{
		ID:           id,
		Seed:         ^uint64(0),
		Width:        2,
		Height:       2,
		Alphabet:     board.Symbols("A", "B"),
		ResolveDelay: 500 * time.Millisecond,
	}
}

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Pragmas(t *testing.T) {
	j := openTestJournal(t)

	tests := map[string]string{
		"journal_mode": "wal",
		"foreign_keys": "1",
		"busy_timeout": "5000",
		"user_version": "2",
	}
	for name, want := range tests {
		got, err := j.pragma(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j1.WriteSession(ctx, testSession("s1")))
	require.NoError(t, j1.Close())

	j2, err := Open(path)
	require.NoError(t, err)
	defer j2.Close()

	got, err := j2.ReadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, testSession("s1"), got)
}

func TestSession_RoundTripAndIdempotence(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	s := testSession("s1")
	require.NoError(t, j.WriteSession(ctx, s))

	dup := s
	dup.Width = 8
	require.NoError(t, j.WriteSession(ctx, dup))

	got, err := j.ReadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestReadSession_Missing(t *testing.T) {
	j := openTestJournal(t)

	_, err := j.ReadSession(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = j.LatestSession(context.Background())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListSessions(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	empty, err := j.ListSessions(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, id := range []string{"0003", "0001", "0002"} {
		require.NoError(t, j.WriteSession(ctx, testSession(id)))
	}

	sessions, err := j.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "0001", sessions[0].ID)
	assert.Equal(t, "0003", sessions[2].ID)

	latest, err := j.LatestSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0003", latest.ID)
}

func TestWriteFrame_RequiresSession(t *testing.T) {
	j := openTestJournal(t)

	err := j.WriteFrame(context.Background(), session.Frame{Session: "ghost", Seq: 1})
	assert.Error(t, err)
}

func TestRecorder_JournalsWholeSession(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	meta := testSession("")
	rec := NewRecorder(ctx, j, meta, nil)

	emitted := testutil.NewFrameRecorder()
	v := schedule.NewVirtual()
	c, err := session.New(
		session.LayoutDealer(2, 2, board.Symbols("A", "B", "A", "B")),
		v,
		session.WithSink(rec),
		session.WithSink(emitted),
		session.WithIDs(session.NewFixedIDs("s-42")),
	)
	require.NoError(t, err)

	require.NoError(t, c.Click(0))
	require.NoError(t, c.Click(1))
	v.Advance(500 * time.Millisecond)
	require.Error(t, c.Click(9))
	require.NoError(t, c.Click(0))
	require.NoError(t, c.Click(2))
	require.NoError(t, c.Click(1))
	require.NoError(t, c.Click(3))
	require.NoError(t, c.Reset())
	require.NoError(t, rec.Err())

	got, err := j.ReadSession(ctx, "s-42")
	require.NoError(t, err)
	meta.ID = "s-42"
	assert.Equal(t, meta, got)
	assert.Equal(t, meta, rec.Session())

	frames, err := j.ReadFrames(ctx, "s-42")
	require.NoError(t, err)
	assert.Equal(t, emitted.Frames(), frames)

	// Spot-check the columns that are easiest to get wrong.
	require.Len(t, frames, 10)
	assert.Nil(t, frames[0].Cause.Tile)
	assert.Equal(t, engine.OutcomeMismatched, frames[2].Cause.Outcome)
	assert.Equal(t, session.CauseResolve, frames[3].Cause.Kind)
	assert.NotEmpty(t, frames[4].Cause.Error)
	assert.Equal(t, engine.OutcomeMatched, frames[6].Cause.Outcome)
	assert.Equal(t, engine.StateComplete, frames[8].State)
	assert.Equal(t, session.CauseReset, frames[9].Cause.Kind)
	assert.Equal(t, 2, frames[9].Round)
}

func TestRecorder_StopsAfterError(t *testing.T) {
	j := openTestJournal(t)
	rec := NewRecorder(context.Background(), j, testSession(""), nil)
	require.NoError(t, j.Close())

	rec.Emit(session.Frame{Session: "s1", Seq: 1})
	require.Error(t, rec.Err())

	first := rec.Err()
	rec.Emit(session.Frame{Session: "s1", Seq: 2})
	assert.Same(t, first, rec.Err())
}

func TestReadFrames_Empty(t *testing.T) {
	j := openTestJournal(t)
	require.NoError(t, j.WriteSession(context.Background(), testSession("s1")))

	frames, err := j.ReadFrames(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotNil(t, frames)
	assert.Empty(t, frames)
}
