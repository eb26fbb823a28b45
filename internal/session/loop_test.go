package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pairs/internal/board"
	"github.com/roach88/pairs/internal/engine"
	"github.com/roach88/pairs/internal/schedule"
)

func TestLoop_RunsInFIFOOrder(t *testing.T) {
	l := NewLoop()
	var got []int
	for i := 1; i <= 3; i++ {
		require.True(t, l.Post(func() { got = append(got, i) }))
	}
	l.Stop()

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestLoop_PostAfterStop(t *testing.T) {
	l := NewLoop()
	l.Stop()
	l.Stop()
	assert.False(t, l.Post(func() {}))
}

func TestLoop_ContextCancel(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, l.Post(func() {}))
}

func TestLoop_ConcurrentPosts(t *testing.T) {
	l := NewLoop()
	const goroutines, perGoroutine = 20, 50

	count := 0 // only touched by the Run goroutine
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perGoroutine {
				l.Post(func() { count++ })
			}
		}()
	}

	go func() {
		wg.Wait()
		l.Stop()
	}()

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, goroutines*perGoroutine, count)
}

// TestRealTimeSession plays a mismatch through the loop with a wall-clock
// scheduler and checks the resolve callback lands on the loop goroutine.
func TestRealTimeSession(t *testing.T) {
	l := NewLoop()
	wall := schedule.NewWall(l)
	defer wall.Stop()

	frames := make(chan Frame, 16)
	var c *Controller
	var newErr error
	l.Post(func() {
		c, newErr = New(
			LayoutDealer(2, 2, board.Symbols("A", "B", "A", "B")),
			wall,
			WithIDs(NewFixedIDs("rt")),
			WithResolveDelay(20*time.Millisecond),
			WithSink(SinkFunc(func(f Frame) { frames <- f })),
		)
		if newErr != nil {
			return
		}
		_ = c.Click(0)
		_ = c.Click(1)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	var resolved Frame
	for resolved.Cause.Kind != CauseResolve {
		select {
		case resolved = <-frames:
		case <-ctx.Done():
			t.Fatal("resolve frame never arrived")
		}
	}
	require.NoError(t, newErr)
	assert.Equal(t, engine.StateIdle, resolved.State)
	assert.Equal(t, int64(4), resolved.Seq)
	l.Stop()
}
