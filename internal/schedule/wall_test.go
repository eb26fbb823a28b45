package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chanDispatcher queues posted functions for the test goroutine to run.
type chanDispatcher chan func()

func (c chanDispatcher) Post(fn func()) bool {
	c <- fn
	return true
}

func TestWall_PostsCallbackToDispatcher(t *testing.T) {
	d := make(chanDispatcher, 4)
	w := NewWall(d)

	fired := false
	w.After(time.Millisecond, func() { fired = true })

	select {
	case fn := <-d:
		assert.False(t, fired, "callback must not run on the timer goroutine")
		fn()
	case <-time.After(time.Second):
		t.Fatal("timer never posted")
	}
	assert.True(t, fired)
	assert.Equal(t, 0, w.Pending())
}

func TestWall_CancelBeforeFire(t *testing.T) {
	d := make(chanDispatcher, 4)
	w := NewWall(d)

	tok := w.After(50*time.Millisecond, func() { t.Error("canceled callback ran") })
	w.Cancel(tok)
	w.Cancel(tok)
	assert.Equal(t, 0, w.Pending())

	select {
	case fn := <-d:
		fn()
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWall_CancelAfterPostDropsCallback(t *testing.T) {
	d := make(chanDispatcher, 4)
	w := NewWall(d)

	tok := w.After(time.Millisecond, func() { t.Error("canceled callback ran") })

	var posted func()
	select {
	case posted = <-d:
	case <-time.After(time.Second):
		t.Fatal("timer never posted")
	}

	// The timer already fired; cancel still wins because it happens on the
	// dispatcher goroutine before the posted closure runs.
	w.Cancel(tok)
	require.NotNil(t, posted)
	posted()
}

func TestWall_Stop(t *testing.T) {
	w := NewWall(DispatcherFunc(func(fn func()) bool { fn(); return true }))
	w.After(time.Hour, func() {})
	w.After(time.Hour, func() {})
	assert.Equal(t, 2, w.Pending())

	w.Stop()
	assert.Equal(t, 0, w.Pending())
}
