package schedule

import (
	"container/heap"
	"sync"
	"time"
)

// Virtual is a Scheduler driven by a fake clock. Nothing fires until the
// owner calls Advance or RunNext, which makes timing fully deterministic.
//
// Callbacks due at the same instant fire in the order they were scheduled.
// Callbacks run without the internal lock held, so they may schedule or
// cancel further callbacks.
type Virtual struct {
	mu     sync.Mutex
	now    time.Duration
	nextID uint64
	timers timerHeap
	live   map[uint64]*virtualTimer
}

type virtualTimer struct {
	id    uint64
	due   time.Duration
	fn    func()
	index int
}

// NewVirtual creates a virtual scheduler whose clock reads zero.
func NewVirtual() *Virtual {
	return &Virtual{live: make(map[uint64]*virtualTimer)}
}

// After schedules fn at Now()+d. Negative delays are treated as zero.
func (v *Virtual) After(d time.Duration, fn func()) Token {
	if d < 0 {
		d = 0
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.nextID++
	t := &virtualTimer{id: v.nextID, due: v.now + d, fn: fn}
	heap.Push(&v.timers, t)
	v.live[t.id] = t
	return Token{id: t.id}
}

// Cancel withdraws a pending callback.
func (v *Virtual) Cancel(tok Token) {
	v.mu.Lock()
	defer v.mu.Unlock()

	t, ok := v.live[tok.id]
	if !ok {
		return
	}
	delete(v.live, tok.id)
	heap.Remove(&v.timers, t.index)
}

// Now returns the virtual time elapsed since creation.
func (v *Virtual) Now() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Pending returns the number of callbacks waiting to fire.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.live)
}

// Advance moves the clock forward by d, firing every callback that falls
// due on the way, including ones scheduled by earlier callbacks. It returns
// the number of callbacks fired.
func (v *Virtual) Advance(d time.Duration) int {
	v.mu.Lock()
	target := v.now + d
	v.mu.Unlock()

	fired := 0
	for {
		t := v.popDue(target)
		if t == nil {
			break
		}
		t.fn()
		fired++
	}

	v.mu.Lock()
	if v.now < target {
		v.now = target
	}
	v.mu.Unlock()
	return fired
}

// RunNext jumps the clock to the earliest pending callback and fires it.
// It returns false if nothing is pending.
func (v *Virtual) RunNext() bool {
	v.mu.Lock()
	if len(v.timers) == 0 {
		v.mu.Unlock()
		return false
	}
	due := v.timers[0].due
	v.mu.Unlock()

	t := v.popDue(due)
	if t == nil {
		return false
	}
	t.fn()
	return true
}

// popDue removes the earliest timer due at or before limit and moves the
// clock to its due time.
func (v *Virtual) popDue(limit time.Duration) *virtualTimer {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.timers) == 0 || v.timers[0].due > limit {
		return nil
	}
	t := heap.Pop(&v.timers).(*virtualTimer)
	delete(v.live, t.id)
	if t.due > v.now {
		v.now = t.due
	}
	return t
}

type timerHeap []*virtualTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].id < h[j].id
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*virtualTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
