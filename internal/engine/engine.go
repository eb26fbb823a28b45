package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/pairs/internal/board"
	"github.com/roach88/pairs/internal/schedule"
)

// DefaultResolveDelay is how long a mismatched pair stays face up.
const DefaultResolveDelay = 500 * time.Millisecond

// Engine is the match state machine for one board.
//
// Thread-safety: none. See the package documentation for the single-writer
// contract.
type Engine struct {
	board *board.Board
	sched schedule.Scheduler
	delay time.Duration

	selection []int
	locked    bool
	pending   schedule.Token

	observe func(Transition)
	log     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithResolveDelay sets how long a mismatched pair stays visible.
// Non-positive values fall back to DefaultResolveDelay.
func WithResolveDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithObserver registers fn to receive a Transition after every operation.
func WithObserver(fn func(Transition)) Option {
	return func(e *Engine) {
		e.observe = fn
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an engine over b that requests resolve callbacks from s.
// The engine becomes the sole mutator of b.
func New(b *board.Board, s schedule.Scheduler, opts ...Option) *Engine {
	e := &Engine{
		board:     b,
		sched:     s,
		delay:     DefaultResolveDelay,
		selection: make([]int, 0, 2),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Board returns the board the engine plays on. Callers must not mutate it.
func (e *Engine) Board() *board.Board {
	return e.board
}

// ResolveDelay returns the configured mismatch delay.
func (e *Engine) ResolveDelay() time.Duration {
	return e.delay
}

// State derives the current state.
func (e *Engine) State() State {
	switch {
	case e.locked:
		return StateResolving
	case len(e.selection) == 1:
		return StateOneSelected
	case e.board.AllMatched():
		return StateComplete
	default:
		return StateIdle
	}
}

// Locked reports whether input is currently rejected.
func (e *Engine) Locked() bool {
	return e.locked
}

// Selection returns the revealed, unmatched tile indices.
func (e *Engine) Selection() []int {
	out := make([]int, len(e.selection))
	copy(out, e.selection)
	return out
}

// OnTileClicked handles a click on tile index.
//
// An out-of-range index returns *board.IndexError and changes nothing.
// Every other click either applies one row of the transition table or is
// ignored; ignored clicks return OutcomeIgnored and a nil error.
func (e *Engine) OnTileClicked(index int) (Outcome, error) {
	outcome, err := e.click(index)

	if err != nil {
		e.log.Warn("click rejected", "tile", index, "error", err)
	} else {
		e.log.Debug("click", "tile", index, "outcome", outcome, "state", e.State())
	}
	e.notify(Transition{Event: EventClick, Tile: index, Outcome: outcome, Err: err})

	return outcome, err
}

func (e *Engine) click(index int) (Outcome, error) {
	tile, err := e.board.TileAt(index)
	if err != nil {
		return OutcomeIgnored, err
	}

	// Locked, finished, already matched, or already face up (including a
	// re-click of the selected tile).
	if e.locked || tile.Status != board.Hidden {
		return OutcomeIgnored, nil
	}

	e.must(e.board.Reveal(index))

	if len(e.selection) == 0 {
		e.selection = append(e.selection, index)
		return OutcomeRevealed, nil
	}

	first := e.selection[0]
	firstTile, err := e.board.TileAt(first)
	e.must(err)

	if firstTile.Symbol == tile.Symbol {
		e.must(e.board.MarkMatched(first))
		e.must(e.board.MarkMatched(index))
		e.selection = e.selection[:0]
		if e.board.AllMatched() {
			e.log.Debug("board complete", "tiles", e.board.Len())
		}
		return OutcomeMatched, nil
	}

	e.selection = append(e.selection, index)
	e.locked = true
	e.pending = e.sched.After(e.delay, e.resolveFired)
	return OutcomeMismatched, nil
}

// resolveFired is the callback handed to the scheduler.
func (e *Engine) resolveFired() {
	e.pending = schedule.Token{}
	e.OnResolveTimeout()
}

// OnResolveTimeout hides the mismatched pair and unlocks input. Called by
// the scheduler; a call with nothing to resolve (stale or duplicate) is
// ignored.
func (e *Engine) OnResolveTimeout() {
	if !e.locked {
		e.log.Debug("resolve ignored: nothing pending")
		e.notify(Transition{Event: EventResolve, Tile: -1, Outcome: OutcomeIgnored})
		return
	}

	// A direct call supersedes the scheduled one.
	if !e.pending.IsZero() {
		e.sched.Cancel(e.pending)
		e.pending = schedule.Token{}
	}

	for _, i := range e.selection {
		e.must(e.board.Hide(i))
	}
	e.selection = e.selection[:0]
	e.locked = false

	e.log.Debug("pair hidden", "state", e.State())
	e.notify(Transition{Event: EventResolve, Tile: -1, Outcome: OutcomeHidden})
}

// Abandon cancels any pending resolve callback. Used when the engine is
// being discarded; the board keeps its current tiles.
func (e *Engine) Abandon() {
	if e.pending.IsZero() {
		return
	}
	e.sched.Cancel(e.pending)
	e.pending = schedule.Token{}
	e.log.Debug("pending resolve canceled")
}

func (e *Engine) notify(t Transition) {
	if e.observe == nil {
		return
	}
	t.State = e.State()
	e.observe(t)
}

// must turns a tile transition error into a panic. The guards above make
// such errors unreachable; one surfacing is a bug in this package.
func (e *Engine) must(err error) {
	if err != nil {
		panic(fmt.Sprintf("engine: invariant violated: %v", err))
	}
}
