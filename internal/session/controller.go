package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/pairs/internal/board"
	"github.com/roach88/pairs/internal/engine"
	"github.com/roach88/pairs/internal/schedule"
)

// Controller is the glue between an input source, the match engine and a
// view.
//
// Thread-safety: none. Call it from one goroutine only (see Loop).
type Controller struct {
	id    string
	deal  Dealer
	sched schedule.Scheduler
	delay time.Duration
	ids   IDGenerator
	clock *Clock
	sinks []Sink
	log   *slog.Logger

	eng   *engine.Engine
	round int
	last  Frame
}

// Option configures a Controller.
type Option func(*Controller)

// WithSink adds a frame receiver.
func WithSink(s Sink) Option {
	return func(c *Controller) {
		c.sinks = append(c.sinks, s)
	}
}

// WithIDs sets the session ID generator. Defaults to UUIDv7Generator.
func WithIDs(g IDGenerator) Option {
	return func(c *Controller) {
		c.ids = g
	}
}

// WithResolveDelay sets the mismatch delay for every round.
func WithResolveDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.delay = d
	}
}

// WithLogger sets the base logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New starts a session: it deals the first board and emits a start frame.
// A dealing failure (normally *board.ConfigurationError) is returned as is,
// wrapped.
func New(deal Dealer, sched schedule.Scheduler, opts ...Option) (*Controller, error) {
	c := &Controller{
		deal:  deal,
		sched: sched,
		delay: engine.DefaultResolveDelay,
		ids:   UUIDv7Generator{},
		clock: NewClock(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.id = c.ids.Generate()
	c.log = c.log.With("session", c.id)

	if err := c.startRound(); err != nil {
		return nil, err
	}
	c.log.Info("session started", "tiles", c.eng.Board().Len(), "resolve_delay", c.delay)
	c.emit(Cause{Kind: CauseStart})
	return c, nil
}

// ID returns the session ID.
func (c *Controller) ID() string { return c.id }

// Round returns the 1-based round number; Reset increments it.
func (c *Controller) Round() int { return c.round }

// State returns the current engine state.
func (c *Controller) State() engine.State { return c.eng.State() }

// Frame returns the most recently emitted frame.
func (c *Controller) Frame() Frame { return c.last }

// Click forwards a tile click. An out-of-range index returns
// *board.IndexError after emitting an unchanged frame; the session goes on.
func (c *Controller) Click(index int) error {
	if _, err := c.eng.OnTileClicked(index); err != nil {
		return fmt.Errorf("click: %w", err)
	}
	return nil
}

// Reset abandons the current round and deals a new one. The previous
// engine's pending resolve callback is canceled before the new board is
// installed. If dealing fails the current round continues untouched.
func (c *Controller) Reset() error {
	b, err := c.deal()
	if err != nil {
		return fmt.Errorf("reset: deal board: %w", err)
	}

	c.eng.Abandon()
	c.install(b)
	c.log.Info("session reset", "round", c.round)
	c.emit(Cause{Kind: CauseReset})
	return nil
}

func (c *Controller) startRound() error {
	b, err := c.deal()
	if err != nil {
		return fmt.Errorf("deal board: %w", err)
	}
	c.install(b)
	return nil
}

func (c *Controller) install(b *board.Board) {
	c.round++
	c.eng = engine.New(b, c.sched,
		engine.WithResolveDelay(c.delay),
		engine.WithObserver(c.onTransition),
		engine.WithLogger(c.log.With("round", c.round)),
	)
}

// onTransition converts engine transitions to frames.
func (c *Controller) onTransition(t engine.Transition) {
	cause := Cause{Outcome: t.Outcome}
	switch t.Event {
	case engine.EventClick:
		tile := t.Tile
		cause.Kind = CauseClick
		cause.Tile = &tile
	case engine.EventResolve:
		cause.Kind = CauseResolve
	}
	if t.Err != nil {
		cause.Error = t.Err.Error()
	}
	if t.Outcome == engine.OutcomeMatched && t.State == engine.StateComplete {
		c.log.Info("round complete", "round", c.round)
	}
	c.emit(cause)
}

func (c *Controller) emit(cause Cause) {
	f := Frame{
		Session:  c.id,
		Round:    c.round,
		Seq:      c.clock.Next(),
		Cause:    cause,
		Snapshot: c.eng.Snapshot(),
	}
	c.last = f
	for _, s := range c.sinks {
		s.Emit(f)
	}
}
