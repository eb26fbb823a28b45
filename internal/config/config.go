// Package config loads game configuration from YAML or CUE files.
//
// Both formats describe the same fields:
//
//	width: 4
//	height: 4
//	alphabet: ["🍎", "🍌", ...]
//	resolve_delay: 500ms
//	seed: 42
//
// CUE files nest them under a top-level "game" struct and are checked
// against an embedded schema. Missing fields take the classic game's
// defaults. PAIRS_SEED and PAIRS_RESOLVE_DELAY override file values.
package config

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/roach88/pairs/internal/board"
	"github.com/roach88/pairs/internal/engine"
	"github.com/roach88/pairs/internal/session"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvSeed         = "PAIRS_SEED"
	EnvResolveDelay = "PAIRS_RESOLVE_DELAY"
)

// Game is a complete, defaulted game configuration.
type Game struct {
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Alphabet     []board.Symbol `json:"alphabet"`
	ResolveDelay time.Duration  `json:"resolve_delay"`

	// Seed drives every shuffle of the session. Seeded is false until a
	// seed has been chosen, either by the file, the environment or
	// EnsureSeed.
	Seed   uint64 `json:"seed"`
	Seeded bool   `json:"-"`
}

// Default returns the classic 4x4 fruit game.
func Default() Game {
	alphabet := make([]board.Symbol, len(board.DefaultAlphabet))
	copy(alphabet, board.DefaultAlphabet)
	return Game{
		Width:        4,
		Height:       4,
		Alphabet:     alphabet,
		ResolveDelay: engine.DefaultResolveDelay,
	}
}

// rawGame is the on-disk shape shared by the YAML and CUE loaders.
type rawGame struct {
	Width        *int     `yaml:"width" json:"width,omitempty"`
	Height       *int     `yaml:"height" json:"height,omitempty"`
	Alphabet     []string `yaml:"alphabet" json:"alphabet,omitempty"`
	ResolveDelay string   `yaml:"resolve_delay" json:"resolve_delay,omitempty"`
	Seed         *uint64  `yaml:"seed" json:"seed,omitempty"`
}

func (r rawGame) resolve() (Game, error) {
	g := Default()
	if r.Width != nil {
		g.Width = *r.Width
	}
	if r.Height != nil {
		g.Height = *r.Height
	}
	if r.Alphabet != nil {
		g.Alphabet = board.Symbols(r.Alphabet...)
	}
	if r.ResolveDelay != "" {
		d, err := time.ParseDuration(r.ResolveDelay)
		if err != nil {
			return Game{}, &board.ConfigurationError{Field: "resolve_delay", Message: err.Error()}
		}
		g.ResolveDelay = d
	}
	if r.Seed != nil {
		g.Seed, g.Seeded = *r.Seed, true
	}
	return g, nil
}

// Load reads a .yaml, .yml or .cue file, applies defaults and validates.
func Load(path string) (Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Game{}, fmt.Errorf("read config: %w", err)
	}

	var g Game
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		g, err = ParseYAML(data)
	case ".cue":
		g, err = ParseCUE(data, filepath.Base(path))
	default:
		return Game{}, fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return Game{}, fmt.Errorf("config %s: %w", path, err)
	}

	if err := g.Validate(); err != nil {
		return Game{}, fmt.Errorf("config %s: %w", path, err)
	}
	return g, nil
}

// Validate checks that the configuration can deal a board. Errors are
// *board.ConfigurationError.
func (g Game) Validate() error {
	if g.ResolveDelay <= 0 {
		return &board.ConfigurationError{
			Field:   "resolve_delay",
			Message: fmt.Sprintf("must be positive, got %s", g.ResolveDelay),
		}
	}
	_, err := board.New(g.Alphabet, g.Width, g.Height, rand.New(rand.NewPCG(0, 0)))
	return err
}

// ApplyEnv overrides the seed and resolve delay from the environment.
// lookup is normally os.LookupEnv.
func (g *Game) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return &board.ConfigurationError{Field: "seed", Message: fmt.Sprintf("%s=%q: %v", EnvSeed, v, err)}
		}
		g.Seed, g.Seeded = seed, true
	}
	if v, ok := lookup(EnvResolveDelay); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &board.ConfigurationError{Field: "resolve_delay", Message: fmt.Sprintf("%s=%q: %v", EnvResolveDelay, v, err)}
		}
		g.ResolveDelay = d
	}
	return nil
}

// EnsureSeed picks a random seed if none was configured, so the session
// can still be replayed from its journal.
func (g *Game) EnsureSeed() {
	if !g.Seeded {
		g.Seed, g.Seeded = rand.Uint64(), true
	}
}

// Source returns the random stream for this configuration's seed.
func (g Game) Source() *rand.Rand {
	return rand.New(rand.NewPCG(g.Seed, g.Seed>>1|1))
}

// Dealer returns a session dealer shuffling from Source.
func (g Game) Dealer() session.Dealer {
	return session.ShuffledDealer(g.Alphabet, g.Width, g.Height, g.Source())
}
