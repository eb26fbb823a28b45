package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pairs/internal/board"
	"github.com/roach88/pairs/internal/engine"
)

// Scenario is a scripted game with expectations.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Board is the fixed layout dealt for every round.
	Board BoardSpec `yaml:"board"`

	// ResolveDelay defaults to the engine's 500ms.
	ResolveDelay string `yaml:"resolve_delay,omitempty"`

	Steps []Step `yaml:"steps"`

	// Assertions are checked once after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// BoardSpec is a row-major board layout.
type BoardSpec struct {
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
	Layout []string `yaml:"layout"`
}

// Step is one input. Exactly one of Click, Advance or Reset is set.
type Step struct {
	Click   *int   `yaml:"click,omitempty"`
	Advance string `yaml:"advance,omitempty"`
	Reset   bool   `yaml:"reset,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect is checked against the latest frame after a step. Empty fields
// are not checked; an empty (non-nil) Revealed or Matched list asserts
// that no tile has that status.
type Expect struct {
	State    string `yaml:"state,omitempty"`
	Outcome  string `yaml:"outcome,omitempty"`
	Error    string `yaml:"error,omitempty"`
	Revealed []int  `yaml:"revealed,omitempty"`
	Matched  []int  `yaml:"matched,omitempty"`
}

// Assertion validates the final session.
type Assertion struct {
	// Type is one of state, tile_status or pending_timers.
	Type string `yaml:"type"`

	// State is the expected engine state (state).
	State string `yaml:"state,omitempty"`

	// Tile and Status select a tile and its expected status (tile_status).
	Tile   *int   `yaml:"tile,omitempty"`
	Status string `yaml:"status,omitempty"`

	// Count is the expected number of scheduled callbacks (pending_timers).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertState         = "state"
	AssertTileStatus    = "tile_status"
	AssertPendingTimers = "pending_timers"
)

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// resolveDelay returns the scenario's delay or the engine default.
func (s *Scenario) resolveDelay() (time.Duration, error) {
	if s.ResolveDelay == "" {
		return engine.DefaultResolveDelay, nil
	}
	d, err := time.ParseDuration(s.ResolveDelay)
	if err != nil {
		return 0, fmt.Errorf("resolve_delay: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("resolve_delay: must be positive, got %s", d)
	}
	return d, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Board.Layout) == 0 {
		return fmt.Errorf("board.layout is required")
	}
	if _, err := board.FromLayout(s.Board.Width, s.Board.Height, board.Symbols(s.Board.Layout...)); err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if _, err := s.resolveDelay(); err != nil {
		return err
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step Step) error {
	actions := 0
	if step.Click != nil {
		actions++
	}
	if step.Advance != "" {
		actions++
		if _, err := time.ParseDuration(step.Advance); err != nil {
			return fmt.Errorf("steps[%d]: advance: %w", index, err)
		}
	}
	if step.Reset {
		actions++
	}
	if actions != 1 {
		return fmt.Errorf("steps[%d]: exactly one of click, advance or reset is required", index)
	}

	if e := step.Expect; e != nil {
		if e.State != "" {
			if _, err := engine.ParseState(e.State); err != nil {
				return fmt.Errorf("steps[%d].expect: %w", index, err)
			}
		}
		if e.Outcome != "" {
			if _, err := engine.ParseOutcome(e.Outcome); err != nil {
				return fmt.Errorf("steps[%d].expect: %w", index, err)
			}
		}
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertState:
		if _, err := engine.ParseState(a.State); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertTileStatus:
		if a.Tile == nil {
			return fmt.Errorf("assertions[%d]: tile is required for tile_status", index)
		}
		if _, err := board.ParseStatus(a.Status); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertPendingTimers:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for pending_timers", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
