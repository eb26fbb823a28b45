package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pairs/internal/board"
	"github.com/roach88/pairs/internal/config"
)

// ValidationResult summarizes a valid config.
type ValidationResult struct {
	Path         string   `json:"path"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Alphabet     []string `json:"alphabet"`
	ResolveDelay string   `json:"resolve_delay"`
	Seed         *uint64  `json:"seed,omitempty"`
}

func (r ValidationResult) String() string {
	s := fmt.Sprintf("✓ %s: %dx%d board, %d symbols, resolve delay %s",
		r.Path, r.Width, r.Height, len(r.Alphabet), r.ResolveDelay)
	if r.Seed != nil {
		s += fmt.Sprintf(", seed %d", *r.Seed)
	}
	return s
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate a game config",
		Long: `Validate a YAML or CUE game config.

CUE files are checked against the built-in schema. Either way the
config must describe a board that can be dealt: an even number of tiles
and exactly one pair per symbol.

Exit codes:
  0 - Config is valid
  1 - Config is invalid
  2 - Command error (file not found, unsupported extension)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	game, err := config.Load(path)
	if err != nil {
		var cfgErr *board.ConfigurationError
		if errors.As(err, &cfgErr) {
			_ = formatter.Error(ErrCodeConfig, err.Error(), map[string]string{"field": cfgErr.Field})
			return WrapExitError(ExitFailure, "invalid configuration", err)
		}
		return WrapExitError(ExitCommandError, "load configuration", err)
	}
	formatter.VerboseLog("loaded %s", path)

	result := ValidationResult{
		Path:         path,
		Width:        game.Width,
		Height:       game.Height,
		ResolveDelay: game.ResolveDelay.String(),
	}
	for _, s := range game.Alphabet {
		result.Alphabet = append(result.Alphabet, string(s))
	}
	if game.Seeded {
		seed := game.Seed
		result.Seed = &seed
	}
	return formatter.Success(result)
}
