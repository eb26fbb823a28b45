package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pairs/internal/config"
	"github.com/roach88/pairs/internal/journal"
	"github.com/roach88/pairs/internal/session"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Journal string
	Session string // optional; defaults to every session
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []session.ReplayResult `json:"sessions"`
	Total            int                    `json:"total"`
	AllDeterministic bool                   `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded sessions and verify determinism",
		Long: `Re-run the inputs of recorded sessions on a virtual clock.

Boards are dealt again from the recorded seed and every regenerated
frame must equal the recorded one.

Exit codes:
  0 - All sessions replayed identically
  1 - A session diverged from its recording
  2 - Command error (journal not found, unknown session, etc.)

Examples:
  pairs replay --journal games.db
  pairs replay --journal games.db --session 0192f0c4-...
  pairs replay --journal games.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to the SQLite journal (required)")
	_ = cmd.MarkFlagRequired("journal")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay this session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	j, err := journal.Open(opts.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer j.Close()

	var sessions []journal.Session
	if opts.Session != "" {
		s, err := j.ReadSession(ctx, opts.Session)
		if err != nil {
			return WrapExitError(ExitCommandError, "read session", err)
		}
		sessions = []journal.Session{s}
	} else if sessions, err = j.ListSessions(ctx); err != nil {
		return WrapExitError(ExitCommandError, "list sessions", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if len(sessions) == 0 {
		if formatter.JSON() {
			return formatter.Success(ReplayResult{Sessions: []session.ReplayResult{}, AllDeterministic: true})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded.")
		return nil
	}

	result := ReplayResult{
		Sessions:         make([]session.ReplayResult, 0, len(sessions)),
		Total:            len(sessions),
		AllDeterministic: true,
	}
	for _, s := range sessions {
		r, err := replaySession(ctx, j, s, opts)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("replay session %s", s.ID), err)
		}
		result.Sessions = append(result.Sessions, *r)
		if !r.Deterministic {
			result.AllDeterministic = false
		}
	}

	if formatter.JSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.AllDeterministic {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeReplay, Message: "replay diverged from recording"}
		}
		if err := formatter.Respond(resp); err != nil {
			return err
		}
	} else {
		printReplay(cmd.OutOrStdout(), result)
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay diverged from recording")
	}
	return nil
}

// replaySession deals from the recorded seed and re-runs the frames.
func replaySession(ctx context.Context, j *journal.Journal, s journal.Session, opts *ReplayOptions) (*session.ReplayResult, error) {
	frames, err := j.ReadFrames(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	game := config.Game{
		Width:        s.Width,
		Height:       s.Height,
		Alphabet:     s.Alphabet,
		ResolveDelay: s.ResolveDelay,
		Seed:         s.Seed,
		Seeded:       true,
	}
	return session.Replay(frames, game.Dealer(),
		session.WithResolveDelay(game.ResolveDelay),
		session.WithLogger(opts.logger()),
	)
}

func printReplay(w io.Writer, r ReplayResult) {
	for _, s := range r.Sessions {
		if s.Deterministic {
			fmt.Fprintf(w, "✓ %s: %d frames, %d round(s)\n", s.Session, s.Frames, s.Rounds)
			continue
		}
		fmt.Fprintf(w, "✗ %s: diverged at frame %d\n  %s\n", s.Session, s.Divergence, s.Detail)
	}

	fmt.Fprintln(w)
	if r.AllDeterministic {
		fmt.Fprintf(w, "✓ All %d session(s) replayed deterministically\n", r.Total)
	} else {
		fmt.Fprintln(w, "✗ Replay diverged from recording")
	}
}
