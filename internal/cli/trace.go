package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pairs/internal/engine"
	"github.com/roach88/pairs/internal/harness"
	"github.com/roach88/pairs/internal/journal"
	"github.com/roach88/pairs/internal/session"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Journal string
	Session string // optional; defaults to the latest session
	Round   int    // optional; 0 means every round
}

// TraceResult is one session's recorded frames.
type TraceResult struct {
	Session string          `json:"session"`
	Seed    uint64          `json:"seed"`
	Frames  []session.Frame `json:"frames"`
	Stats   TraceStats      `json:"stats"`
}

// TraceStats summarizes a trace.
type TraceStats struct {
	Frames    int  `json:"frames"`
	Rounds    int  `json:"rounds"`
	Clicks    int  `json:"clicks"`
	Matches   int  `json:"matches"`
	Rejected  int  `json:"rejected"`
	Completed bool `json:"completed"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "List the frames of a recorded session",
		Long: `List the frames recorded for a session, in emission order.

Without --session the most recent session in the journal is shown.

Examples:
  pairs trace --journal games.db
  pairs trace --journal games.db --session 0192f0c4-... --round 2
  pairs trace --journal games.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to the SQLite journal (required)")
	_ = cmd.MarkFlagRequired("journal")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session ID (default: latest)")
	cmd.Flags().IntVar(&opts.Round, "round", 0, "only show this round")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	j, err := journal.Open(opts.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer j.Close()

	meta, err := findSession(ctx, j, opts.Session)
	if errors.Is(err, sql.ErrNoRows) && opts.Session == "" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		if formatter.JSON() {
			return formatter.Success(TraceResult{Frames: []session.Frame{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded.")
		return nil
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "read session", err)
	}

	frames, err := j.ReadFrames(ctx, meta.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "read frames", err)
	}

	result := TraceResult{
		Session: meta.ID,
		Seed:    meta.Seed,
		Frames:  filterRound(frames, opts.Round),
		Stats:   traceStats(frames),
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	printTrace(cmd.OutOrStdout(), result)
	return nil
}

// findSession reads id, or the latest session when id is empty.
func findSession(ctx context.Context, j *journal.Journal, id string) (journal.Session, error) {
	if id == "" {
		return j.LatestSession(ctx)
	}
	return j.ReadSession(ctx, id)
}

func filterRound(frames []session.Frame, round int) []session.Frame {
	if round == 0 {
		return frames
	}
	out := []session.Frame{}
	for _, f := range frames {
		if f.Round == round {
			out = append(out, f)
		}
	}
	return out
}

func traceStats(frames []session.Frame) TraceStats {
	s := TraceStats{Frames: len(frames)}
	for _, f := range frames {
		s.Rounds = max(s.Rounds, f.Round)
		if f.Cause.Kind == session.CauseClick {
			s.Clicks++
			if f.Cause.Error != "" {
				s.Rejected++
			}
			if f.Cause.Outcome == engine.OutcomeMatched {
				s.Matches++
			}
		}
	}
	if n := len(frames); n > 0 {
		s.Completed = frames[n-1].State == engine.StateComplete
	}
	return s
}

func printTrace(w io.Writer, r TraceResult) {
	fmt.Fprintf(w, "Session: %s (seed %d)\n\n", r.Session, r.Seed)
	for _, f := range r.Frames {
		fmt.Fprintf(w, "%04d round=%d %s state=%s board=%s\n",
			f.Seq, f.Round, describeCause(f.Cause), f.State, harness.RenderBoard(f))
		if f.Cause.Error != "" {
			fmt.Fprintf(w, "     error: %s\n", f.Cause.Error)
		}
	}

	s := r.Stats
	fmt.Fprintf(w, "\n%d frames, %d round(s), %d clicks (%d rejected), %d matches", s.Frames, s.Rounds, s.Clicks, s.Rejected, s.Matches)
	if s.Completed {
		fmt.Fprint(w, ", board complete")
	}
	fmt.Fprintln(w)
}
