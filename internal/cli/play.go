package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/pairs/internal/board"
	"github.com/roach88/pairs/internal/config"
	"github.com/roach88/pairs/internal/journal"
	"github.com/roach88/pairs/internal/schedule"
	"github.com/roach88/pairs/internal/session"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Config  string
	Seed    uint64
	Delay   time.Duration
	Journal string
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Long: `Play an interactive game.

Type a tile number to turn it over, "r" to deal a new round and "q" to
quit. A mismatched pair stays face up for the resolve delay.

Settings come from the config file, then PAIRS_SEED and
PAIRS_RESOLVE_DELAY, then flags. With --journal every frame is recorded
so the session can be traced and replayed later.

Examples:
  pairs play
  pairs play --config game.yaml --seed 42
  pairs play --delay 1s --journal games.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "game config file (.yaml, .yml or .cue)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "shuffle seed (random if unset)")
	cmd.Flags().DurationVar(&opts.Delay, "delay", 0, "how long a mismatched pair stays visible")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "SQLite journal to record the session in")

	return cmd
}

// loadGame resolves the configuration: file, then environment, then flags.
func loadGame(opts *PlayOptions, changed func(string) bool) (config.Game, error) {
	game := config.Default()
	if opts.Config != "" {
		var err error
		if game, err = config.Load(opts.Config); err != nil {
			return config.Game{}, err
		}
	}
	if err := game.ApplyEnv(os.LookupEnv); err != nil {
		return config.Game{}, err
	}
	if changed("seed") {
		game.Seed, game.Seeded = opts.Seed, true
	}
	if changed("delay") {
		game.ResolveDelay = opts.Delay
	}
	game.EnsureSeed()

	if err := game.Validate(); err != nil {
		return config.Game{}, err
	}
	return game, nil
}

func configExitError(err error) *ExitError {
	if board.IsConfigurationError(err) {
		return WrapExitError(ExitFailure, "invalid configuration", err)
	}
	return WrapExitError(ExitCommandError, "load configuration", err)
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	game, err := loadGame(opts, cmd.Flags().Changed)
	if err != nil {
		return configExitError(err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.logger()

	loop := session.NewLoop()
	wall := schedule.NewWall(loop)
	defer wall.Stop()

	view := newTerminalView(cmd.OutOrStdout(), opts.Format)
	sessOpts := []session.Option{
		session.WithSink(view),
		session.WithResolveDelay(game.ResolveDelay),
		session.WithLogger(log),
	}

	var rec *journal.Recorder
	if opts.Journal != "" {
		j, err := journal.Open(opts.Journal)
		if err != nil {
			return WrapExitError(ExitCommandError, "open journal", err)
		}
		defer j.Close()

		rec = journal.NewRecorder(ctx, j, journal.Session{
			Seed:         game.Seed,
			Width:        game.Width,
			Height:       game.Height,
			Alphabet:     game.Alphabet,
			ResolveDelay: game.ResolveDelay,
		}, log)
		sessOpts = append(sessOpts, session.WithSink(rec))
	}

	c, err := session.New(game.Dealer(), wall, sessOpts...)
	if err != nil {
		return configExitError(err)
	}
	log.Debug("playing", "seed", game.Seed, "width", game.Width, "height", game.Height)

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	readInput(ctx, cmd.InOrStdin(), func(in input) {
		loop.Post(func() { apply(c, view, in) })
	})

	loop.Stop()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if rec != nil && rec.Err() != nil {
		return WrapExitError(ExitCommandError, "journal write failed", rec.Err())
	}
	return nil
}

type inputKind int

const (
	inputClick inputKind = iota
	inputReset
	inputQuit
	inputInvalid
)

type input struct {
	kind inputKind
	tile int
	text string
}

func parseInput(line string) (input, bool) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return input{}, false
	case "r", "reset":
		return input{kind: inputReset}, true
	case "q", "quit", "exit":
		return input{kind: inputQuit}, true
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return input{kind: inputInvalid, text: line}, true
	}
	return input{kind: inputClick, tile: n}, true
}

// readInput delivers parsed lines to handle until quit, EOF or ctx ends.
func readInput(ctx context.Context, r io.Reader, handle func(input)) {
	lines := make(chan string)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			in, ok := parseInput(line)
			if !ok {
				continue
			}
			if in.kind == inputQuit {
				return
			}
			handle(in)
		}
	}
}

// apply runs one input against the controller on the loop goroutine.
func apply(c *session.Controller, view *terminalView, in input) {
	switch in.kind {
	case inputClick:
		// Index errors are already shown on the frame.
		_ = c.Click(in.tile)
	case inputReset:
		if err := c.Reset(); err != nil {
			view.notice(err.Error())
		}
	case inputInvalid:
		view.notice(fmt.Sprintf("%q is not a tile number (r resets, q quits)", in.text))
	}
}
