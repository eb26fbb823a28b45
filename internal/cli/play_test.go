package cli

import (
	"bufio"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pairs/internal/engine"
	"github.com/roach88/pairs/internal/session"
)

const pairConfig = "width: 2\nheight: 2\nalphabet: [A, B]\n"

func TestPlay_Text(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "game.yaml", pairConfig)

	out, err := execute(t, "0\n1\nhello\n99\n\nr\nq\n0\n",
		"play", "--config", cfg, "--seed", "1", "--delay", "1h")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "session "), out)
	assert.Contains(t, out, "round 1 | new board | Idle\n    0    1\n    2    3\n")
	assert.Contains(t, out, "round 1 | click 0 -> revealed | OneSelected")
	assert.Contains(t, out, "round 1 | click 1 -> ")
	assert.Contains(t, out, `? "hello" is not a tile number (r resets, q quits)`)
	assert.Contains(t, out, "! tile index 99 out of range [0, 4)")
	assert.Contains(t, out, "round 2 | reset | Idle\n    0    1\n    2    3\n")
	assert.Equal(t, 1, strings.Count(out, "click 0 ->"), "input after q must be ignored")
}

func TestPlay_JSONFrames(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "game.yaml", pairConfig)

	out, err := execute(t, "0\nx\n", "--format", "json", "play", "--config", cfg, "--seed", "7")
	require.NoError(t, err)

	sc := bufio.NewScanner(strings.NewReader(out))
	require.True(t, sc.Scan())
	var start session.Frame
	require.NoError(t, json.Unmarshal(sc.Bytes(), &start))
	assert.Equal(t, session.CauseStart, start.Cause.Kind)
	assert.Equal(t, 1, start.Round)
	assert.Equal(t, 2, start.Width)
	assert.Len(t, start.Tiles, 4)

	require.True(t, sc.Scan())
	var click session.Frame
	require.NoError(t, json.Unmarshal(sc.Bytes(), &click))
	assert.Equal(t, session.CauseClick, click.Cause.Kind)
	assert.Equal(t, engine.OutcomeRevealed, click.Cause.Outcome)
	assert.Equal(t, start.Session, click.Session)

	require.True(t, sc.Scan())
	assert.JSONEq(t, `{"notice": "\"x\" is not a tile number (r resets, q quits)"}`, sc.Text())
	assert.False(t, sc.Scan())
}

func TestPlay_InvalidConfig(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "game.yaml", "width: 3\nheight: 3\n")

	_, err := execute(t, "", "play", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = execute(t, "", "play", "--delay=-1s")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = execute(t, "", "play", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPlay_BadEnvironment(t *testing.T) {
	t.Setenv("PAIRS_SEED", "not-a-number")

	_, err := execute(t, "", "play")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestPlay_JournalTraceReplay(t *testing.T) {
	db := filepath.Join(t.TempDir(), "games.db")

	_, err := execute(t, "0\n1\n2\n3\n42\nr\n0\nq\n",
		"play", "--seed", "5", "--delay", "1h", "--journal", db)
	require.NoError(t, err)

	out, err := execute(t, "", "trace", "--journal", db)
	require.NoError(t, err)
	assert.Contains(t, out, "(seed 5)")
	assert.Contains(t, out, "0001 round=1 new board state=Idle")
	assert.Contains(t, out, "error: tile index 42 out of range [0, 16)")
	assert.Contains(t, out, "round=2 reset state=Idle")
	assert.Contains(t, out, "8 frames, 2 round(s), 6 clicks (1 rejected)")

	out, err = execute(t, "", "trace", "--journal", db, "--round", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, "round=1")
	assert.Contains(t, out, "round=2 click 0 -> revealed")

	out, err = execute(t, "", "replay", "--journal", db)
	require.NoError(t, err, out)
	assert.Contains(t, out, ": 8 frames, 2 round(s)")
	assert.Contains(t, out, "✓ All 1 session(s) replayed deterministically")
}

func TestPlay_JournalWithResolves(t *testing.T) {
	db := filepath.Join(t.TempDir(), "games.db")

	var in strings.Builder
	for round := 0; round < 2; round++ {
		for i := range 16 {
			in.WriteString(strings.Repeat(" ", i%3))
			in.WriteString(string(rune('0'+i/10)) + string(rune('0'+i%10)) + "\n")
		}
	}
	in.WriteString("r\n5\n6\n")

	_, err := execute(t, in.String(), "play", "--seed", "11", "--delay", "1ms", "--journal", db)
	require.NoError(t, err)

	out, err := execute(t, "", "--format", "json", "replay", "--journal", db)
	require.NoError(t, err, out)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.AllDeterministic)
	require.Len(t, resp.Data.Sessions, 1)
	assert.Equal(t, -1, resp.Data.Sessions[0].Divergence)
}

func TestPlay_SeedFromEnvironment(t *testing.T) {
	t.Setenv("PAIRS_SEED", "77")
	db := filepath.Join(t.TempDir(), "games.db")

	_, err := execute(t, "q\n", "play", "--journal", db)
	require.NoError(t, err)

	out, err := execute(t, "", "trace", "--journal", db)
	require.NoError(t, err)
	assert.Contains(t, out, "(seed 77)")
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		line string
		want input
		ok   bool
	}{
		{"", input{}, false},
		{"   ", input{}, false},
		{"3", input{kind: inputClick, tile: 3}, true},
		{" 12 ", input{kind: inputClick, tile: 12}, true},
		{"-1", input{kind: inputClick, tile: -1}, true},
		{"r", input{kind: inputReset}, true},
		{"RESET", input{kind: inputReset}, true},
		{"q", input{kind: inputQuit}, true},
		{"exit", input{kind: inputQuit}, true},
		{"tile", input{kind: inputInvalid, text: "tile"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseInput(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
