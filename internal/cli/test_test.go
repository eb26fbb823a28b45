package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenariosDir = "../../testdata/scenarios"

const matchScenario = `name: quick_match
board:
  width: 2
  height: 2
  layout: [A, B, A, B]
steps:
  - click: 0
  - click: 2
    expect: { outcome: matched, state: Idle }
`

const wrongScenario = `name: wrong_expectation
board:
  width: 2
  height: 2
  layout: [A, B, A, B]
steps:
  - click: 0
  - click: 1
    expect: { outcome: matched }
`

func TestTest_RepositoryScenarios(t *testing.T) {
	out, err := execute(t, "", "test", scenariosDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ scenario_a_match")
	assert.Contains(t, out, "✓ reset_cancels_resolve")
	assert.Contains(t, out, "Test Summary: 6 passed, 0 failed, 6 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTest_Filter(t *testing.T) {
	out, err := execute(t, "", "test", scenariosDir, "--filter", "scenario_b*")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ scenario_b_mismatch")
	assert.NotContains(t, out, "scenario_a_match")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTest_InvalidFilter(t *testing.T) {
	_, err := execute(t, "", "test", scenariosDir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wrong.yaml", wrongScenario)

	out, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_expectation")
	assert.Contains(t, out, "outcome: expected matched, got mismatched")
	assert.Contains(t, out, "0 passed, 1 failed, 1 total")
}

func TestTest_UnloadableScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "name: broken\nboard: {width: 2, height: 2}\nsteps: []\n")

	out, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "load:")
}

func TestTest_UpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quick.yaml", matchScenario)

	_, err := execute(t, "", "test", dir, "--update")
	require.NoError(t, err)

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "quick.golden"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(golden), "scenario: quick_match\n"))
	assert.Contains(t, string(golden), "click(2) -> matched")

	out, err := execute(t, "", "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ quick_match")

	writeFile(t, dir, "golden/quick.golden", "scenario: quick_match\n")
	out, err = execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "transcript does not match golden file")
}

func TestTest_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quick.yaml", matchScenario)
	writeFile(t, dir, "wrong.yaml", wrongScenario)

	out, err := execute(t, "", "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTest_MissingDirectory(t *testing.T) {
	_, err := execute(t, "", "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTest_EmptyDirectory(t *testing.T) {
	out, err := execute(t, "", "test", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}

func TestFindScenarioFiles_SkipsGolden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", matchScenario)
	writeFile(t, dir, "nested/b.yml", matchScenario)
	writeFile(t, dir, "golden/c.yaml", matchScenario)
	writeFile(t, dir, "notes.txt", "")

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "nested", "b.yml"),
	}, files)
}
