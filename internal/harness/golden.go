package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden runs a scenario and compares its transcript with
// testdata/golden/{scenario.Name}.golden. Extra goldie options, such as a
// different fixture directory, override the defaults.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// A transcript mismatch fails t through goldie; failed expectations are
// returned as an error.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...goldie.Option) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	AssertGolden(t, scenario.Name, result, opts...)

	if !result.Pass {
		return fmt.Errorf("scenario %s failed:\n  %s", scenario.Name, strings.Join(result.Errors, "\n  "))
	}
	return nil
}

// AssertGolden compares an existing result's transcript with the golden
// file for name.
func AssertGolden(t *testing.T, name string, result *Result, opts ...goldie.Option) {
	t.Helper()

	opts = append([]goldie.Option{
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	}, opts...)
	g := goldie.New(t, opts...)
	g.Assert(t, name, []byte(result.Transcript(name)))
}
