package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its output against a
// golden file at testdata/golden/{scenario.Name}.golden.
//
// Scenarios with expect_error set assert the error class instead of
// comparing SQL. To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error for scenario-level problems; golden mismatches and
// wrong error classes fail t directly.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	if scenario.ExpectError != "" {
		if result.Err == nil {
			t.Errorf("scenario %s: expected %s error, got SQL:\n%s", scenario.Name, scenario.ExpectError, result.SQL)
			return nil
		}
		if result.ErrorClass != scenario.ExpectError {
			t.Errorf("scenario %s: expected %s error, got %s: %v", scenario.Name, scenario.ExpectError, result.ErrorClass, result.Err)
		}
		return nil
	}

	if result.Err != nil {
		return fmt.Errorf("scenario %s: render failed: %w", scenario.Name, result.Err)
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, scenario.Name, []byte(result.SQL))
	return nil
}
