package harness

import (
	"fmt"

	"github.com/metasql/metasql/internal/dialect"
	"github.com/metasql/metasql/internal/joingraph"
	"github.com/metasql/metasql/internal/sqlgen"
)

// Error class names usable in a scenario's expect_error field.
const (
	ErrorUnsupportedConstruct = "unsupported_construct"
	ErrorDuplicateJoinPath    = "duplicate_join_path"
	ErrorUnreachableJoinPath  = "unreachable_join_path"
)

// Result holds the outcome of running one scenario.
type Result struct {
	// SQL is the rendered text when generation succeeded.
	SQL string

	// ErrorClass names the error class when generation failed, using
	// the expect_error vocabulary. Empty on success.
	ErrorClass string

	// Err is the underlying error when generation failed.
	Err error
}

// Run executes a scenario: decode the inline model, render it under
// the scenario's dialect, and classify any failure. The model is fed
// to the generator as-is so structural defects surface exactly the way
// the generator reports them. Run itself only fails for scenario-level
// problems (unknown dialect, undecodable model); generation failures
// land in the Result.
func Run(scenario *Scenario) (*Result, error) {
	policy, err := dialect.Lookup(scenario.Dialect)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	m, err := scenario.Model.ToModel()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	sql, err := sqlgen.Render(m, policy)
	if err != nil {
		return &Result{ErrorClass: classify(err), Err: err}, nil
	}
	return &Result{SQL: sql}, nil
}

// classify maps a generation error to its scenario error class.
func classify(err error) string {
	switch {
	case sqlgen.IsUnsupportedConstruct(err):
		return ErrorUnsupportedConstruct
	case joingraph.IsDuplicateJoinPath(err):
		return ErrorDuplicateJoinPath
	case joingraph.IsUnreachableJoinPath(err):
		return ErrorUnreachableJoinPath
	default:
		return "unknown"
	}
}
