package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/metasql/metasql/internal/model"
)

// Scenario defines one generation conformance case: a query model, a
// target dialect, and either an expected error class or a golden SQL
// comparison.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Dialect is the policy name to render with.
	Dialect string `yaml:"dialect"`

	// Model is the inline query model definition.
	Model ModelSpec `yaml:"model"`

	// ExpectError, when set, asserts that rendering fails with the
	// named error class instead of producing SQL. One of
	// "unsupported_construct", "duplicate_join_path",
	// "unreachable_join_path".
	ExpectError string `yaml:"expect_error,omitempty"`
}

// ModelSpec is the YAML layout of an inline query model.
type ModelSpec struct {
	Distinct   bool            `yaml:"distinct,omitempty"`
	Selections []SelectionSpec `yaml:"selections"`
	Tables     []TableSpec     `yaml:"tables"`
	Joins      []JoinSpec      `yaml:"joins,omitempty"`
	Where      []string        `yaml:"where,omitempty"`
	GroupBy    []string        `yaml:"group_by,omitempty"`
	OrderBy    []string        `yaml:"order_by,omitempty"`
}

// SelectionSpec is one projected expression.
type SelectionSpec struct {
	Expression string `yaml:"expression"`
	Alias      string `yaml:"alias,omitempty"`
}

// TableSpec is one table reference.
type TableSpec struct {
	Name  string `yaml:"name"`
	Alias string `yaml:"alias,omitempty"`
}

// JoinSpec is one join edge.
type JoinSpec struct {
	Left      TableSpec `yaml:"left"`
	Right     TableSpec `yaml:"right"`
	Predicate string    `yaml:"predicate"`
	OrderKey  string    `yaml:"order_key,omitempty"`
	Type      string    `yaml:"type,omitempty"`
}

// specJoinTypes maps the scenario spelling of a join type to the model
// value.
var specJoinTypes = map[string]model.JoinType{
	"":            model.JoinInner,
	"inner":       model.JoinInner,
	"left_outer":  model.JoinLeftOuter,
	"right_outer": model.JoinRightOuter,
	"full_outer":  model.JoinFullOuter,
}

// ToModel converts the inline definition into a QueryModel.
func (s ModelSpec) ToModel() (*model.QueryModel, error) {
	m := &model.QueryModel{
		Distinct: s.Distinct,
		Where:    s.Where,
		GroupBy:  s.GroupBy,
		OrderBy:  s.OrderBy,
	}
	for _, sel := range s.Selections {
		m.Selections = append(m.Selections, model.Selection{Expression: sel.Expression, Alias: sel.Alias})
	}
	for _, t := range s.Tables {
		m.Tables = append(m.Tables, model.TableRef{Name: t.Name, Alias: t.Alias})
	}
	for _, j := range s.Joins {
		jt, ok := specJoinTypes[j.Type]
		if !ok {
			return nil, fmt.Errorf("unknown join type %q", j.Type)
		}
		m.Joins = append(m.Joins, model.JoinEdge{
			Left:      model.TableRef{Name: j.Left.Name, Alias: j.Left.Alias},
			Right:     model.TableRef{Name: j.Right.Name, Alias: j.Right.Alias},
			Predicate: j.Predicate,
			OrderKey:  j.OrderKey,
			Type:      jt,
		})
	}
	return m, nil
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected to catch typos; Name and Dialect are required.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if scenario.Dialect == "" {
		return nil, fmt.Errorf("scenario %s: dialect is required", path)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml scenario in dir, sorted by file
// name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}
