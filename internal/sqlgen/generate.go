package sqlgen

import (
	"strings"

	"github.com/metasql/metasql/internal/dialect"
	"github.com/metasql/metasql/internal/joingraph"
	"github.com/metasql/metasql/internal/model"
)

// Indentation prefixes shared by all clauses. Output is line-oriented
// and stable so tests can compare it literally.
const (
	indentFirst = "          " // first item of a clause
	indentNext  = "         ," // continuation items, comma-led
	indentJoin  = "          " // JOIN lines
	indentWhere = "          " // first WHERE fragment
	indentAnd   = "      AND " // subsequent WHERE fragments
)

// Generator renders a dialect-neutral QueryModel to SQL text for one
// target policy.
//
// A Generator holds only the policy value, so a single Generator may
// serve concurrent Render calls. Rendering never mutates the model and
// never returns partial text alongside an error.
type Generator struct {
	policy dialect.Policy
}

// New creates a Generator for the given policy.
func New(p dialect.Policy) *Generator {
	return &Generator{policy: p}
}

// Render is a convenience wrapper: render m under policy p.
func Render(m *model.QueryModel, p dialect.Policy) (string, error) {
	return New(p).Render(m)
}

// Render produces the SQL text for the model, clause by clause:
// SELECT, FROM (with JOINs and any join predicates deferred to WHERE),
// free-standing WHERE predicates, then passthrough GROUP BY and
// ORDER BY. The first structural or capability error aborts the whole
// render.
func (g *Generator) Render(m *model.QueryModel) (string, error) {
	if err := g.checkCapabilities(m); err != nil {
		return "", err
	}

	var sb strings.Builder
	g.generateSelect(m, &sb)

	deferred, err := g.generateFrom(m, &sb)
	if err != nil {
		return "", err
	}

	g.generateWhere(m, deferred, &sb)
	g.generateExpressionList("GROUP BY", m.GroupBy, &sb)
	g.generateExpressionList("ORDER BY", m.OrderBy, &sb)

	return sb.String(), nil
}

// checkCapabilities rejects constructs the policy cannot express
// before any text is assembled.
func (g *Generator) checkCapabilities(m *model.QueryModel) error {
	for _, j := range m.Joins {
		if j.Type.Outer() && !g.policy.SupportsOuterJoin {
			return &UnsupportedConstructError{Feature: "outer-join", Dialect: g.policy.Name}
		}
	}
	return nil
}

// generateSelect emits the SELECT clause, one expression per line.
// Selection aliases are appended only when the policy supports aliased
// selections; the model keeps its aliases either way.
func (g *Generator) generateSelect(m *model.QueryModel, sb *strings.Builder) {
	sb.WriteString("SELECT")
	if m.Distinct {
		sb.WriteString(" DISTINCT")
	}
	sb.WriteString("\n")

	for i, sel := range m.Selections {
		if i == 0 {
			sb.WriteString(indentFirst)
		} else {
			sb.WriteString(indentNext)
		}
		sb.WriteString(sel.Expression)
		if sel.Alias != "" && g.policy.SupportsAliasedSelection {
			sb.WriteString(" AS ")
			sb.WriteString(sel.Alias)
		}
		sb.WriteString("\n")
	}
}

// generateFrom emits the FROM clause and returns the join predicates
// deferred to WHERE, if any.
//
// Without join edges the tables are emitted directly: a comma list
// when the policy allows it, otherwise each additional table is
// attached with an explicit conditionless JOIN. With join edges the
// whole clause is delegated to the join-graph resolver.
func (g *Generator) generateFrom(m *model.QueryModel, sb *strings.Builder) ([]string, error) {
	sb.WriteString("FROM\n")

	if len(m.Joins) == 0 {
		g.generateFromTables(m, sb)
		return nil, nil
	}

	plan, err := joingraph.Resolve(m.Joins, g.policy.EligibleForOn)
	if err != nil {
		return nil, err
	}

	sb.WriteString(indentFirst)
	sb.WriteString(plan.Anchor)
	sb.WriteString("\n")
	for _, step := range plan.Steps {
		sb.WriteString(indentJoin)
		if step.Type.Outer() {
			sb.WriteString(step.Type.String())
		} else {
			sb.WriteString("JOIN")
		}
		sb.WriteString(" ")
		sb.WriteString(step.Table)
		if step.On != "" {
			sb.WriteString(" ON ( ")
			sb.WriteString(step.On)
			sb.WriteString(" )")
		}
		sb.WriteString("\n")
	}

	return plan.Deferred, nil
}

// generateFromTables emits a join-free FROM clause over every table in
// the model, each on its own line.
func (g *Generator) generateFromTables(m *model.QueryModel, sb *strings.Builder) {
	for i, t := range m.Tables {
		switch {
		case i == 0:
			sb.WriteString(indentFirst)
		case g.policy.SupportsMultiTableCommaFrom:
			sb.WriteString(indentNext)
		default:
			sb.WriteString(indentJoin)
			sb.WriteString("JOIN ")
		}
		sb.WriteString(t.Ref())
		sb.WriteString("\n")
	}
}

// generateWhere emits a single WHERE clause holding first the join
// predicates the dialect deferred out of ON conditions, then the
// model's free-standing predicates. Each fragment is parenthesized and
// AND-joined on its own line. Nothing is emitted when both lists are
// empty.
func (g *Generator) generateWhere(m *model.QueryModel, deferred []string, sb *strings.Builder) {
	fragments := make([]string, 0, len(deferred)+len(m.Where))
	fragments = append(fragments, deferred...)
	fragments = append(fragments, m.Where...)
	if len(fragments) == 0 {
		return
	}

	sb.WriteString("WHERE\n")
	for i, f := range fragments {
		if i == 0 {
			sb.WriteString(indentWhere)
		} else {
			sb.WriteString(indentAnd)
		}
		sb.WriteString("( ")
		sb.WriteString(f)
		sb.WriteString(" )\n")
	}
}

// generateExpressionList emits a passthrough clause (GROUP BY,
// ORDER BY) with the shared list layout.
func (g *Generator) generateExpressionList(keyword string, exprs []string, sb *strings.Builder) {
	if len(exprs) == 0 {
		return
	}
	sb.WriteString(keyword)
	sb.WriteString("\n")
	for i, e := range exprs {
		if i == 0 {
			sb.WriteString(indentFirst)
		} else {
			sb.WriteString(indentNext)
		}
		sb.WriteString(e)
		sb.WriteString("\n")
	}
}
