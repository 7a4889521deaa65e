package model

// QueryModel is a dialect-neutral description of one relational query.
//
// A QueryModel carries only what the query says, never how a target
// database will spell it: selected expressions, the tables involved,
// the join edges connecting them, and free-standing predicates. All
// dialect decisions (alias support, join syntax, predicate placement)
// happen at render time and never modify the model.
//
// Ownership: the caller builds and owns the model. Render calls read it
// and must never mutate it, so distinct renders over the same model may
// run concurrently.
type QueryModel struct {
	// Distinct requests SELECT DISTINCT semantics.
	Distinct bool

	// Selections are the projected expressions, in output order.
	Selections []Selection

	// Tables are the referenced tables. Aliases must be unique within
	// the model (an empty alias means the table is identified by name).
	Tables []TableRef

	// Joins are the binary join edges between tables. Each edge's
	// endpoints must resolve to entries in Tables, and at most one edge
	// may connect any unordered table pair.
	Joins []JoinEdge

	// Where holds free-standing predicates that live in the WHERE
	// clause regardless of join resolution.
	Where []string

	// GroupBy and OrderBy are passthrough expression lists.
	GroupBy []string
	OrderBy []string
}

// Selection is one projected expression with an optional output alias.
// Whether the alias appears in generated SQL is a dialect decision;
// the model always retains it.
type Selection struct {
	Expression string
	Alias      string
}

// TableRef identifies a table by name with an optional alias.
type TableRef struct {
	Name  string
	Alias string
}

// Ref returns the table's rendered identity: "name" or "name alias".
// This string is the identity used by join resolution and by error
// values naming an offending table.
func (t TableRef) Ref() string {
	if t.Alias == "" {
		return t.Name
	}
	return t.Name + " " + t.Alias
}

// JoinType is the requested join flavor for an edge.
type JoinType int

const (
	// JoinInner is the default join type.
	JoinInner JoinType = iota
	// JoinLeftOuter requests a LEFT OUTER JOIN.
	JoinLeftOuter
	// JoinRightOuter requests a RIGHT OUTER JOIN.
	JoinRightOuter
	// JoinFullOuter requests a FULL OUTER JOIN.
	JoinFullOuter
)

// String returns the SQL keyword sequence for this join type.
func (t JoinType) String() string {
	switch t {
	case JoinLeftOuter:
		return "LEFT OUTER JOIN"
	case JoinRightOuter:
		return "RIGHT OUTER JOIN"
	case JoinFullOuter:
		return "FULL OUTER JOIN"
	default:
		return "JOIN"
	}
}

// Outer reports whether the join type requires outer-join support from
// the target dialect.
func (t JoinType) Outer() bool {
	return t == JoinLeftOuter || t == JoinRightOuter || t == JoinFullOuter
}

// JoinEdge is a binary join relation between two tables.
//
// An edge is stored with an orientation (Left, Right) but is
// conceptually undirected: the resolver may flip it when attaching the
// edge to the join chain, so that the already-connected endpoint always
// sits on the left of the emitted JOIN.
type JoinEdge struct {
	Left  TableRef
	Right TableRef

	// Predicate is the join condition text. Whether it may live in the
	// JOIN's ON clause or must relocate to WHERE is a dialect decision.
	Predicate string

	// OrderKey is an optional explicit ordering hint. Edges with a
	// non-empty key are resolved before edges without one; non-empty
	// keys compare lexicographically.
	OrderKey string

	// Type is the requested join flavor. Defaults to JoinInner.
	Type JoinType
}
