// Package joingraph assembles unordered binary join edges into an
// ordered, connected join chain.
//
// The resolver is a pure function: edges plus a predicate classifier
// in, an ordered Plan (or a structural error) out. It owns the only
// algorithmically risky part of SQL generation: choosing the anchor
// table, growing the chain depth-first with explicit ordering hints
// honored, and deciding per edge whether its predicate stays in the
// JOIN's ON condition or is deferred to the WHERE clause.
package joingraph
