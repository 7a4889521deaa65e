// Package sqlgen renders dialect-neutral query models to SQL text.
//
// The generator orchestrates clause assembly and consults a
// dialect.Policy at every decision point: selection aliasing, FROM
// shape, join syntax, and predicate placement. Join assembly itself is
// delegated to package joingraph. Rendering either returns complete
// SQL text or a structured error, never both.
package sqlgen
