// Package harness runs SQL generation conformance scenarios.
//
// A scenario is a YAML file pairing an inline query model with a
// target dialect and an expected outcome: golden SQL text (compared
// via goldie) or a named error class. Scenarios keep the expected
// output of every dialect/model combination under version control
// without hand-writing a Go test per case.
package harness
