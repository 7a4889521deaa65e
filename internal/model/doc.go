// Package model defines the dialect-neutral query description consumed
// by the SQL generator.
//
// A QueryModel is pure data: selections, tables, join edges, and
// free-standing predicates. It carries no dialect knowledge and no
// behavior beyond structural validation and canonical encoding. The
// generator and resolver read models but never mutate them.
package model
