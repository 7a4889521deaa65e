package dialect

import "regexp"

// invalidJoinOperators detects operators Hive cannot express inside a
// join's ON condition. Hive only supports equality there; anything with
// a negation, inequality, or null test must move to the WHERE clause.
var invalidJoinOperators = regexp.MustCompile(`(?i)[!]|[>]|[<]|is null|is not null`)

func init() {
	register("hive", Hive)
}

// Hive returns the policy for Apache Hive's restrictive join grammar:
//
//   - no outer joins,
//   - no selection aliases (aliases in the model are dropped from the
//     output),
//   - no comma-separated multi-table FROM (tables are connected with
//     explicit JOIN keywords),
//   - only equality predicates are eligible for ON conditions; all
//     others are deferred to WHERE.
func Hive() Policy {
	return Policy{
		Name:                        "hive",
		SupportsOuterJoin:           false,
		SupportsAliasedSelection:    false,
		SupportsMultiTableCommaFrom: false,
		PredicateEligibleForOn: func(predicate string) bool {
			return !invalidJoinOperators.MatchString(predicate)
		},
	}
}
