package dialect

func init() {
	register("ansi", ANSI)
}

// ANSI returns a permissive policy for targets with a standard SQL
// grammar: outer joins, selection aliases, and comma-separated FROM
// lists are all available, and every join predicate is eligible for an
// ON condition.
func ANSI() Policy {
	return Policy{
		Name:                        "ansi",
		SupportsOuterJoin:           true,
		SupportsAliasedSelection:    true,
		SupportsMultiTableCommaFrom: true,
		PredicateEligibleForOn:      nil, // everything is ON-eligible
	}
}
