package dialect

import (
	"fmt"
	"sort"
)

// Policy describes what one target database's SQL grammar allows.
//
// A Policy is a plain immutable value: capability flags plus a
// predicate classifier. New targets are added by constructing a new
// Policy value, not a new type. Policies hold no state and are safe to
// share across concurrently executing renders.
type Policy struct {
	// Name identifies the policy for lookup and diagnostics.
	Name string

	// SupportsOuterJoin reports whether the grammar can express
	// LEFT/RIGHT/FULL OUTER JOIN. When false, any outer-join request
	// fails generation.
	SupportsOuterJoin bool

	// SupportsAliasedSelection reports whether SELECT expressions may
	// carry output aliases. When false, aliases present in the model
	// are silently omitted from the output (the model keeps them).
	SupportsAliasedSelection bool

	// SupportsMultiTableCommaFrom reports whether multiple tables may
	// be listed comma-separated in FROM. When false, each additional
	// table is attached with an explicit conditionless JOIN.
	SupportsMultiTableCommaFrom bool

	// PredicateEligibleForOn classifies a join predicate: true means
	// the predicate may render inline as the JOIN's ON condition,
	// false means it must relocate to the WHERE clause.
	PredicateEligibleForOn func(predicate string) bool
}

// EligibleForOn reports whether the given join predicate may live in an
// ON clause under this policy. A policy without a classifier accepts
// every predicate.
func (p Policy) EligibleForOn(predicate string) bool {
	if p.PredicateEligibleForOn == nil {
		return true
	}
	return p.PredicateEligibleForOn(predicate)
}

// registry maps policy names to constructors. Policies are registered
// at package init and the set never changes afterward, so lookups are
// safe without locking.
var registry = map[string]func() Policy{}

func register(name string, ctor func() Policy) {
	registry[name] = ctor
}

// Lookup returns the policy registered under name.
func Lookup(name string) (Policy, error) {
	ctor, ok := registry[name]
	if !ok {
		return Policy{}, fmt.Errorf("unknown dialect %q (known: %v)", name, Names())
	}
	return ctor(), nil
}

// Names returns the registered policy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
