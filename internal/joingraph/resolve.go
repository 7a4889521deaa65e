package joingraph

import (
	"sort"

	"github.com/metasql/metasql/internal/model"
)

// Step is one JOIN emitted by the resolver: the table being attached
// and, when the edge's predicate is ON-eligible, the condition to
// render inline.
type Step struct {
	// Table is the rendered reference of the newly attached table.
	Table string

	// Type is the join flavor requested by the resolved edge.
	Type model.JoinType

	// On is the inline join condition. Empty when the edge's predicate
	// was deferred to the WHERE clause instead.
	On string
}

// Plan is the ordered join chain produced by Resolve. It is transient:
// created and consumed inside one render call, never persisted.
type Plan struct {
	// Anchor is the rendered reference of the root table, the left
	// endpoint of the first edge after ordering.
	Anchor string

	// Steps are the JOINs to emit after the anchor, in order.
	Steps []Step

	// Deferred holds, in attachment order, the predicates that were
	// not eligible for an ON condition and must be rendered in the
	// WHERE clause. Every edge's predicate appears in exactly one of
	// Steps (as On) or Deferred.
	Deferred []string
}

// orderEdges returns a sorted copy of edges honoring the explicit join
// order hints: an edge with a non-empty OrderKey sorts before one with
// an empty key, two non-empty keys compare lexicographically, and two
// empty keys are equal. The sort is stable, so edges the comparator
// considers equal keep their original relative order.
func orderEdges(edges []model.JoinEdge) []model.JoinEdge {
	sorted := make([]model.JoinEdge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].OrderKey, sorted[j].OrderKey
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a < b
	})
	return sorted
}

// Resolve assembles an unordered collection of binary join edges into a
// single connected, ordered join chain.
//
// The eligible classifier decides per edge whether its predicate may
// render inline as the JOIN's ON condition (true) or must relocate to
// the WHERE clause (false). A nil classifier accepts every predicate.
//
// Algorithm: after ordering the edges, the left endpoint of the first
// edge becomes the anchor. The remaining edges are then scanned in
// order for the first one with exactly one endpoint already attached;
// that edge is oriented used-side-left, removed, its new endpoint
// attached, and the scan restarts from the head of the now shorter
// list. Restarting means a just-attached table is preferred over
// continuing the interrupted pass, which yields a depth-first,
// most-recently-attached-first join order. The worklist is an explicit
// loop over a shrinking slice, so resolution depth is not bounded by
// the call stack.
//
// Failure modes:
//   - an edge whose endpoints are both already attached means two
//     distinct edges connect the same pair: *DuplicateJoinPathError;
//   - a full pass that attaches nothing while edges remain means the
//     graph is disconnected from the anchor: *UnreachableJoinPathError
//     naming the first remaining edge.
//
// Resolve is a pure function of its input; it never mutates edges.
func Resolve(edges []model.JoinEdge, eligible func(predicate string) bool) (*Plan, error) {
	if len(edges) == 0 {
		return &Plan{}, nil
	}
	if eligible == nil {
		eligible = func(string) bool { return true }
	}

	remaining := orderEdges(edges)

	plan := &Plan{Anchor: remaining[0].Left.Ref()}
	used := map[string]bool{plan.Anchor: true}

	for len(remaining) > 0 {
		attached := false

		for i, edge := range remaining {
			left, right := edge.Left.Ref(), edge.Right.Ref()
			leftUsed, rightUsed := used[left], used[right]

			switch {
			case leftUsed && rightUsed:
				return nil, &DuplicateJoinPathError{TableA: left, TableB: right}
			case !leftUsed && !rightUsed:
				// Neither endpoint reachable yet; a later attachment
				// may connect it, leave it in the worklist.
				continue
			case rightUsed:
				// Flip so the attached endpoint is on the left.
				left, right = right, left
			}

			used[right] = true
			step := Step{Table: right, Type: edge.Type}
			if eligible(edge.Predicate) {
				step.On = edge.Predicate
			} else {
				plan.Deferred = append(plan.Deferred, edge.Predicate)
			}
			plan.Steps = append(plan.Steps, step)

			remaining = append(remaining[:i], remaining[i+1:]...)
			attached = true
			break // restart the scan from the head
		}

		if !attached {
			first := remaining[0]
			return nil, &UnreachableJoinPathError{
				TableA: first.Left.Ref(),
				TableB: first.Right.Ref(),
			}
		}
	}

	return plan, nil
}
