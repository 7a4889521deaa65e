package joingraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metasql/metasql/internal/model"
)

func table(name string) model.TableRef {
	return model.TableRef{Name: name}
}

func edge(left, right, predicate, orderKey string) model.JoinEdge {
	return model.JoinEdge{
		Left:      table(left),
		Right:     table(right),
		Predicate: predicate,
		OrderKey:  orderKey,
	}
}

// attachOrder returns the anchor followed by each step's table.
func attachOrder(p *Plan) []string {
	order := []string{p.Anchor}
	for _, s := range p.Steps {
		order = append(order, s.Table)
	}
	return order
}

func TestResolve_NoEdges(t *testing.T) {
	plan, err := Resolve(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Anchor)
	assert.Empty(t, plan.Steps)
	assert.Empty(t, plan.Deferred)
}

func TestResolve_SingleEdge(t *testing.T) {
	plan, err := Resolve([]model.JoinEdge{edge("a", "b", "a.id = b.a_id", "")}, nil)
	require.NoError(t, err)

	assert.Equal(t, "a", plan.Anchor)
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "b", plan.Steps[0].Table)
	assert.Equal(t, "a.id = b.a_id", plan.Steps[0].On)
	assert.Empty(t, plan.Deferred)
}

func TestResolve_OrderKeyOrdering(t *testing.T) {
	// Edges A-B(key "2"), A-C(no key), A-D(key "1") sort as
	// A-D, A-B, A-C; anchor is A and the attach order is A, D, B, C.
	edges := []model.JoinEdge{
		edge("a", "b", "a.id = b.a_id", "2"),
		edge("a", "c", "a.id = c.a_id", ""),
		edge("a", "d", "a.id = d.a_id", "1"),
	}

	plan, err := Resolve(edges, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d", "b", "c"}, attachOrder(plan))
}

func TestResolve_EmptyKeysKeepInputOrder(t *testing.T) {
	// The comparator treats two empty keys as equal; the stable sort
	// must preserve their original relative order.
	edges := []model.JoinEdge{
		edge("a", "c", "a.id = c.a_id", ""),
		edge("a", "b", "a.id = b.a_id", ""),
	}

	plan, err := Resolve(edges, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, attachOrder(plan))
}

func TestResolve_FlipsOrientation(t *testing.T) {
	// A chain supplied tail-first: every later edge reaches the used
	// set through its right endpoint and must be flipped on attach.
	edges := []model.JoinEdge{
		edge("c", "d", "c.id = d.c_id", ""),
		edge("b", "c", "b.id = c.b_id", ""),
		edge("a", "b", "a.id = b.a_id", ""),
	}

	plan, err := Resolve(edges, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d", "b", "a"}, attachOrder(plan))
}

func TestResolve_RestartPrefersNewAttachments(t *testing.T) {
	// After each attachment the scan restarts from the head of the
	// remaining list, so an edge that just became attachable through
	// the newest table wins over continuing the interrupted pass. The
	// chain comes out depth-first: A,B,C,D,E.
	edges := []model.JoinEdge{
		edge("a", "b", "a.id = b.a_id", "1"),
		edge("b", "c", "b.id = c.b_id", ""),
		edge("c", "d", "c.id = d.c_id", ""),
		edge("d", "e", "d.id = e.d_id", ""),
	}

	plan, err := Resolve(edges, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, attachOrder(plan))
}

func TestResolve_TreeInAnyOrder(t *testing.T) {
	// For a tree-shaped graph (N tables, N-1 edges), resolution must
	// use every table exactly once and never fail, whatever the edge
	// order. The tree: a-b, a-c, b-d, b-e.
	tree := []model.JoinEdge{
		edge("a", "b", "a.id = b.a_id", ""),
		edge("a", "c", "a.id = c.a_id", ""),
		edge("b", "d", "b.id = d.b_id", ""),
		edge("b", "e", "b.id = e.b_id", ""),
	}
	permutations := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
		{3, 0, 1, 2},
	}

	for _, perm := range permutations {
		edges := make([]model.JoinEdge, 0, len(tree))
		for _, i := range perm {
			edges = append(edges, tree[i])
		}

		plan, err := Resolve(edges, nil)
		require.NoError(t, err, "permutation %v", perm)

		seen := map[string]int{plan.Anchor: 1}
		for _, s := range plan.Steps {
			seen[s.Table]++
		}
		assert.Len(t, seen, 5, "permutation %v", perm)
		for table, count := range seen {
			assert.Equal(t, 1, count, "table %s in permutation %v", table, perm)
		}
	}
}

func TestResolve_DuplicatePath(t *testing.T) {
	// Two distinct edges over the same unordered pair, opposite
	// orientations.
	edges := []model.JoinEdge{
		edge("a", "b", "a.id = b.a_id", ""),
		edge("b", "a", "b.x = a.x", ""),
	}

	plan, err := Resolve(edges, nil)
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.True(t, IsDuplicateJoinPath(err))

	var dup *DuplicateJoinPathError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "b", dup.TableA)
	assert.Equal(t, "a", dup.TableB)
}

func TestResolve_UnreachablePath(t *testing.T) {
	// Two disconnected components: {a,b} and {c,d}.
	edges := []model.JoinEdge{
		edge("a", "b", "a.id = b.a_id", ""),
		edge("c", "d", "c.id = d.c_id", ""),
	}

	plan, err := Resolve(edges, nil)
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.True(t, IsUnreachableJoinPath(err))

	var unreachable *UnreachableJoinPathError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, "c", unreachable.TableA)
	assert.Equal(t, "d", unreachable.TableB)
}

func TestResolve_UsesAliasedIdentity(t *testing.T) {
	// Self-join: same table name under two aliases is two distinct
	// graph nodes.
	e := model.JoinEdge{
		Left:      model.TableRef{Name: "employees", Alias: "e"},
		Right:     model.TableRef{Name: "employees", Alias: "mgr"},
		Predicate: "e.manager_id = mgr.id",
	}

	plan, err := Resolve([]model.JoinEdge{e}, nil)
	require.NoError(t, err)
	assert.Equal(t, "employees e", plan.Anchor)
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "employees mgr", plan.Steps[0].Table)
}

func TestResolve_PredicatePartition(t *testing.T) {
	// Every predicate lands in exactly one of ON or Deferred.
	eligible := func(p string) bool { return p != "defer me" }
	edges := []model.JoinEdge{
		edge("a", "b", "a.id = b.a_id", ""),
		edge("b", "c", "defer me", ""),
		edge("c", "d", "c.id = d.c_id", ""),
	}

	plan, err := Resolve(edges, eligible)
	require.NoError(t, err)

	var onCount int
	for _, s := range plan.Steps {
		if s.On != "" {
			onCount++
		}
	}
	assert.Equal(t, len(edges), onCount+len(plan.Deferred))
	assert.Equal(t, []string{"defer me"}, plan.Deferred)
	for _, s := range plan.Steps {
		assert.NotEqual(t, "defer me", s.On)
	}
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	edges := []model.JoinEdge{
		edge("b", "c", "b.id = c.b_id", ""),
		edge("a", "b", "a.id = b.a_id", "1"),
	}
	original := make([]model.JoinEdge, len(edges))
	copy(original, edges)

	_, err := Resolve(edges, nil)
	require.NoError(t, err)
	assert.Equal(t, original, edges)
}
