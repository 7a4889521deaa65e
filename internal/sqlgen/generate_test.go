package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metasql/metasql/internal/dialect"
	"github.com/metasql/metasql/internal/joingraph"
	"github.com/metasql/metasql/internal/model"
)

// orderReport is the shared fixture: orders joined to customers (ON-
// eligible equality) and products (inequality, deferred under Hive).
func orderReport() *model.QueryModel {
	return &model.QueryModel{
		Distinct: true,
		Selections: []model.Selection{
			{Expression: "o.order_id", Alias: "order_id"},
			{Expression: "c.name", Alias: "customer"},
			{Expression: "p.sku"},
		},
		Tables: []model.TableRef{
			{Name: "orders", Alias: "o"},
			{Name: "customers", Alias: "c"},
			{Name: "products", Alias: "p"},
		},
		Joins: []model.JoinEdge{
			{
				Left:      model.TableRef{Name: "orders", Alias: "o"},
				Right:     model.TableRef{Name: "customers", Alias: "c"},
				Predicate: "o.customer_id = c.id",
				OrderKey:  "1",
			},
			{
				Left:      model.TableRef{Name: "orders", Alias: "o"},
				Right:     model.TableRef{Name: "products", Alias: "p"},
				Predicate: "o.qty > p.min_qty",
				OrderKey:  "2",
			},
		},
		Where:   []string{"o.status = 'open'"},
		OrderBy: []string{"o.order_id"},
	}
}

func TestRender_SingleTableNoJoins(t *testing.T) {
	m := &model.QueryModel{
		Selections: []model.Selection{{Expression: "o.order_id"}},
		Tables:     []model.TableRef{{Name: "orders", Alias: "o"}},
	}

	sql, err := Render(m, dialect.Hive())
	require.NoError(t, err)

	assert.Equal(t, "SELECT\n"+
		"          o.order_id\n"+
		"FROM\n"+
		"          orders o\n", sql)
}

func TestRender_MultiTableNoJoins_ExplicitJoin(t *testing.T) {
	// Without comma-FROM support every additional table is attached
	// with a conditionless JOIN. Each remaining table appears once.
	m := &model.QueryModel{
		Selections: []model.Selection{{Expression: "o.order_id"}},
		Tables: []model.TableRef{
			{Name: "orders", Alias: "o"},
			{Name: "customers", Alias: "c"},
			{Name: "products", Alias: "p"},
		},
	}

	sql, err := Render(m, dialect.Hive())
	require.NoError(t, err)

	assert.Equal(t, "SELECT\n"+
		"          o.order_id\n"+
		"FROM\n"+
		"          orders o\n"+
		"          JOIN customers c\n"+
		"          JOIN products p\n", sql)
}

func TestRender_MultiTableNoJoins_CommaList(t *testing.T) {
	m := &model.QueryModel{
		Selections: []model.Selection{{Expression: "o.order_id"}},
		Tables: []model.TableRef{
			{Name: "orders", Alias: "o"},
			{Name: "customers", Alias: "c"},
		},
	}

	sql, err := Render(m, dialect.ANSI())
	require.NoError(t, err)

	assert.Equal(t, "SELECT\n"+
		"          o.order_id\n"+
		"FROM\n"+
		"          orders o\n"+
		"         ,customers c\n", sql)
}

func TestRender_HiveOrderReport(t *testing.T) {
	sql, err := Render(orderReport(), dialect.Hive())
	require.NoError(t, err)

	assert.Equal(t, "SELECT DISTINCT\n"+
		"          o.order_id\n"+
		"         ,c.name\n"+
		"         ,p.sku\n"+
		"FROM\n"+
		"          orders o\n"+
		"          JOIN customers c ON ( o.customer_id = c.id )\n"+
		"          JOIN products p\n"+
		"WHERE\n"+
		"          ( o.qty > p.min_qty )\n"+
		"      AND ( o.status = 'open' )\n"+
		"ORDER BY\n"+
		"          o.order_id\n", sql)
}

func TestRender_ANSIOrderReport(t *testing.T) {
	sql, err := Render(orderReport(), dialect.ANSI())
	require.NoError(t, err)

	assert.Equal(t, "SELECT DISTINCT\n"+
		"          o.order_id AS order_id\n"+
		"         ,c.name AS customer\n"+
		"         ,p.sku\n"+
		"FROM\n"+
		"          orders o\n"+
		"          JOIN customers c ON ( o.customer_id = c.id )\n"+
		"          JOIN products p ON ( o.qty > p.min_qty )\n"+
		"WHERE\n"+
		"          ( o.status = 'open' )\n"+
		"ORDER BY\n"+
		"          o.order_id\n", sql)
}

func TestRender_AliasesDroppedButModelKeepsThem(t *testing.T) {
	m := orderReport()
	sql, err := Render(m, dialect.Hive())
	require.NoError(t, err)

	assert.NotContains(t, sql, " AS ")
	// Render is non-destructive: the model still reports its aliases.
	assert.Equal(t, "order_id", m.Selections[0].Alias)
	assert.Equal(t, "customer", m.Selections[1].Alias)
}

func TestRender_OuterJoinDenied(t *testing.T) {
	m := orderReport()
	m.Joins[0].Type = model.JoinLeftOuter

	sql, err := Render(m, dialect.Hive())
	require.Error(t, err)
	assert.Empty(t, sql, "no partial text on failure")
	assert.True(t, IsUnsupportedConstruct(err))

	var uc *UnsupportedConstructError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, "outer-join", uc.Feature)
	assert.Equal(t, "hive", uc.Dialect)
}

func TestRender_OuterJoinSupported(t *testing.T) {
	m := &model.QueryModel{
		Selections: []model.Selection{
			{Expression: "c.name"},
			{Expression: "o.total"},
		},
		Tables: []model.TableRef{
			{Name: "customers", Alias: "c"},
			{Name: "orders", Alias: "o"},
		},
		Joins: []model.JoinEdge{
			{
				Left:      model.TableRef{Name: "customers", Alias: "c"},
				Right:     model.TableRef{Name: "orders", Alias: "o"},
				Predicate: "c.id = o.customer_id",
				Type:      model.JoinLeftOuter,
			},
		},
	}

	sql, err := Render(m, dialect.ANSI())
	require.NoError(t, err)

	assert.Equal(t, "SELECT\n"+
		"          c.name\n"+
		"         ,o.total\n"+
		"FROM\n"+
		"          customers c\n"+
		"          LEFT OUTER JOIN orders o ON ( c.id = o.customer_id )\n", sql)
}

func TestRender_NilClassifierKeepsPredicatesInline(t *testing.T) {
	m := orderReport()

	// A policy without a classifier accepts every predicate, so even
	// the inequality join renders inline and nothing moves to WHERE
	// beyond the model's own predicate.
	p := dialect.Policy{
		Name:                     "permissive",
		SupportsOuterJoin:        true,
		SupportsAliasedSelection: true,
	}
	sql, err := Render(m, p)
	require.NoError(t, err)

	assert.Contains(t, sql, "JOIN products p ON ( o.qty > p.min_qty )")
	assert.NotContains(t, sql, "( o.qty > p.min_qty )\n      AND")
}

func TestRender_DuplicateJoinPath(t *testing.T) {
	m := orderReport()
	m.Joins = append(m.Joins, model.JoinEdge{
		Left:      model.TableRef{Name: "customers", Alias: "c"},
		Right:     model.TableRef{Name: "orders", Alias: "o"},
		Predicate: "c.id = o.customer_id",
	})

	sql, err := Render(m, dialect.Hive())
	require.Error(t, err)
	assert.Empty(t, sql)
	assert.True(t, joingraph.IsDuplicateJoinPath(err))
}

func TestRender_UnreachableJoinPath(t *testing.T) {
	m := orderReport()
	m.Tables = append(m.Tables,
		model.TableRef{Name: "regions", Alias: "r"},
		model.TableRef{Name: "zones", Alias: "z"},
	)
	m.Joins = append(m.Joins, model.JoinEdge{
		Left:      model.TableRef{Name: "regions", Alias: "r"},
		Right:     model.TableRef{Name: "zones", Alias: "z"},
		Predicate: "r.zone_id = z.id",
	})

	sql, err := Render(m, dialect.Hive())
	require.Error(t, err)
	assert.Empty(t, sql)
	assert.True(t, joingraph.IsUnreachableJoinPath(err))

	var unreachable *joingraph.UnreachableJoinPathError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, "regions r", unreachable.TableA)
	assert.Equal(t, "zones z", unreachable.TableB)
}

func TestRender_GroupByPassthrough(t *testing.T) {
	m := &model.QueryModel{
		Selections: []model.Selection{
			{Expression: "c.region"},
			{Expression: "COUNT(*)", Alias: "orders"},
		},
		Tables:  []model.TableRef{{Name: "customers", Alias: "c"}},
		GroupBy: []string{"c.region", "c.tier"},
	}

	sql, err := Render(m, dialect.Hive())
	require.NoError(t, err)

	assert.Equal(t, "SELECT\n"+
		"          c.region\n"+
		"         ,COUNT(*)\n"+
		"FROM\n"+
		"          customers c\n"+
		"GROUP BY\n"+
		"          c.region\n"+
		"         ,c.tier\n", sql)
}

func TestRender_FreeStandingWhereOnly(t *testing.T) {
	m := &model.QueryModel{
		Selections: []model.Selection{{Expression: "o.order_id"}},
		Tables:     []model.TableRef{{Name: "orders", Alias: "o"}},
		Where:      []string{"o.status = 'open'", "o.total > 100"},
	}

	sql, err := Render(m, dialect.Hive())
	require.NoError(t, err)

	assert.Equal(t, "SELECT\n"+
		"          o.order_id\n"+
		"FROM\n"+
		"          orders o\n"+
		"WHERE\n"+
		"          ( o.status = 'open' )\n"+
		"      AND ( o.total > 100 )\n", sql)
}

func TestRender_SharedGeneratorIsConcurrencySafe(t *testing.T) {
	gen := New(dialect.Hive())
	m := orderReport()

	want, err := gen.Render(m)
	require.NoError(t, err)

	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() {
			sql, renderErr := gen.Render(m)
			assert.NoError(t, renderErr)
			done <- sql
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-done)
	}
}
