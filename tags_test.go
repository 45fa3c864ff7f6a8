package pdfreport

import (
	"context"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/pdfreport/dataprovider"
)

func loadedSection(t *testing.T, id string, rows ...dataprovider.Row) *Section {
	t.Helper()
	s := NewSection(id, dataprovider.NewMemory(rows...), nil)
	_, err := s.ExecuteQuery(context.Background())
	require.NoError(t, err)
	return s
}

func TestVars(t *testing.T) {
	var v Vars
	assert.True(t, v.Set(" {user} ", "ada", false))
	assert.False(t, v.Set("  ", "x", true))

	got, ok := v.Get("USER")
	require.True(t, ok)
	assert.Equal(t, "ada", got)

	v.Set("User", "bob", false)
	got, _ = v.Get("user")
	assert.Equal(t, "ada", got)

	v.Set("user", "bob", true)
	got, _ = v.Get("user")
	assert.Equal(t, "bob", got)

	v.Set("b", 2, false)
	assert.Equal(t, []string{"USER", "B"}, v.Keys())
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, "USER", NormalizeVarKey("{ user }"))
}

func TestResolveConstants(t *testing.T) {
	rv := Resolver{
		Now:        time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
		PageIndex:  2,
		PageCount:  3,
		TotalAlias: "{nb}",
	}
	assert.Equal(t, "05/03/2024 14:07:09", rv.Resolve("{CURRENTDATE} {CURRENTTIME}"))
	assert.Equal(t, "page 2 of {nb} (3 so far)", rv.Resolve("page {pageindex} of {PageTotal} ({PAGECOUNT} so far)"))
	assert.Equal(t, "no tags", rv.Resolve("no tags"))
	assert.Equal(t, "{unknown} stays", rv.Resolve("{unknown} stays"))
}

func TestResolveRandomTags(t *testing.T) {
	rv := Resolver{Rand: rand.New(rand.NewSource(1))}
	low := 1
	for n := 1; n <= 8; n++ {
		out := rv.Resolve("{RAND" + strconv.Itoa(n) + "}")
		v, err := strconv.Atoi(out)
		require.NoError(t, err, out)
		assert.GreaterOrEqual(t, v, low)
		assert.Less(t, v, low*10)
		assert.Len(t, out, n)
		low *= 10
	}
}

func TestResolvePrecedence(t *testing.T) {
	var vars Vars
	vars.Set("name", "from var", false)
	vars.Set("a", 1, false)
	vars.Set("b", "2", false)

	active := loadedSection(t, "rows", dataprovider.NewRow("name", "from row", "city", "Lyon", "note", nil))
	active.YStart = 30

	rv := Resolver{Vars: &vars, Active: active, Sections: []*Section{active}}
	assert.Equal(t, "from var", rv.Resolve("{NAME}"))
	assert.Equal(t, "12", rv.Resolve("{a}{b}"))
	assert.Equal(t, "Lyon/Lyon", rv.Resolve("{city}/{CITY}"))
	assert.Equal(t, "[]", rv.Resolve("[{note}]"))
	assert.Equal(t, "y=30", rv.Resolve("y={Y}"))
	assert.Equal(t, "from row", rv.Resolve("{rows.name}"))
}

func TestResolveCollisions(t *testing.T) {
	ctx := context.Background()
	var vars Vars
	vars.Set("PAGEINDEX", "99", false)
	vars.Set("city", "from var", false)

	active := loadedSection(t, "x", dataprovider.NewRow("city", "from row", "f", "from section"))
	list := NewDatalist("x", dataprovider.NewMemory(dataprovider.NewRow("f", "from list", "g", "list only")))
	_, err := list.ExecuteQuery(ctx)
	require.NoError(t, err)

	rv := Resolver{
		PageIndex: 4,
		Vars:      &vars,
		Active:    active,
		Sections:  []*Section{active},
		Lists:     []*Datalist{list},
	}
	assert.Equal(t, "4", rv.Resolve("{PAGEINDEX}"), "constant over variable")
	assert.Equal(t, "from var", rv.Resolve("{CITY}"), "variable over row field")
	assert.Equal(t, "from section", rv.Resolve("{f}"), "row field")
	assert.Equal(t, "from section", rv.Resolve("{x.f}"), "section field over list field")
	assert.Equal(t, "list only", rv.Resolve("{x.g}"))
}

func TestResolveSectionsAndLists(t *testing.T) {
	ctx := context.Background()
	orders := loadedSection(t, "orders",
		dataprovider.NewRow("total", 12.5, "customer", "Acme"),
	)
	doc := loadedSection(t, "doc", dataprovider.NewRow("title", "Q1"))

	sales := NewDatalist("sales", dataprovider.NewMemory(dataprovider.NewRow("region", "North")))
	_, err := sales.ExecuteQuery(ctx)
	require.NoError(t, err)

	rv := Resolver{
		Active:   orders,
		Sections: []*Section{doc, orders},
		Lists:    []*Datalist{sales},
	}
	assert.Equal(t, "Acme 12.5", rv.Resolve("{customer} {total}"))
	assert.Equal(t, "Q1 / Acme", rv.Resolve("{doc.title} / {Orders.Customer}"))
	assert.Equal(t, "North", rv.Resolve("{sales.region}"))
	assert.Equal(t, "1 1", rv.Resolve("{doc.PAGEINDEX} {orders.pageindex}"))
	assert.Equal(t, "{title}", rv.Resolve("{title}"), "only the active row is unprefixed")
}

func TestReplaceFold(t *testing.T) {
	assert.Equal(t, "a-x-b-x", replaceFold("a-{T}-b-{t}", "{t}", "x"))
	assert.Equal(t, "abc", replaceFold("abc", "{t}", "x"))
	assert.Equal(t, "", replaceFold("", "{t}", "x"))
	assert.Equal(t, "x", replaceFold("{T}", "{t}", "x"))
}
