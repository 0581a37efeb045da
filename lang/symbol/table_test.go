package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/werbolg/lang/id"
	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/symbol"
)

func TestSymbolsTableDataAddDedup(t *testing.T) {
	d := symbol.NewSymbolsTableData[id.GlobalId, string]()

	gid, ok := d.Add(ident.Root, ident.FromString("foo"), "first")
	require.True(t, ok)
	require.Equal(t, id.GlobalId(0), gid)

	_, ok = d.Add(ident.Root, ident.FromString("foo"), "second")
	require.False(t, ok)

	// Failed add must not mutate state: the original value is untouched.
	got, ok := d.Vecdata.Get(gid)
	require.True(t, ok)
	require.Equal(t, "first", got)
}

func TestSymbolsTableDataInvariant(t *testing.T) {
	d := symbol.NewSymbolsTableData[id.GlobalId, string]()
	names := []string{"a", "b", "c"}
	for _, n := range names {
		_, ok := d.Add(ident.Root, ident.FromString(n), n)
		require.True(t, ok)
	}

	for _, n := range names {
		gid, ok := d.Table.Get(ident.FromString(n))
		require.True(t, ok)
		v, ok := d.Vecdata.Get(gid)
		require.True(t, ok)
		require.Equal(t, n, v)
	}
}

func TestSymbolsTableDataNamespaces(t *testing.T) {
	d := symbol.NewSymbolsTableData[id.GlobalId, string]()
	ns := ident.NewNamespace(ident.FromString("math"))

	require.NoError(t, d.CreateNamespace(ns))
	require.Error(t, d.CreateNamespace(ns))

	gid, ok := d.Add(ns, ident.FromString("pi"), "3.14")
	require.True(t, ok)

	// Qualified lookup: "math.pi", distinct from an unqualified "pi".
	qid, ok := d.Table.Get(ident.FromString("math.pi"))
	require.True(t, ok)
	require.Equal(t, gid, qid)

	_, ok = d.Table.Get(ident.FromString("pi"))
	require.False(t, ok)
}

func TestSymbolsTableDataAddAnon(t *testing.T) {
	d := symbol.NewSymbolsTableData[id.GlobalId, string]()
	id0 := d.AddAnon("anon0")
	id1 := d.AddAnon("anon1")
	require.NotEqual(t, id0, id1)

	v, ok := d.Vecdata.Get(id0)
	require.True(t, ok)
	require.Equal(t, "anon0", v)
}
