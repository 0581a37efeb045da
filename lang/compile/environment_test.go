package compile_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/werbolg/lang/compile"
	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/symbol"
)

func TestEnvironmentCreateNamespaceDuplicate(t *testing.T) {
	env := compile.NewEnvironment[int, string]()
	ns := ident.NewNamespace(ident.FromString("math"))
	require.NoError(t, env.CreateNamespace(ns))
	require.Error(t, env.CreateNamespace(ns))

	var nsErr *symbol.NamespaceError
	require.ErrorAs(t, env.CreateNamespace(ns), &nsErr)
}

func TestEnvironmentAddNifAndGlobal(t *testing.T) {
	env := compile.NewEnvironment[int, string]()

	nifID := env.AddNif(ident.Root, ident.FromString("+"), 42)
	globalID := env.AddGlobal(ident.Root, ident.FromString("version"), "1.0")

	gid, ok := env.LookupGlobal(ident.Root, ident.FromString("version"))
	require.True(t, ok)
	require.Equal(t, globalID, gid)

	globals, nifs := env.Finalize()
	n, ok := nifs.Get(nifID)
	require.True(t, ok)
	require.Equal(t, 42, n)

	g, ok := globals.Get(globalID)
	require.True(t, ok)
	require.Equal(t, "1.0", g)
}

func TestEnvironmentAddNifDuplicatePanics(t *testing.T) {
	env := compile.NewEnvironment[int, string]()
	env.AddNif(ident.Root, ident.FromString("+"), 1)
	require.Panics(t, func() { env.AddNif(ident.Root, ident.FromString("+"), 2) })
}

func TestEnvironmentAddGlobalDuplicatePanics(t *testing.T) {
	env := compile.NewEnvironment[int, string]()
	env.AddGlobal(ident.Root, ident.FromString("x"), "a")
	require.Panics(t, func() { env.AddGlobal(ident.Root, ident.FromString("x"), "b") })
}

func TestEnvironmentLookupGlobalMissing(t *testing.T) {
	env := compile.NewEnvironment[int, string]()
	_, ok := env.LookupGlobal(ident.Root, ident.FromString("nope"))
	require.False(t, ok)
}
