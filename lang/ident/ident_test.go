package ident_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/werbolg/lang/ident"
)

func TestIdentEquality(t *testing.T) {
	a := ident.FromString("foo")
	b := ident.FromString("foo")
	c := ident.FromString("Foo")
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.True(t, a.Matches("foo"))
	require.False(t, a.Matches("Foo"))
}

func TestNamespacePathWithIdent(t *testing.T) {
	ns := ident.NewNamespace(ident.FromString("a"), ident.FromString("b"))
	extended := ns.PathWithIdent(ident.FromString("c"))
	require.Equal(t, "a.b.c", extended.String())
	// The receiver is not modified.
	require.Equal(t, "a.b", ns.String())
}

func TestNamespaceRootIsEmpty(t *testing.T) {
	require.Equal(t, "", ident.Root.String())
	require.Empty(t, ident.Root.Path())
}

func TestNamespaceEqual(t *testing.T) {
	a := ident.NewNamespace(ident.FromString("x"), ident.FromString("y"))
	b := ident.NewNamespace(ident.FromString("x"), ident.FromString("y"))
	c := ident.NewNamespace(ident.FromString("x"))
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, ident.Root.Equal(a))
}
