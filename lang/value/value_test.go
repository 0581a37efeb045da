package value_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/werbolg/lang/id"
	"github.com/mna/werbolg/lang/ir"
	"github.com/mna/werbolg/lang/value"
)

func TestKindStrings(t *testing.T) {
	require.Equal(t, "unit", value.Unit{}.Kind().String())
	require.Equal(t, "bool", value.Bool(true).Kind().String())
	require.Equal(t, "number", value.NewNumber(1).Kind().String())
	require.Equal(t, "list", value.NewList(nil).Kind().String())
}

func TestFromLiteral(t *testing.T) {
	require.Equal(t, value.Bool(true), value.FromLiteral(ir.Literal{Kind: ir.LitBool, Bool: true}))
	require.Equal(t, value.String("hi"), value.FromLiteral(ir.Literal{Kind: ir.LitString, Str: "hi"}))
	require.Equal(t, value.Bytes("ab"), value.FromLiteral(ir.Literal{Kind: ir.LitBytes, Bytes: "ab"}))

	n := value.FromLiteral(ir.Literal{Kind: ir.LitNumber, Str: "123"})
	num, ok := n.(value.Number)
	require.True(t, ok)
	require.Equal(t, big.NewInt(123), num.V)
}

func TestFromLiteralInvalidNumberPanics(t *testing.T) {
	require.Panics(t, func() {
		value.FromLiteral(ir.Literal{Kind: ir.LitNumber, Str: "not-a-number"})
	})
}

func TestNewNumberFromString(t *testing.T) {
	n, ok := value.NewNumberFromString("42")
	require.True(t, ok)
	require.Equal(t, big.NewInt(42), n.V)

	_, ok = value.NewNumberFromString("nope")
	require.False(t, ok)
}

func TestFunRefConstructors(t *testing.T) {
	f := value.FunRefToFun(id.FunId(3))
	require.False(t, f.IsNative)
	require.Equal(t, id.FunId(3), f.Fun)

	n := value.FunRefToNative(id.NifId(7))
	require.True(t, n.IsNative)
	require.Equal(t, id.NifId(7), n.Native)
}

func TestNIFIsMut(t *testing.T) {
	pure := value.NIF{Pure: func(args []value.Value) (value.Value, error) { return value.Unit{}, nil }}
	require.False(t, pure.IsMut())

	mut := value.NIF{Mut: func(host value.MutHost, args []value.Value) (value.Value, error) { return value.Unit{}, nil }}
	require.True(t, mut.IsMut())
}

func TestListString(t *testing.T) {
	l := value.NewList([]value.Value{value.NewNumber(1), value.NewNumber(2)})
	require.Equal(t, "(1 2)", l.String())
}
