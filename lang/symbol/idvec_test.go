package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/werbolg/lang/id"
	"github.com/mna/werbolg/lang/symbol"
)

func TestIdVecPushGet(t *testing.T) {
	v := symbol.NewIdVec[id.ConstantId, string]()

	require.Equal(t, id.ConstantId(0), v.NextID())
	id0 := v.Push("zero")
	require.Equal(t, id.ConstantId(0), id0)
	id1 := v.Push("one")
	require.Equal(t, id.ConstantId(1), id1)
	require.Equal(t, 2, v.Len())

	got, ok := v.Get(id0)
	require.True(t, ok)
	require.Equal(t, "zero", got)

	_, ok = v.Get(id.ConstantId(2))
	require.False(t, ok)
}

func TestIdVecMustGetPanicsOutOfRange(t *testing.T) {
	v := symbol.NewIdVec[id.ConstantId, string]()
	require.Panics(t, func() { v.MustGet(id.ConstantId(0)) })
}

func TestIdVecSet(t *testing.T) {
	v := symbol.NewIdVec[id.ConstantId, string]()
	cid := v.Push("before")
	v.Set(cid, "after")
	got, ok := v.Get(cid)
	require.True(t, ok)
	require.Equal(t, "after", got)
}

func TestIdVecIterOrder(t *testing.T) {
	v := symbol.NewIdVec[id.ConstantId, string]()
	v.Push("a")
	v.Push("b")
	v.Push("c")

	var ids []id.ConstantId
	var vals []string
	v.Iter(func(i id.ConstantId, s string) {
		ids = append(ids, i)
		vals = append(vals, s)
	})
	require.Equal(t, []id.ConstantId{0, 1, 2}, ids)
	require.Equal(t, []string{"a", "b", "c"}, vals)
}

func TestIdVecConcat(t *testing.T) {
	base := symbol.NewIdVec[id.ConstantId, string]()
	base.Push("a")
	base.Push("b")

	after := symbol.NewIdVecAfter[id.ConstantId, string](base.NextID())
	id2 := after.Push("c")
	require.Equal(t, id.ConstantId(2), id2)

	base.Concat(after)
	require.Equal(t, 3, base.Len())
	got, ok := base.Get(id2)
	require.True(t, ok)
	require.Equal(t, "c", got)
}

func TestIdVecConcatOffsetMismatchPanics(t *testing.T) {
	base := symbol.NewIdVec[id.ConstantId, string]()
	base.Push("a")

	after := symbol.NewIdVecAfter[id.ConstantId, string](id.ConstantId(5))
	after.Push("b")

	require.Panics(t, func() { base.Concat(after) })
}

func TestIdVecRemap(t *testing.T) {
	v := symbol.NewIdVec[id.ConstantId, int]()
	v.Push(1)
	v.Push(2)

	out := symbol.Remap(v, func(n int) string {
		return string(rune('a' + n))
	})
	require.Equal(t, 2, out.Len())
	got, ok := out.Get(id.ConstantId(0))
	require.True(t, ok)
	require.Equal(t, "b", got)
}
