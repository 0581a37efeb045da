package id_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/werbolg/lang/id"
)

func TestFromSliceLen(t *testing.T) {
	var s []string
	require.Equal(t, id.FunId(0), id.FromSliceLen[id.FunId](s))
	s = append(s, "a", "b")
	require.Equal(t, id.FunId(2), id.FromSliceLen[id.FunId](s))
}

func TestFromCollectionLen(t *testing.T) {
	require.Equal(t, id.ConstantId(3), id.FromCollectionLen[id.ConstantId](3))
}

func TestRemap(t *testing.T) {
	require.Equal(t, id.GlobalId(7), id.Remap(id.GlobalId(2), id.GlobalId(5)))
}

func TestInstructionAddressAdd(t *testing.T) {
	a := id.InstructionAddress(10)
	require.Equal(t, id.InstructionAddress(11), a.Add(1))
	require.Equal(t, id.InstructionAddress(5), a.Add(-5))
}
