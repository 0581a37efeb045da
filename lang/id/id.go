// Package id implements the dense integer identifier domain shared by every
// id category (GlobalId, NifId, FunId, ConstantId, InstructionAddress,
// LocalBindIndex, ParamBindIndex). The raw integer domain is shared, but the
// category types are not interchangeable: each category is declared as a
// distinct named type over the same underlying uint32, so the Go type
// system prevents mixing, say, a FunId where a ConstantId is expected, at
// zero runtime cost. The IdRemapper capability (every category satisfies
// the Category constraint below) is what lets lang/symbol's IdVec be
// generic over the id category while remaining type-safe.
package id

// Id is the un-categorized dense integer domain. Every id category is a
// named type whose underlying representation is Id (uint32).
type Id uint32

// Category is the constraint satisfied by every id category type: a named
// type whose underlying representation is the shared Id domain. This is
// the Go-generics expression of the spec's IdRemapper capability: `ID(i)`
// and `Id(v)` conversions are the uncat/cat operations.
type Category interface {
	~uint32
}

// FromSliceLen returns the next free id for a slice of the given length,
// i.e. the id that a Push would assign next.
func FromSliceLen[ID Category, T any](v []T) ID { return ID(len(v)) }

// FromCollectionLen returns the id for a zero-based position in a
// collection, e.g. when enumerating an existing IdVec.
func FromCollectionLen[ID Category](i int) ID { return ID(i) }

// Remap grafts an id produced relative to a vector starting at 0 onto a
// vector that starts at base, used by IdVec.Concat to append one IdVec
// after another.
func Remap[ID Category](i, base ID) ID { return i + base }

// GlobalId identifies a global value registered in an Environment.
type GlobalId uint32

// NifId identifies a NIF registered in an Environment.
type NifId uint32

// FunId identifies a compiled (interpreted) function in a linear module's
// function table.
type FunId uint32

// ConstantId identifies a literal in a linear module's constant pool.
type ConstantId uint32

// InstructionAddress identifies a position in a linear module's instruction
// stream.
type InstructionAddress uint32

// Add returns the instruction address shifted by delta, used for jumps.
func (i InstructionAddress) Add(delta int32) InstructionAddress {
	return InstructionAddress(int32(i) + delta)
}

// LocalBindIndex identifies a local variable slot within a call frame.
type LocalBindIndex uint32

// ParamBindIndex identifies a parameter slot within a call frame.
type ParamBindIndex uint32
