// Package symbol implements the dense id-indexed vectors and name tables
// shared by the environment and the linear module: IdVec (an append-only
// dense mapping from an id category to values), SymbolsTable (a name
// lookup keyed by identifier within a namespace), SymbolsTableData (the
// pairing of the two so each symbol has both a name and a dense id) and
// UniqueTableBuilder (a deduplicating interner for literals/constants).
package symbol

import "github.com/mna/werbolg/lang/id"

// IdVec is a dense, append-only vector indexed by an id category. Indices
// are assigned contiguously starting at 0, ids are never reused, Push
// returns the id that was just assigned, and Get is defined iff the id was
// previously returned by this vector.
type IdVec[ID id.Category, T any] struct {
	vec []T
}

// NewIdVec returns an empty IdVec.
func NewIdVec[ID id.Category, T any]() *IdVec[ID, T] {
	return &IdVec[ID, T]{}
}

// Len returns the number of elements pushed so far.
func (v *IdVec[ID, T]) Len() int { return len(v.vec) }

// NextID returns the id that the next Push would assign, without pushing.
func (v *IdVec[ID, T]) NextID() ID { return id.FromSliceLen[ID](v.vec) }

// Push appends val and returns the id assigned to it (the prior length).
func (v *IdVec[ID, T]) Push(val T) ID {
	newID := id.FromSliceLen[ID](v.vec)
	v.vec = append(v.vec, val)
	return newID
}

// Get returns the value at id, and whether it was defined.
func (v *IdVec[ID, T]) Get(i ID) (T, bool) {
	idx := int(i)
	if idx >= 0 && idx < len(v.vec) {
		return v.vec[idx], true
	}
	var zero T
	return zero, false
}

// MustGet is like Get but panics if the id is undefined; used internally by
// the VM where the id is known by construction (compiled program) to be
// valid.
func (v *IdVec[ID, T]) MustGet(i ID) T {
	val, ok := v.Get(i)
	if !ok {
		panic("symbol: id out of range")
	}
	return val
}

// Set overwrites the value at an already-assigned id.
func (v *IdVec[ID, T]) Set(i ID, val T) {
	v.vec[int(i)] = val
}

// Iter calls f for every (id, value) pair in order.
func (v *IdVec[ID, T]) Iter(f func(ID, T)) {
	for i, t := range v.vec {
		f(id.FromCollectionLen[ID](i), t)
	}
}

// IdVecAfter accumulates entries that should be grafted onto an existing
// IdVec starting at ofs: Push returns ids already remapped as if they had
// been pushed after ofs, so the caller never has to remap indices by hand.
type IdVecAfter[ID id.Category, T any] struct {
	vec *IdVec[ID, T]
	ofs ID
}

// NewIdVecAfter starts a new grafting accumulator whose ids will begin at
// firstID.
func NewIdVecAfter[ID id.Category, T any](firstID ID) *IdVecAfter[ID, T] {
	return &IdVecAfter[ID, T]{vec: NewIdVec[ID, T](), ofs: firstID}
}

// Push appends val and returns its remapped id (as if it had been pushed
// onto the vector this accumulator will eventually be concatenated to).
func (a *IdVecAfter[ID, T]) Push(val T) ID {
	local := a.vec.Push(val)
	return id.Remap(local, a.ofs)
}

// Concat appends after's accumulated entries onto v. after.ofs must equal
// v.Len(); on success v.Len() == old v.Len() + after's length, and the ids
// returned by after.Push are valid indices into v.
func (v *IdVec[ID, T]) Concat(after *IdVecAfter[ID, T]) {
	if v.Len() != int(after.ofs) {
		panic("symbol: IdVec.Concat offset mismatch")
	}
	v.vec = append(v.vec, after.vec.vec...)
}

// Remap produces a new IdVec with the same ids but values transformed by f.
func Remap[ID id.Category, T, U any](v *IdVec[ID, T], f func(T) U) *IdVec[ID, U] {
	out := NewIdVec[ID, U]()
	for _, t := range v.vec {
		out.Push(f(t))
	}
	return out
}
