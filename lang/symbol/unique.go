package symbol

import "github.com/mna/werbolg/lang/id"

// UniqueTableBuilder is a deduplicating interner: for every distinct T ever
// added, exactly one id exists, and equal values (by ==) share ids. It is
// used to build the constant pool during lowering, where repeated literals
// should not bloat the constants vector.
type UniqueTableBuilder[ID id.Category, T comparable] struct {
	byValue map[T]ID
	vec     *IdVec[ID, T]
}

// NewUniqueTableBuilder returns an empty interner.
func NewUniqueTableBuilder[ID id.Category, T comparable]() *UniqueTableBuilder[ID, T] {
	return &UniqueTableBuilder[ID, T]{
		byValue: make(map[T]ID),
		vec:     NewIdVec[ID, T](),
	}
}

// Add returns the existing id for data if it was already interned,
// otherwise interns it and returns the newly assigned id. add(x) == add(x)
// for any x.
func (u *UniqueTableBuilder[ID, T]) Add(data T) ID {
	if existing, ok := u.byValue[data]; ok {
		return existing
	}
	newID := u.vec.Push(data)
	u.byValue[data] = newID
	return newID
}

// Finalize discards the dedup index and returns the dense vector of
// interned values, ready to become a module's constant pool.
func (u *UniqueTableBuilder[ID, T]) Finalize() *IdVec[ID, T] {
	return u.vec
}
