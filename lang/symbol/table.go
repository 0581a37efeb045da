package symbol

import (
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/mna/werbolg/lang/id"
	"github.com/mna/werbolg/lang/ident"
)

// SymbolsTable is a name -> id lookup. It performs no duplicate-insert
// protection at this layer; deduplication is SymbolsTableData's job.
//
// The backing map is a swiss table rather than a plain Go map: symbol
// tables are built once per namespace and then read very frequently
// during compilation, which is exactly the lookup-heavy profile swiss
// tables are tuned for.
type SymbolsTable[ID id.Category] struct {
	tbl *swiss.Map[ident.Ident, ID]
}

// NewSymbolsTable returns an empty symbols table.
func NewSymbolsTable[ID id.Category]() *SymbolsTable[ID] {
	return &SymbolsTable[ID]{tbl: swiss.NewMap[ident.Ident, ID](8)}
}

// Insert records that ident maps to the given id, overwriting any previous
// mapping (callers that need duplicate protection use SymbolsTableData).
func (t *SymbolsTable[ID]) Insert(i ident.Ident, v ID) { t.tbl.Put(i, v) }

// Get returns the id bound to ident, if any.
func (t *SymbolsTable[ID]) Get(i ident.Ident) (ID, bool) { return t.tbl.Get(i) }

// Iter calls f for every (ident, id) pair. Iteration order is unspecified.
func (t *SymbolsTable[ID]) Iter(f func(ident.Ident, ID)) {
	t.tbl.Iter(func(k ident.Ident, v ID) bool {
		f(k, v)
		return false
	})
}

// NamespaceError reports that a namespace was already defined when
// CreateNamespace was called again for it.
type NamespaceError struct {
	Namespace ident.Namespace
}

func (e *NamespaceError) Error() string {
	return fmt.Sprintf("symbol: namespace %q already defined", e.Namespace)
}

// SymbolsTableData pairs a name table with its dense id -> value vector:
// for every (ident -> id) in the table, vecdata.Get(id) is defined.
type SymbolsTableData[ID id.Category, T any] struct {
	Table      *SymbolsTable[ID]
	Vecdata    *IdVec[ID, T]
	namespaces map[string]struct{}
}

// NewSymbolsTableData returns an empty, paired name table and dense vector.
func NewSymbolsTableData[ID id.Category, T any]() *SymbolsTableData[ID, T] {
	return &SymbolsTableData[ID, T]{
		Table:      NewSymbolsTable[ID](),
		Vecdata:    NewIdVec[ID, T](),
		namespaces: make(map[string]struct{}),
	}
}

// CreateNamespace records that ns is now defined in this table, failing if
// it was already defined.
func (d *SymbolsTableData[ID, T]) CreateNamespace(ns ident.Namespace) error {
	key := ns.Key()
	if _, ok := d.namespaces[key]; ok {
		return &NamespaceError{Namespace: ns}
	}
	d.namespaces[key] = struct{}{}
	return nil
}

// Add inserts v under the fully-qualified path of ident within ns, and
// returns the new id, or false if that path is already present -- in which
// case state is not mutated.
func (d *SymbolsTableData[ID, T]) Add(ns ident.Namespace, i ident.Ident, v T) (ID, bool) {
	path := ns.PathWithIdent(i)
	key := ident.FromString(path.String())
	if _, ok := d.Table.Get(key); ok {
		var zero ID
		return zero, false
	}
	newID := d.Vecdata.Push(v)
	d.Table.Insert(key, newID)
	return newID, true
}

// AddAnon skips the name table and always succeeds, for synthetic entries
// that have no externally visible name.
func (d *SymbolsTableData[ID, T]) AddAnon(v T) ID {
	return d.Vecdata.Push(v)
}
