// Package compile implements the compile-time Environment: the registry of
// globals and NIFs across namespaces that is finalized into the two dense
// IdVecs the execution machines (tree-walk and VM) consume at run time.
package compile

import (
	"github.com/mna/werbolg/lang/id"
	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/symbol"
)

// Environment tracks the NIF and global symbols defined while compiling a
// program. The two type parameters are only relevant to execution and are
// completely unused for compilation: N is the host's NIF representation, G
// is the host's global-value representation.
type Environment[N, G any] struct {
	globals *symbol.SymbolsTableData[id.GlobalId, G]
	nifs    *symbol.SymbolsTableData[id.NifId, N]
}

// NewEnvironment returns an empty environment.
func NewEnvironment[N, G any]() *Environment[N, G] {
	return &Environment[N, G]{
		globals: symbol.NewSymbolsTableData[id.GlobalId, G](),
		nifs:    symbol.NewSymbolsTableData[id.NifId, N](),
	}
}

// CreateNamespace declares namespace in both the global and NIF tables. It
// fails if the namespace is already defined in either.
func (e *Environment[N, G]) CreateNamespace(namespace ident.Namespace) error {
	if err := e.nifs.CreateNamespace(namespace); err != nil {
		return err
	}
	if err := e.globals.CreateNamespace(namespace); err != nil {
		return err
	}
	return nil
}

// AddNif registers a NIF under namespace at the given ident. Duplicate
// registration is a programmer error and panics, mirroring the "abort
// compilation" semantics of spec.md §4.4.
func (e *Environment[N, G]) AddNif(namespace ident.Namespace, i ident.Ident, t N) id.NifId {
	nifID, ok := e.nifs.Add(namespace, i, t)
	if !ok {
		panic("compile: NIF " + namespace.PathWithIdent(i).String() + " already defined")
	}
	return nifID
}

// AddGlobal registers a global value under namespace at the given ident.
// Duplicate registration is a programmer error and panics.
func (e *Environment[N, G]) AddGlobal(namespace ident.Namespace, i ident.Ident, v G) id.GlobalId {
	globalID, ok := e.globals.Add(namespace, i, v)
	if !ok {
		panic("compile: global " + namespace.PathWithIdent(i).String() + " already defined")
	}
	return globalID
}

// LookupGlobal resolves a namespaced identifier to its previously assigned
// GlobalId, used by lang/lower to compile an IdentExpr that refers to a
// module-level function or a registered global into a FetchGlobal
// instruction.
func (e *Environment[N, G]) LookupGlobal(namespace ident.Namespace, i ident.Ident) (id.GlobalId, bool) {
	path := namespace.PathWithIdent(i)
	key := ident.FromString(path.String())
	return e.globals.Table.Get(key)
}

// Finalize discards the name tables and returns the two dense IdVecs, which
// are all an execution machine needs at run time.
func (e *Environment[N, G]) Finalize() (*symbol.IdVec[id.GlobalId, G], *symbol.IdVec[id.NifId, N]) {
	return e.globals.Vecdata, e.nifs.Vecdata
}
