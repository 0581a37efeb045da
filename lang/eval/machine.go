// Package eval implements the tree-walking evaluator: it runs IR
// expressions using an explicit values/work/constr stack machine (spec.md
// §4.6) instead of recursing through the host call stack, so user programs
// can nest arbitrarily deep without overflowing it. It is grounded
// line-for-line on the original werbolg Rust crate's src/em/mod.rs.
package eval

import (
	"github.com/mna/werbolg/lang/bindings"
	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/ir"
	"github.com/mna/werbolg/lang/value"
	"github.com/mna/werbolg/lang/werr"
)

// ExecutionMachine composes the three binding layers searched in order
// local -> module -> root, plus a call-stack of source locations used for
// diagnostics. The root layer is seeded with NIFs, the module layer is
// populated by executing top-level function definitions, and the local
// layer is entered/left per call.
type ExecutionMachine struct {
	Root   *bindings.Bindings[value.Value]
	Module *bindings.Bindings[value.Value]
	Local  *bindings.BindingsStack[value.Value]

	Stacktrace []ir.Location

	// AbortFunc is polled at the top of every evaluator step. A nil
	// AbortFunc means the machine can never be cooperatively aborted,
	// matching the source's hard-coded `aborted() = false` (spec.md §9);
	// hosts that want cancellation set this to a predicate backed by e.g.
	// a context or a time budget.
	AbortFunc func() bool
}

var _ value.MutHost = (*ExecutionMachine)(nil)

// New returns an empty execution machine.
func New() *ExecutionMachine {
	return &ExecutionMachine{
		Root:   bindings.NewBindings[value.Value](),
		Module: bindings.NewBindings[value.Value](),
		Local:  bindings.NewBindingsStack[value.Value](),
	}
}

// Aborted reports whether a host-requested cooperative abort has been
// observed.
func (em *ExecutionMachine) Aborted() bool {
	return em.AbortFunc != nil && em.AbortFunc()
}

// Depth reports the number of nested calls currently in progress, for
// hosts that want to enforce a call-depth limit from an AbortFunc (see
// internal/rtconfig).
func (em *ExecutionMachine) Depth() int {
	return len(em.Stacktrace)
}

// AddModuleBinding binds ident to value in the module layer.
func (em *ExecutionMachine) AddModuleBinding(i ident.Ident, v value.Value) {
	em.Module.Add(i, v)
}

// AddLocalBinding binds ident to value in the innermost local scope.
func (em *ExecutionMachine) AddLocalBinding(i ident.Ident, v value.Value) {
	em.Local.Add(i, v)
}

// AddNativeFun registers a NIF in the root layer under the given name.
func (em *ExecutionMachine) AddNativeFun(name string, n value.NIF) {
	n.Name = name
	em.Root.Add(ident.FromString(name), value.NativeFun{NIF: n})
}

// GetBinding resolves ident through local, then module, then root scopes.
func (em *ExecutionMachine) GetBinding(i ident.Ident) (value.Value, error) {
	if v, ok := em.Local.Get(i); ok {
		return v, nil
	}
	if v, ok := em.Module.Get(i); ok {
		return v, nil
	}
	if v, ok := em.Root.Get(i); ok {
		return v, nil
	}
	return nil, &werr.MissingBinding{Ident: i}
}

// ScopeEnter pushes a new local scope and records location on the
// diagnostic call stack.
func (em *ExecutionMachine) ScopeEnter(location ir.Location) {
	em.Local.ScopeEnter()
	em.Stacktrace = append(em.Stacktrace, location)
}

// ScopeLeave pops the innermost local scope and the matching call-stack
// entry. Popping with no matching ScopeEnter is a programmer error.
func (em *ExecutionMachine) ScopeLeave() {
	if len(em.Stacktrace) == 0 {
		panic("eval: ScopeLeave without matching ScopeEnter")
	}
	em.Stacktrace = em.Stacktrace[:len(em.Stacktrace)-1]
	em.Local.ScopeLeave()
}
