// Package vm implements the linear VM (spec.md §4.7): a stack machine that
// runs a pre-compiled lang/lir.Module instead of walking the IR tree, for
// hosts that want a compiled fast path. It is grounded line-for-line on
// the original werbolg Rust crate's werbolg-exec/src/exec2.rs.
package vm

import (
	"github.com/mna/werbolg/lang/id"
	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/lir"
	"github.com/mna/werbolg/lang/value"
	"github.com/mna/werbolg/lang/werr"
)

// ExecutionMachine holds everything the VM needs to run one compiled
// module: a reference to the module itself, the NIF table, the operand
// and return stacks, and the current frame's addressing state (ip, sp,
// currentStackSize, currentArity).
type ExecutionMachine struct {
	Module *lir.Module
	Nifs   nifTable

	stack operandStack
	rets  []retFrame

	ip               id.InstructionAddress
	sp               int
	currentStackSize lir.LocalStackSize
	currentArity     lir.CallArity

	// AbortFunc is polled at the top of every VM step; nil means the VM can
	// never be cooperatively aborted (spec.md §5).
	AbortFunc func() bool
}

// nifTable is satisfied by *symbol.IdVec[id.NifId, value.NIF]; kept as a
// narrow interface here so lang/vm doesn't need to import lang/symbol just
// to name the field's type.
type nifTable interface {
	MustGet(id.NifId) value.NIF
}

// New returns a VM bound to module and nifs, with an empty stack.
func New(module *lir.Module, nifs nifTable) *ExecutionMachine {
	return &ExecutionMachine{Module: module, Nifs: nifs}
}

// Aborted reports whether a host-requested cooperative abort has been
// observed.
func (em *ExecutionMachine) Aborted() bool {
	return em.AbortFunc != nil && em.AbortFunc()
}

// Depth reports the number of nested calls currently in progress (the
// return-stack's length), for hosts that want to enforce a call-depth
// limit from an AbortFunc (see internal/rtconfig).
func (em *ExecutionMachine) Depth() int {
	return len(em.rets)
}

var _ value.MutHost = (*ExecutionMachine)(nil)

// GetBinding resolves a named global for a Mut NIF. The VM has no
// ident-keyed local scopes (locals and params are addressed by slot
// index, resolved at compile time), so this only ever reaches the
// module's global table, via the name table lang/lower preserves for that
// purpose (lir.Module.GlobalsByIdent) -- see DESIGN.md.
func (em *ExecutionMachine) GetBinding(i ident.Ident) (value.Value, error) {
	gid, ok := em.Module.GlobalsByIdent[i]
	if !ok {
		return nil, &werr.MissingBinding{Ident: i}
	}
	return em.Module.Globals.MustGet(gid), nil
}

// AddLocalBinding lets a Mut NIF update a named global in place. There is
// no notion of a VM-level "local" scope to add to (see GetBinding); a Mut
// NIF that calls this on a name with no global slot is a no-op.
func (em *ExecutionMachine) AddLocalBinding(i ident.Ident, v value.Value) {
	gid, ok := em.Module.GlobalsByIdent[i]
	if !ok {
		return
	}
	em.Module.Globals.Set(gid, v)
}
