// Package werr implements the error taxonomy shared by the tree-walk
// evaluator (lang/eval) and the linear VM (lang/vm). All core entry
// points return either a value or one of these errors, raised at the
// innermost failing step and propagated outward without recovery inside
// the core.
//
// This uses only the standard library's errors/fmt -- no third-party
// error-wrapping library appears anywhere in the retrieval pack, so
// there is nothing to wire here; see DESIGN.md's "Stdlib
// justifications".
package werr

import (
	"fmt"

	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/ir"
	"github.com/mna/werbolg/lang/value"
)

// ArityError reports that a function was called with the wrong number of
// arguments.
type ArityError struct {
	Expected, Got int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("arity error: expected %d argument(s), got %d", e.Expected, e.Got)
}

// MissingBinding reports that no scope (local, module, or root) has a
// binding for the given identifier.
type MissingBinding struct {
	Ident ident.Ident
}

func (e *MissingBinding) Error() string {
	return fmt.Sprintf("missing binding: %q", e.Ident)
}

// CallingNotFunc reports that a call's callee evaluated to a non-callable
// value.
type CallingNotFunc struct {
	Location ir.Location
	ValueIs  value.ValueKind
}

func (e *CallingNotFunc) Error() string {
	return fmt.Sprintf("%s: calling a non-function value of kind %s", e.Location, e.ValueIs)
}

// ValueKindUnexpected reports a type mismatch: an operation expected one
// value kind but received another.
type ValueKindUnexpected struct {
	Expected, Got value.ValueKind
}

func (e *ValueKindUnexpected) Error() string {
	return fmt.Sprintf("value kind mismatch: expected %s, got %s", e.Expected, e.Got)
}

// Abort is returned when a host-requested cooperative abort was observed.
// It is a clean cooperative stop, never a panic, and is never retried
// automatically.
var Abort = fmt.Errorf("execution aborted")

// ExecutionFinished is returned by the VM's ExecContinue when there is no
// call frame left to resume (the program already halted).
var ExecutionFinished = fmt.Errorf("vm: execution already finished")
