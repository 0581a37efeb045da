package eval

import (
	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/ir"
)

// Atom is an execution atom ("continuation"): a deferred action that
// consumes Arity() values from the evaluator's value stack once the batch
// of sub-expressions it was pushed with has all been reduced to values.
type Atom interface {
	Arity() int
}

// AtomList wraps N values into a List.
type AtomList struct{ N int }

func (a AtomList) Arity() int { return a.N }

// AtomThenElse branches on the single popped boolean.
type AtomThenElse struct {
	Then, Else ir.Expr
}

func (AtomThenElse) Arity() int { return 1 }

// AtomCall invokes a callee (value[0]) with N-1 arguments (value[1:N]).
type AtomCall struct {
	N   int
	Loc ir.Location
}

func (a AtomCall) Arity() int { return a.N }

// AtomThen pops the value of the first half of a sequence (which must be
// Unit) then evaluates Next.
type AtomThen struct{ Next ir.Expr }

func (AtomThen) Arity() int { return 1 }

// AtomLet binds Binder to the popped value in a fresh local scope, then
// evaluates Body under AtomLeaveLet.
type AtomLet struct {
	Binder ident.Ident
	Body   ir.Expr
}

func (AtomLet) Arity() int { return 1 }

// AtomLeaveLet leaves the scope an AtomLet entered and forwards the popped
// value (the let body's result).
type AtomLeaveLet struct{}

func (AtomLeaveLet) Arity() int { return 1 }

// AtomPopScope leaves the current local scope and forwards the popped
// value as the result; paired with every interpreted-function call.
type AtomPopScope struct{}

func (AtomPopScope) Arity() int { return 1 }
