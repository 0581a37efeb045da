package eval

import "github.com/mna/werbolg/lang/value"
import "github.com/mna/werbolg/lang/ir"

// workBatch is a list of pending sub-expressions; elements are consumed
// from the end, so the last element of a batch is evaluated first (see
// ExecutionStack.nextWork). Batches are pushed in source order, not
// reversed; popEndRev restores source order when an atom takes its values.
type workBatch struct {
	exprs []ir.Expr
}

// ExecutionStack holds the three parallel stacks the tree-walk evaluator
// threads through work/eval: values awaiting consumption, batches of
// pending sub-expressions, and the continuations describing what to do
// once a batch's results are ready.
type ExecutionStack struct {
	values []value.Value
	work   []workBatch
	constr []Atom
}

// newExecutionStack returns an empty stack triple.
func newExecutionStack() *ExecutionStack {
	return &ExecutionStack{}
}

// pushWork1 pushes a single-expression batch under constr.
func (s *ExecutionStack) pushWork1(constr Atom, expr ir.Expr) {
	s.work = append(s.work, workBatch{exprs: []ir.Expr{expr}})
	s.constr = append(s.constr, constr)
}

// pushWork pushes a multi-expression batch under constr. exprs must not be
// empty.
func (s *ExecutionStack) pushWork(constr Atom, exprs []ir.Expr) {
	if len(exprs) == 0 {
		panic("eval: pushWork with empty batch")
	}
	// Copy: the batch is consumed back-to-front and mutated in place.
	cp := append([]ir.Expr(nil), exprs...)
	s.work = append(s.work, workBatch{exprs: cp})
	s.constr = append(s.constr, constr)
}

func (s *ExecutionStack) pushValue(v value.Value) {
	s.values = append(s.values, v)
}

// exprNextKind tags which variant of ExprNext a call to nextWork produced.
type exprNextKind int

const (
	nextShift exprNextKind = iota
	nextReduce
	nextFinish
)

// exprNext is the result of nextWork: Shift (evaluate one more
// expression), Reduce (a batch is fully evaluated, apply its atom to the
// popped argument values), or Finish (the whole expression is done).
type exprNext struct {
	kind   exprNextKind
	shift  ir.Expr
	atom   Atom
	args   []value.Value
	finish value.Value
}

// popEndRev pops the last n elements of v, in pop order (top of stack
// first), matching the atom contracts: in a Call batch [callee, a1…an],
// the callee is shifted last and so sits on top, meaning it must land at
// out[0].
func popEndRev(v *[]value.Value, n int) []value.Value {
	s := *v
	if n > len(s) {
		panic("eval: popEndRev requesting more values than available")
	}
	out := make([]value.Value, n)
	for i := 0; i < n; i++ {
		out[i] = s[len(s)-1]
		s = s[:len(s)-1]
	}
	*v = s
	return out
}

// nextWork advances the stack machine by one dispatcher step (spec.md
// §4.6's three-rule loop):
//  1. If work is empty, exactly one value remains: Finish with it.
//  2. If the top batch is empty, pop the matching atom and its arity
//     values: Reduce.
//  3. Otherwise pop the last expression of the top batch: Shift.
func (s *ExecutionStack) nextWork() exprNext {
	if len(s.work) == 0 {
		if len(s.values) != 1 {
			panic("eval: expected exactly one value at Finish")
		}
		return exprNext{kind: nextFinish, finish: s.values[0]}
	}

	top := &s.work[len(s.work)-1]
	if len(top.exprs) == 0 {
		s.work = s.work[:len(s.work)-1]
		atom := s.constr[len(s.constr)-1]
		s.constr = s.constr[:len(s.constr)-1]
		args := popEndRev(&s.values, atom.Arity())
		return exprNext{kind: nextReduce, atom: atom, args: args}
	}

	last := len(top.exprs) - 1
	e := top.exprs[last]
	top.exprs = top.exprs[:last]
	return exprNext{kind: nextShift, shift: e}
}
