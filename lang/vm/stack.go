package vm

import (
	"github.com/mna/werbolg/lang/id"
	"github.com/mna/werbolg/lang/lir"
	"github.com/mna/werbolg/lang/value"
)

// operandStack is the VM's single value stack (spec.md §4.7's "operand
// stack"): it holds, bottom-up, every enclosing call's locals and call
// window, with the current frame's window and reserved locals on top.
type operandStack struct {
	v []value.Value
}

func (s *operandStack) depth() int { return len(s.v) }

func (s *operandStack) pushValue(v value.Value) { s.v = append(s.v, v) }

func (s *operandStack) popValue() value.Value {
	n := len(s.v) - 1
	v := s.v[n]
	s.v = s.v[:n]
	return v
}

func (s *operandStack) get(idx int) value.Value { return s.v[idx] }

func (s *operandStack) set(idx int, v value.Value) { s.v[idx] = v }

// pushCall lays down a new call window: the callee followed by its
// arguments.
func (s *operandStack) pushCall(callee value.Value, args []value.Value) {
	s.v = append(s.v, callee)
	s.v = append(s.v, args...)
}

// windowBase returns the index of callee within a call window of the
// given arity sitting at the top of the stack.
func (s *operandStack) windowBase(arity int) int {
	return len(s.v) - 1 - arity
}

// getCall returns the callee of the call window at the top of the stack,
// without popping it.
func (s *operandStack) getCall(arity int) value.Value {
	return s.v[s.windowBase(arity)]
}

// getCallAndArgs returns the callee and its argument slice for the call
// window at the top of the stack, without popping it.
func (s *operandStack) getCallAndArgs(arity int) (value.Value, []value.Value) {
	base := s.windowBase(arity)
	return s.v[base], s.v[base+1:]
}

// popCall discards the arity+1 slots (callee plus args) of the call
// window at the top of the stack.
func (s *operandStack) popCall(arity int) {
	s.v = s.v[:len(s.v)-1-arity]
}

// reserveLocals appends n Unit-valued placeholder slots, used when a
// call jumps into an interpreted function (its LocalStackSize locals).
func (s *operandStack) reserveLocals(n int) {
	for i := 0; i < n; i++ {
		s.v = append(s.v, value.Unit{})
	}
}

// truncateTo discards every slot from index base onward (used on Ret to
// collapse a finished frame's window and locals).
func (s *operandStack) truncateTo(base int) {
	s.v = s.v[:base]
}

// retFrame is a saved call-site state, pushed by Call and popped by Ret
// (spec.md §4.7's "(return_ip, caller_sp, local_stack_size, arity)").
type retFrame struct {
	returnIP        id.InstructionAddress
	callerSP        int
	callerStackSize lir.LocalStackSize
	callerArity     lir.CallArity
}
