package vm

import (
	"github.com/mna/werbolg/lang/id"
	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/lir"
	"github.com/mna/werbolg/lang/value"
	"github.com/mna/werbolg/lang/werr"
)

// Exec calls a compiled function by name with args, running it to
// completion (or until a cooperative abort). call must resolve (via the
// module's global-by-ident table) to a FunRef.
func Exec(em *ExecutionMachine, call ident.Ident, args []value.Value) (value.Value, error) {
	callee, err := em.GetBinding(call)
	if err != nil {
		return nil, err
	}
	em.stack.pushCall(callee, args)

	res, jump, err := processCall(em, lir.CallArity(len(args)))
	if err != nil {
		return nil, err
	}
	if jump == nil {
		return res, nil
	}
	em.applyJump(jump)
	return execLoop(em)
}

// ExecContinue resumes a machine previously left mid-flight by a
// cooperative abort. It is an error to call this with no call frames left
// to resume.
func ExecContinue(em *ExecutionMachine) (value.Value, error) {
	if len(em.rets) == 0 {
		return nil, werr.ExecutionFinished
	}
	return execLoop(em)
}

func execLoop(em *ExecutionMachine) (value.Value, error) {
	for {
		if em.Aborted() {
			return nil, werr.Abort
		}
		v, halted, err := Step(em)
		if err != nil {
			return nil, err
		}
		if halted {
			return v, nil
		}
	}
}

// Step executes a single instruction. It reports (value, true, nil) when
// the program has halted (no frames left to return into), and (_, false,
// nil) otherwise; the IP is updated before Step returns.
func Step(em *ExecutionMachine) (value.Value, bool, error) {
	instr := em.Module.Code.MustGet(em.ip)
	switch instr.Op {
	case lir.OpPushLiteral:
		lit := em.Module.Lits.MustGet(id.ConstantId(instr.Arg))
		em.stack.pushValue(value.FromLiteral(lit))
		em.ipNext()

	case lir.OpFetchGlobal:
		em.stack.pushValue(em.Module.Globals.MustGet(id.GlobalId(instr.Arg)))
		em.ipNext()

	case lir.OpFetchFun:
		em.stack.pushValue(value.CompiledFun{Ref: value.FunRefToFun(id.FunId(instr.Arg))})
		em.ipNext()

	case lir.OpFetchStackLocal:
		em.stack.pushValue(em.stack.get(em.localSlot(id.LocalBindIndex(instr.Arg))))
		em.ipNext()

	case lir.OpFetchStackParam:
		em.stack.pushValue(em.stack.get(em.paramSlot(id.ParamBindIndex(instr.Arg))))
		em.ipNext()

	case lir.OpAccessField:
		// Declared but unreachable: Value has no record variant to access a
		// field of (spec.md §4.9 Open Question 2).
		panic("vm: AccessField is unimplemented")

	case lir.OpLocalBind:
		val := em.stack.popValue()
		em.stack.set(em.localSlot(id.LocalBindIndex(instr.Arg)), val)
		em.ipNext()

	case lir.OpIgnoreOne:
		em.stack.popValue()
		em.ipNext()

	case lir.OpCall:
		arity := lir.CallArity(instr.Arg)
		res, jump, err := processCall(em, arity)
		if err != nil {
			return nil, false, err
		}
		if jump != nil {
			em.rets = append(em.rets, retFrame{
				returnIP:        em.ip.Add(1),
				callerSP:        em.sp,
				callerStackSize: em.currentStackSize,
				callerArity:     em.currentArity,
			})
			em.applyJump(jump)
		} else {
			em.stack.popCall(int(arity))
			em.stack.pushValue(res)
			em.ipNext()
		}

	case lir.OpJump:
		em.ip = em.ip.Add(instr.Arg)

	case lir.OpCondJump:
		val := em.stack.popValue()
		b, ok := val.(value.Bool)
		if !ok {
			return nil, false, &werr.ValueKindUnexpected{Expected: value.KindBool, Got: val.Kind()}
		}
		if bool(b) {
			em.ip = em.ip.Add(instr.Arg)
		} else {
			em.ipNext()
		}

	case lir.OpRet:
		val := em.stack.popValue()
		if len(em.rets) == 0 {
			return val, true, nil
		}
		frame := em.rets[len(em.rets)-1]
		em.rets = em.rets[:len(em.rets)-1]
		em.stack.truncateTo(em.sp)
		em.sp = frame.callerSP
		em.currentStackSize = frame.callerStackSize
		em.currentArity = frame.callerArity
		em.stack.pushValue(val)
		em.ip = frame.returnIP

	default:
		panic("vm: unknown opcode")
	}
	return nil, false, nil
}

func (em *ExecutionMachine) ipNext() { em.ip = em.ip.Add(1) }

// localSlot and paramSlot translate a frame-relative index into an
// absolute operand-stack index: the call window is [callee, arg0,
// ..., arg(arity-1)] starting at sp, and reserved locals follow
// immediately after the window.
func (em *ExecutionMachine) localSlot(i id.LocalBindIndex) int {
	return em.sp + 1 + int(em.currentArity) + int(i)
}

func (em *ExecutionMachine) paramSlot(i id.ParamBindIndex) int {
	return em.sp + 1 + int(i)
}

// callJump describes a pending jump into an interpreted function, as
// computed by processCall; applying it (applyJump) is deferred to the
// caller so that the caller can first save the pre-jump machine state
// (ip/sp/currentStackSize/currentArity) into a return frame.
type callJump struct {
	codePos    id.InstructionAddress
	stackSize  lir.LocalStackSize
	arity      lir.CallArity
	windowBase int
}

// processCall inspects the call window of the given arity (without
// popping it) and either invokes a NIF synchronously (returning its
// result, jump=nil) or computes a pending jump into an interpreted
// function's code (jump!=nil; the caller applies it via applyJump after
// saving return-frame state).
func processCall(em *ExecutionMachine, arity lir.CallArity) (value.Value, *callJump, error) {
	callee := em.stack.getCall(int(arity))
	fn, ok := callee.(value.CompiledFun)
	if !ok {
		return nil, nil, &werr.CallingNotFunc{ValueIs: callee.Kind()}
	}

	if fn.Ref.IsNative {
		nif := em.Nifs.MustGet(fn.Ref.Native)
		_, args := em.stack.getCallAndArgs(int(arity))
		var res value.Value
		var err error
		if nif.IsMut() {
			res, err = nif.Mut(em, args)
		} else {
			res, err = nif.Pure(args)
		}
		if err != nil {
			return nil, nil, err
		}
		return res, nil, nil
	}

	fc := em.Module.Funs.MustGet(fn.Ref.Fun)
	if fc.Arity != arity {
		return nil, nil, &werr.ArityError{Expected: int(fc.Arity), Got: int(arity)}
	}
	return nil, &callJump{
		codePos:    fc.CodePos,
		stackSize:  fc.StackSize,
		arity:      arity,
		windowBase: em.stack.windowBase(int(arity)),
	}, nil
}

// applyJump commits a pending call jump: the frame base moves to the
// call window, currentStackSize/currentArity switch to the callee's, its
// local slots are reserved, and ip jumps to its code.
func (em *ExecutionMachine) applyJump(j *callJump) {
	em.sp = j.windowBase
	em.currentStackSize = j.stackSize
	em.currentArity = j.arity
	em.stack.reserveLocals(int(j.stackSize))
	em.ip = j.codePos
}
