package eval

import (
	"github.com/mna/werbolg/lang/ir"
	"github.com/mna/werbolg/lang/value"
	"github.com/mna/werbolg/lang/werr"
)

// Exec runs an entire module: Function statements bind into the module
// layer, Expr statements are evaluated in order, and the value of the last
// Expr statement (or Unit if there was none) is the module's result.
func Exec(em *ExecutionMachine, module ir.Module) (value.Value, error) {
	return execStmts(em, module.Statements)
}

func execStmts(em *ExecutionMachine, stmts []ir.Statement) (value.Value, error) {
	var last value.Value
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ir.FunctionStmt:
			em.AddModuleBinding(s.FunDef.Name, value.InterpFun{
				Loc:    s.Loc,
				Params: s.FunDef.Vars,
				Body:   s.FunDef.Body,
			})
		case *ir.ExprStmt:
			v, err := ExecExpr(em, s.Expr)
			if err != nil {
				return nil, err
			}
			last = v
		}
	}
	if last == nil {
		return value.Unit{}, nil
	}
	return last, nil
}

// ExecExpr evaluates a single expression under the current bindings.
func ExecExpr(em *ExecutionMachine, e ir.Expr) (value.Value, error) {
	stack := newExecutionStack()
	if err := work(em, stack, e); err != nil {
		return nil, err
	}

	for {
		if em.Aborted() {
			return nil, werr.Abort
		}
		next := stack.nextWork()
		switch next.kind {
		case nextFinish:
			return next.finish, nil
		case nextShift:
			if err := work(em, stack, next.shift); err != nil {
				return nil, err
			}
		case nextReduce:
			if err := evalAtom(em, stack, next.atom, next.args); err != nil {
				return nil, err
			}
		}
	}
}

// work decomposes the work for a given expression: it either pushes a
// value directly (when the expression needs no further evaluation) or
// pushes a batch of sub-expressions together with the atom to run once
// they've all been reduced to values.
func work(em *ExecutionMachine, stack *ExecutionStack, e ir.Expr) error {
	switch e := e.(type) {
	case *ir.LiteralExpr:
		stack.pushValue(value.FromLiteral(e.Lit))
	case *ir.IdentExpr:
		v, err := em.GetBinding(e.Name)
		if err != nil {
			return err
		}
		stack.pushValue(v)
	case *ir.ListExpr:
		if len(e.Elems) == 0 {
			stack.pushValue(value.NewList(nil))
		} else {
			stack.pushWork(AtomList{N: len(e.Elems)}, e.Elems)
		}
	case *ir.LambdaExpr:
		stack.pushValue(value.InterpFun{Loc: e.Loc, Params: e.Params, Body: e.Body})
	case *ir.LetExpr:
		stack.pushWork1(AtomLet{Binder: e.Binder, Body: e.Body}, e.Init)
	case *ir.ThenExpr:
		stack.pushWork1(AtomThen{Next: e.Second}, e.First)
	case *ir.CallExpr:
		if len(e.Elems) == 0 {
			stack.pushValue(value.Unit{})
		} else {
			stack.pushWork(AtomCall{N: len(e.Elems), Loc: e.Loc}, e.Elems)
		}
	case *ir.IfExpr:
		stack.pushWork1(AtomThenElse{Then: e.ThenBranch, Else: e.ElseBranch}, e.Cond)
	default:
		panic("eval: unknown ir.Expr node")
	}
	return nil
}

// evalAtom applies atom to its already-evaluated argument values,
// continuing the stack machine (pushing a further value, or pushing more
// work to evaluate).
func evalAtom(em *ExecutionMachine, stack *ExecutionStack, atom Atom, args []value.Value) error {
	switch a := atom.(type) {
	case AtomList:
		stack.pushValue(value.NewList(args))
		return nil

	case AtomThenElse:
		b, err := asBool(args[0])
		if err != nil {
			return err
		}
		if b {
			return work(em, stack, a.Then)
		}
		return work(em, stack, a.Else)

	case AtomCall:
		result, err := processCall(em, stack, a.Loc, args)
		if err != nil {
			return err
		}
		if result != nil {
			stack.pushValue(result)
		}
		return nil

	case AtomThen:
		if err := expectUnit(args[0]); err != nil {
			return err
		}
		return work(em, stack, a.Next)

	case AtomLet:
		em.Local.ScopeEnter()
		em.AddLocalBinding(a.Binder, args[0])
		stack.pushWork1(AtomLeaveLet{}, a.Body)
		return nil

	case AtomLeaveLet:
		em.Local.ScopeLeave()
		stack.pushValue(args[0])
		return nil

	case AtomPopScope:
		em.ScopeLeave()
		stack.pushValue(args[0])
		return nil

	default:
		panic("eval: unknown Atom")
	}
}

// processCall implements the call protocol: an interpreted function enters
// a fresh scope, binds parameters, and pushes its body under PopScope so
// that leaving the scope happens exactly once the body has been fully
// evaluated. A NIF call enters and leaves its scope around a single
// synchronous invocation (so stack traces reflect the call site even
// though NIFs don't themselves push further tree-walk work).
func processCall(em *ExecutionMachine, stack *ExecutionStack, loc ir.Location, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Unit{}, nil
	}
	callee, rest := args[0], args[1:]

	switch c := callee.(type) {
	case value.InterpFun:
		if err := checkArity(len(c.Params), len(rest)); err != nil {
			return nil, err
		}
		em.ScopeEnter(c.Loc)
		for i, p := range c.Params {
			em.AddLocalBinding(p, rest[i])
		}
		stack.pushWork1(AtomPopScope{}, c.Body)
		return nil, nil

	case value.NativeFun:
		em.ScopeEnter(loc)
		res, err := callNIF(em, c.NIF, rest)
		em.ScopeLeave()
		if err != nil {
			return nil, err
		}
		return res, nil

	default:
		return nil, &werr.CallingNotFunc{Location: loc, ValueIs: callee.Kind()}
	}
}

func callNIF(em *ExecutionMachine, n value.NIF, args []value.Value) (value.Value, error) {
	if n.IsMut() {
		return n.Mut(em, args)
	}
	return n.Pure(args)
}

func checkArity(expected, got int) error {
	if expected == got {
		return nil
	}
	return &werr.ArityError{Expected: expected, Got: got}
}

func asBool(v value.Value) (bool, error) {
	b, ok := v.(value.Bool)
	if !ok {
		return false, &werr.ValueKindUnexpected{Expected: value.KindBool, Got: v.Kind()}
	}
	return bool(b), nil
}

func expectUnit(v value.Value) error {
	if _, ok := v.(value.Unit); !ok {
		return &werr.ValueKindUnexpected{Expected: value.KindUnit, Got: v.Kind()}
	}
	return nil
}
