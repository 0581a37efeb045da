// Package lower compiles a desugared lang/ir.Module into the linear
// lang/lir.Module the VM executes: it assigns dense ids to every
// top-level function and global, resolves every identifier to a
// parameter slot, a local slot, or a global, and emits a flat Instr
// stream with backpatched jumps for If. Its two-level pcomp/fcomp
// compiler state carries no CFG/basic-block machinery: werbolg's IR has
// no loops or labeled jumps, so If is the only construct needing
// backpatching, and a single forward pass suffices.
package lower

import (
	"fmt"

	"github.com/mna/werbolg/lang/compile"
	"github.com/mna/werbolg/lang/id"
	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/ir"
	"github.com/mna/werbolg/lang/lir"
	"github.com/mna/werbolg/lang/symbol"
	"github.com/mna/werbolg/lang/value"
)

// Error reports a name that lowering could not resolve to a parameter, a
// local, or a global slot -- the VM has no runtime name lookup path for
// arbitrary identifiers, so an unbound name is a lowering-time failure
// here rather than the tree-walker's runtime MissingBinding.
type Error struct {
	Loc ir.Location
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Msg)
}

// ListGlobalName is the name lower expects to resolve to a "pack N
// values into a List" global: the VM's opcode set (spec.md §4.7) has no
// dedicated list-construction instruction, so ListExpr is compiled as a
// call to this global instead. lang/stdnif registers its "list" NIF under
// this name; that NIF builds the same value.NewList result the
// tree-walker's AtomList builds directly.
const ListGlobalName = "list"

// Env is the environment type the VM's compiled programs use: G is
// value.Value (globals are run-time values), N is value.NIF.
type Env = compile.Environment[value.NIF, value.Value]

// pcomp holds module-wide compiler state, mirroring the teacher's pcomp.
type pcomp struct {
	env  *Env
	mod  *lir.Module
	lits *symbol.UniqueTableBuilder[id.ConstantId, ir.Literal]
}

func (pc *pcomp) emit(instr lir.Instr) id.InstructionAddress {
	return pc.mod.Code.Push(instr)
}

// fcomp holds per-function compiler state, mirroring the teacher's fcomp:
// the parameter table is fixed at function entry, the local-scope stack
// grows and shrinks with Let nesting, and local slot indices are never
// reused once assigned (a non-optimizing, always-correct allocation).
type fcomp struct {
	pc     *pcomp
	params map[ident.Ident]id.ParamBindIndex
	scopes []map[ident.Ident]id.LocalBindIndex
	maxLoc id.LocalBindIndex
}

func newFcomp(pc *pcomp, params []ident.Ident) *fcomp {
	fc := &fcomp{pc: pc, params: make(map[ident.Ident]id.ParamBindIndex, len(params))}
	for i, p := range params {
		fc.params[p] = id.ParamBindIndex(i)
	}
	fc.pushScope()
	return fc
}

func (fc *fcomp) pushScope() { fc.scopes = append(fc.scopes, map[ident.Ident]id.LocalBindIndex{}) }

func (fc *fcomp) popScope() { fc.scopes = fc.scopes[:len(fc.scopes)-1] }

func (fc *fcomp) bindLocal(i ident.Ident) id.LocalBindIndex {
	idx := fc.maxLoc
	fc.maxLoc++
	fc.scopes[len(fc.scopes)-1][i] = idx
	return idx
}

func (fc *fcomp) resolveLocal(i ident.Ident) (id.LocalBindIndex, bool) {
	for s := len(fc.scopes) - 1; s >= 0; s-- {
		if idx, ok := fc.scopes[s][i]; ok {
			return idx, true
		}
	}
	return 0, false
}

// Module lowers a desugared IR module into a linear module. Top-level
// Function statements are pre-declared as globals before any body is
// compiled, so mutual and self recursion resolve correctly; top-level
// Expr statements each become a synthetic, zero-argument compiled
// function, exposed as a global under a generated name (also returned,
// in declaration order, as exprGlobals) so a host can drive them in
// sequence with vm.Exec the same way lang/eval.Exec runs a module's
// Expr statements in order.
func Module(env *Env, m ir.Module) (lm *lir.Module, nifsVec *symbol.IdVec[id.NifId, value.NIF], exprGlobals []ident.Ident, err error) {
	lm = lir.NewModule()
	pc := &pcomp{env: env, mod: lm, lits: symbol.NewUniqueTableBuilder[id.ConstantId, ir.Literal]()}

	type pendingFun struct {
		gid id.GlobalId
		fd  ir.FunDef
	}
	var pendingFuns []pendingFun
	exprIdx := 0

	for _, stmt := range m.Statements {
		switch s := stmt.(type) {
		case *ir.FunctionStmt:
			gid := env.AddGlobal(ident.Root, s.FunDef.Name, value.Unit{})
			lm.GlobalsByIdent[s.FunDef.Name] = gid
			pendingFuns = append(pendingFuns, pendingFun{gid: gid, fd: s.FunDef})

		case *ir.ExprStmt:
			name := ident.FromString(fmt.Sprintf("$expr%d", exprIdx))
			exprIdx++
			gid := env.AddGlobal(ident.Root, name, value.Unit{})
			lm.GlobalsByIdent[name] = gid
			exprGlobals = append(exprGlobals, name)
			pendingFuns = append(pendingFuns, pendingFun{
				gid: gid,
				fd:  ir.FunDef{Name: name, Body: s.Expr},
			})

		default:
			return nil, nil, nil, &Error{Msg: "lower: unknown ir.Statement"}
		}
	}

	funIDs := make([]id.FunId, len(pendingFuns))
	for i, p := range pendingFuns {
		funID, cerr := pc.compileFunction(p.fd)
		if cerr != nil {
			return nil, nil, nil, cerr
		}
		funIDs[i] = funID
	}

	globalsVec, nifsVec := env.Finalize()
	for i, p := range pendingFuns {
		globalsVec.Set(p.gid, value.CompiledFun{Ref: value.FunRefToFun(funIDs[i])})
	}
	lm.Globals = globalsVec
	lm.Lits = pc.lits.Finalize()
	return lm, nifsVec, exprGlobals, nil
}

func (pc *pcomp) compileFunction(fd ir.FunDef) (id.FunId, error) {
	fc := newFcomp(pc, fd.Vars)
	start := pc.mod.Code.NextID()
	if err := fc.compileExpr(fd.Body); err != nil {
		return 0, err
	}
	pc.emit(lir.Instr{Op: lir.OpRet})
	fc.popScope()

	return pc.mod.Funs.Push(lir.FunCompiled{
		CodePos:   start,
		StackSize: lir.LocalStackSize(fc.maxLoc),
		Arity:     lir.CallArity(len(fd.Vars)),
	}), nil
}

func (fc *fcomp) compileExpr(e ir.Expr) error {
	pc := fc.pc
	switch e := e.(type) {
	case *ir.LiteralExpr:
		cid := pc.lits.Add(e.Lit)
		pc.emit(lir.Instr{Op: lir.OpPushLiteral, Arg: int32(cid)})
		return nil

	case *ir.IdentExpr:
		if idx, ok := fc.resolveLocal(e.Name); ok {
			pc.emit(lir.Instr{Op: lir.OpFetchStackLocal, Arg: int32(idx)})
			return nil
		}
		if idx, ok := fc.params[e.Name]; ok {
			pc.emit(lir.Instr{Op: lir.OpFetchStackParam, Arg: int32(idx)})
			return nil
		}
		if gid, ok := pc.env.LookupGlobal(e.NS, e.Name); ok {
			pc.emit(lir.Instr{Op: lir.OpFetchGlobal, Arg: int32(gid)})
			return nil
		}
		return &Error{Loc: e.Loc, Msg: "unresolved identifier " + e.Name.String()}

	case *ir.ListExpr:
		gid, ok := pc.env.LookupGlobal(ident.Root, ident.FromString(ListGlobalName))
		if !ok {
			return &Error{Loc: e.Loc, Msg: "list construction requires a \"" + ListGlobalName + "\" global to be registered"}
		}
		pc.emit(lir.Instr{Op: lir.OpFetchGlobal, Arg: int32(gid)})
		for _, el := range e.Elems {
			if err := fc.compileExpr(el); err != nil {
				return err
			}
		}
		pc.emit(lir.Instr{Op: lir.OpCall, Arg: int32(len(e.Elems))})
		return nil

	case *ir.LambdaExpr:
		// The lambda's code is emitted in the middle of the enclosing
		// function's stream, so jump over it.
		skipAt := pc.emit(lir.Instr{Op: lir.OpJump})
		funID, err := pc.compileFunction(ir.FunDef{Body: e.Body, Vars: e.Params})
		if err != nil {
			return err
		}
		pc.mod.Code.Set(skipAt, lir.Instr{Op: lir.OpJump, Arg: delta(skipAt, pc.mod.Code.NextID())})
		pc.emit(lir.Instr{Op: lir.OpFetchFun, Arg: int32(funID)})
		return nil

	case *ir.LetExpr:
		if err := fc.compileExpr(e.Init); err != nil {
			return err
		}
		fc.pushScope()
		idx := fc.bindLocal(e.Binder)
		pc.emit(lir.Instr{Op: lir.OpLocalBind, Arg: int32(idx)})
		if err := fc.compileExpr(e.Body); err != nil {
			return err
		}
		fc.popScope()
		return nil

	case *ir.ThenExpr:
		if err := fc.compileExpr(e.First); err != nil {
			return err
		}
		pc.emit(lir.Instr{Op: lir.OpIgnoreOne})
		return fc.compileExpr(e.Second)

	case *ir.CallExpr:
		if len(e.Elems) == 0 {
			return &Error{Loc: e.Loc, Msg: "call requires a callee"}
		}
		for _, el := range e.Elems {
			if err := fc.compileExpr(el); err != nil {
				return err
			}
		}
		pc.emit(lir.Instr{Op: lir.OpCall, Arg: int32(len(e.Elems) - 1)})
		return nil

	case *ir.IfExpr:
		if err := fc.compileExpr(e.Cond); err != nil {
			return err
		}
		condJumpAt := pc.emit(lir.Instr{Op: lir.OpCondJump})
		if err := fc.compileExpr(e.ElseBranch); err != nil {
			return err
		}
		jumpAt := pc.emit(lir.Instr{Op: lir.OpJump})
		thenStart := pc.mod.Code.NextID()
		if err := fc.compileExpr(e.ThenBranch); err != nil {
			return err
		}
		end := pc.mod.Code.NextID()
		pc.mod.Code.Set(condJumpAt, lir.Instr{Op: lir.OpCondJump, Arg: delta(condJumpAt, thenStart)})
		pc.mod.Code.Set(jumpAt, lir.Instr{Op: lir.OpJump, Arg: delta(jumpAt, end)})
		return nil

	default:
		return &Error{Msg: "lower: unknown ir.Expr node"}
	}
}

func delta(from, to id.InstructionAddress) int32 {
	return int32(to) - int32(from)
}
