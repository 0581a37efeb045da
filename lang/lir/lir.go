// Package lir defines the linear IR consumed by the VM (spec.md §4.7) and
// produced by lang/lower: a flat instruction vector plus the constant,
// function and global tables it indexes into. Unlike the teacher's own
// compiler (lang/compiler), which emits a byte-coded instruction stream
// read back through lang/machine's decoder, this is a directly-typed
// instruction vector (one Instr struct per step), matching the original
// werbolg-core::lir shape referenced by werbolg-exec/src/exec2.rs's
// `match instr { Statement::PushLiteral(lit) => ... }`.
package lir

import (
	"github.com/mna/werbolg/lang/id"
	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/ir"
	"github.com/mna/werbolg/lang/symbol"
	"github.com/mna/werbolg/lang/value"
)

// Opcode tags a single VM instruction (spec.md §4.7's table).
type Opcode uint8

const (
	OpPushLiteral Opcode = iota
	OpFetchGlobal
	OpFetchFun
	OpFetchStackLocal
	OpFetchStackParam
	OpAccessField // declared, never emitted: spec.md §4.9 Open Question 2
	OpLocalBind
	OpIgnoreOne
	OpCall
	OpJump
	OpCondJump
	OpRet
)

var opcodeNames = [...]string{
	OpPushLiteral:     "push-literal",
	OpFetchGlobal:     "fetch-global",
	OpFetchFun:        "fetch-fun",
	OpFetchStackLocal: "fetch-stack-local",
	OpFetchStackParam: "fetch-stack-param",
	OpAccessField:     "access-field",
	OpLocalBind:       "local-bind",
	OpIgnoreOne:       "ignore-one",
	OpCall:            "call",
	OpJump:            "jump",
	OpCondJump:        "cond-jump",
	OpRet:             "ret",
}

func (op Opcode) String() string {
	if int(op) >= len(opcodeNames) {
		return "<invalid opcode>"
	}
	return opcodeNames[op]
}

// Instr is one linear-IR instruction. Arg's meaning depends on Op: a
// ConstantId/GlobalId/FunId/LocalBindIndex/ParamBindIndex/CallArity for
// the fetch/bind/call opcodes, or a signed jump delta for Jump/CondJump.
// AccessField, Ret and IgnoreOne ignore it.
type Instr struct {
	Op  Opcode
	Arg int32
}

// CallArity is the number of arguments (excluding the callee) in a call
// window.
type CallArity uint32

// LocalStackSize is the number of local slots a compiled function
// reserves on top of its call window.
type LocalStackSize uint32

// FunCompiled is a function's run-time descriptor: where its code starts,
// how many local slots it reserves, and its arity (used to locate the
// boundary between FetchStackParam and FetchStackLocal addressing).
type FunCompiled struct {
	CodePos   id.InstructionAddress
	StackSize LocalStackSize
	Arity     CallArity
}

// Module is the fully linked, run-time form of a compiled program: the
// constant pool, function table, global table, and flat instruction
// stream the VM steps through.
type Module struct {
	Lits    *symbol.IdVec[id.ConstantId, ir.Literal]
	Funs    *symbol.IdVec[id.FunId, FunCompiled]
	Globals *symbol.IdVec[id.GlobalId, value.Value]
	Code    *symbol.IdVec[id.InstructionAddress, Instr]

	// GlobalsByIdent lets a Mut NIF resolve/update a named global at run
	// time. Environment.Finalize (lang/compile) discards name tables for
	// globals reached by ordinary FetchGlobal addressing (resolved to a
	// GlobalId at compile time), but Mut NIFs have no compile-time slot of
	// their own to address, so lang/lower keeps this side table just for
	// them.
	GlobalsByIdent map[ident.Ident]id.GlobalId
}

// NewModule returns an empty, ready-to-populate Module.
func NewModule() *Module {
	return &Module{
		Lits:           symbol.NewIdVec[id.ConstantId, ir.Literal](),
		Funs:           symbol.NewIdVec[id.FunId, FunCompiled](),
		Globals:        symbol.NewIdVec[id.GlobalId, value.Value](),
		Code:           symbol.NewIdVec[id.InstructionAddress, Instr](),
		GlobalsByIdent: make(map[ident.Ident]id.GlobalId),
	}
}
