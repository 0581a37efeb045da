// Package value implements werbolg's runtime value model: a closed,
// tagged-union Value type (spec.md §3) with ten variants. Per spec.md §9
// ("Tagged union dispatch"), Value is a closed sum type: polymorphism over
// it is done by case analysis (type switches) in the callers (lang/eval,
// lang/vm, lang/stdnif), not by giving every variant its own set of
// interface methods for arithmetic/comparison/etc. The Value interface
// itself is kept to the bare minimum needed to store any variant in a
// single slice or map slot.
package value

import (
	"fmt"
	"math/big"

	"github.com/mna/werbolg/lang/id"
	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/ir"
)

// ValueKind is the variant tag alone, carried in type-mismatch errors so
// that diagnostics don't need to hold a full Value just to name its shape.
type ValueKind uint8

const (
	KindUnit ValueKind = iota
	KindBool
	KindNumber
	KindDecimal
	KindString
	KindBytes
	KindList
	KindFun
	KindNativeFun
	KindOpaque
)

var kindNames = [...]string{
	KindUnit:      "unit",
	KindBool:      "bool",
	KindNumber:    "number",
	KindDecimal:   "decimal",
	KindString:    "string",
	KindBytes:     "bytes",
	KindList:      "list",
	KindFun:       "fun",
	KindNativeFun: "native-fun",
	KindOpaque:    "opaque",
}

func (k ValueKind) String() string {
	if int(k) >= len(kindNames) {
		return fmt.Sprintf("<invalid ValueKind %d>", k)
	}
	return kindNames[k]
}

// Value is implemented by every runtime value variant.
type Value interface {
	Kind() ValueKind
	String() string
}

// Unit is the unique inhabitant of the Unit type, returned by statements
// and calls that produce no meaningful result.
type Unit struct{}

func (Unit) Kind() ValueKind { return KindUnit }
func (Unit) String() string  { return "()" }

// Bool wraps a boolean value.
type Bool bool

func (Bool) Kind() ValueKind  { return KindBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number is an arbitrary-precision integer. No bignum library appears in
// the retrieval pack, so this wraps the standard library's math/big.Int
// (see DESIGN.md's stdlib justifications).
type Number struct{ V *big.Int }

// NewNumber wraps an int64 as a Number.
func NewNumber(n int64) Number { return Number{V: big.NewInt(n)} }

// NewNumberFromString parses a base-10 integer literal into a Number.
func NewNumberFromString(s string) (Number, bool) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Number{}, false
	}
	return Number{V: v}, true
}

func (Number) Kind() ValueKind    { return KindNumber }
func (n Number) String() string   { return n.V.String() }

// Decimal is a host-defined decimal: an unscaled integer magnitude and a
// base-10 scale (value == Unscaled * 10^-Scale). The core treats it as an
// opaque immutable value (spec.md §9, Open Questions).
type Decimal struct {
	Unscaled *big.Int
	Scale    int32
}

func (Decimal) Kind() ValueKind { return KindDecimal }
func (d Decimal) String() string {
	return fmt.Sprintf("%se-%d", d.Unscaled.String(), d.Scale)
}

// String is an immutable string value.
type String string

func (String) Kind() ValueKind   { return KindString }
func (s String) String() string  { return string(s) }

// Bytes is an immutable byte sequence.
type Bytes []byte

func (Bytes) Kind() ValueKind { return KindBytes }
func (b Bytes) String() string {
	return fmt.Sprintf("#%x#", []byte(b))
}

// List is an ordered, immutable sequence of values.
type List struct{ Items []Value }

func NewList(items []Value) List { return List{Items: items} }

func (List) Kind() ValueKind { return KindList }
func (l List) String() string {
	s := "("
	for i, it := range l.Items {
		if i > 0 {
			s += " "
		}
		s += it.String()
	}
	return s + ")"
}

// InterpFun is an interpreted function handle as used by the tree-walk
// evaluator: a source location (for stack traces), the ordered parameter
// binders, and the (single-expression) body.
type InterpFun struct {
	Loc    ir.Location
	Params []ident.Ident
	Body   ir.Expr
}

func (InterpFun) Kind() ValueKind { return KindFun }
func (f InterpFun) String() string {
	return fmt.Sprintf("fun/%d", len(f.Params))
}

// FunRef is the VM's handle for a callable: either a compiled (interpreted)
// function, addressed by FunId, or a NIF, addressed by NifId. This mirrors
// the original Rust ValueFun enum (werbolg-core::ValueFun).
type FunRef struct {
	IsNative bool
	Fun      id.FunId
	Native   id.NifId
}

// FunRefToFun builds a FunRef addressing a compiled function.
func FunRefToFun(f id.FunId) FunRef { return FunRef{Fun: f} }

// FunRefToNative builds a FunRef addressing a NIF.
func FunRefToNative(n id.NifId) FunRef { return FunRef{IsNative: true, Native: n} }

// CompiledFun is the VM's function value: a FunRef, pushed by the FetchFun
// opcode and consumed by Call.
type CompiledFun struct{ Ref FunRef }

func (CompiledFun) Kind() ValueKind { return KindFun }
func (f CompiledFun) String() string {
	if f.Ref.IsNative {
		return fmt.Sprintf("native-fun(%d)", f.Ref.Native)
	}
	return fmt.Sprintf("fun(%d)", f.Ref.Fun)
}

// FromLiteral converts a parsed IR literal into its runtime Value. Shared
// by lang/eval (PushLiteral decomposition in work()) and lang/vm
// (PushLiteral opcode) so the two execution strategies agree on literal
// semantics.
func FromLiteral(l ir.Literal) Value {
	switch l.Kind {
	case ir.LitBool:
		return Bool(l.Bool)
	case ir.LitNumber:
		n, ok := NewNumberFromString(l.Str)
		if !ok {
			panic("value: invalid number literal " + l.Str)
		}
		return n
	case ir.LitString:
		return String(l.Str)
	case ir.LitBytes:
		return Bytes([]byte(l.Bytes))
	default:
		panic("value: unknown literal kind")
	}
}

// MutHost is the capability a NIF with Mut semantics needs: read/write
// access to the current bindings. Both lang/eval.ExecutionMachine and
// lang/vm.ExecutionMachine implement it.
type MutHost interface {
	GetBinding(i ident.Ident) (Value, error)
	AddLocalBinding(i ident.Ident, v Value)
}

// NIFPure is a NIF that only reads its arguments.
type NIFPure func(args []Value) (Value, error)

// NIFMut is a NIF that may read and write the calling machine's bindings.
type NIFMut func(host MutHost, args []Value) (Value, error)

// NIF bundles a NIF's name with exactly one of its two calling
// conventions (spec.md §6, §9): Pure (args only) or Mut (machine + args).
type NIF struct {
	Name string
	Pure NIFPure
	Mut  NIFMut
}

// IsMut reports whether this NIF uses the mutating calling convention.
func (n NIF) IsMut() bool { return n.Mut != nil }

// NativeFun is a first-class reference to a NIF, as seen by the tree-walk
// evaluator (the VM instead threads NifId through CompiledFun/FunRef).
type NativeFun struct{ NIF NIF }

func (NativeFun) Kind() ValueKind { return KindNativeFun }
func (f NativeFun) String() string {
	return fmt.Sprintf("native-fun(%s)", f.NIF.Name)
}

// Opaque is a host-defined handle, not introspectable by the language.
type Opaque struct {
	Tag  string
	Data any
}

func (Opaque) Kind() ValueKind { return KindOpaque }
func (o Opaque) String() string {
	return fmt.Sprintf("opaque(%s)", o.Tag)
}
