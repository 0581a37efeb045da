// Package stdnif implements the small standard library of NIFs every
// werbolg program is linked against: arithmetic and comparison, boolean
// logic, list construction and destructuring, and a "print" side-effecting
// builtin. It is grounded on the arithmetic NIF implied by spec.md §8
// scenario 1 (`+` as a numeric NIF) and on the teacher's
// lang/machine/universe.go pattern of a package-level builtins table, and
// exercises both NIF ABI flavors named in spec.md §6/§9: most builtins are
// Pure, and a pair of them (SetGlobal/GetGlobal) are Mut, giving the
// otherwise-unfinished Mut path (spec.md §9 "NIF mutability") a concrete,
// host-runnable round trip.
package stdnif

import (
	"fmt"
	"io"
	"math/big"

	"github.com/mna/werbolg/lang/compile"
	"github.com/mna/werbolg/lang/eval"
	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/value"
	"github.com/mna/werbolg/lang/werr"
)

// Library bundles the host-supplied capabilities the standard NIFs need
// beyond their arguments: currently just where "print" writes to.
type Library struct {
	// Stdout receives the output of the print NIF. A nil Stdout makes print
	// a no-op, which is convenient for tests that don't care about output.
	Stdout io.Writer
}

// RegisterEval registers every standard NIF in em's root layer, for the
// tree-walking evaluator (spec.md §4.6's Call semantics resolve a
// NativeFun value bound under its name).
func (l Library) RegisterEval(em *eval.ExecutionMachine) {
	for name, nif := range l.entries() {
		em.AddNativeFun(name, nif)
	}
}

// RegisterEnv registers every standard NIF into env for the linear VM:
// each NIF gets both a NifId (so the VM can dispatch Call to it) and a
// Global of a value.CompiledFun referencing that NifId (so lang/lower can
// resolve the builtin's name to a FetchGlobal instruction, the same way
// it resolves an ordinary top-level function).
func (l Library) RegisterEnv(env *compile.Environment[value.NIF, value.Value]) {
	for name, nif := range l.entries() {
		nifID := env.AddNif(ident.Root, ident.FromString(name), nif)
		env.AddGlobal(ident.Root, ident.FromString(name), value.CompiledFun{Ref: value.FunRefToNative(nifID)})
	}
}

func (l Library) entries() map[string]value.NIF {
	return map[string]value.NIF{
		"+":  nif("+", pureVariadicFold(big.NewInt(0), (*big.Int).Add)),
		"*":  nif("*", pureVariadicFold(big.NewInt(1), (*big.Int).Mul)),
		"-":  nif("-", pureSub),
		"/":  nif("/", pureDiv),
		"=":  nif("=", pureCompareChain(func(c int) bool { return c == 0 })),
		"<":  nif("<", pureCompareChain(func(c int) bool { return c < 0 })),
		">":  nif(">", pureCompareChain(func(c int) bool { return c > 0 })),
		"<=": nif("<=", pureCompareChain(func(c int) bool { return c <= 0 })),
		">=": nif(">=", pureCompareChain(func(c int) bool { return c >= 0 })),

		"and": nif("and", pureBoolFold(true, func(a, b bool) bool { return a && b })),
		"or":  nif("or", pureBoolFold(false, func(a, b bool) bool { return a || b })),
		"not": nif("not", pureNot),

		"list": nif("list", pureList),
		"cons": nif("cons", pureCons),
		"car":  nif("car", pureCar),
		"cdr":  nif("cdr", pureCdr),
		"len":  nif("len", pureLen),

		"print": nif("print", l.purePrint),

		"setglobal!": mutNif("setglobal!", mutSetGlobal),
		"getglobal":  mutNif("getglobal", mutGetGlobal),
	}
}

func nif(name string, f value.NIFPure) value.NIF   { return value.NIF{Name: name, Pure: f} }
func mutNif(name string, f value.NIFMut) value.NIF { return value.NIF{Name: name, Mut: f} }

func asNumber(v value.Value) (*big.Int, error) {
	n, ok := v.(value.Number)
	if !ok {
		return nil, &werr.ValueKindUnexpected{Expected: value.KindNumber, Got: v.Kind()}
	}
	return n.V, nil
}

func asBool(v value.Value) (bool, error) {
	b, ok := v.(value.Bool)
	if !ok {
		return false, &werr.ValueKindUnexpected{Expected: value.KindBool, Got: v.Kind()}
	}
	return bool(b), nil
}

func asList(v value.Value) (value.List, error) {
	l, ok := v.(value.List)
	if !ok {
		return value.List{}, &werr.ValueKindUnexpected{Expected: value.KindList, Got: v.Kind()}
	}
	return l, nil
}

func asString(v value.Value) (string, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", &werr.ValueKindUnexpected{Expected: value.KindString, Got: v.Kind()}
	}
	return string(s), nil
}

// pureVariadicFold builds a left fold over zero or more Number arguments,
// starting from identity (0 for +, 1 for *).
func pureVariadicFold(identity *big.Int, op func(z, x, y *big.Int) *big.Int) value.NIFPure {
	return func(args []value.Value) (value.Value, error) {
		acc := new(big.Int).Set(identity)
		for _, a := range args {
			n, err := asNumber(a)
			if err != nil {
				return nil, err
			}
			acc = op(new(big.Int), acc, n)
		}
		return value.Number{V: acc}, nil
	}
}

// pureSub implements unary negation ((- x) = -x) and left-to-right
// subtraction for two or more arguments, Scheme-style.
func pureSub(args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return nil, &werr.ArityError{Expected: 1, Got: 0}
	}
	first, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return value.Number{V: new(big.Int).Neg(first)}, nil
	}
	acc := new(big.Int).Set(first)
	for _, a := range args[1:] {
		n, err := asNumber(a)
		if err != nil {
			return nil, err
		}
		acc.Sub(acc, n)
	}
	return value.Number{V: acc}, nil
}

// pureDiv implements integer division, left-to-right, for two or more
// arguments; division by zero is reported as an error rather than
// panicking (math/big.Int.Div would panic).
func pureDiv(args []value.Value) (value.Value, error) {
	if len(args) < 2 {
		return nil, &werr.ArityError{Expected: 2, Got: len(args)}
	}
	acc, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	acc = new(big.Int).Set(acc)
	for _, a := range args[1:] {
		n, err := asNumber(a)
		if err != nil {
			return nil, err
		}
		if n.Sign() == 0 {
			return nil, fmt.Errorf("stdnif: division by zero")
		}
		acc.Quo(acc, n)
	}
	return value.Number{V: acc}, nil
}

// pureCompareChain builds a chained comparison (a OP b OP c ...), true iff
// every adjacent pair satisfies ok(cmp(a,b)).
func pureCompareChain(ok func(cmp int) bool) value.NIFPure {
	return func(args []value.Value) (value.Value, error) {
		if len(args) < 2 {
			return nil, &werr.ArityError{Expected: 2, Got: len(args)}
		}
		prev, err := asNumber(args[0])
		if err != nil {
			return nil, err
		}
		for _, a := range args[1:] {
			n, err := asNumber(a)
			if err != nil {
				return nil, err
			}
			if !ok(prev.Cmp(n)) {
				return value.Bool(false), nil
			}
			prev = n
		}
		return value.Bool(true), nil
	}
}

func pureBoolFold(identity bool, op func(a, b bool) bool) value.NIFPure {
	return func(args []value.Value) (value.Value, error) {
		acc := identity
		for _, a := range args {
			b, err := asBool(a)
			if err != nil {
				return nil, err
			}
			acc = op(acc, b)
		}
		return value.Bool(acc), nil
	}
}

func pureNot(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, &werr.ArityError{Expected: 1, Got: len(args)}
	}
	b, err := asBool(args[0])
	if err != nil {
		return nil, err
	}
	return value.Bool(!b), nil
}

func pureList(args []value.Value) (value.Value, error) {
	items := make([]value.Value, len(args))
	copy(items, args)
	return value.NewList(items), nil
}

func pureCons(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, &werr.ArityError{Expected: 2, Got: len(args)}
	}
	l, err := asList(args[1])
	if err != nil {
		return nil, err
	}
	items := make([]value.Value, 0, len(l.Items)+1)
	items = append(items, args[0])
	items = append(items, l.Items...)
	return value.NewList(items), nil
}

func pureCar(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, &werr.ArityError{Expected: 1, Got: len(args)}
	}
	l, err := asList(args[0])
	if err != nil {
		return nil, err
	}
	if len(l.Items) == 0 {
		return nil, fmt.Errorf("stdnif: car of an empty list")
	}
	return l.Items[0], nil
}

func pureCdr(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, &werr.ArityError{Expected: 1, Got: len(args)}
	}
	l, err := asList(args[0])
	if err != nil {
		return nil, err
	}
	if len(l.Items) == 0 {
		return nil, fmt.Errorf("stdnif: cdr of an empty list")
	}
	return value.NewList(l.Items[1:]), nil
}

func pureLen(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, &werr.ArityError{Expected: 1, Got: len(args)}
	}
	switch v := args[0].(type) {
	case value.List:
		return value.NewNumber(int64(len(v.Items))), nil
	case value.String:
		return value.NewNumber(int64(len(v))), nil
	case value.Bytes:
		return value.NewNumber(int64(len(v))), nil
	default:
		return nil, &werr.ValueKindUnexpected{Expected: value.KindList, Got: v.Kind()}
	}
}

func (l Library) purePrint(args []value.Value) (value.Value, error) {
	if l.Stdout != nil {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(l.Stdout, " ")
			}
			fmt.Fprint(l.Stdout, a.String())
		}
		fmt.Fprintln(l.Stdout)
	}
	return value.Unit{}, nil
}

// mutSetGlobal writes args[1] under the binding named by args[0] (a
// String) through the host's MutHost capability: in the tree-walker this
// binds in the module layer (AddModuleBinding); in the VM it writes to the module's
// global table via lir.Module.GlobalsByIdent (see lang/vm.ExecutionMachine
// and DESIGN.md's Open Question decision on Mut NIFs and named bindings).
func mutSetGlobal(host value.MutHost, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, &werr.ArityError{Expected: 2, Got: len(args)}
	}
	name, err := asString(args[0])
	if err != nil {
		return nil, err
	}
	if mh, ok := host.(interface {
		AddModuleBinding(ident.Ident, value.Value)
	}); ok {
		mh.AddModuleBinding(ident.FromString(name), args[1])
	} else {
		host.AddLocalBinding(ident.FromString(name), args[1])
	}
	return value.Unit{}, nil
}

// mutGetGlobal reads back the binding named by args[0] through the host's
// MutHost capability, completing the round trip with mutSetGlobal.
func mutGetGlobal(host value.MutHost, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, &werr.ArityError{Expected: 1, Got: len(args)}
	}
	name, err := asString(args[0])
	if err != nil {
		return nil, err
	}
	return host.GetBinding(ident.FromString(name))
}
