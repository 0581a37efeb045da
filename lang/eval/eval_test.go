package eval_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/werbolg/lang/eval"
	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/ir"
	"github.com/mna/werbolg/lang/value"
	"github.com/mna/werbolg/lang/werr"
)

func lit(n int64) *ir.LiteralExpr {
	return &ir.LiteralExpr{Lit: ir.Literal{Kind: ir.LitNumber, Str: strconv.FormatInt(n, 10)}}
}

func identExpr(name string) *ir.IdentExpr {
	return &ir.IdentExpr{Name: ident.FromString(name)}
}

func TestExecExprLiteral(t *testing.T) {
	em := eval.New()
	v, err := eval.ExecExpr(em, lit(42))
	require.NoError(t, err)
	require.Equal(t, value.NewNumber(42), v)
}

func TestExecExprMissingBinding(t *testing.T) {
	em := eval.New()
	_, err := eval.ExecExpr(em, identExpr("nope"))
	require.Error(t, err)
	var mb *werr.MissingBinding
	require.ErrorAs(t, err, &mb)
	require.Equal(t, "nope", mb.Ident.String())
}

func TestExecExprLet(t *testing.T) {
	em := eval.New()
	e := &ir.LetExpr{
		Binder: ident.FromString("x"),
		Init:   lit(5),
		Body:   identExpr("x"),
	}
	v, err := eval.ExecExpr(em, e)
	require.NoError(t, err)
	require.Equal(t, value.NewNumber(5), v)

	// After returning, x must not leak into the module/root layers.
	_, err = em.GetBinding(ident.FromString("x"))
	require.Error(t, err)
}

func TestExecExprIf(t *testing.T) {
	em := eval.New()
	e := &ir.IfExpr{
		Cond:       &ir.LiteralExpr{Lit: ir.Literal{Kind: ir.LitBool, Bool: true}},
		ThenBranch: lit(1),
		ElseBranch: lit(2),
	}
	v, err := eval.ExecExpr(em, e)
	require.NoError(t, err)
	require.Equal(t, value.NewNumber(1), v)
}

func TestExecExprThenRequiresUnit(t *testing.T) {
	em := eval.New()
	e := &ir.ThenExpr{First: lit(1), Second: lit(2)}
	_, err := eval.ExecExpr(em, e)
	require.Error(t, err)
	var vk *werr.ValueKindUnexpected
	require.ErrorAs(t, err, &vk)
}

func TestCallingNotFunc(t *testing.T) {
	em := eval.New()
	e := &ir.CallExpr{Elems: []ir.Expr{lit(1), lit(2), lit(3)}}
	_, err := eval.ExecExpr(em, e)
	require.Error(t, err)
	var cnf *werr.CallingNotFunc
	require.ErrorAs(t, err, &cnf)
	require.Equal(t, value.KindNumber, cnf.ValueIs)
}

func TestEmptyCallIsUnit(t *testing.T) {
	em := eval.New()
	v, err := eval.ExecExpr(em, &ir.CallExpr{})
	require.NoError(t, err)
	require.Equal(t, value.Unit{}, v)
}

func TestLambdaArityError(t *testing.T) {
	em := eval.New()
	lam := &ir.LambdaExpr{Params: []ident.Ident{ident.FromString("x")}, Body: identExpr("x")}
	e := &ir.CallExpr{Elems: []ir.Expr{lam, lit(1), lit(2)}}
	_, err := eval.ExecExpr(em, e)
	require.Error(t, err)
	var ae *werr.ArityError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, 1, ae.Expected)
	require.Equal(t, 2, ae.Got)
}

// TestArgumentOrder pins the order a callee receives its arguments in:
// source order, left to right, even though the evaluator's internal batch
// is a stack consumed back-to-front (the last argument is evaluated
// first).
func TestArgumentOrder(t *testing.T) {
	em := eval.New()
	var order []int
	em.AddNativeFun("track", value.NIF{Pure: func(args []value.Value) (value.Value, error) {
		for _, a := range args {
			n := a.(value.Number)
			order = append(order, int(n.V.Int64()))
		}
		return value.Unit{}, nil
	}})

	e := &ir.CallExpr{Elems: []ir.Expr{identExpr("track"), lit(1), lit(2), lit(3)}}
	_, err := eval.ExecExpr(em, e)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, order)
}

// TestScopeBalanceAcrossCall exercises spec.md §8's scope-discipline
// invariant: ScopeEnter/ScopeLeave stay balanced across a normal call
// return, so the machine's Depth() is the same before and after.
func TestScopeBalanceAcrossCall(t *testing.T) {
	em := eval.New()
	lam := &ir.LambdaExpr{Params: []ident.Ident{ident.FromString("x")}, Body: identExpr("x")}
	e := &ir.CallExpr{Elems: []ir.Expr{lam, lit(9)}}

	before := em.Depth()
	v, err := eval.ExecExpr(em, e)
	require.NoError(t, err)
	require.Equal(t, value.NewNumber(9), v)
	require.Equal(t, before, em.Depth())
}

func TestAbortFuncStopsExecution(t *testing.T) {
	em := eval.New()
	em.AbortFunc = func() bool { return true }
	_, err := eval.ExecExpr(em, lit(1))
	require.ErrorIs(t, err, werr.Abort)
}

func TestMutNifReadsAndWritesBindings(t *testing.T) {
	em := eval.New()
	em.AddNativeFun("setm", value.NIF{Mut: func(host value.MutHost, args []value.Value) (value.Value, error) {
		host.AddLocalBinding(ident.FromString("y"), args[0])
		return host.GetBinding(ident.FromString("y"))
	}})
	e := &ir.CallExpr{Elems: []ir.Expr{identExpr("setm"), lit(3)}}
	v, err := eval.ExecExpr(em, e)
	require.NoError(t, err)
	require.Equal(t, value.NewNumber(3), v)
}
