package desugar_test

import (
	"testing"

	"github.com/mna/werbolg/lang/desugar"
	"github.com/mna/werbolg/lang/ir"
	"github.com/mna/werbolg/lang/lispy"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) []lispy.Node {
	t.Helper()
	var s lispy.Scanner
	s.Init([]byte(src), func(err error) { t.Fatalf("scan error: %v", err) })
	p := lispy.NewParser(&s)
	nodes := p.ParseAll()
	require.Empty(t, p.Errs())
	return nodes
}

func TestModuleAdd3(t *testing.T) {
	nodes := parse(t, `
	(define (add3 a b c)
		(+ (+ a b) c)
	)
	(add3 10 20 30)
	`)

	m, err := desugar.Module(nodes)
	require.NoError(t, err)
	require.Len(t, m.Statements, 2)

	fn, ok := m.Statements[0].(*ir.FunctionStmt)
	require.True(t, ok)
	require.Equal(t, "add3", fn.FunDef.Name.String())
	require.Len(t, fn.FunDef.Vars, 3)

	call, ok := fn.FunDef.Body.(*ir.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Elems, 3)
	callee, ok := call.Elems[0].(*ir.IdentExpr)
	require.True(t, ok)
	require.Equal(t, "+", callee.Name.String())

	top, ok := m.Statements[1].(*ir.ExprStmt)
	require.True(t, ok)
	topCall, ok := top.Expr.(*ir.CallExpr)
	require.True(t, ok)
	require.Len(t, topCall.Elems, 4)
}

func TestIfExpr(t *testing.T) {
	nodes := parse(t, `(if #t 1 2)`)
	m, err := desugar.Module(nodes)
	require.NoError(t, err)

	stmt := m.Statements[0].(*ir.ExprStmt)
	ife, ok := stmt.Expr.(*ir.IfExpr)
	require.True(t, ok)
	cond, ok := ife.Cond.(*ir.LiteralExpr)
	require.True(t, ok)
	require.Equal(t, ir.LitBool, cond.Lit.Kind)
	require.True(t, cond.Lit.Bool)
}

func TestBoolLiteralAtoms(t *testing.T) {
	nodes := parse(t, `(if true 1 false)`)
	m, err := desugar.Module(nodes)
	require.NoError(t, err)

	stmt := m.Statements[0].(*ir.ExprStmt)
	ife, ok := stmt.Expr.(*ir.IfExpr)
	require.True(t, ok)

	cond, ok := ife.Cond.(*ir.LiteralExpr)
	require.True(t, ok)
	require.Equal(t, ir.LitBool, cond.Lit.Kind)
	require.True(t, cond.Lit.Bool)

	els, ok := ife.ElseBranch.(*ir.LiteralExpr)
	require.True(t, ok)
	require.Equal(t, ir.LitBool, els.Lit.Kind)
	require.False(t, els.Lit.Bool)
}

func TestIfWrongArity(t *testing.T) {
	nodes := parse(t, `(if #t 1)`)
	_, err := desugar.Module(nodes)
	require.Error(t, err)
}

func TestLetExpr(t *testing.T) {
	nodes := parse(t, `(let ((x 5)) x)`)
	m, err := desugar.Module(nodes)
	require.NoError(t, err)

	stmt := m.Statements[0].(*ir.ExprStmt)
	let, ok := stmt.Expr.(*ir.LetExpr)
	require.True(t, ok)
	require.Equal(t, "x", let.Binder.String())
	lit, ok := let.Init.(*ir.LiteralExpr)
	require.True(t, ok)
	require.Equal(t, ir.LitNumber, lit.Lit.Kind)
	require.Equal(t, "5", lit.Lit.Str)
	body, ok := let.Body.(*ir.IdentExpr)
	require.True(t, ok)
	require.Equal(t, "x", body.Name.String())
}

func TestLambdaExprAndSequence(t *testing.T) {
	nodes := parse(t, `(lambda (x y) (+ x y) x)`)
	m, err := desugar.Module(nodes)
	require.NoError(t, err)

	stmt := m.Statements[0].(*ir.ExprStmt)
	lam, ok := stmt.Expr.(*ir.LambdaExpr)
	require.True(t, ok)
	require.Len(t, lam.Params, 2)

	then, ok := lam.Body.(*ir.ThenExpr)
	require.True(t, ok)
	_, ok = then.First.(*ir.CallExpr)
	require.True(t, ok)
	ident2, ok := then.Second.(*ir.IdentExpr)
	require.True(t, ok)
	require.Equal(t, "x", ident2.Name.String())
}

func TestThenExpr(t *testing.T) {
	nodes := parse(t, `(then (+ 1 2) 3)`)
	m, err := desugar.Module(nodes)
	require.NoError(t, err)

	stmt := m.Statements[0].(*ir.ExprStmt)
	then, ok := stmt.Expr.(*ir.ThenExpr)
	require.True(t, ok)
	_, ok = then.First.(*ir.CallExpr)
	require.True(t, ok)
	_, ok = then.Second.(*ir.LiteralExpr)
	require.True(t, ok)
}

func TestPlainList(t *testing.T) {
	nodes := parse(t, `(list 1 2 3)`)
	m, err := desugar.Module(nodes)
	require.NoError(t, err)

	stmt := m.Statements[0].(*ir.ExprStmt)
	le, ok := stmt.Expr.(*ir.ListExpr)
	require.True(t, ok)
	require.Len(t, le.Elems, 3)
}

func TestDefineNestedIsError(t *testing.T) {
	nodes := parse(t, `((define (x) 1))`)
	_, err := desugar.Module(nodes)
	require.Error(t, err)
}
