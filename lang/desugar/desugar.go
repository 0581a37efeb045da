// Package desugar turns a lang/lispy concrete-syntax tree into lang/ir:
// the mechanical step spec.md §1 calls "syntactic-sugar desugaring",
// recognizing the `let`/`if`/`lambda`/`then` special forms and folding a
// function or let body's implicit statement sequence into nested Then
// expressions.
package desugar

import (
	"fmt"

	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/ir"
	"github.com/mna/werbolg/lang/lispy"
	"github.com/mna/werbolg/lang/lispy/token"
)

// Error reports a malformed special form (wrong arity, wrong shape of
// operand) found while desugaring.
type Error struct {
	Loc ir.Location
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Msg)
}

// Module desugars a full program: every top-level Define becomes a
// Function statement, everything else an Expr statement.
func Module(nodes []lispy.Node) (ir.Module, error) {
	var m ir.Module
	for _, n := range nodes {
		switch n := n.(type) {
		case *lispy.Define:
			fd, err := define(n)
			if err != nil {
				return ir.Module{}, err
			}
			m.Statements = append(m.Statements, &ir.FunctionStmt{Loc: pos(n.P), FunDef: fd})
		default:
			e, err := Expr(n)
			if err != nil {
				return ir.Module{}, err
			}
			m.Statements = append(m.Statements, &ir.ExprStmt{Expr: e})
		}
	}
	return m, nil
}

func define(d *lispy.Define) (ir.FunDef, error) {
	body, err := sequence(d.P, d.Body)
	if err != nil {
		return ir.FunDef{}, err
	}
	vars := make([]ident.Ident, len(d.Args))
	for i, a := range d.Args {
		vars[i] = ident.FromString(a)
	}
	return ir.FunDef{Name: ident.FromString(d.Name), Vars: vars, Body: body}, nil
}

// Expr desugars a single concrete-syntax node into an IR expression.
func Expr(n lispy.Node) (ir.Expr, error) {
	switch n := n.(type) {
	case *lispy.Lit:
		return &ir.LiteralExpr{Loc: pos(n.P), Lit: literal(n)}, nil

	case *lispy.Atom:
		// Besides the #t/#f literals the scanner produces, the bare atoms
		// true/false are special-cased here as booleans, the same way if/
		// let/lambda/then/list are special-cased as list-head keywords below.
		switch n.Name {
		case "true":
			return &ir.LiteralExpr{Loc: pos(n.P), Lit: ir.Literal{Kind: ir.LitBool, Bool: true}}, nil
		case "false":
			return &ir.LiteralExpr{Loc: pos(n.P), Lit: ir.Literal{Kind: ir.LitBool, Bool: false}}, nil
		}
		return &ir.IdentExpr{Loc: pos(n.P), Name: ident.FromString(n.Name)}, nil

	case *lispy.List:
		return list(n)

	case *lispy.Define:
		return nil, &Error{Loc: pos(n.P), Msg: "define is only valid at the top level"}

	default:
		return nil, &Error{Msg: "unknown node kind"}
	}
}

func pos(p token.Pos) ir.Location { return ir.Location{Line: p.Line, Col: p.Col} }

func literal(n *lispy.Lit) ir.Literal {
	switch n.Kind {
	case lispy.LitNumber:
		return ir.Literal{Kind: ir.LitNumber, Str: n.Str}
	case lispy.LitString:
		return ir.Literal{Kind: ir.LitString, Str: n.Str}
	case lispy.LitBytes:
		return ir.Literal{Kind: ir.LitBytes, Bytes: string(n.Bytes)}
	case lispy.LitBool:
		return ir.Literal{Kind: ir.LitBool, Bool: n.Bool}
	default:
		panic("desugar: unknown literal kind")
	}
}

func list(n *lispy.List) (ir.Expr, error) {
	if len(n.Elems) == 0 {
		return &ir.ListExpr{Loc: pos(n.P)}, nil
	}

	if head, ok := n.Elems[0].(*lispy.Atom); ok {
		switch head.Name {
		case "if":
			return ifExpr(n)
		case "let":
			return letExpr(n)
		case "lambda":
			return lambdaExpr(n)
		case "then":
			return thenExpr(n)
		case "list":
			return plainList(n)
		}
	}
	return callExpr(n)
}

func ifExpr(n *lispy.List) (ir.Expr, error) {
	if len(n.Elems) != 4 {
		return nil, &Error{Loc: pos(n.P), Msg: "if requires exactly 3 operands: condition, then-branch, else-branch"}
	}
	cond, err := Expr(n.Elems[1])
	if err != nil {
		return nil, err
	}
	then, err := Expr(n.Elems[2])
	if err != nil {
		return nil, err
	}
	els, err := Expr(n.Elems[3])
	if err != nil {
		return nil, err
	}
	return &ir.IfExpr{Loc: pos(n.P), Cond: cond, ThenBranch: then, ElseBranch: els}, nil
}

// letExpr recognizes `(let ((x e1)) e2)`: a single-element binding list
// followed by the body expression.
func letExpr(n *lispy.List) (ir.Expr, error) {
	if len(n.Elems) != 3 {
		return nil, &Error{Loc: pos(n.P), Msg: "let requires a binding list and a body expression"}
	}
	bindings, ok := n.Elems[1].(*lispy.List)
	if !ok || len(bindings.Elems) != 1 {
		return nil, &Error{Loc: pos(n.P), Msg: "let's binding list must contain exactly one (name init) pair"}
	}
	binding, ok := bindings.Elems[0].(*lispy.List)
	if !ok || len(binding.Elems) != 2 {
		return nil, &Error{Loc: pos(n.P), Msg: "let binding must be a (name init) pair"}
	}
	name, ok := binding.Elems[0].(*lispy.Atom)
	if !ok {
		return nil, &Error{Loc: pos(binding.Elems[0].Pos()), Msg: "let binding name must be an atom"}
	}
	init, err := Expr(binding.Elems[1])
	if err != nil {
		return nil, err
	}
	body, err := Expr(n.Elems[2])
	if err != nil {
		return nil, err
	}
	return &ir.LetExpr{Loc: pos(n.P), Binder: ident.FromString(name.Name), Init: init, Body: body}, nil
}

func lambdaExpr(n *lispy.List) (ir.Expr, error) {
	if len(n.Elems) < 2 {
		return nil, &Error{Loc: pos(n.P), Msg: "lambda requires a parameter list and a body"}
	}
	paramList, ok := n.Elems[1].(*lispy.List)
	if !ok {
		return nil, &Error{Loc: pos(n.P), Msg: "lambda's second element must be a parameter list"}
	}
	params := make([]ident.Ident, len(paramList.Elems))
	for i, e := range paramList.Elems {
		a, ok := e.(*lispy.Atom)
		if !ok {
			return nil, &Error{Loc: pos(e.Pos()), Msg: "lambda parameters must be atoms"}
		}
		params[i] = ident.FromString(a.Name)
	}
	body, err := sequence(n.P, n.Elems[2:])
	if err != nil {
		return nil, err
	}
	return &ir.LambdaExpr{Loc: pos(n.P), Params: params, Body: body}, nil
}

func thenExpr(n *lispy.List) (ir.Expr, error) {
	if len(n.Elems) != 3 {
		return nil, &Error{Loc: pos(n.P), Msg: "then requires exactly 2 operands"}
	}
	first, err := Expr(n.Elems[1])
	if err != nil {
		return nil, err
	}
	second, err := Expr(n.Elems[2])
	if err != nil {
		return nil, err
	}
	return &ir.ThenExpr{Loc: pos(n.P), First: first, Second: second}, nil
}

func plainList(n *lispy.List) (ir.Expr, error) {
	elems := make([]ir.Expr, len(n.Elems)-1)
	for i, e := range n.Elems[1:] {
		de, err := Expr(e)
		if err != nil {
			return nil, err
		}
		elems[i] = de
	}
	return &ir.ListExpr{Loc: pos(n.P), Elems: elems}, nil
}

func callExpr(n *lispy.List) (ir.Expr, error) {
	elems := make([]ir.Expr, len(n.Elems))
	for i, e := range n.Elems {
		de, err := Expr(e)
		if err != nil {
			return nil, err
		}
		elems[i] = de
	}
	return &ir.CallExpr{Loc: pos(n.P), Elems: elems}, nil
}

// sequence folds a function/lambda body's statement list into a single
// expression via nested Then (spec.md §4.6's implicit sequencing): all
// but the last statement must evaluate to Unit.
func sequence(at token.Pos, nodes []lispy.Node) (ir.Expr, error) {
	if len(nodes) == 0 {
		return nil, &Error{Loc: pos(at), Msg: "body must have at least one expression"}
	}
	exprs := make([]ir.Expr, len(nodes))
	for i, n := range nodes {
		e, err := Expr(n)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	result := exprs[len(exprs)-1]
	for i := len(exprs) - 2; i >= 0; i-- {
		result = &ir.ThenExpr{Loc: exprs[i].Location(), First: exprs[i], Second: result}
	}
	return result, nil
}
