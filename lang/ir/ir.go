package ir

import "github.com/mna/werbolg/lang/ident"

// LiteralKind tags the four kinds of literal constants the grammar
// produces directly (booleans, numbers, strings, byte strings).
type LiteralKind uint8

const (
	LitBool LiteralKind = iota
	LitNumber
	LitString
	LitBytes
)

// Literal is a constant as it appears in source, before being turned into a
// runtime Value (done by lang/eval and lang/lower, each against their own
// Value representation needs).
//
// Literal is comparable (Bytes is a string, not a []byte) so it can serve
// directly as the key type of a lang/symbol.UniqueTableBuilder, letting
// lang/lower dedupe the constant pool by value instead of by position.
type Literal struct {
	Kind  LiteralKind
	Bool  bool   // for LitBool
	Str   string // raw text for LitNumber/LitString
	Bytes string // decoded payload for LitBytes, as a byte-for-byte string
}

// Module is the compilation unit: a flat list of top-level statements.
type Module struct {
	Statements []Statement
}

// Statement is either a top-level function definition or a top-level
// expression.
type Statement interface {
	statementNode()
}

// FunctionStmt binds a named function in the module's binding layer.
type FunctionStmt struct {
	Loc    Location
	FunDef FunDef
}

func (*FunctionStmt) statementNode() {}

// ExprStmt evaluates an expression for its value and, if it is the last
// statement in the module, that value becomes the module's result.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) statementNode() {}

// FunDef is a named function definition: an ordered list of parameter
// binders and a single body expression.
type FunDef struct {
	Name ident.Ident
	Vars []ident.Ident
	Body Expr
}

// Expr is implemented by every expression-tree node.
type Expr interface {
	Location() Location
	exprNode()
}

// LiteralExpr is a literal constant.
type LiteralExpr struct {
	Loc Location
	Lit Literal
}

func (e *LiteralExpr) Location() Location { return e.Loc }
func (*LiteralExpr) exprNode()            {}

// IdentExpr is a (possibly namespaced) identifier reference, merging the
// spec's "Ident/Path" variant into one node: NS is the root namespace for a
// bare identifier.
type IdentExpr struct {
	Loc  Location
	NS   ident.Namespace
	Name ident.Ident
}

func (e *IdentExpr) Location() Location { return e.Loc }
func (*IdentExpr) exprNode()            {}

// ListExpr is a literal list of expressions, e.g. '(1 2 3).
type ListExpr struct {
	Loc   Location
	Elems []Expr
}

func (e *ListExpr) Location() Location { return e.Loc }
func (*ListExpr) exprNode()            {}

// LambdaExpr is an anonymous function.
type LambdaExpr struct {
	Loc    Location
	Params []ident.Ident
	Body   Expr
}

func (e *LambdaExpr) Location() Location { return e.Loc }
func (*LambdaExpr) exprNode()            {}

// LetExpr binds Binder to the value of Init within the scope of Body.
type LetExpr struct {
	Loc    Location
	Binder ident.Ident
	Init   Expr
	Body   Expr
}

func (e *LetExpr) Location() Location { return e.Loc }
func (*LetExpr) exprNode()            {}

// ThenExpr sequences two expressions: First must evaluate to Unit, then
// Second is evaluated and its value is the result.
type ThenExpr struct {
	Loc    Location
	First  Expr
	Second Expr
}

func (e *ThenExpr) Location() Location { return e.Loc }
func (*ThenExpr) exprNode()            {}

// CallExpr applies Elems[0] (the callee) to Elems[1:] (the arguments).
type CallExpr struct {
	Loc   Location
	Elems []Expr
}

func (e *CallExpr) Location() Location { return e.Loc }
func (*CallExpr) exprNode()            {}

// IfExpr branches on Cond.
type IfExpr struct {
	Loc        Location
	Cond       Expr
	ThenBranch Expr
	ElseBranch Expr
}

func (e *IfExpr) Location() Location { return e.Loc }
func (*IfExpr) exprNode()            {}
