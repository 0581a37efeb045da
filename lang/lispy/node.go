// Package lispy implements the Lisp-like concrete syntax: a hand-written
// scanner (lang/lispy/token for the token kinds) and a recursive-descent,
// paren-tracked parser producing a small concrete-syntax Node tree. It is
// grounded on original_source/src/lang/lispy/parse.rs's Lexer/Parser pair
// (paren-tracked list builder, `(define ...)` recognition, number/string/
// bytes literals), written in the teacher's scanner/parser/token package
// split and error-handling idiom.
package lispy

import "github.com/mna/werbolg/lang/lispy/token"

// Node is a concrete-syntax tree node, one step removed from source text:
// parens are gone, `define` has already been special-cased, but nothing
// has been desugared into lang/ir yet (that's lang/desugar's job).
type Node interface {
	Pos() token.Pos
	nodeNode()
}

// Atom is a bare identifier, such as `foo` or `+`.
type Atom struct {
	P    token.Pos
	Name string
}

func (a *Atom) Pos() token.Pos { return a.P }
func (*Atom) nodeNode()        {}

// LiteralKind tags which payload a Lit node carries.
type LiteralKind uint8

const (
	LitNumber LiteralKind = iota
	LitString
	LitBytes
	LitBool
)

// Lit is a literal: a number (kept as its source text, parsed later by
// lang/value.NewNumberFromString), a string, a hex byte string, or a
// boolean.
type Lit struct {
	P     token.Pos
	Kind  LiteralKind
	Str   string
	Bytes []byte
	Bool  bool
}

func (l *Lit) Pos() token.Pos { return l.P }
func (*Lit) nodeNode()        {}

// List is a parenthesized sequence of nodes with no recognized special
// form at its head.
type List struct {
	P     token.Pos
	Elems []Node
}

func (l *List) Pos() token.Pos { return l.P }
func (*List) nodeNode()        {}

// Define is `(define (name args...) body...)` or `(define name body...)`,
// recognized by the parser the same way original_source's process_list
// special-cases a `define`-headed list.
type Define struct {
	P     token.Pos
	Name  string
	Args  []string
	Body  []Node
}

func (d *Define) Pos() token.Pos { return d.P }
func (*Define) nodeNode()        {}
