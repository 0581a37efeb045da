package lispy

import (
	"fmt"

	"github.com/mna/werbolg/lang/lispy/token"
)

// ParseError is returned for a structural error: an unbalanced paren or a
// malformed `define`. Lexical errors (ScanError) are reported separately
// through the error handler passed to Init, matching the teacher's
// scanner/parser split (the scanner never stops the parser on its own).
type ParseError struct {
	Pos token.Pos
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}

// listBuild accumulates the elements of an in-progress parenthesized list,
// mirroring original_source's ListCreate.
type listBuild struct {
	start token.Pos
	elems []Node
}

// Parser consumes a Scanner's tokens into a stream of top-level Nodes.
type Parser struct {
	scanner *Scanner
	errs    []error
	ctx     []listBuild
}

// NewParser returns a Parser reading from scanner. Scanner errors reported
// through its own error handler are independent of Parser.Errs.
func NewParser(scanner *Scanner) *Parser {
	return &Parser{scanner: scanner}
}

// Errs returns every structural parse error accumulated so far.
func (p *Parser) Errs() []error { return p.errs }

func (p *Parser) errorf(pos token.Pos, format string, args ...any) {
	p.errs = append(p.errs, &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// ParseAll consumes every token from the scanner and returns the top-level
// Nodes (one per complete list or atom/literal at depth 0). It stops at
// the first structural error; callers should check Errs() after.
func (p *Parser) ParseAll() []Node {
	var nodes []Node
	for {
		n, ok := p.next()
		if !ok {
			return nodes
		}
		nodes = append(nodes, n)
	}
}

// next returns the next top-level Node, or ok=false at EOF (with any
// unterminated list reported as a structural error) or after the first
// structural error.
func (p *Parser) next() (Node, bool) {
	if len(p.errs) > 0 {
		return nil, false
	}
	for {
		tok, val := p.scanner.Scan()
		switch tok {
		case token.EOF:
			if len(p.ctx) > 0 {
				p.errorf(p.ctx[len(p.ctx)-1].start, "unterminated list")
			}
			return nil, false

		case token.LPAREN:
			p.ctx = append(p.ctx, listBuild{start: val.Pos})

		case token.RPAREN:
			n, yielded := p.popList(val.Pos)
			if len(p.errs) > 0 {
				return nil, false
			}
			if yielded {
				return n, true
			}

		case token.IDENT:
			if n, ok := p.push(&Atom{P: val.Pos, Name: val.Raw}); ok {
				return n, true
			}

		case token.NUMBER:
			if n, ok := p.push(&Lit{P: val.Pos, Kind: LitNumber, Str: val.Raw}); ok {
				return n, true
			}

		case token.STRING:
			if n, ok := p.push(&Lit{P: val.Pos, Kind: LitString, Str: val.Str}); ok {
				return n, true
			}

		case token.BYTES:
			if n, ok := p.push(&Lit{P: val.Pos, Kind: LitBytes, Bytes: val.Bytes}); ok {
				return n, true
			}

		case token.BOOL:
			if n, ok := p.push(&Lit{P: val.Pos, Kind: LitBool, Bool: val.Bool}); ok {
				return n, true
			}

		case token.ILLEGAL:
			p.errorf(val.Pos, "illegal token %q", val.Raw)
			return nil, false
		}
	}
}

// push adds n to the innermost open list, or yields it directly as a
// top-level node if no list is open.
func (p *Parser) push(n Node) (Node, bool) {
	if len(p.ctx) == 0 {
		return n, true
	}
	top := &p.ctx[len(p.ctx)-1]
	top.elems = append(top.elems, n)
	return nil, false
}

// popList closes the innermost list, runs define recognition on it, and
// either yields the result at top level or appends it to the enclosing
// list.
func (p *Parser) popList(end token.Pos) (Node, bool) {
	if len(p.ctx) == 0 {
		p.errorf(end, "unmatched closing paren")
		return nil, false
	}
	top := p.ctx[len(p.ctx)-1]
	p.ctx = p.ctx[:len(p.ctx)-1]

	n, err := p.processList(top.start, top.elems)
	if err != nil {
		p.errs = append(p.errs, err)
		return nil, false
	}
	return p.push(n)
}

// popList's bool result means "yielded at top level"; false with no new
// error means n was appended to the now-current (enclosing) list instead.

// processList recognizes `(define ...)` the same way original_source's
// process_list special-cases a list whose head atom is `define`;
// everything else stays a plain List.
func (p *Parser) processList(start token.Pos, elems []Node) (Node, error) {
	if len(elems) == 0 {
		return &List{P: start, Elems: elems}, nil
	}
	head, ok := elems[0].(*Atom)
	if !ok || head.Name != "define" {
		return &List{P: start, Elems: elems}, nil
	}
	return p.parseDefine(start, elems)
}

func (p *Parser) parseDefine(start token.Pos, elems []Node) (Node, error) {
	if len(elems) < 2 {
		return nil, &ParseError{Pos: start, Msg: "define requires a name and a body"}
	}

	var name string
	var args []string
	switch head := elems[1].(type) {
	case *Atom:
		name = head.Name
	case *List:
		if len(head.Elems) == 0 {
			return nil, &ParseError{Pos: head.P, Msg: "define's argument list is empty"}
		}
		first, ok := head.Elems[0].(*Atom)
		if !ok {
			return nil, &ParseError{Pos: head.Elems[0].Pos(), Msg: "define's name must be an atom"}
		}
		name = first.Name
		for _, e := range head.Elems[1:] {
			a, ok := e.(*Atom)
			if !ok {
				return nil, &ParseError{Pos: e.Pos(), Msg: "define's parameters must be atoms"}
			}
			args = append(args, a.Name)
		}
	default:
		return nil, &ParseError{Pos: elems[1].Pos(), Msg: "define's second element must be a name or a parameter list"}
	}

	return &Define{P: start, Name: name, Args: args, Body: elems[2:]}, nil
}
