package lispy

import (
	"fmt"
	"io"
)

// Fprint writes a parenthesized rendering of n to w.
func Fprint(w io.Writer, n Node) error {
	pw := &printWriter{w: w}
	pw.print(n)
	return pw.err
}

type printWriter struct {
	w   io.Writer
	err error
}

func (pw *printWriter) writef(format string, args ...any) {
	if pw.err != nil {
		return
	}
	_, pw.err = fmt.Fprintf(pw.w, format, args...)
}

func (pw *printWriter) print(n Node) {
	if pw.err != nil {
		return
	}
	switch n := n.(type) {
	case *Atom:
		pw.writef("%s", n.Name)

	case *Lit:
		switch n.Kind {
		case LitNumber:
			pw.writef("%s", n.Str)
		case LitString:
			pw.writef("%q", n.Str)
		case LitBytes:
			pw.writef("#%x#", n.Bytes)
		case LitBool:
			if n.Bool {
				pw.writef("#t")
			} else {
				pw.writef("#f")
			}
		}

	case *List:
		pw.writef("(")
		for i, e := range n.Elems {
			if i > 0 {
				pw.writef(" ")
			}
			pw.print(e)
		}
		pw.writef(")")

	case *Define:
		pw.writef("(define (%s", n.Name)
		for _, a := range n.Args {
			pw.writef(" %s", a)
		}
		pw.writef(")")
		for _, b := range n.Body {
			pw.writef(" ")
			pw.print(b)
		}
		pw.writef(")")

	default:
		pw.err = fmt.Errorf("lispy: unknown node kind %T", n)
	}
}
