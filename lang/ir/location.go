// Package ir implements werbolg's typed Intermediate Representation: the
// input the tree-walk evaluator (lang/eval) consumes directly, and that
// lang/lower compiles down into the VM's linear instruction stream.
package ir

import "fmt"

// Location is a source location, used only for diagnostics (stack traces,
// error messages). It intentionally carries no file handle or byte range:
// the out-of-scope lexer/parser collaborator is responsible for richer
// positions if a host needs them; the core only needs something it can
// push onto a call stack and format.
type Location struct {
	Line, Col int
}

// NoLocation is used for synthetic nodes that have no source position.
var NoLocation = Location{}

func (l Location) String() string {
	if l == (Location{}) {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}
