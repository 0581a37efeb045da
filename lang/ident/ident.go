// Package ident implements interned, case-sensitive identifiers and the
// dotted namespaces used to partition the global and NIF name spaces.
package ident

import "strings"

// Ident is an interned, case-sensitive name. Equality and hashing are by
// content; it is cheap to copy since it is backed by a plain string.
type Ident string

// FromString builds an Ident from a raw string. Interning (content-based
// equality) comes for free from Go's string representation: two Idents
// built from equal strings compare equal without an explicit intern table.
func FromString(s string) Ident { return Ident(s) }

// String returns the identifier's textual form.
func (i Ident) String() string { return string(i) }

// Matches reports whether the identifier's textual form equals s.
func (i Ident) Matches(s string) bool { return string(i) == s }

// Namespace is an ordered sequence of Idents denoting a dotted path. The
// empty namespace is the root; two distinct namespaces are disjoint name
// spaces.
type Namespace struct {
	path []Ident
}

// Root is the empty namespace.
var Root = Namespace{}

// NewNamespace builds a namespace from an ordered list of path components.
func NewNamespace(path ...Ident) Namespace {
	return Namespace{path: append([]Ident(nil), path...)}
}

// Path returns the namespace's components. The caller must not modify the
// returned slice.
func (n Namespace) Path() []Ident { return n.path }

// PathWithIdent returns a new namespace extended with ident appended to the
// end of the path. The receiver is not modified.
func (n Namespace) PathWithIdent(ident Ident) Namespace {
	np := make([]Ident, len(n.path)+1)
	copy(np, n.path)
	np[len(n.path)] = ident
	return Namespace{path: np}
}

// Equal reports whether two namespaces denote the same dotted path.
func (n Namespace) Equal(o Namespace) bool {
	if len(n.path) != len(o.path) {
		return false
	}
	for i, p := range n.path {
		if p != o.path[i] {
			return false
		}
	}
	return true
}

// String renders the namespace as a dot-separated path, empty for the root.
func (n Namespace) String() string {
	if len(n.path) == 0 {
		return ""
	}
	parts := make([]string, len(n.path))
	for i, p := range n.path {
		parts[i] = string(p)
	}
	return strings.Join(parts, ".")
}

// Key returns a string uniquely identifying the namespace, suitable for use
// as a map key (namespace tables are small and rarely looked up, so a
// stdlib map keyed on this is sufficient; see lang/symbol for the larger,
// swiss-backed symbol tables).
func (n Namespace) Key() string { return n.String() }
