// Package fieldref defines the structured reference that names a single
// field slot on a node instance.
package fieldref

import (
	"fmt"
	"regexp"
	"strings"
)

// nodeRegex matches node instance ids: manifest-style names as well as
// generated uuid strings.
var nodeRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// fieldRegex matches field names as declared in node manifests.
var fieldRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Ref identifies one field slot: the node instance and the field name on
// its type. Two refs naming the same slot are equal as values.
type Ref struct {
	Node  string
	Field string
}

// New builds a Ref without validation. Use Parse for untrusted input.
func New(node, field string) Ref {
	return Ref{Node: node, Field: field}
}

// String returns the canonical form `node.field`.
func (r Ref) String() string {
	return r.Node + "." + r.Field
}

// Equal reports whether two refs name the same slot.
func (r Ref) Equal(other Ref) bool {
	return r == other
}

// Zero reports whether the ref is the zero value.
func (r Ref) Zero() bool {
	return r == Ref{}
}

// Parse reads the canonical `node.field` form. The node segment allows
// hyphens (uuid ids); the field segment follows manifest field naming.
func Parse(raw string) (Ref, error) {
	if raw == "" {
		return Ref{}, fmt.Errorf("field reference cannot be empty")
	}
	node, field, found := strings.Cut(raw, ".")
	if !found {
		return Ref{}, fmt.Errorf("field reference %q is missing the node.field separator", raw)
	}
	if !nodeRegex.MatchString(node) {
		return Ref{}, fmt.Errorf("invalid node segment %q in field reference", node)
	}
	if !fieldRegex.MatchString(field) {
		return Ref{}, fmt.Errorf("invalid field segment %q in field reference", field)
	}
	return Ref{Node: node, Field: field}, nil
}
