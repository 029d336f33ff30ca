// Package fieldkind defines the closed set of field type tags used across
// node templates, field values, and editor dispatch.
//
// The set is closed on purpose: every consumer that branches on a Kind is
// expected to cover all of All(), and the editor dispatcher verifies that
// coverage at startup. Adding a kind here is a deliberate, repo-wide change.
package fieldkind

import "fmt"

// Kind is the type tag shared by a field template and every value written
// into that field's slot.
type Kind int

const (
	// Invalid is the zero value. It never appears in a loaded catalog.
	Invalid Kind = iota
	// Integer is a whole-number field.
	Integer
	// Float is a floating-point number field.
	Float
	// Boolean is a true/false field.
	Boolean
	// String is a free-form text field.
	String
	// Enum is a string field restricted to a declared choice list.
	Enum
	// Color is an RGBA color field: integer channels 0..255, alpha 0..1.
	Color
	// Image is a reference to an image asset by name.
	Image
)

var names = map[Kind]string{
	Integer: "integer",
	Float:   "float",
	Boolean: "boolean",
	String:  "string",
	Enum:    "enum",
	Color:   "color",
	Image:   "image",
}

// All returns every valid kind, in declaration order. Dispatch sites use
// this to prove exhaustiveness.
func All() []Kind {
	return []Kind{Integer, Float, Boolean, String, Enum, Color, Image}
}

// String returns the canonical lowercase name of the kind, as written in
// node manifests.
func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return fmt.Sprintf("invalid(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := names[k]
	return ok
}

// Parse resolves a manifest type keyword to its Kind.
func Parse(name string) (Kind, error) {
	for k, n := range names {
		if n == name {
			return k, nil
		}
	}
	return Invalid, fmt.Errorf("unknown field kind %q", name)
}
