// Package fieldval implements the tagged union of values a node field can
// hold. Exactly one variant exists per fieldkind.Kind.
//
// Value is opaque: construct one with the kind-specific constructors and
// read it back with the kind-checked accessors. Accessing a value through
// the wrong variant is a programmer error and panics, in the same spirit
// as cty.Value. The zero Value is the invalid variant.
package fieldval

import (
	"fmt"
	"strconv"

	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
)

// Value holds one field value of a single kind. Values are immutable;
// replacing a field's value means constructing a new one.
type Value struct {
	kind fieldkind.Kind
	i    int64
	f    float64
	s    string
	b    bool
	c    Color
}

// IntVal returns an Integer value.
func IntVal(v int64) Value {
	return Value{kind: fieldkind.Integer, i: v}
}

// FloatVal returns a Float value.
func FloatVal(v float64) Value {
	return Value{kind: fieldkind.Float, f: v}
}

// BoolVal returns a Boolean value.
func BoolVal(v bool) Value {
	return Value{kind: fieldkind.Boolean, b: v}
}

// StringVal returns a String value.
func StringVal(v string) Value {
	return Value{kind: fieldkind.String, s: v}
}

// EnumVal returns an Enum value. Membership in a template's choice list
// is checked by the template, not here.
func EnumVal(v string) Value {
	return Value{kind: fieldkind.Enum, s: v}
}

// ImageVal returns an Image value referencing an asset by name. An empty
// name means the slot is unset.
func ImageVal(name string) Value {
	return Value{kind: fieldkind.Image, s: name}
}

// ColorVal returns a Color value. The channels are stored as given;
// projection into the 0..255 / 0..1 ranges is the template's job.
func ColorVal(c Color) Value {
	return Value{kind: fieldkind.Color, c: c}
}

// Kind returns the variant tag of the value.
func (v Value) Kind() fieldkind.Kind {
	return v.kind
}

// Valid reports whether the value carries one of the declared kinds.
func (v Value) Valid() bool {
	return v.kind.Valid()
}

// AsInt returns the Integer payload. Panics on any other variant.
func (v Value) AsInt() int64 {
	v.mustBe(fieldkind.Integer)
	return v.i
}

// AsFloat returns the Float payload. Panics on any other variant.
func (v Value) AsFloat() float64 {
	v.mustBe(fieldkind.Float)
	return v.f
}

// True returns the Boolean payload. Panics on any other variant.
func (v Value) True() bool {
	v.mustBe(fieldkind.Boolean)
	return v.b
}

// AsString returns the payload of a String, Enum, or Image value.
// Panics on any other variant.
func (v Value) AsString() string {
	switch v.kind {
	case fieldkind.String, fieldkind.Enum, fieldkind.Image:
		return v.s
	}
	panic(fmt.Sprintf("field value is %s, not a string kind", v.kind))
}

// AsColor returns the Color payload. Panics on any other variant.
func (v Value) AsColor() Color {
	v.mustBe(fieldkind.Color)
	return v.c
}

func (v Value) mustBe(k fieldkind.Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("field value is %s, not %s", v.kind, k))
	}
}

// Equal reports whether two values share a kind and a payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case fieldkind.Integer:
		return v.i == other.i
	case fieldkind.Float:
		return v.f == other.f
	case fieldkind.Boolean:
		return v.b == other.b
	case fieldkind.String, fieldkind.Enum, fieldkind.Image:
		return v.s == other.s
	case fieldkind.Color:
		return v.c == other.c
	}
	// Two invalid values are equal; useful for zero-value comparisons.
	return true
}

// String renders the value for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case fieldkind.Integer:
		return strconv.FormatInt(v.i, 10)
	case fieldkind.Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case fieldkind.Boolean:
		return strconv.FormatBool(v.b)
	case fieldkind.String, fieldkind.Enum, fieldkind.Image:
		return strconv.Quote(v.s)
	case fieldkind.Color:
		return v.c.String()
	}
	return "<invalid>"
}
