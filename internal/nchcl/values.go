package nchcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
)

// FromCty converts an evaluated HCL literal into a field value of the given
// kind. Manifest defaults and constraint attributes pass through here.
//
// The conversion is shape-strict in the same way as fieldval.Decode: an
// integer literal must be whole, a color literal must be an object carrying
// at least r, g, and b. Range checks stay with the template.
func FromCty(kind fieldkind.Kind, val cty.Value) (fieldval.Value, error) {
	if val.IsNull() {
		return fieldval.Value{}, fmt.Errorf("literal for %s field is null", kind)
	}
	switch kind {
	case fieldkind.Integer:
		n, err := ctyWhole(val)
		if err != nil {
			return fieldval.Value{}, fmt.Errorf("integer literal: %w", err)
		}
		return fieldval.IntVal(n), nil

	case fieldkind.Float:
		f, err := ctyNumber(val)
		if err != nil {
			return fieldval.Value{}, fmt.Errorf("float literal: %w", err)
		}
		return fieldval.FloatVal(f), nil

	case fieldkind.Boolean:
		if val.Type() != cty.Bool {
			return fieldval.Value{}, fmt.Errorf("boolean literal: got %s", val.Type().FriendlyName())
		}
		return fieldval.BoolVal(val.True()), nil

	case fieldkind.String, fieldkind.Enum, fieldkind.Image:
		if val.Type() != cty.String {
			return fieldval.Value{}, fmt.Errorf("%s literal: got %s", kind, val.Type().FriendlyName())
		}
		s := val.AsString()
		switch kind {
		case fieldkind.Enum:
			return fieldval.EnumVal(s), nil
		case fieldkind.Image:
			return fieldval.ImageVal(s), nil
		}
		return fieldval.StringVal(s), nil

	case fieldkind.Color:
		c, err := ctyColor(val)
		if err != nil {
			return fieldval.Value{}, fmt.Errorf("color literal: %w", err)
		}
		return fieldval.ColorVal(c), nil
	}
	return fieldval.Value{}, fmt.Errorf("cannot convert literal into kind %s", kind)
}

// ctyNumber extracts a float64 from a cty number value.
func ctyNumber(val cty.Value) (float64, error) {
	if val.Type() != cty.Number {
		return 0, fmt.Errorf("got %s, want a number", val.Type().FriendlyName())
	}
	f, _ := val.AsBigFloat().Float64()
	return f, nil
}

// ctyWhole extracts an int64 from a cty number value, rejecting fractions.
func ctyWhole(val cty.Value) (int64, error) {
	if val.Type() != cty.Number {
		return 0, fmt.Errorf("got %s, want a number", val.Type().FriendlyName())
	}
	n, acc := val.AsBigFloat().Int64()
	if acc != 0 {
		return 0, fmt.Errorf("%s is not a whole number", val.AsBigFloat().Text('g', -1))
	}
	return n, nil
}

// ctyColor reads a color object literal: { r = 0, g = 0, b = 0, a = 1 }.
// Alpha defaults to opaque when left out.
func ctyColor(val cty.Value) (fieldval.Color, error) {
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return fieldval.Color{}, fmt.Errorf("got %s, want an object with r, g, b channels", ty.FriendlyName())
	}

	attrs := val.AsValueMap()

	var c fieldval.Color
	for _, ch := range []struct {
		name string
		dst  *int
	}{
		{"r", &c.R},
		{"g", &c.G},
		{"b", &c.B},
	} {
		v, ok := attrs[ch.name]
		if !ok {
			return fieldval.Color{}, fmt.Errorf("missing channel %q", ch.name)
		}
		n, err := ctyWhole(v)
		if err != nil {
			return fieldval.Color{}, fmt.Errorf("channel %q: %w", ch.name, err)
		}
		*ch.dst = int(n)
	}

	c.A = 1
	if v, ok := attrs["a"]; ok {
		f, err := ctyNumber(v)
		if err != nil {
			return fieldval.Color{}, fmt.Errorf("channel \"a\": %w", err)
		}
		c.A = f
	}
	return c, nil
}
