// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the field template, the static contract for a single
// field slot on a node type.
//
// Why have a formal Template?
//
// A template pins down everything the rest of the system needs to know
// about a field before any value exists: its kind, its default, and the
// constraints a value must satisfy. Editors read it to render controls,
// the store reads it to validate writes, and the manifest loader checks
// it for self-consistency the moment it is parsed.
//
// The template deliberately owns both validation styles:
//
//  1. Check rejects: it reports exactly which constraint a value violates
//     and changes nothing. The store uses it to refuse bad writes.
//
//  2. Clamp forgives: it projects a value onto the nearest legal one.
//     Editors use it to absorb out-of-range user input instead of
//     surfacing an error for every overshot drag.
//
// Keeping both on the same type means the two can never disagree about
// what "legal" means for a field.
package model

import (
	"fmt"
	"math"
	"slices"

	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
)

// Template is the immutable definition of one field slot on a node type.
type Template struct {
	// Name is the field name, taken from the HCL block label.
	// For example, in `field "radius" {}`, the Name is "radius".
	Name string

	// Kind is the type tag every value in this slot must carry.
	Kind fieldkind.Kind

	// Description is an optional string describing the field's purpose.
	Description string

	// Default is the value a freshly created node starts with. It always
	// satisfies the template's own constraints; the manifest loader
	// guarantees that.
	Default fieldval.Value

	// Number holds the numeric constraints for Integer and Float fields.
	// It is nil for every other kind.
	Number *NumberConstraints

	// Choices is the closed choice list for Enum fields. It is nil for
	// every other kind.
	Choices []string
}

// NumberConstraints bounds the values of a numeric field. Nil pointers
// mean unconstrained on that side.
type NumberConstraints struct {
	Min *float64
	Max *float64

	// MultipleOf restricts Integer fields to a step grid. It is never set
	// on Float fields.
	MultipleOf *int64
}

// Check reports the first constraint the value violates, or nil if the
// value is legal for this field. The value is never modified.
func (t *Template) Check(v fieldval.Value) error {
	if v.Kind() != t.Kind {
		return fmt.Errorf("value kind %s does not match field kind %s", v.Kind(), t.Kind)
	}
	switch t.Kind {
	case fieldkind.Integer:
		n := v.AsInt()
		if err := t.checkBounds(float64(n)); err != nil {
			return err
		}
		if t.Number != nil && t.Number.MultipleOf != nil {
			if m := *t.Number.MultipleOf; n%m != 0 {
				return fmt.Errorf("value %d is not a multiple of %d", n, m)
			}
		}
	case fieldkind.Float:
		return t.checkBounds(v.AsFloat())
	case fieldkind.Enum:
		if s := v.AsString(); !slices.Contains(t.Choices, s) {
			return fmt.Errorf("value %q is not one of the declared choices", s)
		}
	case fieldkind.Color:
		if c := v.AsColor(); !c.InRange() {
			return fmt.Errorf("color %s has a channel outside its range", c)
		}
	}
	return nil
}

func (t *Template) checkBounds(n float64) error {
	if t.Number == nil {
		return nil
	}
	if t.Number.Min != nil && n < *t.Number.Min {
		return fmt.Errorf("value %g is below the minimum %g", n, *t.Number.Min)
	}
	if t.Number.Max != nil && n > *t.Number.Max {
		return fmt.Errorf("value %g is above the maximum %g", n, *t.Number.Max)
	}
	return nil
}

// Clamp projects a value onto the nearest one this field accepts. Values
// that already pass Check come back unchanged. A value of the wrong kind
// cannot be projected and collapses to the default.
func (t *Template) Clamp(v fieldval.Value) fieldval.Value {
	if v.Kind() != t.Kind {
		return t.Default
	}
	switch t.Kind {
	case fieldkind.Integer:
		return fieldval.IntVal(t.clampInt(v.AsInt()))
	case fieldkind.Float:
		return fieldval.FloatVal(t.clampFloat(v.AsFloat()))
	case fieldkind.Enum:
		if slices.Contains(t.Choices, v.AsString()) {
			return v
		}
		return t.Default
	case fieldkind.Color:
		return fieldval.ColorVal(v.AsColor().Clamp())
	}
	return v
}

func (t *Template) clampFloat(f float64) float64 {
	if t.Number == nil {
		return f
	}
	if t.Number.Min != nil && f < *t.Number.Min {
		f = *t.Number.Min
	}
	if t.Number.Max != nil && f > *t.Number.Max {
		f = *t.Number.Max
	}
	return f
}

func (t *Template) clampInt(n int64) int64 {
	c := t.Number
	if c == nil {
		return n
	}
	n = int64(math.Round(t.clampFloat(float64(n))))
	if c.MultipleOf != nil {
		m := *c.MultipleOf
		n = int64(math.Round(float64(n)/float64(m))) * m
		// Snapping can step past a bound; one step back stays legal
		// because the loader verified the grid intersects the bounds.
		if c.Max != nil && float64(n) > *c.Max {
			n -= m
		}
		if c.Min != nil && float64(n) < *c.Min {
			n += m
		}
	}
	return n
}

// zeroDefault is the value a field starts with when its manifest declares
// no default. It must still pass the field's constraints to load.
func zeroDefault(kind fieldkind.Kind, choices []string) fieldval.Value {
	switch kind {
	case fieldkind.Integer:
		return fieldval.IntVal(0)
	case fieldkind.Float:
		return fieldval.FloatVal(0)
	case fieldkind.Boolean:
		return fieldval.BoolVal(false)
	case fieldkind.String:
		return fieldval.StringVal("")
	case fieldkind.Enum:
		if len(choices) > 0 {
			return fieldval.EnumVal(choices[0])
		}
		return fieldval.EnumVal("")
	case fieldkind.Image:
		return fieldval.ImageVal("")
	case fieldkind.Color:
		return fieldval.ColorVal(fieldval.Color{A: 1})
	}
	return fieldval.Value{}
}
