package fieldval

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
)

// MarshalJSON renders the value in its wire form: bare scalars for scalar
// kinds, the {"r","g","b","a"} object for colors.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case fieldkind.Integer:
		return json.Marshal(v.i)
	case fieldkind.Float:
		return json.Marshal(v.f)
	case fieldkind.Boolean:
		return json.Marshal(v.b)
	case fieldkind.String, fieldkind.Enum, fieldkind.Image:
		return json.Marshal(v.s)
	case fieldkind.Color:
		return json.Marshal(v.c)
	}
	return nil, fmt.Errorf("cannot marshal an invalid field value")
}

// Decode parses raw JSON into a value of the given kind.
//
// Decode checks shape, not range: integers must be whole numbers and colors
// must carry their channels, but a decoded value may still violate a
// template's constraints. Range and choice checks belong to the template so
// that callers can decide between clamping and rejecting.
//
// There is deliberately no UnmarshalJSON on Value: a bare JSON literal does
// not identify its kind, so decoding always happens against a template.
func Decode(kind fieldkind.Kind, raw json.RawMessage) (Value, error) {
	switch kind {
	case fieldkind.Integer:
		n, err := decodeWhole(raw)
		if err != nil {
			return Value{}, fmt.Errorf("integer field: %w", err)
		}
		return IntVal(n), nil

	case fieldkind.Float:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return Value{}, fmt.Errorf("float field: %w", err)
		}
		return FloatVal(f), nil

	case fieldkind.Boolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, fmt.Errorf("boolean field: %w", err)
		}
		return BoolVal(b), nil

	case fieldkind.String:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, fmt.Errorf("string field: %w", err)
		}
		return StringVal(s), nil

	case fieldkind.Enum:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, fmt.Errorf("enum field: %w", err)
		}
		return EnumVal(s), nil

	case fieldkind.Image:
		// null clears the slot; documents often omit the asset entirely.
		if isJSONNull(raw) {
			return ImageVal(""), nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, fmt.Errorf("image field: %w", err)
		}
		return ImageVal(s), nil

	case fieldkind.Color:
		c, err := decodeColor(raw)
		if err != nil {
			return Value{}, fmt.Errorf("color field: %w", err)
		}
		return ColorVal(c), nil
	}
	return Value{}, fmt.Errorf("cannot decode into kind %s", kind)
}

// decodeWhole accepts integer literals and whole-valued floats (42 and
// 42.0), rejecting everything fractional.
func decodeWhole(raw json.RawMessage) (int64, error) {
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, err
	}
	if n, err := num.Int64(); err == nil {
		return n, nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a whole number", num.String())
	}
	return int64(f), nil
}

func decodeColor(raw json.RawMessage) (Color, error) {
	var obj struct {
		R *json.RawMessage `json:"r"`
		G *json.RawMessage `json:"g"`
		B *json.RawMessage `json:"b"`
		A *float64         `json:"a"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Color{}, err
	}
	var c Color
	for _, ch := range []struct {
		name string
		raw  *json.RawMessage
		dst  *int
	}{
		{"r", obj.R, &c.R},
		{"g", obj.G, &c.G},
		{"b", obj.B, &c.B},
	} {
		if ch.raw == nil {
			return Color{}, fmt.Errorf("missing channel %q", ch.name)
		}
		n, err := decodeWhole(*ch.raw)
		if err != nil {
			return Color{}, fmt.Errorf("channel %q: %w", ch.name, err)
		}
		*ch.dst = int(n)
	}
	// Alpha defaults to opaque when a document leaves it out.
	c.A = 1
	if obj.A != nil {
		c.A = *obj.A
	}
	return c, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
