// Package number provides the editors for integer and float fields. A
// bounded field renders as a slider, an unbounded one as a plain number
// input.
package number

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/specialistvlad/nodecanvas/internal/editor"
	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
	"github.com/specialistvlad/nodecanvas/internal/model"
)

// Module implements the editor.Module interface for this package.
type Module struct{}

// Register registers both numeric editors with the dispatcher.
func (m *Module) Register(d *editor.Dispatcher) {
	d.Register(&IntegerEditor{})
	d.Register(&FloatEditor{})
}

// IntegerEditor edits whole-number fields.
type IntegerEditor struct{}

func (e *IntegerEditor) Kind() fieldkind.Kind { return fieldkind.Integer }

func (e *IntegerEditor) View(val fieldval.Value, tpl *model.Template) (editor.View, error) {
	view := editor.View{
		Control: controlFor(tpl),
		Value:   tpl.Clamp(val),
	}
	applyHints(&view, tpl)
	return view, nil
}

// Change accepts any JSON number. Fractional input is rounded rather than
// rejected; a user typing 42.7 into an integer box means 43, not an error.
func (e *IntegerEditor) Change(raw json.RawMessage, tpl *model.Template) (fieldval.Value, error) {
	f, err := decodeNumber(raw)
	if err != nil {
		return fieldval.Value{}, err
	}
	return tpl.Clamp(fieldval.IntVal(int64(math.Round(f)))), nil
}

// FloatEditor edits floating-point fields.
type FloatEditor struct{}

func (e *FloatEditor) Kind() fieldkind.Kind { return fieldkind.Float }

func (e *FloatEditor) View(val fieldval.Value, tpl *model.Template) (editor.View, error) {
	view := editor.View{
		Control: controlFor(tpl),
		Value:   tpl.Clamp(val),
	}
	applyHints(&view, tpl)
	return view, nil
}

func (e *FloatEditor) Change(raw json.RawMessage, tpl *model.Template) (fieldval.Value, error) {
	f, err := decodeNumber(raw)
	if err != nil {
		return fieldval.Value{}, err
	}
	return tpl.Clamp(fieldval.FloatVal(f)), nil
}

// controlFor picks a slider when the field is bounded on both sides,
// because only then does a track position mean anything.
func controlFor(tpl *model.Template) string {
	if tpl.Number != nil && tpl.Number.Min != nil && tpl.Number.Max != nil {
		return "slider"
	}
	return "number-input"
}

func applyHints(view *editor.View, tpl *model.Template) {
	if tpl.Number == nil {
		return
	}
	view.Min = tpl.Number.Min
	view.Max = tpl.Number.Max
	if tpl.Number.MultipleOf != nil {
		step := float64(*tpl.Number.MultipleOf)
		view.Step = &step
	}
}

func decodeNumber(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("expected a number, got %s", string(raw))
	}
	return f, nil
}
