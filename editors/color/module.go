// Package color provides the editor for RGBA color fields.
//
// The wire form is the {"r","g","b","a"} object: integer channels in
// 0..255 and a float alpha in 0..1. Pickers routinely report values a
// step outside the range at the end of a drag, so channel overflow is
// clamped here rather than rejected.
package color

import (
	"encoding/json"

	"github.com/specialistvlad/nodecanvas/internal/editor"
	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
	"github.com/specialistvlad/nodecanvas/internal/model"
)

// Module implements the editor.Module interface for this package.
type Module struct{}

// Register registers the color editor with the dispatcher.
func (m *Module) Register(d *editor.Dispatcher) {
	d.Register(&Editor{})
}

// Editor renders color fields as a color picker.
type Editor struct{}

func (e *Editor) Kind() fieldkind.Kind { return fieldkind.Color }

func (e *Editor) View(val fieldval.Value, tpl *model.Template) (editor.View, error) {
	return editor.View{Control: "color-picker", Value: tpl.Clamp(val)}, nil
}

// Change parses the RGBA object and clamps every channel into range.
// Missing r, g, or b channels are a shape error; a missing alpha reads
// as fully opaque.
func (e *Editor) Change(raw json.RawMessage, tpl *model.Template) (fieldval.Value, error) {
	val, err := fieldval.Decode(fieldkind.Color, raw)
	if err != nil {
		return fieldval.Value{}, err
	}
	return tpl.Clamp(val), nil
}
