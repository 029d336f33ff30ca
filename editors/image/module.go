// Package image provides the editor for image reference fields. The
// value is an asset name; the empty name means the slot is unset. Asset
// bytes never pass through here.
package image

import (
	"encoding/json"

	"github.com/specialistvlad/nodecanvas/internal/editor"
	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
	"github.com/specialistvlad/nodecanvas/internal/model"
)

// Module implements the editor.Module interface for this package.
type Module struct{}

// Register registers the image editor with the dispatcher.
func (m *Module) Register(d *editor.Dispatcher) {
	d.Register(&Editor{})
}

// Editor renders image fields as an image picker.
type Editor struct{}

func (e *Editor) Kind() fieldkind.Kind { return fieldkind.Image }

func (e *Editor) View(val fieldval.Value, tpl *model.Template) (editor.View, error) {
	return editor.View{Control: "image-picker", Value: tpl.Clamp(val)}, nil
}

// Change accepts an asset name, or null to clear the slot.
func (e *Editor) Change(raw json.RawMessage, tpl *model.Template) (fieldval.Value, error) {
	return fieldval.Decode(fieldkind.Image, raw)
}
