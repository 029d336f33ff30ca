// Package text provides the editor for free-form string fields.
package text

import (
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/nodecanvas/internal/editor"
	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
	"github.com/specialistvlad/nodecanvas/internal/model"
)

// Module implements the editor.Module interface for this package.
type Module struct{}

// Register registers the string editor with the dispatcher.
func (m *Module) Register(d *editor.Dispatcher) {
	d.Register(&Editor{})
}

// Editor renders string fields as a plain text input.
type Editor struct{}

func (e *Editor) Kind() fieldkind.Kind { return fieldkind.String }

func (e *Editor) View(val fieldval.Value, tpl *model.Template) (editor.View, error) {
	return editor.View{Control: "text-input", Value: tpl.Clamp(val)}, nil
}

func (e *Editor) Change(raw json.RawMessage, tpl *model.Template) (fieldval.Value, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fieldval.Value{}, fmt.Errorf("expected a string, got %s", string(raw))
	}
	return fieldval.StringVal(s), nil
}
