// Package toggle provides the editor for boolean fields.
package toggle

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

// Register registers the boolean editor with the dispatcher.
func (m *Module) Register(d *editor.Dispatcher) {
	d.Register(&Editor{})
}

// Editor renders boolean fields as a checkbox.
type Editor struct{}

func (e *Editor) Kind() fieldkind.Kind { return fieldkind.Boolean }

func (e *Editor) View(val fieldval.Value, tpl *model.Template) (editor.View, error) {
	return editor.View{Control: "checkbox", Value: tpl.Clamp(val)}, nil
}

// Change accepts only JSON booleans. There is no meaningful projection
// from any other shape onto a checkbox.
func (e *Editor) Change(raw json.RawMessage, tpl *model.Template) (fieldval.Value, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return fieldval.Value{}, fmt.Errorf("expected a boolean, got %s", string(raw))
	}
	return fieldval.BoolVal(b), nil
}
