// Package choice provides the editor for enum fields.
package choice

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

// Register registers the enum editor with the dispatcher.
func (m *Module) Register(d *editor.Dispatcher) {
	d.Register(&Editor{})
}

// Editor renders enum fields as a select populated from the template's
// choice list.
type Editor struct{}

func (e *Editor) Kind() fieldkind.Kind { return fieldkind.Enum }

func (e *Editor) View(val fieldval.Value, tpl *model.Template) (editor.View, error) {
	return editor.View{
		Control: "select",
		Value:   tpl.Clamp(val),
		Choices: tpl.Choices,
	}, nil
}

// Change accepts a string and snaps unknown choices onto the template
// default. A select control can only ever submit values from its own
// list, so an unknown choice means a stale or hand-crafted client.
func (e *Editor) Change(raw json.RawMessage, tpl *model.Template) (fieldval.Value, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fieldval.Value{}, fmt.Errorf("expected a string, got %s", string(raw))
	}
	return tpl.Clamp(fieldval.EnumVal(s)), nil
}
