// Package editor defines the contract between field templates and the
// controls that edit them, plus the dispatcher that picks the right editor
// for a field's kind.
//
// Editors are controlled views. An editor never holds field state: it
// renders a View from the store's current value and turns raw user input
// into a typed value for the store to apply. The user-facing path is
// forgiving by design. Change clamps input onto the template's constraints
// instead of erroring, because a slider overshoot or a hand-typed 300 in a
// 0..255 channel box should land on the nearest legal value, not on an
// error toast.
package editor

import (
	"encoding/json"

	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
	"github.com/specialistvlad/nodecanvas/internal/model"
)

// View is the serializable description of one rendered control: which
// control to draw, the value it shows, and the constraint hints the
// control needs to behave.
type View struct {
	Control string         `json:"control"`
	Value   fieldval.Value `json:"value"`
	Min     *float64       `json:"min,omitempty"`
	Max     *float64       `json:"max,omitempty"`
	Step    *float64       `json:"step,omitempty"`
	Choices []string       `json:"choices,omitempty"`
}

// Editor renders and parses values of exactly one kind.
type Editor interface {
	// Kind reports which field kind this editor serves.
	Kind() fieldkind.Kind

	// View builds the control description for a current value. A value
	// that violates the template is clamped for display only; the store
	// is not written. The stored value stays authoritative until the user
	// actually edits something.
	View(val fieldval.Value, tpl *model.Template) (View, error)

	// Change parses raw user input into a typed value, clamped onto the
	// template's constraints. It returns an error only for input whose
	// shape cannot be interpreted at all, such as a string in a number
	// control.
	Change(raw json.RawMessage, tpl *model.Template) (fieldval.Value, error)
}

// Module is the interface editor packages implement to register
// themselves with a dispatcher.
type Module interface {
	Register(d *Dispatcher)
}
