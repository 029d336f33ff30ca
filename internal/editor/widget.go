package editor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/nodecanvas/internal/ctxlog"
	"github.com/specialistvlad/nodecanvas/internal/fieldref"
	"github.com/specialistvlad/nodecanvas/internal/fieldstore"
	"github.com/specialistvlad/nodecanvas/internal/model"
)

// Widget is one mounted editor instance, bound to a field slot. It owns no
// state: View reads through to the store and Input dispatches an update
// action back to it. The template is captured at mount time and templates
// are immutable, so a widget never re-fetches it.
type Widget struct {
	ref    fieldref.Ref
	editor Editor
	store  fieldstore.Store
	tpl    *model.Template
}

// Ref returns the field slot this widget is bound to.
func (w *Widget) Ref() fieldref.Ref {
	return w.ref
}

// Template returns the template the widget was mounted with.
func (w *Widget) Template() *model.Template {
	return w.tpl
}

// View renders the widget's current control description from the store.
func (w *Widget) View(ctx context.Context) (View, error) {
	val, err := w.store.Get(ctx, w.ref)
	if err != nil {
		return View{}, fmt.Errorf("widget %s: %w", w.ref, err)
	}
	return w.editor.View(val, w.tpl)
}

// Input parses raw user input and dispatches it as an editor-originated
// update. Failures are logged and reported to the caller, and never
// propagate past this widget: one broken field must not take down the
// panel hosting it.
func (w *Widget) Input(ctx context.Context, raw json.RawMessage) error {
	return w.InputFrom(ctx, raw, fieldstore.OriginEditor)
}

// InputFrom is Input with an explicit origin tag, for hosts that proxy
// user gestures, such as the HTTP surface.
func (w *Widget) InputFrom(ctx context.Context, raw json.RawMessage, origin string) error {
	logger := ctxlog.FromContext(ctx)

	val, err := w.editor.Change(raw, w.tpl)
	if err != nil {
		logger.Warn("Field input rejected.", "ref", w.ref.String(), "error", err)
		return fmt.Errorf("widget %s: %w", w.ref, err)
	}

	action := fieldstore.UpdateAction{Ref: w.ref, Value: val, Origin: origin}
	if err := w.store.Apply(ctx, action); err != nil {
		logger.Warn("Field update rejected by store.", "ref", w.ref.String(), "error", err)
		return fmt.Errorf("widget %s: %w", w.ref, err)
	}
	return nil
}
