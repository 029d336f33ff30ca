package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/specialistvlad/nodecanvas/internal/canvas"
	"github.com/specialistvlad/nodecanvas/internal/ctxlog"
	"github.com/specialistvlad/nodecanvas/internal/fieldstore"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
)

// Build instantiates a document's nodes on the canvas and applies the
// stored field values with origin "import". Each value is decoded
// against its field's template and clamped into range, so a document
// written against older constraints still loads; values of the wrong
// shape are errors, as are unknown node types and unknown field names.
// Fields absent from the document keep their template defaults.
//
// Build stops at the first error and leaves the canvas partially
// populated. Callers build into a fresh session.
func Build(ctx context.Context, doc *Document, cv *canvas.Canvas, store fieldstore.Store) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building canvas from workflow document.", "id", doc.ID, "nodes", len(doc.Nodes))

	for _, nd := range doc.Nodes {
		n, err := cv.AddNode(ctx, nd.Type, nd.ID)
		if err != nil {
			return fmt.Errorf("workflow node '%s': %w", nd.ID, err)
		}
		for name := range nd.Fields {
			if _, err := n.Def().Field(name); err != nil {
				return fmt.Errorf("workflow node '%s': %w", nd.ID, err)
			}
		}
		// Apply in declaration order so imports are deterministic.
		for _, name := range n.FieldNames() {
			raw, present := nd.Fields[name]
			if !present {
				continue
			}
			tpl, err := n.Def().Field(name)
			if err != nil {
				return fmt.Errorf("workflow node '%s': %w", nd.ID, err)
			}
			val, err := fieldval.Decode(tpl.Kind, raw)
			if err != nil {
				return fmt.Errorf("workflow node '%s' field '%s': %w", nd.ID, name, err)
			}
			action := fieldstore.UpdateAction{
				Ref:    n.Ref(name),
				Value:  tpl.Clamp(val),
				Origin: fieldstore.OriginImport,
			}
			if err := store.Apply(ctx, action); err != nil {
				return fmt.Errorf("workflow node '%s' field '%s': %w", nd.ID, name, err)
			}
		}
	}
	return nil
}

// Snapshot captures the canvas and its current field values as a
// document ready to save. Node order follows the canvas; field keys
// marshal in sorted order, so two snapshots of the same state are
// byte-identical apart from the generated document id.
func Snapshot(ctx context.Context, cv *canvas.Canvas, store fieldstore.Store) (*Document, error) {
	doc := &Document{ID: uuid.NewString()}

	for _, n := range cv.Nodes() {
		nd := NodeDoc{
			ID:     n.ID,
			Type:   n.Type,
			Fields: make(map[string]json.RawMessage),
		}
		for _, name := range n.FieldNames() {
			val, err := store.Get(ctx, n.Ref(name))
			if err != nil {
				return nil, fmt.Errorf("snapshotting node '%s' field '%s': %w", n.ID, name, err)
			}
			raw, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("snapshotting node '%s' field '%s': %w", n.ID, name, err)
			}
			nd.Fields[name] = raw
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	return doc, nil
}
