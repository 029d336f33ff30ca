// Package session wires one editing session together: a catalog-backed
// canvas, its field store, and the editor dispatcher. Everything a host
// surface needs (CLI, HTTP, event bridge) hangs off the session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kaptinlin/jsonrepair"

	"github.com/specialistvlad/nodecanvas/internal/canvas"
	"github.com/specialistvlad/nodecanvas/internal/ctxlog"
	"github.com/specialistvlad/nodecanvas/internal/editor"
	"github.com/specialistvlad/nodecanvas/internal/fieldref"
	"github.com/specialistvlad/nodecanvas/internal/fieldstore"
	"github.com/specialistvlad/nodecanvas/internal/inmemorystore"
	"github.com/specialistvlad/nodecanvas/internal/model"
	"github.com/specialistvlad/nodecanvas/internal/workflow"
)

// Session is one editing run over a catalog: a canvas of node instances,
// the store holding their field values, and the dispatcher that mounts
// editors over them.
type Session struct {
	id       string
	catalog  *model.Catalog
	canvas   *canvas.Canvas
	store    fieldstore.Store
	dispatch *editor.Dispatcher
}

// New creates an empty session with a fresh store.
func New(catalog *model.Catalog, dispatch *editor.Dispatcher) *Session {
	store := inmemorystore.New()
	return &Session{
		id:       uuid.NewString(),
		catalog:  catalog,
		canvas:   canvas.New(catalog, store),
		store:    store,
		dispatch: dispatch,
	}
}

// ID returns the session's generated id.
func (s *Session) ID() string {
	return s.id
}

// Canvas returns the session's canvas.
func (s *Session) Canvas() *canvas.Canvas {
	return s.canvas
}

// Store returns the session's field store.
func (s *Session) Store() fieldstore.Store {
	return s.store
}

// Mount binds a widget to a field slot. The ref must resolve on the
// canvas.
func (s *Session) Mount(ctx context.Context, ref fieldref.Ref) (*editor.Widget, error) {
	tpl, err := s.canvas.Lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.dispatch.Mount(ref, tpl, s.store)
}

// Import builds a workflow document into the session.
func (s *Session) Import(ctx context.Context, doc *workflow.Document) error {
	return workflow.Build(ctx, doc, s.canvas, s.store)
}

// Export snapshots the session as a workflow document.
func (s *Session) Export(ctx context.Context) (*workflow.Document, error) {
	return workflow.Snapshot(ctx, s.canvas, s.store)
}

// Close releases the session. It accepts a context to allow for graceful
// cleanup operations.
func (s *Session) Close(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Session closed.", "id", s.id)
	return nil
}

// Update is one scripted field edit: the slot it names and the raw value
// to dispatch through the slot's editor.
type Update struct {
	Node  string          `json:"node"`
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// ParseUpdates decodes a scripted update list. Like workflow documents,
// update files are often hand-edited, so a syntax error triggers one
// jsonrepair retry.
func ParseUpdates(ctx context.Context, data []byte) ([]Update, error) {
	logger := ctxlog.FromContext(ctx)

	var updates []Update
	err := json.Unmarshal(data, &updates)
	if err == nil {
		return updates, nil
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return nil, fmt.Errorf("parsing update list: %w", err)
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil {
		return nil, fmt.Errorf("parsing update list: %w (repair also failed: %v)", err, repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), &updates); err != nil {
		return nil, fmt.Errorf("parsing update list after repair: %w", err)
	}

	logger.Warn("Update list contained invalid JSON and was repaired.")
	return updates, nil
}

// ApplyUpdates dispatches a batch of scripted edits through each field's
// editor, exactly as interactive input would run. A failed update is
// logged and skipped so one bad entry cannot block the rest of the
// batch; the first failure is reported after the batch completes.
func (s *Session) ApplyUpdates(ctx context.Context, updates []Update) error {
	logger := ctxlog.FromContext(ctx)

	var failed int
	var firstErr error
	for _, u := range updates {
		ref := fieldref.New(u.Node, u.Field)
		widget, err := s.Mount(ctx, ref)
		if err == nil {
			err = widget.Input(ctx, u.Value)
		}
		if err != nil {
			logger.Warn("Scripted update failed.", "ref", ref.String(), "error", err)
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d updates failed, first failure: %w", failed, len(updates), firstErr)
	}
	logger.Debug("Scripted updates applied.", "count", len(updates))
	return nil
}
