// Package workflow reads and writes workflow documents, the JSON files
// that persist a canvas: its node instances and their stored field
// values.
package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/kaptinlin/jsonrepair"

	"github.com/specialistvlad/nodecanvas/internal/ctxlog"
)

// Document is the persisted form of a canvas.
type Document struct {
	ID    string    `json:"id"`
	Name  string    `json:"name,omitempty"`
	Nodes []NodeDoc `json:"nodes"`
}

// NodeDoc is the persisted form of one node instance. Fields holds the
// raw JSON of each stored value; decoding waits until the node's
// templates are known.
type NodeDoc struct {
	ID     string                     `json:"id"`
	Type   string                     `json:"type"`
	Fields map[string]json.RawMessage `json:"fields,omitempty"`
}

// Parse decodes a workflow document. Strict JSON is tried first; on a
// syntax error the source runs through jsonrepair and is retried once,
// since hand-edited documents with trailing commas or comments are
// common. Schema errors are never repaired.
func Parse(ctx context.Context, data []byte) (*Document, error) {
	logger := ctxlog.FromContext(ctx)

	var doc Document
	err := json.Unmarshal(data, &doc)
	if err == nil {
		doc.fillIDs()
		return &doc, nil
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return nil, fmt.Errorf("parsing workflow document: %w", err)
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil {
		return nil, fmt.Errorf("parsing workflow document: %w (repair also failed: %v)", err, repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
		return nil, fmt.Errorf("parsing workflow document after repair: %w", err)
	}

	logger.Warn("Workflow document contained invalid JSON and was repaired.")
	doc.fillIDs()
	return &doc, nil
}

// fillIDs assigns uuids to the document and to any node missing an id.
func (d *Document) fillIDs() {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	for i := range d.Nodes {
		if d.Nodes[i].ID == "" {
			d.Nodes[i].ID = uuid.NewString()
		}
	}
}

// Load reads and parses a workflow document from disk.
func Load(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow file: %w", err)
	}
	doc, err := Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("workflow file %s: %w", path, err)
	}
	return doc, nil
}

// Save writes a document to disk as indented JSON.
func Save(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding workflow document: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing workflow file: %w", err)
	}
	return nil
}
