// Package canvas owns the node instances of an editing session. It is
// the template registry surface: every field reference resolves here,
// through the node instance, to the template declared on its type.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/specialistvlad/nodecanvas/internal/ctxlog"
	"github.com/specialistvlad/nodecanvas/internal/fieldref"
	"github.com/specialistvlad/nodecanvas/internal/fieldstore"
	"github.com/specialistvlad/nodecanvas/internal/model"
)

var (
	// ErrUnknownType is returned when a node type name is not in the catalog.
	ErrUnknownType = errors.New("unknown node type")

	// ErrNodeExists is returned when a node id is already on the canvas.
	ErrNodeExists = errors.New("node already exists")

	// ErrNodeNotFound is returned when a node id is not on the canvas.
	ErrNodeNotFound = errors.New("node not found")
)

// Node is one instance of a node type placed on the canvas.
type Node struct {
	// ID is the unique instance id, caller-supplied or generated.
	ID string

	// Type is the node type name from the catalog.
	Type string

	def *model.NodeType
}

// Def returns the node's type definition.
func (n *Node) Def() *model.NodeType {
	return n.def
}

// FieldNames returns the node's field names in manifest declaration order.
func (n *Node) FieldNames() []string {
	out := make([]string, len(n.def.FieldOrder))
	copy(out, n.def.FieldOrder)
	return out
}

// Ref returns the reference naming one of the node's field slots.
func (n *Node) Ref(field string) fieldref.Ref {
	return fieldref.New(n.ID, field)
}

// Canvas holds the node instances of a session and seeds the field store
// as nodes come and go. It uses maps and a mutex for thread-safe
// concurrent access.
type Canvas struct {
	catalog *model.Catalog
	store   fieldstore.Store

	mu    sync.RWMutex
	nodes map[string]*Node
	order []string
}

// New creates an empty canvas over the given catalog and field store.
func New(catalog *model.Catalog, store fieldstore.Store) *Canvas {
	return &Canvas{
		catalog: catalog,
		store:   store,
		nodes:   make(map[string]*Node),
	}
}

// AddNode places a new instance of a node type on the canvas and seeds
// the store with one slot per field, each starting at its template's
// default. An empty id asks the canvas to generate one.
func (c *Canvas) AddNode(ctx context.Context, typeName, id string) (*Node, error) {
	logger := ctxlog.FromContext(ctx)

	def, err := c.catalog.Type(typeName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	if id == "" {
		id = uuid.NewString()
	}

	c.mu.Lock()
	if _, exists := c.nodes[id]; exists {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrNodeExists, id)
	}
	n := &Node{ID: id, Type: typeName, def: def}
	c.nodes[id] = n
	c.order = append(c.order, id)
	c.mu.Unlock()

	for _, name := range def.FieldOrder {
		if err := c.store.Seed(ctx, fieldref.New(id, name), def.Fields[name]); err != nil {
			c.discard(ctx, id)
			return nil, fmt.Errorf("seeding fields for node '%s': %w", id, err)
		}
	}

	logger.Debug("Node added to canvas.", "id", id, "type", typeName)
	return n, nil
}

// RemoveNode takes a node off the canvas and drops its field slots.
func (c *Canvas) RemoveNode(ctx context.Context, id string) error {
	logger := ctxlog.FromContext(ctx)

	c.mu.Lock()
	if _, exists := c.nodes[id]; !exists {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	c.mu.Unlock()

	c.discard(ctx, id)
	logger.Debug("Node removed from canvas.", "id", id)
	return nil
}

// discard unregisters a node and drops its slots. Used by RemoveNode and
// by AddNode rollback when seeding fails partway.
func (c *Canvas) discard(ctx context.Context, id string) {
	c.mu.Lock()
	delete(c.nodes, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	// Drop is a no-op for ids without slots.
	_ = c.store.Drop(ctx, id)
}

// Node retrieves a single node instance by id.
func (c *Canvas) Node(id string) (*Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.nodes[id]
	return n, ok
}

// Nodes returns every node instance in the order they were added.
func (c *Canvas) Nodes() []*Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Node, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.nodes[id])
	}
	return out
}

// Len returns the number of nodes on the canvas.
func (c *Canvas) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// Lookup resolves a field reference to its template. The node must be on
// the canvas and the field must exist on the node's type.
func (c *Canvas) Lookup(ctx context.Context, ref fieldref.Ref) (*model.Template, error) {
	c.mu.RLock()
	n, ok := c.nodes[ref.Node]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, ref.Node)
	}
	return n.def.Field(ref.Field)
}
