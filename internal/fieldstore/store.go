// Package fieldstore defines the interface for storing and mutating the
// field values of node instances on a canvas.
//
// # Why Field Store Exists
//
// The field store is the single source of truth for field state. Editors,
// workflow import, the HTTP surface, and the remote event bridge all express
// changes the same way: they build an UpdateAction and hand it to Apply.
// Nothing else in the system holds a field value; widgets are views over the
// store, never owners of state.
//
// Funneling every mutation through one method is what makes the editing
// contract enforceable. Apply verifies that the slot exists and that the
// value matches the slot's kind and constraints before anything is written,
// so a buggy caller cannot corrupt a slot, only receive an error.
//
// # Lifecycle and Usage
//
// A store is:
//  1. Created once per session, empty.
//  2. Seeded with a slot per field when a node joins the canvas. Each slot
//     starts at its template's default value.
//  3. Mutated through Apply for as long as the node exists.
//  4. Emptied of a node's slots when the node leaves the canvas.
//
// # Apply Contract
//
// Apply either updates exactly one slot or changes nothing:
//   - The referenced slot must exist, otherwise ErrNotFound.
//   - The action's value kind must equal the slot's kind, otherwise
//     ErrTypeMismatch.
//   - The value must satisfy the slot's template constraints, otherwise
//     ErrOutOfRange. Callers that prefer forgiveness clamp before
//     dispatching; the store itself never rewrites a value.
//
// On success the new value replaces the old one and every subscriber is
// notified synchronously, on the caller's goroutine, before Apply returns.
// The last write wins; there is no merging of concurrent updates.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. Apply calls are
// serialized end to end, including subscriber delivery, so events reach
// subscribers in sequence order. Subscribers may read from the store during
// delivery but must not mutate it.
package fieldstore

import (
	"context"

	"github.com/specialistvlad/nodecanvas/internal/fieldref"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
	"github.com/specialistvlad/nodecanvas/internal/model"
)

// Store is the interface for managing the mutable field state of nodes.
type Store interface {
	// Seed creates the slot for a field reference, binding it to its
	// template and initializing it with the template's default value.
	//
	// Seeding an already seeded reference returns ErrExists. Seeding does
	// not notify subscribers; only Apply does.
	Seed(ctx context.Context, ref fieldref.Ref, tpl *model.Template) error

	// Drop removes every slot belonging to the given node. Dropping a node
	// with no slots is a no-op; node existence is the canvas's concern.
	Drop(ctx context.Context, node string) error

	// Get retrieves the current value of a field slot.
	//
	// Returns ErrNotFound if the reference was never seeded or its node
	// has been dropped.
	Get(ctx context.Context, ref fieldref.Ref) (fieldval.Value, error)

	// Template retrieves the template a slot was seeded with.
	//
	// Returns ErrNotFound if the reference does not resolve.
	Template(ctx context.Context, ref fieldref.Ref) (*model.Template, error)

	// Apply executes one update action under the contract described in the
	// package documentation.
	Apply(ctx context.Context, action UpdateAction) error

	// Fields returns a snapshot of every seeded field of one node, keyed
	// by field name. The map is empty when the node has no slots.
	Fields(ctx context.Context, node string) (map[string]fieldval.Value, error)

	// Subscribe registers a callback for every applied update. The
	// returned cancel function removes the subscription; it is safe to
	// call more than once.
	Subscribe(fn func(Event)) (cancel func())
}
