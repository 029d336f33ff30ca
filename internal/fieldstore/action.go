package fieldstore

import (
	"github.com/specialistvlad/nodecanvas/internal/fieldref"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
)

// Origins tag where an update action came from. They exist for event echo
// suppression and log context, not for authorization; every origin passes
// through the same Apply contract.
const (
	// OriginEditor marks updates dispatched by a mounted widget.
	OriginEditor = "editor"
	// OriginImport marks updates applied while loading a workflow document.
	OriginImport = "import"
	// OriginRemote marks updates received from the backend event bridge.
	OriginRemote = "remote"
	// OriginAPI marks updates received through the HTTP surface.
	OriginAPI = "api"
)

// UpdateAction is the only way to change a field value. It names the slot,
// carries the fully typed replacement value, and records where the change
// came from.
type UpdateAction struct {
	Ref    fieldref.Ref
	Value  fieldval.Value
	Origin string
}

// Event describes one applied update. Subscribers receive events
// synchronously, in Seq order.
type Event struct {
	// Seq increases by one per applied update, store-wide. A later event
	// always has a higher Seq, which is what makes "last write wins"
	// observable.
	Seq uint64

	Ref      fieldref.Ref
	Previous fieldval.Value
	Value    fieldval.Value
	Origin   string
}
