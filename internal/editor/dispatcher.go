package editor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
	"github.com/specialistvlad/nodecanvas/internal/fieldref"
	"github.com/specialistvlad/nodecanvas/internal/fieldstore"
	"github.com/specialistvlad/nodecanvas/internal/model"
)

// Dispatcher resolves a field kind to its registered editor. Resolution is
// closed over fieldkind.All(): the application validates the dispatcher at
// startup and refuses to run with a gap, so a template that loaded can
// always be mounted.
type Dispatcher struct {
	editors map[fieldkind.Kind]Editor
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		editors: make(map[fieldkind.Kind]Editor),
	}
}

// Register adds an editor under its kind. Registering two editors for the
// same kind is a programmer error and panics.
func (d *Dispatcher) Register(e Editor) {
	kind := e.Kind()
	if _, exists := d.editors[kind]; exists {
		panic(fmt.Sprintf("editor for kind '%s' already registered", kind))
	}
	slog.Debug("Registering field editor.", "kind", kind)
	d.editors[kind] = e
}

// Resolve returns the editor registered for a kind.
func (d *Dispatcher) Resolve(kind fieldkind.Kind) (Editor, error) {
	e, ok := d.editors[kind]
	if !ok {
		return nil, fmt.Errorf("no editor registered for kind '%s'", kind)
	}
	return e, nil
}

// Validate performs a strict parity check between the closed kind set and
// the registered editors. Every kind must resolve; an uncovered kind here
// would otherwise surface as a broken node panel at the first unlucky
// mount.
func (d *Dispatcher) Validate() error {
	var missing []string
	for _, kind := range fieldkind.All() {
		if _, ok := d.editors[kind]; !ok {
			missing = append(missing, kind.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("dispatcher validation failed: no editor registered for kinds: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Mount binds a template's editor to a field slot, producing a widget.
func (d *Dispatcher) Mount(ref fieldref.Ref, tpl *model.Template, store fieldstore.Store) (*Widget, error) {
	e, err := d.Resolve(tpl.Kind)
	if err != nil {
		return nil, fmt.Errorf("cannot mount %s: %w", ref, err)
	}
	return &Widget{
		ref:    ref,
		editor: e,
		store:  store,
		tpl:    tpl,
	}, nil
}
