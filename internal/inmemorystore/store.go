// Package inmemorystore provides the reference in-memory implementation of
// the fieldstore.Store interface.
//
// # Characteristics
//
//   - Ephemeral: created fresh for each editing session, never persisted.
//   - Thread-safe: a sync.RWMutex guards the slot map, so concurrent reads
//     do not contend with each other.
//   - Ordered: a dedicated apply mutex serializes Apply end to end, so
//     subscribers observe every update exactly once, in sequence order.
//
// # Concurrency Model
//
// Two locks split the work. applyMu serializes whole update cycles,
// including subscriber delivery, which is what gives events their total
// order. mu guards the maps and is released before callbacks run, so a
// subscriber may freely read from the store during delivery. A subscriber
// that calls Apply would deadlock on applyMu; the fieldstore contract
// forbids it.
package inmemorystore

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/nodecanvas/internal/fieldref"
	"github.com/specialistvlad/nodecanvas/internal/fieldstore"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
	"github.com/specialistvlad/nodecanvas/internal/model"
)

// slot binds one seeded field reference to its template and current value.
type slot struct {
	template *model.Template
	value    fieldval.Value
}

// subscriber pairs a callback with a removable identity.
type subscriber struct {
	id int
	fn func(fieldstore.Event)
}

// Store is an in-memory implementation of fieldstore.Store.
type Store struct {
	applyMu sync.Mutex // serializes Apply cycles, including delivery

	mu     sync.RWMutex
	slots  map[fieldref.Ref]*slot
	subs   []subscriber
	nextID int
	seq    uint64
}

// New creates a new, empty in-memory field store.
func New() *Store {
	return &Store{
		slots: make(map[fieldref.Ref]*slot),
	}
}

var _ fieldstore.Store = (*Store)(nil)

// Seed creates the slot for a reference with its template's default value.
func (s *Store) Seed(ctx context.Context, ref fieldref.Ref, tpl *model.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.slots[ref]; exists {
		return fmt.Errorf("%w: %s", fieldstore.ErrExists, ref)
	}
	s.slots[ref] = &slot{template: tpl, value: tpl.Default}
	return nil
}

// Drop removes every slot belonging to the given node.
func (s *Store) Drop(ctx context.Context, node string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ref := range s.slots {
		if ref.Node == node {
			delete(s.slots, ref)
		}
	}
	return nil
}

// Get retrieves the current value of a field slot.
func (s *Store) Get(ctx context.Context, ref fieldref.Ref) (fieldval.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, ok := s.slots[ref]
	if !ok {
		return fieldval.Value{}, fmt.Errorf("%w: %s", fieldstore.ErrNotFound, ref)
	}
	return sl.value, nil
}

// Template retrieves the template a slot was seeded with.
func (s *Store) Template(ctx context.Context, ref fieldref.Ref) (*model.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, ok := s.slots[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", fieldstore.ErrNotFound, ref)
	}
	return sl.template, nil
}

// Apply executes one update action. See the fieldstore contract for the
// verify-then-replace semantics.
func (s *Store) Apply(ctx context.Context, action fieldstore.UpdateAction) error {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.mu.Lock()
	sl, ok := s.slots[action.Ref]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", fieldstore.ErrNotFound, action.Ref)
	}

	// The stored value always matches the template kind, so checking the
	// action against both catches a drifted slot as well as a bad caller.
	if action.Value.Kind() != sl.template.Kind || action.Value.Kind() != sl.value.Kind() {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s carries %s, field %s holds %s",
			fieldstore.ErrTypeMismatch, action.Ref, action.Value.Kind(), action.Ref.Field, sl.template.Kind)
	}

	if err := sl.template.Check(action.Value); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s: %v", fieldstore.ErrOutOfRange, action.Ref, err)
	}

	previous := sl.value
	sl.value = action.Value
	s.seq++
	event := fieldstore.Event{
		Seq:      s.seq,
		Ref:      action.Ref,
		Previous: previous,
		Value:    action.Value,
		Origin:   action.Origin,
	}
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	// Delivery happens on the caller's goroutine, still inside the apply
	// cycle, so Apply does not return before every subscriber has seen
	// the update.
	for _, sub := range subs {
		sub.fn(event)
	}
	return nil
}

// Fields returns a snapshot of every seeded field of one node.
func (s *Store) Fields(ctx context.Context, node string) (map[string]fieldval.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]fieldval.Value)
	for ref, sl := range s.slots {
		if ref.Node == node {
			out[ref.Field] = sl.value
		}
	}
	return out, nil
}

// Subscribe registers a callback for applied updates.
func (s *Store) Subscribe(fn func(fieldstore.Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
