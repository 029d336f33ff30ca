package fieldstore

import "errors"

var (
	// ErrNotFound reports a reference that resolves to no seeded slot.
	ErrNotFound = errors.New("field not found")

	// ErrExists reports an attempt to seed an already seeded reference.
	ErrExists = errors.New("field already seeded")

	// ErrTypeMismatch reports an action whose value kind differs from the
	// slot's kind. The slot is never modified.
	ErrTypeMismatch = errors.New("value kind does not match field kind")

	// ErrOutOfRange reports an action whose value violates the slot's
	// template constraints. The slot is never modified.
	ErrOutOfRange = errors.New("value violates field constraints")
)
