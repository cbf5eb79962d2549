package domain

import "errors"

var (
	// ErrNotFound is returned by store lookups and archive reads when no
	// clip matches the given key.
	ErrNotFound = errors.New("not found")

	// ErrInvalidLabel is returned when a candidate label contains
	// characters outside lowercase letters, digits and underscore.
	ErrInvalidLabel = errors.New("invalid label")

	// ErrLabelTaken is returned on insert when another clip already owns
	// the label.
	ErrLabelTaken = errors.New("label already taken")
)
