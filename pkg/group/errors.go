package group

import (
	kiterrors "github.com/vango-dev/groupkit/internal/errors"
)

// Sentinel errors returned by NewItem and Use. Match them with errors.Is;
// the returned values carry extra detail but compare equal by code.
var (
	// ErrMissingGroupContext is returned when an item has no enclosing group.
	ErrMissingGroupContext error = kiterrors.New("G001")

	// ErrMissingHostInstance is returned when an item has no host owner.
	ErrMissingHostInstance error = kiterrors.New("G002")

	// ErrUncomparableValue is returned when an item value cannot be compared with ==.
	ErrUncomparableValue error = kiterrors.New("G003")
)
