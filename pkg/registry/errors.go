package registry

import "errors"

var (
	// ErrAlreadyRegistered is returned by Register when a tool name is
	// already bound in the registry.
	ErrAlreadyRegistered = errors.New("tool already registered")

	// ErrNotFound is returned by Lookup when no tool is bound to the
	// requested name.
	ErrNotFound = errors.New("tool not found")

	// ErrEmptyName is returned when a contract's Name is empty.
	ErrEmptyName = errors.New("tool name must not be empty")
)
