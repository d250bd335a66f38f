package domain

import "errors"

// Typed failures signalled by the lower components. The HTTP layer is the
// only place these are translated to wire-level status codes.
var (
	// ErrNotFound means the referenced chat id does not exist.
	ErrNotFound = errors.New("chat not found")

	// ErrValidation means a required input field is missing or malformed.
	ErrValidation = errors.New("invalid input")
)
