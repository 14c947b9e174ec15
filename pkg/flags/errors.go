package flags

import "errors"

// Predefined errors for the flags package.
var (
	// ErrIdentify indicates the identify function failed before the adapter was called.
	ErrIdentify = errors.New("flags: identify failed")

	// ErrNoAdapter indicates a flag was declared without an adapter.
	ErrNoAdapter = errors.New("flags: flag has no adapter")

	// ErrUnauthorized is returned by discovery access checks.
	ErrUnauthorized = errors.New("flags: unauthorized")
)
