package app

import "errors"

// ErrNotFound and related errors describe runtime failures.
var (
	ErrNotFound      = errors.New("not found")
	ErrSessionClosed = errors.New("session closed")
	ErrNilProvider   = errors.New("bounding box provider is required")
)
