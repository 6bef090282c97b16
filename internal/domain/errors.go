package domain

import "errors"

// ErrInvalidModeTransition and related errors describe recoverable selection failures.
var (
	ErrInvalidModeTransition = errors.New("invalid mode transition")
	ErrStaleBoundingBox      = errors.New("stale bounding box")
	ErrOrphanedItem          = errors.New("orphaned item")
	ErrUnknownItem           = errors.New("unknown item")
	ErrInvalidID             = errors.New("invalid id")
	ErrInvalidLabel          = errors.New("invalid label")
	ErrInvalidValue          = errors.New("invalid value")
)
