package domain

import (
	"fmt"
	"strings"
)

// InteractionMode identifies which gesture is authoritative.
type InteractionMode int

// ModeClick and related constants define the top-level interaction modes.
const (
	ModeClick InteractionMode = iota
	ModeDrag
	ModeSelect
	ModeShortcut
	ModeDisabled
)

// modeNames stores canonical mode names in declaration order.
var modeNames = []string{"click", "drag", "select", "shortcut", "disabled"}

// String returns the canonical mode name.
func (m InteractionMode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid reports whether m names a known mode.
func (m InteractionMode) Valid() bool {
	return m >= ModeClick && m <= ModeDisabled
}

// Modes returns every interaction mode in declaration order.
func Modes() []InteractionMode {
	return []InteractionMode{ModeClick, ModeDrag, ModeSelect, ModeShortcut, ModeDisabled}
}

// ParseMode parses a mode name. "disable" is accepted as an alias.
func ParseMode(raw string) (InteractionMode, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "disable" {
		name = "disabled"
	}
	for idx, candidate := range modeNames {
		if candidate == name {
			return InteractionMode(idx), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidModeTransition, raw)
}

// DragSubState is the nested state inside ModeDrag.
type DragSubState int

// DragIdle and DragDragging define the drag sub-states.
const (
	DragIdle DragSubState = iota
	DragDragging
)

// String returns the sub-state name.
func (s DragSubState) String() string {
	if s == DragDragging {
		return "dragging"
	}
	return "idle"
}

// GestureState tags one reconciliation tick.
type GestureState int

// GestureStarted and related constants define gesture phases.
const (
	GestureStarted GestureState = iota
	GestureInProgress
	GestureEnded
	GestureForced
)

// String returns the gesture phase name.
func (g GestureState) String() string {
	switch g {
	case GestureStarted:
		return "started"
	case GestureInProgress:
		return "in_progress"
	case GestureEnded:
		return "ended"
	case GestureForced:
		return "forced"
	default:
		return fmt.Sprintf("gesture(%d)", int(g))
	}
}
