package domain

import "strings"

// KeyMods captures modifier-key booleans carried by an input event.
type KeyMods struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

// Tokens returns the held modifier names in canonical order.
func (m KeyMods) Tokens() []string {
	out := make([]string, 0, 4)
	if m.Ctrl {
		out = append(out, "ctrl")
	}
	if m.Alt {
		out = append(out, "alt")
	}
	if m.Shift {
		out = append(out, "shift")
	}
	if m.Meta {
		out = append(out, "meta")
	}
	return out
}

// IsZero reports whether no modifier is held.
func (m KeyMods) IsZero() bool {
	return m == KeyMods{}
}

// KeyEventType distinguishes key presses from releases.
type KeyEventType int

// KeyDown and KeyUp define key transitions.
const (
	KeyDown KeyEventType = iota
	KeyUp
)

// String returns the transition name.
func (t KeyEventType) String() string {
	if t == KeyUp {
		return "keyup"
	}
	return "keydown"
}

// KeyEvent is one raw key transition.
type KeyEvent struct {
	Code string
	Type KeyEventType
	Mods KeyMods
}

// String renders the combination the way key bindings spell it, e.g. "ctrl+shift+a".
func (e KeyEvent) String() string {
	parts := e.Mods.Tokens()
	code := strings.ToLower(strings.TrimSpace(e.Code))
	if code != "" && !isModifierToken(code) {
		parts = append(parts, code)
	}
	return strings.Join(parts, "+")
}

// Keys returns every physical key taking part in the event: held modifiers
// plus the event's own code.
func (e KeyEvent) Keys() []string {
	keys := e.Mods.Tokens()
	code := strings.ToLower(strings.TrimSpace(e.Code))
	if code == "" {
		return keys
	}
	for _, k := range keys {
		if k == code {
			return keys
		}
	}
	return append(keys, code)
}

// isModifierToken reports whether a key code names a modifier key.
func isModifierToken(code string) bool {
	switch code {
	case "ctrl", "alt", "shift", "meta":
		return true
	default:
		return false
	}
}

// IsModifierKey reports whether the event's code is itself a modifier key.
func (e KeyEvent) IsModifierKey() bool {
	return isModifierToken(strings.ToLower(strings.TrimSpace(e.Code)))
}

// PointerKind identifies one pointer occurrence.
type PointerKind int

// PointerDown and related constants define pointer occurrences.
const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerClick
)

// String returns the occurrence name.
func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "pointerdown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case PointerClick:
		return "click"
	default:
		return "pointer"
	}
}

// PointerButton identifies the pressed button.
type PointerButton int

// ButtonPrimary and related constants define pointer buttons.
const (
	ButtonPrimary PointerButton = iota
	ButtonSecondary
	ButtonMiddle
	ButtonNone
)

// PointerEvent is one raw pointer occurrence. Position is container-relative.
// Target names the clicked item for PointerClick; zero means none.
type PointerEvent struct {
	Kind     PointerKind
	Position Point
	Button   PointerButton
	Mods     KeyMods
	Target   ItemID
}
