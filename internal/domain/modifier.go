package domain

import "strings"

// SelectionModifier holds the named intents derived from held keys.
type SelectionModifier struct {
	Add          bool
	Remove       bool
	ToggleSingle bool
	Extend       bool
	Disable      bool
}

// Any reports whether at least one flag is set.
func (m SelectionModifier) Any() bool {
	return m.Add || m.Remove || m.ToggleSingle || m.Extend || m.Disable
}

// Union returns the flag-wise OR of m and o.
func (m SelectionModifier) Union(o SelectionModifier) SelectionModifier {
	return SelectionModifier{
		Add:          m.Add || o.Add,
		Remove:       m.Remove || o.Remove,
		ToggleSingle: m.ToggleSingle || o.ToggleSingle,
		Extend:       m.Extend || o.Extend,
		Disable:      m.Disable || o.Disable,
	}
}

// AllowsShortcutSelection reports whether a shortcut-gated selection may proceed.
func (m SelectionModifier) AllowsShortcutSelection() bool {
	return m.Extend || m.ToggleSingle || m.Add
}

// String renders the set flags, e.g. "add+toggle_single".
func (m SelectionModifier) String() string {
	parts := make([]string, 0, 5)
	if m.Add {
		parts = append(parts, "add")
	}
	if m.Remove {
		parts = append(parts, "remove")
	}
	if m.ToggleSingle {
		parts = append(parts, "toggle_single")
	}
	if m.Extend {
		parts = append(parts, "extend")
	}
	if m.Disable {
		parts = append(parts, "disable")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}
