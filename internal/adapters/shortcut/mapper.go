package shortcut

import (
	"slices"
	"strings"

	"charm.land/bubbles/v2/key"
	"github.com/evanschultz/lasso/internal/domain"
)

// Bindings lists the key combinations for each selection intent.
// A combination is written the way key bindings spell it, e.g. "shift" or "alt+shift".
type Bindings struct {
	Add          []string
	Remove       []string
	ToggleSingle []string
	Extend       []string
	Disable      []string
}

// DefaultBindings returns the stock shortcut layout.
func DefaultBindings() Bindings {
	return Bindings{
		Add:          []string{"shift"},
		Remove:       []string{"alt"},
		ToggleSingle: []string{"ctrl"},
		Extend:       []string{"meta"},
		Disable:      []string{"alt+shift"},
	}
}

// Mapper resolves held keys into selection modifier flags.
type Mapper struct {
	add          key.Binding
	remove       key.Binding
	toggleSingle key.Binding
	extend       key.Binding
	disable      key.Binding
}

// New constructs a mapper from configured bindings. A flag with no
// combinations is disabled.
func New(b Bindings) *Mapper {
	return &Mapper{
		add:          newBinding(b.Add, "add to selection"),
		remove:       newBinding(b.Remove, "remove from selection"),
		toggleSingle: newBinding(b.ToggleSingle, "toggle item"),
		extend:       newBinding(b.Extend, "extend selection"),
		disable:      newBinding(b.Disable, "suspend selection"),
	}
}

// newBinding builds one normalized binding.
func newBinding(combos []string, desc string) key.Binding {
	keys := make([]string, 0, len(combos))
	for _, combo := range combos {
		if norm := normalize(combo); norm != "" && !slices.Contains(keys, norm) {
			keys = append(keys, norm)
		}
	}
	b := key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), desc))
	if len(keys) == 0 {
		b.SetEnabled(false)
	}
	return b
}

// normalize lowercases a combination and orders its modifiers canonically.
func normalize(combo string) string {
	var mods domain.KeyMods
	var code string
	for _, part := range strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+") {
		switch strings.TrimSpace(part) {
		case "ctrl", "control":
			mods.Ctrl = true
		case "alt", "option":
			mods.Alt = true
		case "shift":
			mods.Shift = true
		case "meta", "cmd", "super":
			mods.Meta = true
		case "":
		default:
			code = strings.TrimSpace(part)
		}
	}
	return domain.KeyEvent{Code: code, Mods: mods}.String()
}

// Modifiers implements app.ModifierMapper.
func (m *Mapper) Modifiers(evt domain.KeyEvent) domain.SelectionModifier {
	return domain.SelectionModifier{
		Add:          held(evt, m.add),
		Remove:       held(evt, m.remove),
		ToggleSingle: held(evt, m.toggleSingle),
		Extend:       held(evt, m.extend),
		Disable:      held(evt, m.disable),
	}
}

// Bindings returns the active bindings for help rendering.
func (m *Mapper) Bindings() []key.Binding {
	out := make([]key.Binding, 0, 5)
	for _, b := range []key.Binding{m.add, m.remove, m.toggleSingle, m.extend, m.disable} {
		if b.Enabled() {
			out = append(out, b)
		}
	}
	return out
}

// held reports whether every key of one of b's combinations is down in evt.
func held(evt domain.KeyEvent, b key.Binding) bool {
	if !b.Enabled() {
		return false
	}
	if key.Matches(evt, b) {
		return true
	}
	down := evt.Keys()
	for _, combo := range b.Keys() {
		parts := strings.Split(combo, "+")
		if len(parts) > 0 && allHeld(parts, down) {
			return true
		}
	}
	return false
}

// allHeld reports whether every part appears in down.
func allHeld(parts, down []string) bool {
	for _, part := range parts {
		if !slices.Contains(down, part) {
			return false
		}
	}
	return true
}
