package app

import (
	"strings"

	"github.com/evanschultz/lasso/internal/domain"
)

// keySignature identifies a key transition for coalescing.
type keySignature struct {
	code string
	typ  domain.KeyEventType
}

// Normalizer derives drag lifecycle and modifier state from raw input.
type Normalizer struct {
	mapper    ModifierMapper
	drag      domain.DragState
	modifiers domain.SelectionModifier
	// activeKeys holds the combination that produced modifiers.
	activeKeys map[string]struct{}
	lastKey    keySignature
	hasLastKey bool
}

// NewNormalizer constructs a normalizer over the injected shortcut mapper.
func NewNormalizer(mapper ModifierMapper) *Normalizer {
	if mapper == nil {
		mapper = ModifierMapperFunc(func(domain.KeyEvent) domain.SelectionModifier {
			return domain.SelectionModifier{}
		})
	}
	return &Normalizer{mapper: mapper}
}

// Drag returns the current drag state.
func (n *Normalizer) Drag() domain.DragState {
	return n.drag
}

// Modifiers returns the flags derived from held keys.
func (n *Normalizer) Modifiers() domain.SelectionModifier {
	return n.modifiers
}

// Pointer advances the drag lifecycle. It reports false when the event does
// not take part in a drag: non-primary presses, and moves or releases with no
// drag in progress.
func (n *Normalizer) Pointer(evt domain.PointerEvent) (domain.DragState, bool) {
	switch evt.Kind {
	case domain.PointerDown:
		if evt.Button != domain.ButtonPrimary {
			return n.drag, false
		}
		n.drag = domain.DragStart(evt.Position)
		return n.drag, true
	case domain.PointerMove:
		if !n.drag.Active() {
			return n.drag, false
		}
		n.drag = domain.DragMove(n.drag.Origin, evt.Position)
		return n.drag, true
	case domain.PointerUp:
		if !n.drag.Active() {
			return n.drag, false
		}
		n.drag = domain.DragState{}
		return domain.DragEnd(), true
	default:
		return n.drag, false
	}
}

// Cancel forces an in-progress drag to End without a release.
func (n *Normalizer) Cancel() (domain.DragState, bool) {
	if !n.drag.Active() {
		return n.drag, false
	}
	n.drag = domain.DragState{}
	return domain.DragEnd(), true
}

// Key folds one key transition into the modifier state and reports whether
// the flags changed. Repeats of the previous (code, type) pair are coalesced.
func (n *Normalizer) Key(evt domain.KeyEvent) (domain.SelectionModifier, bool) {
	sig := keySignature{code: strings.ToLower(strings.TrimSpace(evt.Code)), typ: evt.Type}
	if n.hasLastKey && sig == n.lastKey {
		return n.modifiers, false
	}
	n.lastKey = sig
	n.hasLastKey = true

	prev := n.modifiers
	switch evt.Type {
	case domain.KeyDown:
		n.modifiers = n.mapper.Modifiers(evt)
		n.activeKeys = nil
		if n.modifiers.Any() {
			n.activeKeys = map[string]struct{}{}
			for _, k := range evt.Keys() {
				n.activeKeys[k] = struct{}{}
			}
		}
	case domain.KeyUp:
		if _, ok := n.activeKeys[sig.code]; !ok {
			return n.modifiers, false
		}
		n.modifiers = domain.SelectionModifier{}
		n.activeKeys = nil
	}
	return n.modifiers, n.modifiers != prev
}

// PointerModifiers returns the effective flags for a pointer tick: held-key
// flags combined with the modifiers the pointer event itself carries.
func (n *Normalizer) PointerModifiers(mods domain.KeyMods) domain.SelectionModifier {
	if mods.IsZero() {
		return n.modifiers
	}
	return n.modifiers.Union(n.mapper.Modifiers(domain.KeyEvent{Type: domain.KeyDown, Mods: mods}))
}

// ResetModifiers clears all flags and the coalescing memory.
func (n *Normalizer) ResetModifiers() {
	n.modifiers = domain.SelectionModifier{}
	n.activeKeys = nil
	n.hasLastKey = false
}
