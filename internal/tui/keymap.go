package tui

import (
	"fmt"

	"charm.land/bubbles/v2/key"
	"github.com/evanschultz/lasso/internal/domain"
)

// keyMap represents key map data used by this package.
type keyMap struct {
	quit         key.Binding
	reload       key.Binding
	toggleHelp   key.Binding
	modeClick    key.Binding
	modeDrag     key.Binding
	modeSelect   key.Binding
	modeShortcut key.Binding
	modeDisabled key.Binding
	selectAll    key.Binding
	clear        key.Binding
	invert       key.Binding
	yank         key.Binding
	details      key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		modeClick:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "click mode")),
		modeDrag:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "drag mode")),
		modeSelect:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "select mode")),
		modeShortcut: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "shortcut mode")),
		modeDisabled: key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "disable selection")),
		selectAll:    key.NewBinding(key.WithKeys("a", "ctrl+a"), key.WithHelp("a", "select all")),
		clear:        key.NewBinding(key.WithKeys("c", "esc"), key.WithHelp("c/esc", "clear")),
		invert:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invert")),
		yank:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy labels")),
		details:      key.NewBinding(key.WithKeys("d", "enter"), key.WithHelp("d", "details")),
	}
}

// modeFor returns the interaction mode bound to msg, if any.
func (k keyMap) modeFor(msg fmt.Stringer) (domain.InteractionMode, bool) {
	switch {
	case key.Matches(msg, k.modeClick):
		return domain.ModeClick, true
	case key.Matches(msg, k.modeDrag):
		return domain.ModeDrag, true
	case key.Matches(msg, k.modeSelect):
		return domain.ModeSelect, true
	case key.Matches(msg, k.modeShortcut):
		return domain.ModeShortcut, true
	case key.Matches(msg, k.modeDisabled):
		return domain.ModeDisabled, true
	default:
		return 0, false
	}
}

// ShortHelp returns the compact help bindings.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.modeDrag, k.selectAll, k.clear, k.yank, k.toggleHelp, k.quit}
}

// FullHelp returns the expanded help bindings.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.modeClick, k.modeDrag, k.modeSelect, k.modeShortcut, k.modeDisabled},
		{k.selectAll, k.clear, k.invert, k.yank, k.details},
		{k.reload, k.toggleHelp, k.quit},
	}
}
