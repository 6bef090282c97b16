package domain

import (
	"errors"
	"slices"
	"testing"
	"time"
)

// TestParseMode verifies canonical names, the alias and rejection.
func TestParseMode(t *testing.T) {
	for _, mode := range Modes() {
		got, err := ParseMode(" " + mode.String() + " ")
		if err != nil || got != mode {
			t.Fatalf("ParseMode(%q) = %s, %v", mode, got, err)
		}
	}
	if got, err := ParseMode("Disable"); err != nil || got != ModeDisabled {
		t.Fatalf("ParseMode(Disable) = %s, %v", got, err)
	}
	if _, err := ParseMode("marquee"); !errors.Is(err, ErrInvalidModeTransition) {
		t.Fatalf("ParseMode(marquee) error = %v, want ErrInvalidModeTransition", err)
	}
	if InteractionMode(9).Valid() {
		t.Fatal("Valid() = true for out-of-range mode")
	}
}

// TestKeyEventRendering verifies binding-style strings and key lists.
func TestKeyEventRendering(t *testing.T) {
	evt := KeyEvent{Code: "A", Mods: KeyMods{Ctrl: true, Shift: true}}
	if got := evt.String(); got != "ctrl+shift+a" {
		t.Fatalf("String() = %q", got)
	}
	if got := evt.Keys(); !slices.Equal(got, []string{"ctrl", "shift", "a"}) {
		t.Fatalf("Keys() = %v", got)
	}

	mod := KeyEvent{Code: "ctrl", Mods: KeyMods{Ctrl: true}}
	if got := mod.String(); got != "ctrl" {
		t.Fatalf("String() = %q, want ctrl", got)
	}
	if got := mod.Keys(); !slices.Equal(got, []string{"ctrl"}) {
		t.Fatalf("Keys() = %v, want [ctrl]", got)
	}
	if !mod.IsModifierKey() || evt.IsModifierKey() {
		t.Fatal("IsModifierKey() mismatch")
	}
}

// TestSelectionModifierHelpers verifies flag algebra.
func TestSelectionModifierHelpers(t *testing.T) {
	var none SelectionModifier
	if none.Any() || none.String() != "none" {
		t.Fatalf("zero modifier = %s", none)
	}
	merged := SelectionModifier{Add: true}.Union(SelectionModifier{Disable: true})
	if merged.String() != "add+disable" {
		t.Fatalf("Union() = %s", merged)
	}
	if (SelectionModifier{Remove: true}).AllowsShortcutSelection() {
		t.Fatal("remove alone allowed shortcut selection")
	}
	for _, m := range []SelectionModifier{{Add: true}, {Extend: true}, {ToggleSingle: true}} {
		if !m.AllowsShortcutSelection() {
			t.Fatalf("%s did not allow shortcut selection", m)
		}
	}
}

// TestDragStateConstructors verifies lifecycle helpers.
func TestDragStateConstructors(t *testing.T) {
	start := DragStart(Point{X: 1, Y: 2})
	if !start.Active() || start.Phase.String() != "start" {
		t.Fatalf("DragStart() = %+v", start)
	}
	if !DragMove(Point{}, Point{X: 3}).Active() {
		t.Fatal("DragMove() not active")
	}
	if DragEnd().Active() || (DragState{}).Active() {
		t.Fatal("end or idle reported active")
	}
}

// TestNextItemIDIsMonotonic verifies identities are never reused.
func TestNextItemIDIsMonotonic(t *testing.T) {
	a := NextItemID()
	b := NextItemID()
	if a == 0 || b <= a {
		t.Fatalf("NextItemID() = %s, %s", a, b)
	}
}

// TestNewCatalogItem verifies validation and defaults.
func TestNewCatalogItem(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("x", 3600))
	item, err := NewCatalogItem(" c1 ", " Alpha ", "", "", -2, now)
	if err != nil {
		t.Fatalf("NewCatalogItem() error = %v", err)
	}
	if item.ID != "c1" || item.Label != "Alpha" || item.Kind != "item" || item.Position != 0 {
		t.Fatalf("NewCatalogItem() = %+v", item)
	}
	if item.CreatedAt.Location() != time.UTC {
		t.Fatalf("CreatedAt location = %s, want UTC", item.CreatedAt.Location())
	}
	if _, err := NewCatalogItem("", "x", "", "", 0, now); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("empty id error = %v", err)
	}
	if _, err := NewCatalogItem("c2", " ", "", "", 0, now); !errors.Is(err, ErrInvalidLabel) {
		t.Fatalf("empty label error = %v", err)
	}
	if err := item.Rename("", now); !errors.Is(err, ErrInvalidLabel) {
		t.Fatalf("Rename(\"\") error = %v", err)
	}
	if err := item.Rename("Beta", now.Add(time.Hour)); err != nil || item.Label != "Beta" {
		t.Fatalf("Rename() = %v, label %q", err, item.Label)
	}
}
