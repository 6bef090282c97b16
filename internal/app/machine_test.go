package app

import (
	"slices"
	"testing"

	"github.com/evanschultz/lasso/internal/domain"
)

// TestMachineStartsInClickMode verifies the initial state.
func TestMachineStartsInClickMode(t *testing.T) {
	m := NewMachine()
	if got := m.State(); got != stateClick {
		t.Fatalf("State() = %s, want click", got)
	}
}

// TestMachineModeCommandsReachEveryMode verifies every mode is reachable from every state.
func TestMachineModeCommandsReachEveryMode(t *testing.T) {
	m := NewMachine()
	for _, from := range States() {
		for _, mode := range domain.Modes() {
			evt, ok := ModeCommand(mode)
			if !ok {
				t.Fatalf("ModeCommand(%s) missing", mode)
			}
			row, ok := m.Resolve(from, evt, GuardContext{})
			if !ok {
				t.Fatalf("Resolve(%s, %s) found no row", from, evt)
			}
			if row.Target == nil || row.Target.Mode != mode {
				t.Fatalf("Resolve(%s, %s) target = %v, want mode %s", from, evt, row.Target, mode)
			}
			if row.Target.Drag != domain.DragIdle {
				t.Fatalf("Resolve(%s, %s) enters %s, want idle sub-state", from, evt, row.Target)
			}
		}
	}
}

// TestMachineTableIsTotalOverStatesAndEvents enumerates every (state, event) pair.
func TestMachineTableIsTotalOverStatesAndEvents(t *testing.T) {
	m := NewMachine()
	handled := map[string][]EventType{}
	for _, state := range States() {
		for _, evt := range Events() {
			for _, mods := range []domain.SelectionModifier{{}, {ToggleSingle: true}} {
				if _, ok := m.Resolve(state, evt, GuardContext{Modifiers: mods}); ok {
					key := state.String()
					if !slices.Contains(handled[key], evt) {
						handled[key] = append(handled[key], evt)
					}
				}
			}
		}
	}

	pointer := map[string][]EventType{
		"click":         {EventClick},
		"drag.idle":     {EventPointerDown},
		"drag.dragging": {EventPointerMove, EventPointerUp},
		"select":        {EventClick},
		"shortcut":      {EventClick},
		"disabled":      nil,
	}
	for state, want := range pointer {
		for _, evt := range []EventType{EventClick, EventPointerDown, EventPointerMove, EventPointerUp} {
			got := slices.Contains(handled[state], evt)
			if got != slices.Contains(want, evt) {
				t.Fatalf("state %s handles %s = %t, want %t", state, evt, got, !got)
			}
		}
		for _, evt := range []EventType{EventSelectItems, EventClearAll} {
			if !slices.Contains(handled[state], evt) {
				t.Fatalf("state %s does not handle %s", state, evt)
			}
		}
	}
}

// TestMachineDragLifecycleActions verifies action lists for a full drag.
func TestMachineDragLifecycleActions(t *testing.T) {
	m := NewMachine()
	if _, ok := m.Send(EventToggleDragMode, GuardContext{}); !ok {
		t.Fatal("Send(toggleDragMode) = false")
	}

	step, ok := m.Send(EventPointerDown, GuardContext{})
	if !ok || step.To != stateDragDragging {
		t.Fatalf("Send(pointerdown) = %+v, %t", step, ok)
	}
	want := []Action{ActionClearNativeSelection, ActionStartDrag, ActionDrawSelectBox}
	if !slices.Equal(step.Actions, want) {
		t.Fatalf("pointerdown actions = %v, want %v", step.Actions, want)
	}

	step, _ = m.Send(EventPointerMove, GuardContext{})
	want = []Action{ActionDrag, ActionDrawSelectBox, ActionUpdateSelectedItems}
	if step.Changed() || !slices.Equal(step.Actions, want) {
		t.Fatalf("pointermove step = %+v, want self-transition with %v", step, want)
	}

	step, _ = m.Send(EventPointerUp, GuardContext{})
	want = []Action{ActionUpdateSelectedItems, ActionResetDrag, ActionDrawSelectBox}
	if step.To != stateDragIdle || !slices.Equal(step.Actions, want) {
		t.Fatalf("pointerup step = %+v, want idle with %v", step, want)
	}
}

// TestMachineModeSwitchWhileDraggingCancels verifies leaving a live drag cancels it.
func TestMachineModeSwitchWhileDraggingCancels(t *testing.T) {
	m := NewMachine()
	m.Send(EventToggleDragMode, GuardContext{})
	m.Send(EventPointerDown, GuardContext{})

	step, ok := m.Send(EventToggleSelectMode, GuardContext{})
	if !ok || step.To != stateSelect {
		t.Fatalf("Send(toggleSelectMode) = %+v, %t", step, ok)
	}
	if want := []Action{ActionCancelDrag, ActionDrawSelectBox}; !slices.Equal(step.Actions, want) {
		t.Fatalf("actions = %v, want %v", step.Actions, want)
	}
}

// TestMachineClickGuards verifies guarded click rows.
func TestMachineClickGuards(t *testing.T) {
	m := NewMachine()
	row, _ := m.Resolve(stateClick, EventClick, GuardContext{})
	if !slices.Equal(row.Actions, []Action{ActionClickItem}) {
		t.Fatalf("plain click actions = %v", row.Actions)
	}
	row, _ = m.Resolve(stateClick, EventClick, GuardContext{Modifiers: domain.SelectionModifier{ToggleSingle: true}})
	if !slices.Equal(row.Actions, []Action{ActionClickItemAppend}) {
		t.Fatalf("append click actions = %v", row.Actions)
	}

	if _, ok := m.Resolve(stateShortcut, EventClick, GuardContext{}); ok {
		t.Fatal("shortcut click without modifier resolved")
	}
	for _, mods := range []domain.SelectionModifier{{Add: true}, {Extend: true}, {ToggleSingle: true}} {
		if _, ok := m.Resolve(stateShortcut, EventClick, GuardContext{Modifiers: mods}); !ok {
			t.Fatalf("shortcut click with %s did not resolve", mods)
		}
	}
	if _, ok := m.Resolve(stateShortcut, EventClick, GuardContext{Modifiers: domain.SelectionModifier{Remove: true}}); ok {
		t.Fatal("shortcut click with remove resolved")
	}
}

// TestMachineUnhandledEventLeavesState verifies Send reports false without moving.
func TestMachineUnhandledEventLeavesState(t *testing.T) {
	m := NewMachine()
	m.Send(EventToggleDisabledMode, GuardContext{})
	step, ok := m.Send(EventClick, GuardContext{})
	if ok || step.Changed() || m.State() != stateDisabled {
		t.Fatalf("Send(click) in disabled = %+v, %t, state %s", step, ok, m.State())
	}
}

// TestMachineStateString verifies status rendering.
func TestMachineStateString(t *testing.T) {
	if got := stateDragDragging.String(); got != "drag.dragging" {
		t.Fatalf("String() = %q, want drag.dragging", got)
	}
	if got := stateShortcut.String(); got != "shortcut" {
		t.Fatalf("String() = %q, want shortcut", got)
	}
}
