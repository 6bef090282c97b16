package app

import (
	"fmt"

	"github.com/evanschultz/lasso/internal/domain"
)

// MachineState is one (mode, drag sub-state) pair.
type MachineState struct {
	Mode domain.InteractionMode
	Drag domain.DragSubState
}

// String renders the state the way the status bar shows it, e.g. "drag.dragging".
func (s MachineState) String() string {
	if s.Mode == domain.ModeDrag {
		return fmt.Sprintf("%s.%s", s.Mode, s.Drag)
	}
	return s.Mode.String()
}

// EventType names one machine input.
type EventType string

// EventToggleClickMode and related constants define machine inputs.
const (
	EventToggleClickMode          EventType = "toggleClickMode"
	EventToggleDragMode           EventType = "toggleDragMode"
	EventToggleSelectMode         EventType = "toggleSelectMode"
	EventToggleSelectWithShortcut EventType = "toggleSelectWithShortcut"
	EventToggleDisabledMode       EventType = "toggleDisabledMode"
	EventClick                    EventType = "click"
	EventPointerDown              EventType = "pointerdown"
	EventPointerMove              EventType = "pointermove"
	EventPointerUp                EventType = "pointerup"
	EventSelectItems              EventType = "selectItems"
	EventClearAll                 EventType = "clearAll"
)

// Action names one side effect attached to a transition.
type Action string

// ActionClearNativeSelection and related constants define transition actions.
const (
	ActionClearNativeSelection Action = "clearNativeSelection"
	ActionStartDrag            Action = "startDrag"
	ActionDrag                 Action = "drag"
	ActionDrawSelectBox        Action = "drawSelectBox"
	ActionUpdateSelectedItems  Action = "updateSelectedItems"
	ActionResetDrag            Action = "resetDrag"
	ActionCancelDrag           Action = "cancelDrag"
	ActionClickItem            Action = "clickItem"
	ActionClickItemAppend      Action = "clickItemAppend"
	ActionSelectItems          Action = "selectItems"
	ActionClearAll             Action = "clearAll"
)

// Guard names a transition precondition.
type Guard string

// GuardNone and related constants define transition guards.
const (
	GuardNone            Guard = ""
	GuardAppendItem      Guard = "appendItem"
	GuardShortcutPressed Guard = "isShortcutPressed"
)

// GuardContext carries the live values guards are evaluated against.
type GuardContext struct {
	Modifiers domain.SelectionModifier
}

// Transition is one row of the machine's table. A row with AnyState set
// matches every state; rows are tried in order and the first match wins.
type Transition struct {
	From     MachineState
	AnyState bool
	Event    EventType
	Guard    Guard
	Target   *MachineState
	Actions  []Action
}

// Step is the outcome of sending one event.
type Step struct {
	From    MachineState
	To      MachineState
	Event   EventType
	Actions []Action
}

// Changed reports whether the step moved to a different state.
func (s Step) Changed() bool {
	return s.From != s.To
}

var (
	stateClick        = MachineState{Mode: domain.ModeClick}
	stateDragIdle     = MachineState{Mode: domain.ModeDrag, Drag: domain.DragIdle}
	stateDragDragging = MachineState{Mode: domain.ModeDrag, Drag: domain.DragDragging}
	stateSelect       = MachineState{Mode: domain.ModeSelect}
	stateShortcut     = MachineState{Mode: domain.ModeShortcut}
	stateDisabled     = MachineState{Mode: domain.ModeDisabled}
)

// target returns a pointer to a copy of s for table rows.
func target(s MachineState) *MachineState {
	return &s
}

// modeCommands maps each mode to the command that activates it.
var modeCommands = map[domain.InteractionMode]EventType{
	domain.ModeClick:    EventToggleClickMode,
	domain.ModeDrag:     EventToggleDragMode,
	domain.ModeSelect:   EventToggleSelectMode,
	domain.ModeShortcut: EventToggleSelectWithShortcut,
	domain.ModeDisabled: EventToggleDisabledMode,
}

// modeEntryStates maps each mode command to the state it enters.
var modeEntryStates = map[EventType]MachineState{
	EventToggleClickMode:          stateClick,
	EventToggleDragMode:           stateDragIdle,
	EventToggleSelectMode:         stateSelect,
	EventToggleSelectWithShortcut: stateShortcut,
	EventToggleDisabledMode:       stateDisabled,
}

// modeEvents lists the mode commands in declaration order.
var modeEvents = []EventType{
	EventToggleClickMode,
	EventToggleDragMode,
	EventToggleSelectMode,
	EventToggleSelectWithShortcut,
	EventToggleDisabledMode,
}

// ModeCommand returns the event that switches to mode.
func ModeCommand(mode domain.InteractionMode) (EventType, bool) {
	evt, ok := modeCommands[mode]
	return evt, ok
}

// transitionTable builds the machine definition. Nested-state rows come
// before global rows so they take priority.
func transitionTable() []Transition {
	table := []Transition{
		{From: stateClick, Event: EventClick, Guard: GuardAppendItem, Actions: []Action{ActionClickItemAppend}},
		{From: stateClick, Event: EventClick, Actions: []Action{ActionClickItem}},
		{
			From:    stateDragIdle,
			Event:   EventPointerDown,
			Target:  target(stateDragDragging),
			Actions: []Action{ActionClearNativeSelection, ActionStartDrag, ActionDrawSelectBox},
		},
		{
			From:    stateDragDragging,
			Event:   EventPointerMove,
			Actions: []Action{ActionDrag, ActionDrawSelectBox, ActionUpdateSelectedItems},
		},
		{
			From:    stateDragDragging,
			Event:   EventPointerUp,
			Target:  target(stateDragIdle),
			Actions: []Action{ActionUpdateSelectedItems, ActionResetDrag, ActionDrawSelectBox},
		},
		{From: stateSelect, Event: EventClick, Actions: []Action{ActionClickItemAppend}},
		{From: stateShortcut, Event: EventClick, Guard: GuardShortcutPressed, Actions: []Action{ActionClickItemAppend}},
	}
	// Leaving a live drag must not strand the box.
	for _, evt := range modeEvents {
		table = append(table, Transition{
			From:    stateDragDragging,
			Event:   evt,
			Target:  target(modeEntryStates[evt]),
			Actions: []Action{ActionCancelDrag, ActionDrawSelectBox},
		})
	}
	for _, evt := range modeEvents {
		table = append(table, Transition{AnyState: true, Event: evt, Target: target(modeEntryStates[evt])})
	}
	table = append(table,
		Transition{AnyState: true, Event: EventSelectItems, Actions: []Action{ActionSelectItems}},
		Transition{AnyState: true, Event: EventClearAll, Actions: []Action{ActionClearAll}},
	)
	return table
}

// Machine is the interaction mode state machine.
type Machine struct {
	state MachineState
	table []Transition
}

// NewMachine constructs a machine in the initial Click state.
func NewMachine() *Machine {
	return &Machine{state: stateClick, table: transitionTable()}
}

// State returns the current state.
func (m *Machine) State() MachineState {
	return m.state
}

// Transitions returns a copy of the table so callers can enumerate it.
func (m *Machine) Transitions() []Transition {
	out := make([]Transition, len(m.table))
	copy(out, m.table)
	return out
}

// States returns every reachable state.
func States() []MachineState {
	return []MachineState{stateClick, stateDragIdle, stateDragDragging, stateSelect, stateShortcut, stateDisabled}
}

// Events returns every machine input.
func Events() []EventType {
	return []EventType{
		EventToggleClickMode,
		EventToggleDragMode,
		EventToggleSelectMode,
		EventToggleSelectWithShortcut,
		EventToggleDisabledMode,
		EventClick,
		EventPointerDown,
		EventPointerMove,
		EventPointerUp,
		EventSelectItems,
		EventClearAll,
	}
}

// Resolve finds the row that handles evt in state under ctx without moving.
func (m *Machine) Resolve(state MachineState, evt EventType, ctx GuardContext) (Transition, bool) {
	for _, row := range m.table {
		if row.Event != evt {
			continue
		}
		if !row.AnyState && row.From != state {
			continue
		}
		if !evalGuard(row.Guard, ctx) {
			continue
		}
		return row, true
	}
	return Transition{}, false
}

// Send applies evt. It reports false when no row handles the event, in
// which case the state is unchanged.
func (m *Machine) Send(evt EventType, ctx GuardContext) (Step, bool) {
	row, ok := m.Resolve(m.state, evt, ctx)
	if !ok {
		return Step{From: m.state, To: m.state, Event: evt}, false
	}
	step := Step{
		From:    m.state,
		To:      m.state,
		Event:   evt,
		Actions: append([]Action(nil), row.Actions...),
	}
	if row.Target != nil {
		step.To = *row.Target
	}
	m.state = step.To
	return step, true
}

// evalGuard evaluates one named guard.
func evalGuard(g Guard, ctx GuardContext) bool {
	switch g {
	case GuardNone:
		return true
	case GuardAppendItem:
		return ctx.Modifiers.ToggleSingle
	case GuardShortcutPressed:
		return ctx.Modifiers.AllowsShortcutSelection()
	default:
		return false
	}
}
