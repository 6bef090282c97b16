package domain

// DragPhase is the tag of a DragState value.
type DragPhase int

// DragPhaseIdle and related constants define the drag lifecycle.
const (
	DragPhaseIdle DragPhase = iota
	DragPhaseStart
	DragPhaseDragging
	DragPhaseEnd
)

// String returns the phase name.
func (p DragPhase) String() string {
	switch p {
	case DragPhaseStart:
		return "start"
	case DragPhaseDragging:
		return "dragging"
	case DragPhaseEnd:
		return "end"
	default:
		return "idle"
	}
}

// DragState describes one rubber-band gesture.
// Origin is set for Start and Dragging, Current only for Dragging.
type DragState struct {
	Phase   DragPhase
	Origin  Point
	Current Point
}

// DragStart constructs a Start state.
func DragStart(origin Point) DragState {
	return DragState{Phase: DragPhaseStart, Origin: origin, Current: origin}
}

// DragMove constructs a Dragging state.
func DragMove(origin, current Point) DragState {
	return DragState{Phase: DragPhaseDragging, Origin: origin, Current: current}
}

// DragEnd constructs an End state.
func DragEnd() DragState {
	return DragState{Phase: DragPhaseEnd}
}

// Active reports whether a gesture is between Start and End.
func (d DragState) Active() bool {
	return d.Phase == DragPhaseStart || d.Phase == DragPhaseDragging
}
