package app

import "github.com/evanschultz/lasso/internal/domain"

// BuildSelectBox maps a drag state onto the rectangle to render.
func BuildSelectBox(state domain.DragState) domain.SelectBox {
	switch state.Phase {
	case domain.DragPhaseStart:
		return domain.SelectBox{
			Left: state.Origin.X,
			Top:  state.Origin.Y,
		}
	case domain.DragPhaseDragging:
		width := state.Current.X - state.Origin.X
		height := state.Current.Y - state.Origin.Y
		box := domain.SelectBox{
			Left:    state.Origin.X,
			Top:     state.Origin.Y,
			Width:   abs(width),
			Height:  abs(height),
			Visible: true,
		}
		if width < 0 {
			box.Left = state.Current.X
		}
		if height < 0 {
			box.Top = state.Current.Y
		}
		return box
	default:
		return domain.SelectBox{}
	}
}

// abs returns the absolute value of v.
func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
