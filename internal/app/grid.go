package app

import (
	"fmt"

	"github.com/evanschultz/lasso/internal/domain"
)

// GridLayout places slot-indexed items on a fixed cell grid and answers
// bounding-box queries for them. Boxes are container-relative.
type GridLayout struct {
	Columns    int
	CellWidth  int
	CellHeight int
	GapX       int
	GapY       int
	// Origin is the container's absolute top-left cell.
	Origin domain.Point
	// Count is the number of occupied slots.
	Count int
	// Width and Height bound the container; zero derives them from the grid.
	Width  int
	Height int
}

// normalized returns g with every size at least one cell.
func (g GridLayout) normalized() GridLayout {
	g.Columns = max(g.Columns, 1)
	g.CellWidth = max(g.CellWidth, 1)
	g.CellHeight = max(g.CellHeight, 1)
	g.GapX = max(g.GapX, 0)
	g.GapY = max(g.GapY, 0)
	return g
}

// Slot returns the box of slot n.
func (g GridLayout) Slot(n int) domain.Rect {
	g = g.normalized()
	col, row := n%g.Columns, n/g.Columns
	left := col * (g.CellWidth + g.GapX)
	top := row * (g.CellHeight + g.GapY)
	return domain.Rect{
		Left:   left,
		Top:    top,
		Right:  left + g.CellWidth - 1,
		Bottom: top + g.CellHeight - 1,
	}
}

// Rows returns the number of occupied rows.
func (g GridLayout) Rows() int {
	g = g.normalized()
	if g.Count <= 0 {
		return 0
	}
	return (g.Count + g.Columns - 1) / g.Columns
}

// FitColumns returns how many cells fit across width, at least one.
func (g GridLayout) FitColumns(width int) int {
	g = g.normalized()
	return max((width+g.GapX)/(g.CellWidth+g.GapX), 1)
}

// BoundingBox implements BoundingBoxProvider for int slot handles.
func (g *GridLayout) BoundingBox(h domain.Handle) (domain.Rect, error) {
	slot, ok := h.(int)
	if !ok {
		return domain.Rect{}, fmt.Errorf("grid handle %v: %w", h, domain.ErrUnknownItem)
	}
	if slot < 0 || (g.Count > 0 && slot >= g.Count) {
		return domain.Rect{}, fmt.Errorf("grid slot %d: %w", slot, domain.ErrUnknownItem)
	}
	return g.Slot(slot), nil
}

// ContainerBox implements BoundingBoxProvider.
func (g *GridLayout) ContainerBox() (domain.Rect, error) {
	n := g.normalized()
	width, height := g.Width, g.Height
	if width <= 0 {
		width = n.Columns*(n.CellWidth+n.GapX) - n.GapX
	}
	if height <= 0 {
		height = max(n.Rows()*(n.CellHeight+n.GapY)-n.GapY, 1)
	}
	return domain.NewRect(g.Origin.X, g.Origin.Y, width-1, height-1), nil
}

// Relative converts an absolute cell into a container-relative point.
func (g *GridLayout) Relative(abs domain.Point) domain.Point {
	box, _ := g.ContainerBox()
	return domain.RelativePosition(abs, box)
}
