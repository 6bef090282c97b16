package domain

// Point represents one pointer position relative to the container origin.
type Point struct {
	X int
	Y int
}

// Sub returns p translated by -origin.
func (p Point) Sub(origin Point) Point {
	return Point{X: p.X - origin.X, Y: p.Y - origin.Y}
}

// Rect represents an inclusive axis-aligned bounding box.
//
// Right and Bottom are the last covered cell, so a single cell at (3,4) is
// Rect{Left: 3, Top: 4, Right: 3, Bottom: 4}.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// NewRect builds a rect from an origin and a size in cells.
func NewRect(left, top, width, height int) Rect {
	if width < 0 {
		left, width = left+width, -width
	}
	if height < 0 {
		top, height = top+height, -height
	}
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// RectFromPoints returns the normalized rect spanned by two corners.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Left:   min(a.X, b.X),
		Top:    min(a.Y, b.Y),
		Right:  max(a.X, b.X),
		Bottom: max(a.Y, b.Y),
	}
}

// Width returns the horizontal extent.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the vertical extent.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// IsZero reports whether r is the zero rect.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// Contains reports whether p lies inside r, bounds included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Intersects reports whether r and o overlap on both axes, bounds included.
// Degenerate rects are tested like any other.
func (r Rect) Intersects(o Rect) bool {
	return r.Left <= o.Right && r.Right >= o.Left && r.Top <= o.Bottom && r.Bottom >= o.Top
}

// Translate returns r shifted by -origin, converting absolute coordinates
// into container-relative ones.
func (r Rect) Translate(origin Point) Rect {
	return Rect{
		Left:   r.Left - origin.X,
		Top:    r.Top - origin.Y,
		Right:  r.Right - origin.X,
		Bottom: r.Bottom - origin.Y,
	}
}

// RelativePosition converts an absolute pointer position into one relative
// to the container's top-left corner.
func RelativePosition(abs Point, container Rect) Point {
	return abs.Sub(Point{X: container.Left, Y: container.Top})
}

// SelectBox is the rectangle rendered for an in-progress rubber band.
// Visible is a rendering hint only.
type SelectBox struct {
	Left    int
	Top     int
	Width   int
	Height  int
	Visible bool
}

// Rect returns the hit-test rectangle covered by the box.
func (b SelectBox) Rect() Rect {
	return Rect{
		Left:   b.Left,
		Top:    b.Top,
		Right:  b.Left + b.Width,
		Bottom: b.Top + b.Height,
	}
}

// Corners returns the box as named corner properties, x1/y1 top-left and
// x2/y2 bottom-right.
func (b SelectBox) Corners() map[string]int {
	return map[string]int{
		"x1": b.Left,
		"y1": b.Top,
		"x2": b.Left + b.Width,
		"y2": b.Top + b.Height,
	}
}

// HasMinimumSize reports whether the box spans at least the given size.
func (b SelectBox) HasMinimumSize(minWidth, minHeight int) bool {
	return b.Width >= minWidth && b.Height >= minHeight
}
