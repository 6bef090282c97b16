package domain

import "testing"

// TestRectIntersectsInclusiveBounds verifies touching edges count as overlap.
func TestRectIntersectsInclusiveBounds(t *testing.T) {
	box := Rect{Left: 10, Top: 10, Right: 14, Bottom: 12}
	cases := []struct {
		name string
		r    Rect
		want bool
	}{
		{name: "inside", r: Rect{Left: 11, Top: 11, Right: 12, Bottom: 11}, want: true},
		{name: "touch left edge", r: Rect{Left: 0, Top: 10, Right: 10, Bottom: 10}, want: true},
		{name: "touch corner", r: Rect{Left: 14, Top: 12, Right: 20, Bottom: 20}, want: true},
		{name: "degenerate point inside", r: Rect{Left: 12, Top: 11, Right: 12, Bottom: 11}, want: true},
		{name: "one cell short", r: Rect{Left: 0, Top: 0, Right: 9, Bottom: 20}, want: false},
		{name: "overlap x only", r: Rect{Left: 10, Top: 13, Right: 14, Bottom: 20}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Intersects(box); got != tc.want {
				t.Fatalf("Intersects() = %t, want %t", got, tc.want)
			}
			if got := box.Intersects(tc.r); got != tc.want {
				t.Fatalf("reverse Intersects() = %t, want %t", got, tc.want)
			}
		})
	}
}

// TestRectConstructors verifies normalization from sizes and corners.
func TestRectConstructors(t *testing.T) {
	if got := NewRect(10, 5, -4, 2); got != (Rect{Left: 6, Top: 5, Right: 10, Bottom: 7}) {
		t.Fatalf("NewRect() = %+v", got)
	}
	r := RectFromPoints(Point{X: 8, Y: 1}, Point{X: 2, Y: 6})
	if r != (Rect{Left: 2, Top: 1, Right: 8, Bottom: 6}) {
		t.Fatalf("RectFromPoints() = %+v", r)
	}
	if r.Width() != 6 || r.Height() != 5 {
		t.Fatalf("size = %dx%d, want 6x5", r.Width(), r.Height())
	}
	if !r.Contains(Point{X: 8, Y: 6}) || r.Contains(Point{X: 9, Y: 6}) {
		t.Fatal("Contains() bounds are not inclusive")
	}
	if !(Rect{}).IsZero() || r.IsZero() {
		t.Fatal("IsZero() mismatch")
	}
}

// TestRelativePosition verifies absolute points become container-relative.
func TestRelativePosition(t *testing.T) {
	container := Rect{Left: 3, Top: 2, Right: 50, Bottom: 20}
	if got := RelativePosition(Point{X: 10, Y: 4}, container); got != (Point{X: 7, Y: 2}) {
		t.Fatalf("RelativePosition() = %+v", got)
	}
	abs := Rect{Left: 5, Top: 4, Right: 9, Bottom: 6}
	if got := abs.Translate(Point{X: 3, Y: 2}); got != (Rect{Left: 2, Top: 2, Right: 6, Bottom: 4}) {
		t.Fatalf("Translate() = %+v", got)
	}
}

// TestSelectBoxCorners verifies the corner view and hit rect agree.
func TestSelectBoxCorners(t *testing.T) {
	box := SelectBox{Left: 2, Top: 3, Width: 5, Height: 1, Visible: true}
	corners := box.Corners()
	if corners["x1"] != 2 || corners["y1"] != 3 || corners["x2"] != 7 || corners["y2"] != 4 {
		t.Fatalf("Corners() = %v", corners)
	}
	if got := box.Rect(); got != (Rect{Left: 2, Top: 3, Right: 7, Bottom: 4}) {
		t.Fatalf("Rect() = %+v", got)
	}
	if !box.HasMinimumSize(5, 1) || box.HasMinimumSize(6, 1) {
		t.Fatal("HasMinimumSize() mismatch")
	}
}
