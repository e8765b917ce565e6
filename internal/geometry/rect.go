// Package geometry provides rectangle math in physical pixel coordinates.
package geometry

// Rect describes a rectangle using top-left origin and size, in physical
// pixels. Values are never mutated in place; every transform returns a new
// Rect.
type Rect struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// FromLTRB builds a Rect from the coordinates of its four edges.
func FromLTRB(left, top, right, bottom int32) Rect {
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Right returns the X-coordinate of the right edge.
func (r Rect) Right() int32 {
	return r.X + r.Width
}

// Bottom returns the Y-coordinate of the bottom edge.
func (r Rect) Bottom() int32 {
	return r.Y + r.Height
}

// CenterPoint returns the center of the rectangle.
func (r Rect) CenterPoint() (int32, int32) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// TranslateToCoordinates returns a copy of the rectangle moved to (x, y)
// with its size unchanged.
func (r Rect) TranslateToCoordinates(x, y int32) Rect {
	return Rect{X: x, Y: y, Width: r.Width, Height: r.Height}
}

// ContainsPoint reports whether a point lies inside the rectangle, edges
// inclusive.
func (r Rect) ContainsPoint(x, y int32) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// ContainsRect reports whether inner lies fully inside r.
func (r Rect) ContainsRect(inner Rect) bool {
	return inner.X >= r.X && inner.Y >= r.Y &&
		inner.Right() <= r.Right() && inner.Bottom() <= r.Bottom()
}

// HasOverlapX reports whether the horizontal extents of the two rectangles
// overlap.
func (r Rect) HasOverlapX(other Rect) bool {
	return !(r.Right() <= other.X || other.Right() <= r.X)
}

// HasOverlapY reports whether the vertical extents of the two rectangles
// overlap.
func (r Rect) HasOverlapY(other Rect) bool {
	return !(r.Bottom() <= other.Y || other.Bottom() <= r.Y)
}

// ClampWithinBounds constrains r to lie entirely inside bounds. The size is
// reduced only when r is larger than bounds; otherwise the position is
// adjusted just far enough to eliminate overhang and the original size is
// preserved. The result is always fully contained in bounds.
func (r Rect) ClampWithinBounds(bounds Rect) Rect {
	width := max32(min32(r.Width, bounds.Width), 0)
	height := max32(min32(r.Height, bounds.Height), 0)

	x := r.X
	y := r.Y

	if x+width > bounds.Right() {
		x = bounds.Right() - width
	}
	if y+height > bounds.Bottom() {
		y = bounds.Bottom() - height
	}
	x = max32(x, bounds.X)
	y = max32(y, bounds.Y)

	return Rect{X: x, Y: y, Width: width, Height: height}
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
