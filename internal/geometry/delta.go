// Package geometry provides rectangle math in physical pixel coordinates.
package geometry

import "fmt"

// BorderDelta describes per-edge pixel offsets for invisible window borders
// and gaps. Positive values grow the rectangle outward on that edge.
type BorderDelta struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// IsZero reports whether the delta adjusts no edge.
func (d BorderDelta) IsZero() bool {
	return d == BorderDelta{}
}

// ApplyDelta grows each edge of the rectangle outward by the corresponding
// delta component. Negative components shrink the edge inward. Returns
// ErrDegenerateRect when the adjusted rectangle would have a non-positive
// width or height; the caller must treat the window as unplaceable rather
// than emit garbage coordinates.
func ApplyDelta(r Rect, d BorderDelta) (Rect, error) {
	out := FromLTRB(
		r.X-d.Left,
		r.Y-d.Top,
		r.Right()+d.Right,
		r.Bottom()+d.Bottom,
	)
	if out.Width <= 0 || out.Height <= 0 {
		return Rect{}, fmt.Errorf("delta %+v on rect %+v: %w", d, r, ErrDegenerateRect)
	}
	return out, nil
}

// ApplyInverseDelta shrinks each edge of the rectangle inward by the
// corresponding delta component, undoing ApplyDelta.
func ApplyInverseDelta(r Rect, d BorderDelta) (Rect, error) {
	return ApplyDelta(r, BorderDelta{
		Left:   -d.Left,
		Top:    -d.Top,
		Right:  -d.Right,
		Bottom: -d.Bottom,
	})
}
