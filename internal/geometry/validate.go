// Package geometry provides rectangle math in physical pixel coordinates.
package geometry

import (
	"errors"
	"fmt"
)

// ErrDegenerateRect reports a rectangle adjustment that produced a
// non-positive width or height.
var ErrDegenerateRect = errors.New("degenerate rect")

// ErrCoordinateOutOfRange reports a coordinate outside the signed 16-bit
// range accepted by the platform placement API.
var ErrCoordinateOutOfRange = errors.New("coordinate out of range")

// Signed 16-bit limits of the Win32 coordinate space.
const (
	CoordMin = -32768
	CoordMax = 32767
)

// ValidateCoordinateRange checks every edge coordinate of r against the
// signed 16-bit range the platform tolerates. On violation it returns the
// rect with each offending edge clamped to the range boundary, together
// with a wrapped ErrCoordinateOutOfRange; callers apply the corrected rect
// and log a warning, since an imperfect placement beats a dropped window.
func ValidateCoordinateRange(r Rect) (Rect, error) {
	left := clampCoord(r.X)
	top := clampCoord(r.Y)
	right := clampCoord(r.Right())
	bottom := clampCoord(r.Bottom())

	out := FromLTRB(left, top, right, bottom)
	if out == r {
		return r, nil
	}
	return out, fmt.Errorf("rect %+v exceeds [%d, %d]: %w", r, CoordMin, CoordMax, ErrCoordinateOutOfRange)
}

func clampCoord(v int32) int32 {
	if v < CoordMin {
		return CoordMin
	}
	if v > CoordMax {
		return CoordMax
	}
	return v
}
