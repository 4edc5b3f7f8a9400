// Package geometry holds the float64 points, rectangles and affine transforms
// used to track a rubber-band selection in a canvas's local coordinate space.
package geometry

import (
	"fmt"
	"math"
)

// Point is a position in screen or local space. The space is implied by the
// caller, it is never stored with the point.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Rect is a rectangle in canonical form: (X, Y) is the top-left corner and
// Width and Height are never negative.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Resolve returns the bounding box of anchor and current. The result is the
// same whichever quadrant the drag moves toward, and Resolve(a, a) is the
// zero-size rectangle at a.
func Resolve(anchor, current Point) Rect {
	return Rect{
		X:      math.Min(anchor.X, current.X),
		Y:      math.Min(anchor.Y, current.Y),
		Width:  math.Abs(current.X - anchor.X),
		Height: math.Abs(current.Y - anchor.Y),
	}
}

// Min is the top-left corner.
func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Max is the bottom-right corner.
func (r Rect) Max() Point { return Point{X: r.X + r.Width, Y: r.Y + r.Height} }

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Spans reports whether both sides of r are strictly longer than min.
// Drags that do not span the minimum are treated as accidental clicks.
func (r Rect) Spans(min float64) bool {
	return r.Width > min && r.Height > min
}

func (r Rect) String() string {
	return fmt.Sprintf("%g,%g %gx%g", r.X, r.Y, r.Width, r.Height)
}
