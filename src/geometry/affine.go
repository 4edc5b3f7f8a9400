package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingular is returned when an affine transform has no inverse.
var ErrSingular = errors.New("affine transform is not invertible")

// Affine is a 2D affine transform in row-major 2x3 form:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
//
// The zero value is not the identity; use Identity.
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the transform that maps every point to itself.
func Identity() Affine {
	return Affine{A: 1, E: 1}
}

// Translation returns a pure translation by (dx, dy).
func Translation(dx, dy float64) Affine {
	return Affine{A: 1, C: dx, E: 1, F: dy}
}

// Scaling returns a pure scale about the origin.
func Scaling(sx, sy float64) Affine {
	return Affine{A: sx, E: sy}
}

// Apply maps p through m.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Mul returns the transform that applies n first and then m.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.B*n.D,
		B: m.A*n.B + m.B*n.E,
		C: m.A*n.C + m.B*n.F + m.C,
		D: m.D*n.A + m.E*n.D,
		E: m.D*n.B + m.E*n.E,
		F: m.D*n.C + m.E*n.F + m.F,
	}
}

// Offset returns m followed by a translation of (dx, dy).
func (m Affine) Offset(dx, dy float64) Affine {
	return Translation(dx, dy).Mul(m)
}

// Scale returns m followed by a scale of (sx, sy) about the origin.
func (m Affine) Scale(sx, sy float64) Affine {
	return Scaling(sx, sy).Mul(m)
}

// Det returns the determinant of the linear part of m.
func (m Affine) Det() float64 {
	return m.A*m.E - m.B*m.D
}

// Invert returns the inverse of m, or ErrSingular when the linear part is
// degenerate (for example a zero zoom factor) or not finite.
func (m Affine) Invert() (Affine, error) {
	det := m.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Affine{}, ErrSingular
	}
	inv := Affine{
		A: m.E / det,
		B: -m.B / det,
		D: -m.D / det,
		E: m.A / det,
	}
	inv.C = -(inv.A*m.C + inv.B*m.F)
	inv.F = -(inv.D*m.C + inv.E*m.F)
	return inv, nil
}

func (m Affine) String() string {
	return fmt.Sprintf("[[%g %g %g] [%g %g %g]]", m.A, m.B, m.C, m.D, m.E, m.F)
}
