package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPointNear(t *testing.T, want, got Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x of %v", got)
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y of %v", got)
}

func TestAffineOffsetThenScale(t *testing.T) {
	m := Identity().Offset(2, -3).Scale(2, 4)
	assertPointNear(t, Pt(6, -4), m.Apply(Pt(1, 2)))
}

func TestAffineMulOrder(t *testing.T) {
	// Scale applied first, then the translation.
	m := Translation(10, 20).Mul(Scaling(2, 2))
	assertPointNear(t, Pt(12, 22), m.Apply(Pt(1, 1)))
}

func TestAffineInvertRoundTrip(t *testing.T) {
	transforms := []Affine{
		Identity(),
		Translation(-120, 48.5),
		Identity().Scale(0.25, 0.25).Offset(300, 12),
		{A: math.Cos(0.3), B: -math.Sin(0.3), C: 7, D: math.Sin(0.3), E: math.Cos(0.3), F: -9},
		{A: 1, B: 0.5, C: 0, D: 0, E: 1, F: 0},
	}
	p := Pt(17.25, -3.5)
	for _, m := range transforms {
		inv, err := m.Invert()
		require.NoError(t, err, "invert %v", m)
		assertPointNear(t, p, inv.Apply(m.Apply(p)))
		assertPointNear(t, p, m.Mul(inv).Apply(p))
	}
}

func TestAffineInvertSingular(t *testing.T) {
	_, err := Scaling(0, 1).Invert()
	assert.ErrorIs(t, err, ErrSingular)

	_, err = Affine{}.Invert()
	assert.ErrorIs(t, err, ErrSingular)

	_, err = Scaling(math.Inf(1), 1).Invert()
	assert.ErrorIs(t, err, ErrSingular)
}
