package display

import (
	"image"
	"testing"

	"roi-overlay/src/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubDisplays(t *testing.T, bounds ...image.Rectangle) {
	t.Helper()
	prevN, prevB := numDisplays, boundsOf
	numDisplays = func() int { return len(bounds) }
	boundsOf = func(i int) image.Rectangle { return bounds[i] }
	t.Cleanup(func() { numDisplays, boundsOf = prevN, prevB })
}

func TestVirtualBoundsUnion(t *testing.T) {
	stubDisplays(t,
		image.Rect(0, 0, 1920, 1080),
		image.Rect(-1280, 200, 0, 1224),
	)
	b, err := VirtualBounds()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(-1280, 0, 1920, 1224), b)
	assert.Equal(t, geometry.Rect{X: -1280, Y: 0, Width: 3200, Height: 1224}, Rect(b))
}

func TestVirtualBoundsNoDisplays(t *testing.T) {
	stubDisplays(t)
	_, err := VirtualBounds()
	assert.Error(t, err)
}
