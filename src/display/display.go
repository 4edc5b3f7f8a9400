// Package display reports where the active monitors sit in screen space.
package display

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"roi-overlay/src/geometry"
)

// Swapped in tests.
var (
	numDisplays = screenshot.NumActiveDisplays
	boundsOf    = screenshot.GetDisplayBounds
)

// VirtualBounds returns the union of all active display bounds, the area a
// global pointer hook can report positions in.
func VirtualBounds() (image.Rectangle, error) {
	n := numDisplays()
	if n == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	union := boundsOf(0)
	for i := 1; i < n; i++ {
		union = union.Union(boundsOf(i))
	}
	return union, nil
}

// Rect converts image bounds to a geometry.Rect.
func Rect(b image.Rectangle) geometry.Rect {
	return geometry.Rect{
		X:      float64(b.Min.X),
		Y:      float64(b.Min.Y),
		Width:  float64(b.Dx()),
		Height: float64(b.Dy()),
	}
}
