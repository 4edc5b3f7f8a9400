// Package transform converts screen-space pointer positions into a canvas's
// local coordinate space.
package transform

import (
	"errors"
	"fmt"

	"roi-overlay/src/geometry"
)

// ErrTransformUnavailable means the surface could not produce a usable
// screen transform at this instant (detached, hidden or degenerate).
var ErrTransformUnavailable = errors.New("screen-to-local transform unavailable")

// Surface is the rendering surface the overlay lives on. ScreenCTM returns
// the current local-to-screen transform, the same matrix a browser exposes
// as getScreenCTM. It is read on every conversion and never cached, since
// pan, zoom and scroll may change it between two pointer events.
type Surface interface {
	ScreenCTM() (geometry.Affine, error)
}

// SurfaceFunc adapts a plain function to Surface.
type SurfaceFunc func() (geometry.Affine, error)

// ScreenCTM calls f.
func (f SurfaceFunc) ScreenCTM() (geometry.Affine, error) { return f() }

// ToLocal maps screen through the inverse of the surface's current screen
// transform. Any failure wraps ErrTransformUnavailable.
func ToLocal(screen geometry.Point, s Surface) (geometry.Point, error) {
	if s == nil {
		return geometry.Point{}, fmt.Errorf("%w: no surface", ErrTransformUnavailable)
	}
	ctm, err := s.ScreenCTM()
	if err != nil {
		if errors.Is(err, ErrTransformUnavailable) {
			return geometry.Point{}, err
		}
		return geometry.Point{}, fmt.Errorf("%w: %v", ErrTransformUnavailable, err)
	}
	inv, err := ctm.Invert()
	if err != nil {
		return geometry.Point{}, fmt.Errorf("%w: %v", ErrTransformUnavailable, err)
	}
	return inv.Apply(screen), nil
}

// ToScreen maps a local point through the surface's current screen transform.
func ToScreen(local geometry.Point, s Surface) (geometry.Point, error) {
	if s == nil {
		return geometry.Point{}, fmt.Errorf("%w: no surface", ErrTransformUnavailable)
	}
	ctm, err := s.ScreenCTM()
	if err != nil {
		if errors.Is(err, ErrTransformUnavailable) {
			return geometry.Point{}, err
		}
		return geometry.Point{}, fmt.Errorf("%w: %v", ErrTransformUnavailable, err)
	}
	return ctm.Apply(local), nil
}

// RectToScreen maps a local rectangle to the screen-space box spanned by its
// mapped corners. The box is exact for pan, zoom and scroll, which never
// rotate.
func RectToScreen(r geometry.Rect, s Surface) (geometry.Rect, error) {
	lo, err := ToScreen(r.Min(), s)
	if err != nil {
		return geometry.Rect{}, err
	}
	hi, err := ToScreen(r.Max(), s)
	if err != nil {
		return geometry.Rect{}, err
	}
	return geometry.Resolve(lo, hi), nil
}
