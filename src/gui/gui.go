// Package gui shows the selection rectangle on the physical screen, above
// every other window, while the scene keeps it in canvas coordinates.
package gui

import (
	"errors"
	"image"
	"log"
	"math"

	"roi-overlay/src/geometry"
	"roi-overlay/src/transform"
)

// ErrUnsupported is returned by New where no screen window can be created.
var ErrUnsupported = errors.New("on-screen overlay not implemented for this platform")

// painter draws a single rectangle in virtual-screen pixels. Implementations
// are safe to call from any goroutine.
type painter interface {
	paint(r image.Rectangle)
	hide()
	close() error
}

// Overlay is an overlay.Element that mirrors the local-space selection onto
// the screen through the surface's current transform.
type Overlay struct {
	surface transform.Surface
	painter painter

	rect    image.Rectangle
	visible bool
}

// New opens the screen window for surface. It starts hidden.
func New(surface transform.Surface) (*Overlay, error) {
	p, err := newPainter()
	if err != nil {
		return nil, err
	}
	return newOverlay(surface, p), nil
}

func newOverlay(surface transform.Surface, p painter) *Overlay {
	return &Overlay{surface: surface, painter: p}
}

// SetGeometry implements overlay.Element. When the surface has no transform
// the window keeps its last rectangle.
func (o *Overlay) SetGeometry(r geometry.Rect) {
	sr, err := transform.RectToScreen(r, o.surface)
	if err != nil {
		log.Printf("ERROR: OVERLAY: screen window keeps last geometry: %v", err)
		return
	}
	o.rect = pixelRect(sr)
	if o.visible {
		o.painter.paint(o.rect)
	}
}

// SetVisible implements overlay.Element.
func (o *Overlay) SetVisible(visible bool) {
	if visible == o.visible {
		return
	}
	o.visible = visible
	if visible {
		o.painter.paint(o.rect)
	} else {
		o.painter.hide()
	}
}

// Close destroys the screen window.
func (o *Overlay) Close() error { return o.painter.close() }

// pixelRect rounds r outward to whole pixels.
func pixelRect(r geometry.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)),
	)
}
