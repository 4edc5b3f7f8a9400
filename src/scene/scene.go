// Package scene is a retained rendering tree for a pannable, zoomable canvas.
// It is the default rendering surface for the selection overlay: it produces
// the canvas's current screen transform and lets the overlay element be
// found by identifier.
//
// A Scene is not safe for concurrent use. Mutate it from the goroutine that
// drives the overlay.
package scene

import (
	"errors"
	"fmt"

	"roi-overlay/src/geometry"
	"roi-overlay/src/overlay"
	"roi-overlay/src/transform"
)

// ErrDetached is returned by ScreenCTM while the scene is not attached to a
// visible surface.
var ErrDetached = fmt.Errorf("%w: scene detached", transform.ErrTransformUnavailable)

// ErrDuplicateID is returned by Add when the identifier is already in use.
var ErrDuplicateID = errors.New("duplicate node id")

// Scene is a canvas of local size Width x Height shown through a viewport.
// A local point l appears on screen at
//
//	origin - scroll + pan + zoom*l
//
// where origin is where the canvas's host surface sits on screen.
type Scene struct {
	Width  float64
	Height float64

	attached bool
	origin   geometry.Point
	pan      geometry.Point
	scroll   geometry.Point
	zoom     float64

	nodes map[string]*RectNode
	order []string
}

// New returns an attached scene at zoom 1 with its origin at the screen origin.
func New(width, height float64) *Scene {
	return &Scene{
		Width:    width,
		Height:   height,
		attached: true,
		zoom:     1,
		nodes:    make(map[string]*RectNode),
	}
}

// Attach marks the scene as shown on screen.
func (s *Scene) Attach() { s.attached = true }

// Detach marks the scene as removed from its surface; no screen transform is
// available until Attach.
func (s *Scene) Detach() { s.attached = false }

// Attached reports whether the scene is on screen.
func (s *Scene) Attached() bool { return s.attached }

// SetOrigin places the canvas's host surface at screen position p.
func (s *Scene) SetOrigin(p geometry.Point) { s.origin = p }

// SetPan sets the viewport pan in screen units.
func (s *Scene) SetPan(p geometry.Point) { s.pan = p }

// Pan moves the viewport by (dx, dy) screen units.
func (s *Scene) Pan(dx, dy float64) {
	s.pan.X += dx
	s.pan.Y += dy
}

// ScrollTo sets the scroll offset of the surrounding container.
func (s *Scene) ScrollTo(p geometry.Point) { s.scroll = p }

// SetZoom sets the zoom factor about the canvas origin.
func (s *Scene) SetZoom(z float64) { s.zoom = z }

// Zoom returns the current zoom factor.
func (s *Scene) Zoom() float64 { return s.zoom }

// ZoomAt multiplies the zoom by factor while keeping the local point under
// the screen position at fixed. It fails when the current transform cannot
// be inverted.
func (s *Scene) ZoomAt(factor float64, at geometry.Point) error {
	local, err := transform.ToLocal(at, s)
	if err != nil {
		return err
	}
	s.zoom *= factor
	// Solve at = origin - scroll + pan' + zoom'*local for pan'.
	s.pan.X = at.X - s.zoom*local.X - s.origin.X + s.scroll.X
	s.pan.Y = at.Y - s.zoom*local.Y - s.origin.Y + s.scroll.Y
	return nil
}

// ScreenCTM implements transform.Surface.
func (s *Scene) ScreenCTM() (geometry.Affine, error) {
	if !s.attached {
		return geometry.Affine{}, ErrDetached
	}
	return geometry.Scaling(s.zoom, s.zoom).Offset(
		s.origin.X-s.scroll.X+s.pan.X,
		s.origin.Y-s.scroll.Y+s.pan.Y,
	), nil
}

// Add appends n to the tree; later nodes draw on top.
func (s *Scene) Add(n *RectNode) error {
	if _, ok := s.nodes[n.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, n.ID)
	}
	s.nodes[n.ID] = n
	s.order = append(s.order, n.ID)
	return nil
}

// Remove deletes the node with id, if present.
func (s *Scene) Remove(id string) {
	if _, ok := s.nodes[id]; !ok {
		return
	}
	delete(s.nodes, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Node returns the node with id, or nil.
func (s *Scene) Node(id string) *RectNode { return s.nodes[id] }

// Lookup implements overlay.Tree.
func (s *Scene) Lookup(id string) (overlay.Element, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	return n, true
}

// Nodes returns the nodes in drawing order.
func (s *Scene) Nodes() []*RectNode {
	out := make([]*RectNode, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}
