// Package overlay applies the resolved selection rectangle to the overlay
// element owned by the rendering tree.
package overlay

import (
	"errors"
	"fmt"
	"log"

	"roi-overlay/src/geometry"
)

// DefaultID is the well-known identifier of the selection overlay element.
const DefaultID = "ghost_rect"

// ErrOverlayNotFound is reported when the rendering tree has no element
// with the overlay's identifier.
var ErrOverlayNotFound = errors.New("overlay element not found")

// Element is the externally owned visual that shows the selection.
type Element interface {
	SetGeometry(r geometry.Rect)
	SetVisible(visible bool)
}

// Tree locates elements of the rendering tree by identifier.
type Tree interface {
	Lookup(id string) (Element, bool)
}

// Sync writes rectangles and visibility onto the overlay element. The element
// is looked up on every call, so it may be created or removed at any time.
type Sync struct {
	tree Tree
	id   string
}

// NewSync returns a Sync for the element id in tree. An empty id means DefaultID.
func NewSync(tree Tree, id string) *Sync {
	if id == "" {
		id = DefaultID
	}
	return &Sync{tree: tree, id: id}
}

// ID returns the identifier of the overlay element.
func (s *Sync) ID() string { return s.id }

// Show writes r onto the overlay and makes it visible. When the element is
// missing the call logs a warning and does nothing.
func (s *Sync) Show(r geometry.Rect) error {
	el, err := s.element()
	if err != nil {
		return err
	}
	el.SetGeometry(r)
	el.SetVisible(true)
	return nil
}

// Hide makes the overlay invisible. Its geometry is left as is.
func (s *Sync) Hide() error {
	el, err := s.element()
	if err != nil {
		return err
	}
	el.SetVisible(false)
	return nil
}

func (s *Sync) element() (Element, error) {
	if s.tree != nil {
		if el, ok := s.tree.Lookup(s.id); ok && el != nil {
			return el, nil
		}
	}
	err := fmt.Errorf("%w: id=%q", ErrOverlayNotFound, s.id)
	log.Printf("WARNING: OVERLAY: %v", err)
	return nil, err
}

// Elements fans every write out to each element in order.
type Elements []Element

// SetGeometry implements Element.
func (es Elements) SetGeometry(r geometry.Rect) {
	for _, e := range es {
		e.SetGeometry(r)
	}
}

// SetVisible implements Element.
func (es Elements) SetVisible(visible bool) {
	for _, e := range es {
		e.SetVisible(visible)
	}
}

// Mirror returns a Tree in which the element id also drives extra, so the
// same overlay can be shown by more than one renderer. The element in tree
// stays authoritative: when it is missing, so is the mirrored one.
func Mirror(tree Tree, id string, extra ...Element) Tree {
	if id == "" {
		id = DefaultID
	}
	return mirror{tree: tree, id: id, extra: extra}
}

type mirror struct {
	tree  Tree
	id    string
	extra []Element
}

func (m mirror) Lookup(id string) (Element, bool) {
	el, ok := m.tree.Lookup(id)
	if !ok || el == nil || id != m.id || len(m.extra) == 0 {
		return el, ok
	}
	return append(Elements{el}, m.extra...), true
}
