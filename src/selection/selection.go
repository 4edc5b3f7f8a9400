// Package selection wires the session, coordinate transform and overlay into
// the rubber-band selection feature exposed to the host application.
package selection

import (
	"log"

	"roi-overlay/src/geometry"
	"roi-overlay/src/overlay"
	"roi-overlay/src/pointer"
	"roi-overlay/src/session"
	"roi-overlay/src/transform"
)

// Selector is the host-facing API. Neither call ever fails or panics: the
// overlay is a best-effort affordance and problems are only logged.
type Selector interface {
	// StartSelection begins tracking at a screen-space position.
	StartSelection(screenX, screenY float64)
	// StopSelection ends tracking and hides the overlay.
	StopSelection()
}

// Controller implements Selector on top of a Session. All methods must be
// called from the same goroutine; see package eventloop for a wrapper that
// accepts calls from anywhere.
type Controller struct {
	session *session.Session
	surface transform.Surface
	overlay *overlay.Sync

	last    geometry.Rect
	hasLast bool
}

var _ Selector = (*Controller)(nil)

// New returns a Controller. A nil session is replaced by an idle one.
func New(s *session.Session, surface transform.Surface, sync *overlay.Sync) *Controller {
	if s == nil {
		s = session.New()
	}
	return &Controller{session: s, surface: surface, overlay: sync}
}

// StartSelection converts the screen position to local space and starts a
// selection there. If the surface has no transform right now the call is
// logged and the current state is kept.
func (c *Controller) StartSelection(screenX, screenY float64) {
	defer c.recoverPanic("StartSelection")

	local, err := transform.ToLocal(geometry.Pt(screenX, screenY), c.surface)
	if err != nil {
		log.Printf("ERROR: SELECTION: cannot start at screen (%g,%g): %v", screenX, screenY, err)
		return
	}
	c.begin(local)
}

// StartSelectionLocal starts a selection at a position already expressed in
// the canvas's local space, for hosts whose input events carry canvas
// coordinates.
func (c *Controller) StartSelectionLocal(x, y float64) {
	defer c.recoverPanic("StartSelectionLocal")
	c.begin(geometry.Pt(x, y))
}

func (c *Controller) begin(anchor geometry.Point) {
	if c.session.IsActive() {
		log.Printf("SELECTION: restarting in-flight selection at %v", anchor)
	} else {
		log.Printf("SELECTION: started at %v", anchor)
	}
	c.session.Begin(anchor)
	c.render(geometry.Resolve(anchor, anchor))
}

// StopSelection ends the selection and hides the overlay. It is harmless
// when no selection is active.
func (c *Controller) StopSelection() {
	defer c.recoverPanic("StopSelection")

	if c.session.IsActive() {
		log.Printf("SELECTION: stopped, last rect %v", c.last)
	}
	c.session.End()
	if c.overlay != nil {
		_ = c.overlay.Hide()
	}
}

// HandlePointerMove updates the overlay for a pointer position in screen
// space. Moves are ignored while idle. When the transform is unavailable
// the move is skipped and the overlay keeps its last geometry.
func (c *Controller) HandlePointerMove(ev pointer.Event) {
	defer c.recoverPanic("HandlePointerMove")

	anchor, ok := c.session.Anchor()
	if !ok {
		return
	}
	local, err := transform.ToLocal(ev.Point(), c.surface)
	if err != nil {
		log.Printf("ERROR: SELECTION: skipping move to (%g,%g): %v", ev.X, ev.Y, err)
		return
	}
	c.render(geometry.Resolve(anchor, local))
}

// Subscribe registers HandlePointerMove with src. The source must deliver on
// the goroutine that owns the controller.
func (c *Controller) Subscribe(src pointer.Source) (unsubscribe func()) {
	return src.Subscribe(c.HandlePointerMove)
}

// IsActive reports whether a selection is being tracked.
func (c *Controller) IsActive() bool { return c.session.IsActive() }

// Current returns the rectangle most recently resolved, in local space. It
// stays available after StopSelection until the next selection starts.
func (c *Controller) Current() (geometry.Rect, bool) {
	return c.last, c.hasLast
}

func (c *Controller) render(r geometry.Rect) {
	c.last, c.hasLast = r, true
	if c.overlay != nil {
		_ = c.overlay.Show(r)
	}
}

func (c *Controller) recoverPanic(op string) {
	if r := recover(); r != nil {
		log.Printf("PANIC in selection %s: %v", op, r)
	}
}
