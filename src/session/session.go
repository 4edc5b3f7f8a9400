// Package session holds the state of the rubber-band selection in progress.
package session

import "roi-overlay/src/geometry"

// Session tracks whether a selection is active and where it was anchored.
// The anchor is defined if and only if the session is active.
//
// A Session is not safe for concurrent use; it belongs to the goroutine that
// drives the overlay (see package eventloop).
type Session struct {
	active bool
	anchor geometry.Point
}

// New returns an idle session.
func New() *Session {
	return &Session{}
}

// Begin activates the session at anchor. Calling it while already active
// restarts tracking from the new anchor.
func (s *Session) Begin(anchor geometry.Point) {
	s.active = true
	s.anchor = anchor
}

// End deactivates the session and clears the anchor. It is a no-op when idle.
func (s *Session) End() {
	s.active = false
	s.anchor = geometry.Point{}
}

func (s *Session) IsActive() bool { return s.active }

// Anchor returns the anchor and true while active, or false when idle.
func (s *Session) Anchor() (geometry.Point, bool) {
	if !s.active {
		return geometry.Point{}, false
	}
	return s.anchor, true
}
