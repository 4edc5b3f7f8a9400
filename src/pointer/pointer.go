// Package pointer delivers pointer-move events to subscribers.
//
// A Source calls its handlers synchronously and in arrival order. Handlers
// must not block: they run on whichever goroutine the source delivers from,
// and a handler that touches overlay state is expected to hand the event to
// the event loop rather than act on it directly.
package pointer

import (
	"sync"

	"roi-overlay/src/geometry"
)

// Event is a pointer position in screen space.
type Event struct {
	X float64
	Y float64
}

// Point returns the event position.
func (e Event) Point() geometry.Point { return geometry.Pt(e.X, e.Y) }

// Handler receives pointer-move events.
type Handler func(Event)

// Source is a stream of pointer-move events. Subscribe returns a function
// that removes the handler; calling it more than once is harmless.
type Source interface {
	Subscribe(h Handler) (unsubscribe func())
}

// handlers is a registration list shared by the sources in this package.
type handlers struct {
	mu   sync.Mutex
	next int
	byID map[int]Handler
	ids  []int
}

func (hs *handlers) add(h Handler) func() {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if hs.byID == nil {
		hs.byID = make(map[int]Handler)
	}
	id := hs.next
	hs.next++
	hs.byID[id] = h
	hs.ids = append(hs.ids, id)

	var once sync.Once
	return func() {
		once.Do(func() { hs.remove(id) })
	}
}

func (hs *handlers) remove(id int) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	delete(hs.byID, id)
	for i, v := range hs.ids {
		if v == id {
			hs.ids = append(hs.ids[:i], hs.ids[i+1:]...)
			break
		}
	}
}

// snapshot returns the handlers in registration order, so that a handler
// may unsubscribe itself while being called.
func (hs *handlers) snapshot() []Handler {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	out := make([]Handler, 0, len(hs.ids))
	for _, id := range hs.ids {
		out = append(out, hs.byID[id])
	}
	return out
}

func (hs *handlers) emit(ev Event) {
	for _, h := range hs.snapshot() {
		h(ev)
	}
}

// Feed is an in-process Source. Whatever calls Publish is the delivering
// goroutine. Hosts that already receive pointer events from their own UI
// toolkit publish them here; tests and the replay tool do the same.
type Feed struct {
	hs handlers
}

// NewFeed returns an empty feed.
func NewFeed() *Feed { return &Feed{} }

// Subscribe implements Source.
func (f *Feed) Subscribe(h Handler) func() { return f.hs.add(h) }

// Publish delivers ev to every subscriber before returning.
func (f *Feed) Publish(ev Event) { f.hs.emit(ev) }
