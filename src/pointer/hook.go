package pointer

import (
	"context"
	"log"
	"sync"

	gohook "github.com/robotn/gohook"
)

// ButtonEvent is a mouse button press or release in screen space.
type ButtonEvent struct {
	Event
	Button  uint16
	Pressed bool
}

// KeyEvent is a raw keyboard transition as reported by the OS hook.
type KeyEvent struct {
	Rawcode uint16
	Down    bool
}

// HookSource is a global Source backed by the OS input hook, so moves are
// seen even when the pointer leaves the canvas during a drag. It also
// relays button and key transitions for hosts that start, stop or cancel
// selections from raw input.
type HookSource struct {
	moves handlers

	mu      sync.Mutex
	buttons []func(ButtonEvent)
	keys    []func(KeyEvent)
}

// NewHookSource returns a source; nothing is hooked until Run.
func NewHookSource() *HookSource { return &HookSource{} }

// Subscribe implements Source.
func (s *HookSource) Subscribe(h Handler) func() { return s.moves.add(h) }

// OnButton registers fn for mouse button transitions.
func (s *HookSource) OnButton(fn func(ButtonEvent)) {
	s.mu.Lock()
	s.buttons = append(s.buttons, fn)
	s.mu.Unlock()
}

// OnKey registers fn for key transitions.
func (s *HookSource) OnKey(fn func(KeyEvent)) {
	s.mu.Lock()
	s.keys = append(s.keys, fn)
	s.mu.Unlock()
}

// Run installs the OS hook and dispatches events until ctx is cancelled or
// the hook channel closes. Handlers run on the calling goroutine.
func (s *HookSource) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in pointer hook: %v", r)
		}
	}()

	log.Printf("POINTER: starting gohook event loop...")
	evChan := gohook.Start()
	if evChan == nil {
		log.Printf("ERROR: POINTER: gohook.Start() returned nil channel")
		return
	}
	defer gohook.End()

	for {
		select {
		case <-ctx.Done():
			log.Printf("POINTER: hook stopped: %v", ctx.Err())
			return
		case ev, ok := <-evChan:
			if !ok {
				log.Printf("POINTER: event channel closed")
				return
			}
			s.dispatch(ev)
		}
	}
}

// dispatch routes one hook event. gohook reports a press as MouseHold and
// moves with a button held as MouseDrag; its MouseDown is the click that
// follows a release and is ignored here.
func (s *HookSource) dispatch(ev gohook.Event) {
	switch ev.Kind {
	case gohook.MouseMove, gohook.MouseDrag:
		s.moves.emit(Event{X: float64(ev.X), Y: float64(ev.Y)})
	case gohook.MouseHold, gohook.MouseUp:
		be := ButtonEvent{
			Event:   Event{X: float64(ev.X), Y: float64(ev.Y)},
			Button:  ev.Button,
			Pressed: ev.Kind == gohook.MouseHold,
		}
		s.mu.Lock()
		fns := append([]func(ButtonEvent){}, s.buttons...)
		s.mu.Unlock()
		for _, fn := range fns {
			fn(be)
		}
	case gohook.KeyDown, gohook.KeyUp:
		ke := KeyEvent{Rawcode: ev.Rawcode, Down: ev.Kind == gohook.KeyDown}
		s.mu.Lock()
		fns := append([]func(KeyEvent){}, s.keys...)
		s.mu.Unlock()
		for _, fn := range fns {
			fn(ke)
		}
	}
}
