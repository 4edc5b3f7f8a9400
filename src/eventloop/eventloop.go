package eventloop

import (
	"context"
	"log"
	"sync"

	"roi-overlay/src/geometry"
	"roi-overlay/src/pointer"
	"roi-overlay/src/selection"
)

// Loop is the single-goroutine owner of the selection controller. Hosts and
// input hooks call it from any goroutine; every call is queued and applied
// by Run in the order it was posted.
type Loop struct {
	ctrl *selection.Controller
	ops  chan func()

	done     chan struct{}
	doneOnce sync.Once

	onStop     func(rect geometry.Rect, ok bool)
	onState    func(active bool)
	onShutdown func()
}

var _ selection.Selector = (*Loop)(nil)

// Options configures optional host callbacks. Both run on the loop goroutine.
type Options struct {
	// OnStop receives the last rectangle of a selection that was stopped
	// while active. Cancelled selections are not reported.
	OnStop func(rect geometry.Rect, ok bool)
	// OnState is told whenever tracking starts or ends.
	OnState func(active bool)
	// OnShutdown runs once when Run returns, after calls already queued
	// have been applied.
	OnShutdown func()
	// QueueSize bounds the number of pending calls; posting blocks when full.
	QueueSize int
}

// New returns a loop driving ctrl. Nothing is processed until Run.
func New(ctrl *selection.Controller, opts Options) *Loop {
	size := opts.QueueSize
	if size <= 0 {
		size = 128
	}
	return &Loop{
		ctrl:    ctrl,
		ops:     make(chan func(), size),
		done:    make(chan struct{}),
		onStop:     opts.OnStop,
		onState:    opts.OnState,
		onShutdown: opts.OnShutdown,
	}
}

// Run applies posted calls until ctx is cancelled. Calls already queued at
// that point are still applied, then OnShutdown runs. Calls posted after Run
// returns are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer l.doneOnce.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			l.shutdown()
			return ctx.Err()
		case op := <-l.ops:
			l.apply(op)
		}
	}
}

func (l *Loop) shutdown() {
	for {
		select {
		case op := <-l.ops:
			l.apply(op)
		default:
			if l.onShutdown != nil {
				l.apply(l.onShutdown)
			}
			return
		}
	}
}

// apply runs one posted call. A panicking call is logged and the loop
// keeps going.
func (l *Loop) apply(op func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in event loop call: %v", r)
		}
	}()
	op()
}

func (l *Loop) post(op func()) {
	select {
	case <-l.done:
		log.Printf("EVENTLOOP: loop stopped, dropping call")
	case l.ops <- op:
	}
}

// StartSelection implements selection.Selector.
func (l *Loop) StartSelection(screenX, screenY float64) {
	l.post(func() {
		wasActive := l.ctrl.IsActive()
		l.ctrl.StartSelection(screenX, screenY)
		l.notifyState(wasActive)
	})
}

// StartSelectionLocal starts at a position in the canvas's local space.
func (l *Loop) StartSelectionLocal(x, y float64) {
	l.post(func() {
		wasActive := l.ctrl.IsActive()
		l.ctrl.StartSelectionLocal(x, y)
		l.notifyState(wasActive)
	})
}

// StopSelection implements selection.Selector.
func (l *Loop) StopSelection() {
	l.post(func() { l.stop(true) })
}

// Cancel ends the selection like StopSelection but does not report it to
// OnStop.
func (l *Loop) Cancel() {
	l.post(func() { l.stop(false) })
}

func (l *Loop) stop(report bool) {
	wasActive := l.ctrl.IsActive()
	l.ctrl.StopSelection()
	if !wasActive {
		return
	}
	l.notifyState(true)
	if report && l.onStop != nil {
		rect, ok := l.ctrl.Current()
		l.onStop(rect, ok)
	}
}

// Move queues a pointer-move event. It has the signature of a
// pointer.Handler so it can be subscribed directly to a source.
func (l *Loop) Move(ev pointer.Event) {
	l.post(func() { l.ctrl.HandlePointerMove(ev) })
}

// Subscribe feeds moves from src into the loop.
func (l *Loop) Subscribe(src pointer.Source) (unsubscribe func()) {
	return src.Subscribe(l.Move)
}

// Do runs fn on the loop goroutine, for hosts that need to touch the
// rendering surface (pan, zoom, attach) in order with pointer events.
func (l *Loop) Do(fn func()) {
	l.post(fn)
}

func (l *Loop) notifyState(wasActive bool) {
	active := l.ctrl.IsActive()
	if active == wasActive || l.onState == nil {
		return
	}
	l.onState(active)
}
