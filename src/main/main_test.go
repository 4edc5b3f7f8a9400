package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"roi-overlay/src/config"
	"roi-overlay/src/geometry"
	"roi-overlay/src/pointer"
	"roi-overlay/src/scene"
	"roi-overlay/src/singleinstance"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		OverlayID:        config.DefaultOverlayID,
		CancelKey:        config.DefaultCancelKey,
		MinSelectionSpan: config.DefaultMinSelectionSpan,
		SelectionButton:  config.DefaultSelectionButton,
		ViewZoom:         1,
		CopyToClipboard:  true,
		SVGOutput:        filepath.Join(t.TempDir(), "scene.svg"),
	}
}

func newTestHost(t *testing.T, cfg *config.Config, sc *scene.Scene) *host {
	t.Helper()
	h, err := newHostOn(cfg, sc)
	if err != nil {
		t.Fatalf("newHostOn failed: %v", err)
	}
	t.Cleanup(h.exports.Close)
	return h
}

func TestSelectionDoneRecordsAndExports(t *testing.T) {
	cfg := testConfig(t)
	h := newTestHost(t, cfg, scene.New(200, 100))
	var copied []geometry.Rect
	h.copy = func(r geometry.Rect) error {
		copied = append(copied, r)
		return nil
	}

	h.selectionDone(geometry.Rect{X: 1, Y: 1, Width: 5, Height: 50}, true)
	if len(copied) != 0 || h.count != 0 {
		t.Fatalf("Expected selection under the minimum span to be ignored")
	}

	h.selectionDone(geometry.Rect{X: 10, Y: 10, Width: 40, Height: 20}, true)
	// Close drains the pending export.
	h.exports.Close()
	if len(copied) != 1 || copied[0] != (geometry.Rect{X: 10, Y: 10, Width: 40, Height: 20}) {
		t.Fatalf("Expected one copied rect, got %v", copied)
	}
	if h.scene.Node("roi-1") == nil {
		t.Fatalf("Expected roi-1 node in scene")
	}

	data, err := os.ReadFile(cfg.SVGOutput)
	if err != nil {
		t.Fatalf("Expected SVG output: %v", err)
	}
	svg := string(data)
	if !strings.Contains(svg, `id="roi-1" x="10" y="10" width="40" height="20"`) {
		t.Errorf("SVG missing selection: %s", svg)
	}
	if !strings.Contains(svg, `id="ghost_rect"`) {
		t.Errorf("SVG missing overlay element: %s", svg)
	}
}

func TestSelectionDoneClipboardErrorIsLogged(t *testing.T) {
	cfg := testConfig(t)
	cfg.SVGOutput = ""
	h := newTestHost(t, cfg, scene.New(100, 100))
	h.copy = func(geometry.Rect) error { return errors.New("no clipboard") }
	h.selectionDone(geometry.Rect{Width: 10, Height: 10}, true)
	if h.count != 1 {
		t.Errorf("Expected selection to be counted, got %d", h.count)
	}
}

func TestHostLoopEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	cfg.CopyToClipboard = false
	cfg.SVGOutput = ""
	h := newTestHost(t, cfg, scene.New(100, 100))
	var states []bool
	h.onState = func(active bool) { states = append(states, active) }

	if err := h.wire(pointer.NewHookSource()); err != nil {
		t.Fatalf("wire failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = h.loop.Run(ctx)
	}()

	h.loop.StartSelection(10, 10)
	h.loop.Move(pointer.Event{X: 50, Y: 30})
	h.loop.StopSelection()
	done := make(chan struct{})
	h.loop.Do(func() { close(done) })
	<-done
	cancel()
	wg.Wait()

	if h.count != 1 || h.scene.Node("roi-1").Rect != (geometry.Rect{X: 10, Y: 10, Width: 40, Height: 20}) {
		t.Errorf("Expected one recorded selection, got count=%d", h.count)
	}
	if len(states) != 2 || !states[0] || states[1] {
		t.Errorf("Expected tracking on then off, got %v", states)
	}
}

func TestWireRejectsBadCancelKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.CancelKey = "Hyper"
	h := newTestHost(t, cfg, scene.New(10, 10))
	if err := h.wire(pointer.NewHookSource()); err == nil {
		t.Error("Expected error for unmappable cancel key")
	}
}

type fakeConn struct {
	kind   singleinstance.Kind
	ok     []string
	errs   []string
	closed bool
}

func (c *fakeConn) Request() singleinstance.Request { return singleinstance.Request{Kind: c.kind} }

func (c *fakeConn) RespondSuccess(text string) error {
	c.ok = append(c.ok, text)
	return nil
}

func (c *fakeConn) RespondError(msg string) error {
	c.errs = append(c.errs, msg)
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestAnswerRequests(t *testing.T) {
	cfg := testConfig(t)
	cfg.CopyToClipboard = false
	cfg.SVGOutput = ""
	h := newTestHost(t, cfg, scene.New(100, 100))

	early := &fakeConn{kind: singleinstance.KindLast}
	h.answer(early)
	if len(early.errs) != 1 || !early.closed {
		t.Fatalf("Expected error before any selection, got %+v", early)
	}

	next := &fakeConn{kind: singleinstance.KindNext}
	h.answer(next)
	if next.closed {
		t.Fatal("NEXT request answered before a selection completed")
	}

	h.selectionDone(geometry.Rect{X: 1, Y: 1, Width: 2, Height: 2}, true)
	if next.closed {
		t.Fatal("NEXT request answered by a selection below the minimum span")
	}

	h.selectionDone(geometry.Rect{X: 10, Y: 10, Width: 40, Height: 20}, true)
	if len(next.ok) != 1 || next.ok[0] != "10,10,40,20" || !next.closed {
		t.Fatalf("Expected NEXT answered with the selection, got %+v", next)
	}
	if len(h.waiters) != 0 {
		t.Errorf("Expected waiters cleared, got %d", len(h.waiters))
	}

	last := &fakeConn{kind: singleinstance.KindLast}
	h.answer(last)
	if len(last.ok) != 1 || last.ok[0] != "10,10,40,20" {
		t.Errorf("Expected LAST to return the selection, got %+v", last)
	}

	pending := &fakeConn{kind: singleinstance.KindNext}
	h.answer(pending)
	h.dropWaiters()
	if len(pending.errs) != 1 || !pending.closed {
		t.Errorf("Expected pending request to be failed on shutdown, got %+v", pending)
	}
}

// chanServer hands out queued connections until ctx ends.
type chanServer struct {
	conns chan singleinstance.Conn
}

func (s *chanServer) Start(context.Context) error { return nil }

func (s *chanServer) Port() int { return 0 }

func (s *chanServer) Close() error { return nil }

func (s *chanServer) Next(ctx context.Context) (singleinstance.Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case c := <-s.conns:
		return c, nil
	}
}

func TestShutdownFailsWaitingRequests(t *testing.T) {
	cfg := testConfig(t)
	cfg.CopyToClipboard = false
	cfg.SVGOutput = ""
	h := newTestHost(t, cfg, scene.New(100, 100))

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = h.loop.Run(ctx)
	}()
	srv := &chanServer{conns: make(chan singleinstance.Conn)}
	go func() {
		defer wg.Done()
		h.serve(ctx, srv)
	}()

	waiting := &fakeConn{kind: singleinstance.KindNext}
	srv.conns <- waiting
	// Spin until the request is registered on the loop.
	for registered := false; !registered; {
		done := make(chan bool)
		h.loop.Do(func() { done <- len(h.waiters) == 1 })
		registered = <-done
	}

	cancel()
	wg.Wait()

	if len(waiting.errs) != 1 || waiting.errs[0] != "overlay shutting down" || !waiting.closed {
		t.Fatalf("Expected waiting request failed on shutdown, got %+v", waiting)
	}
	if len(h.waiters) != 0 {
		t.Errorf("Expected no waiters after shutdown, got %d", len(h.waiters))
	}
}

type screenElement struct {
	rect    geometry.Rect
	visible bool
}

func (e *screenElement) SetGeometry(r geometry.Rect) { e.rect = r }
func (e *screenElement) SetVisible(v bool)           { e.visible = v }

func TestHostMirrorsOverlayToScreenElement(t *testing.T) {
	cfg := testConfig(t)
	cfg.CopyToClipboard = false
	cfg.SVGOutput = ""
	sc := scene.New(100, 100)
	screen := &screenElement{}
	h, err := newHostOn(cfg, sc, screen)
	if err != nil {
		t.Fatalf("newHostOn failed: %v", err)
	}
	t.Cleanup(h.exports.Close)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = h.loop.Run(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	waitLoop := func() {
		done := make(chan struct{})
		h.loop.Do(func() { close(done) })
		<-done
	}

	h.loop.StartSelection(10, 10)
	h.loop.Move(pointer.Event{X: 50, Y: 30})
	waitLoop()
	want := geometry.Rect{X: 10, Y: 10, Width: 40, Height: 20}
	if !screen.visible || screen.rect != want {
		t.Fatalf("Expected screen element to follow the drag, got %+v", screen)
	}
	if node := sc.Node(cfg.OverlayID); node.Rect != want || !node.Visible {
		t.Fatalf("Expected scene node to follow the drag, got %+v", node)
	}

	h.loop.StopSelection()
	waitLoop()
	if screen.visible {
		t.Error("Expected screen element hidden after stop")
	}
}
