package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"roi-overlay/src/clipboard"
	"roi-overlay/src/config"
	"roi-overlay/src/display"
	"roi-overlay/src/eventloop"
	"roi-overlay/src/geometry"
	"roi-overlay/src/gui"
	"roi-overlay/src/hotkey"
	"roi-overlay/src/logutil"
	"roi-overlay/src/overlay"
	"roi-overlay/src/pointer"
	"roi-overlay/src/scene"
	"roi-overlay/src/selection"
	"roi-overlay/src/session"
	"roi-overlay/src/singleinstance"
	"roi-overlay/src/tray"
	"roi-overlay/src/worker"
)

func main() {
	// Ensure DPI awareness before querying display bounds
	enableDPIAwareness()

	// The tray's native loop wants the main thread
	runtime.LockOSThread()

	fs := flag.NewFlagSet("roi-overlay", flag.ExitOnError)
	envPath := fs.String("env", "", "Path to a .env file (highest precedence)")
	overlayID := fs.String("overlay-id", "", "Identifier of the overlay element")
	svgOut := fs.String("svg", "", "Write the scene as SVG to this path after each selection")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		EnvPathOverride:   *envPath,
		OverlayIDOverride: *overlayID,
		SVGOutputOverride: *svgOut,
	})
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logutil.Setup(cfg.EnableFileLogging)

	if port, ok := singleinstance.DetectResidentPort(context.Background()); ok {
		log.Printf("Another ROI overlay is already running on port %d, exiting", port)
		return
	}

	if cfg.CopyToClipboard {
		if err := clipboard.Init(); err != nil {
			log.Printf("Clipboard unavailable, copying disabled: %v", err)
			cfg.CopyToClipboard = false
		}
	}

	h, err := newHost(cfg)
	if err != nil {
		log.Fatalf("Failed to set up overlay: %v", err)
	}
	defer h.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trayIcon := tray.New(tray.Config{
		Title:   "ROI Overlay",
		Tooltip: fmt.Sprintf("ROI Overlay - drag to select, %s cancels", cfg.CancelKey),
		OnExit:  cancel,
	})
	h.onState = trayIcon.SetTracking

	hook := pointer.NewHookSource()
	if err := h.wire(hook); err != nil {
		log.Fatalf("Failed to wire input: %v", err)
	}

	go func() {
		if err := h.loop.Run(ctx); err != nil {
			log.Printf("event loop stopped: %v", err)
		}
	}()
	go hook.Run(ctx)

	srv := singleinstance.NewServer()
	if err := srv.Start(ctx); err != nil {
		log.Printf("Selection requests disabled: %v", err)
	} else {
		defer srv.Close()
		go h.serve(ctx, srv)
	}

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
		case <-ctx.Done():
		}
		cancel()
		trayIcon.Quit()
	}()

	log.Printf("ROI overlay resident started, overlay=%q cancel=%s", cfg.OverlayID, cfg.CancelKey)
	trayIcon.Run()
}

// host is the application around the overlay core: it decides when a
// selection starts and stops and what happens to the final rectangle.
type host struct {
	cfg     *config.Config
	scene   *scene.Scene
	loop    *eventloop.Loop
	onState func(active bool)
	copy    func(geometry.Rect) error
	exports *worker.Pool
	screen  *gui.Overlay
	count   int
	last    geometry.Rect

	// Requests waiting for the next selection; loop goroutine only.
	waiters []singleinstance.Conn
}

func newHost(cfg *config.Config) (*host, error) {
	width, height := config.DefaultCanvasWidth, config.DefaultCanvasHeight
	origin := geometry.Point{}
	if b, err := display.VirtualBounds(); err == nil {
		r := display.Rect(b)
		log.Printf("MONITOR: Virtual screen - %v", r)
		origin = r.Min()
		width, height = r.Width/cfg.ViewZoom, r.Height/cfg.ViewZoom
	} else {
		log.Printf("MONITOR: %v, using %gx%g canvas", err, width, height)
	}

	sc := scene.New(width, height)
	sc.SetOrigin(origin)
	sc.SetZoom(cfg.ViewZoom)
	sc.SetPan(geometry.Pt(cfg.ViewPanX, cfg.ViewPanY))

	// The scene node is what the SVG export sees; the screen window is what
	// the user sees while dragging.
	var extra []overlay.Element
	screen, err := gui.New(sc)
	if err != nil {
		log.Printf("OVERLAY: on-screen overlay unavailable: %v", err)
	} else {
		extra = append(extra, screen)
	}
	h, err := newHostOn(cfg, sc, extra...)
	if err != nil {
		if screen != nil {
			_ = screen.Close()
		}
		return nil, err
	}
	h.screen = screen
	return h, nil
}

// newHostOn builds the host around sc. Every extra element mirrors the
// overlay node.
func newHostOn(cfg *config.Config, sc *scene.Scene, extra ...overlay.Element) (*host, error) {
	if err := sc.Add(scene.NewGhostRect(cfg.OverlayID)); err != nil {
		return nil, err
	}

	h := &host{cfg: cfg, scene: sc, copy: clipboard.WriteRect, exports: worker.New(1)}
	tree := overlay.Mirror(sc, cfg.OverlayID, extra...)
	ctrl := selection.New(session.New(), sc, overlay.NewSync(tree, cfg.OverlayID))
	h.loop = eventloop.New(ctrl, eventloop.Options{
		OnStop: h.selectionDone,
		OnState: func(active bool) {
			if h.onState != nil {
				h.onState(active)
			}
		},
		OnShutdown: h.dropWaiters,
	})
	return h, nil
}

// close releases the export workers and the screen window.
func (h *host) close() {
	h.exports.Close()
	if h.screen != nil {
		if err := h.screen.Close(); err != nil {
			log.Printf("OVERLAY: closing screen window: %v", err)
		}
	}
}

// wire drives the loop from raw input: the selection button starts and stops
// a selection, moves update it and the cancel key abandons it.
func (h *host) wire(src *pointer.HookSource) error {
	cancelKey, err := hotkey.NewMatcher(h.cfg.CancelKey)
	if err != nil {
		return err
	}
	h.loop.Subscribe(src)
	src.OnButton(func(ev pointer.ButtonEvent) {
		if ev.Button != h.cfg.SelectionButton {
			return
		}
		if ev.Pressed {
			h.loop.StartSelection(ev.X, ev.Y)
		} else {
			h.loop.StopSelection()
		}
	})
	src.OnKey(func(ev pointer.KeyEvent) {
		if cancelKey.Handle(ev.Rawcode, ev.Down) {
			log.Printf("Selection cancelled")
			h.loop.Cancel()
		}
	})
	return nil
}

// selectionDone runs on the loop goroutine with the final rectangle.
func (h *host) selectionDone(r geometry.Rect, ok bool) {
	if !ok || !r.Spans(h.cfg.MinSelectionSpan) {
		log.Printf("Selection too small, ignoring: %v", r)
		return
	}
	h.count++
	h.last = r
	log.Printf("Selection %d: %v", h.count, r)
	h.releaseWaiters(r)

	if err := h.scene.Add(&scene.RectNode{
		ID:      fmt.Sprintf("roi-%d", h.count),
		Rect:    r,
		Visible: true,
		Style:   scene.Style{Fill: "rgba(33, 186, 69, 0.2)", Stroke: "#21ba45", StrokeWidth: 2},
	}); err != nil {
		log.Printf("Failed to record selection: %v", err)
	}

	h.export(r)
}

// export snapshots what the worker needs while still on the loop goroutine,
// then hands the slow parts to the pool.
func (h *host) export(r geometry.Rect) {
	copyRect := h.cfg.CopyToClipboard && h.copy != nil
	svgPath := h.cfg.SVGOutput
	if !copyRect && svgPath == "" {
		return
	}
	var svg bytes.Buffer
	if svgPath != "" {
		if err := h.scene.WriteSVG(&svg); err != nil {
			log.Printf("Failed to render SVG: %v", err)
			svgPath = ""
		}
	}
	copyFn := h.copy

	ok := h.exports.Submit(context.Background(), fmt.Sprintf("export roi-%d", h.count), func(context.Context) error {
		if copyRect {
			if err := copyFn(r); err != nil {
				log.Printf("Clipboard error: %v", err)
			}
		}
		if svgPath != "" {
			return writeSVG(svgPath, svg.Bytes())
		}
		return nil
	}, nil)
	if !ok {
		log.Printf("Export of roi-%d skipped, export queue full", h.count)
	}
}

func writeSVG(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	return nil
}

// serve hands selection requests from other processes to the loop. Requests
// still waiting when the loop stops are failed by its shutdown hook.
func (h *host) serve(ctx context.Context, srv singleinstance.Server) {
	for {
		conn, err := srv.Next(ctx)
		if err != nil {
			return
		}
		h.loop.Do(func() { h.answer(conn) })
	}
}

func (h *host) answer(conn singleinstance.Conn) {
	switch conn.Request().Kind {
	case singleinstance.KindLast:
		if h.count == 0 {
			_ = conn.RespondError("no selection yet")
		} else {
			_ = conn.RespondSuccess(clipboard.FormatRect(h.last))
		}
		_ = conn.Close()
	case singleinstance.KindNext:
		h.waiters = append(h.waiters, conn)
	}
}

func (h *host) releaseWaiters(r geometry.Rect) {
	text := clipboard.FormatRect(r)
	for _, c := range h.waiters {
		if err := c.RespondSuccess(text); err != nil {
			log.Printf("singleinstance: respond failed: %v", err)
		}
		_ = c.Close()
	}
	h.waiters = nil
}

func (h *host) dropWaiters() {
	for _, c := range h.waiters {
		_ = c.RespondError("overlay shutting down")
		_ = c.Close()
	}
	h.waiters = nil
}
