package tray

import (
	"log"
	"sync"

	"github.com/getlantern/systray"
)

type Config struct {
	Title   string
	Tooltip string
	// OnExit runs when the user picks Quit or the tray shuts down.
	OnExit func()
}

// Tray is the resident's notification-area icon. The tooltip reflects
// whether a selection is being tracked.
type Tray struct {
	cfg Config

	mu       sync.Mutex
	ready    bool
	tracking bool
	exitOnce sync.Once
}

func New(cfg Config) *Tray {
	return &Tray{cfg: cfg}
}

// Run shows the icon and blocks until Quit. On macOS it must be called from
// the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// SetTracking updates the tooltip; safe from any goroutine.
func (t *Tray) SetTracking(tracking bool) {
	t.mu.Lock()
	t.tracking = tracking
	ready := t.ready
	t.mu.Unlock()
	if ready {
		systray.SetTooltip(t.tooltip(tracking))
	}
}

func (t *Tray) tooltip(tracking bool) string {
	if tracking {
		return t.cfg.Title + ": selecting..."
	}
	return t.cfg.Tooltip
}

func (t *Tray) onReady() {
	if icon, err := Icon(); err == nil {
		systray.SetIcon(icon)
	} else {
		log.Printf("TRAY: icon unavailable: %v", err)
	}
	systray.SetTitle(t.cfg.Title)

	t.mu.Lock()
	t.ready = true
	tracking := t.tracking
	t.mu.Unlock()
	systray.SetTooltip(t.tooltip(tracking))

	mQuit := systray.AddMenuItem("Quit", "Quit the application")
	go func() {
		<-mQuit.ClickedCh
		log.Printf("TRAY: quit requested")
		systray.Quit()
	}()
}

func (t *Tray) onExit() {
	t.exitOnce.Do(func() {
		if t.cfg.OnExit != nil {
			t.cfg.OnExit()
		}
	})
}
