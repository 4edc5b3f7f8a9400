//go:build windows

package gui

import (
	"fmt"
	"image"
	"log"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	gdi32                = windows.NewLazySystemDLL("gdi32.dll")
	procCreatePen        = gdi32.NewProc("CreatePen")
	procCreateSolidBrush = gdi32.NewProc("CreateSolidBrush")
	procRectangle        = gdi32.NewProc("Rectangle")

	user32                         = windows.NewLazySystemDLL("user32.dll")
	procFillRect                   = user32.NewProc("FillRect")
	procPostMessage                = user32.NewProc("PostMessageW")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
)

const (
	wsExLayered     = 0x00080000
	wsExTransparent = 0x00000020
	wsExToolWindow  = 0x00000080
	wsExNoActivate  = 0x08000000
	lwaColorKey     = 0x1
	psSolid         = 0

	// transparentKey is painted wherever the window should be see-through.
	transparentKey = 0x00FF00FF
	// ghostStroke is rgb(214, 203, 0) as a COLORREF.
	ghostStroke      = 0x0000CBD6
	ghostStrokeWidth = 2

	msgShow = win.WM_USER + 1
	msgHide = win.WM_USER + 2
)

// painters maps live windows to their painter for the window procedure.
var (
	paintersMu sync.Mutex
	painters   = map[win.HWND]*winPainter{}
)

// winPainter owns a click-through, topmost, color-keyed window spanning the
// virtual screen. The window lives on its own locked OS thread; other
// goroutines talk to it through posted messages.
type winPainter struct {
	hwnd   win.HWND
	origin image.Point
	done   chan struct{}

	mu   sync.Mutex
	rect image.Rectangle
}

func newPainter() (painter, error) {
	p := &winPainter{done: make(chan struct{})}
	ready := make(chan error, 1)
	go p.run(ready)
	if err := <-ready; err != nil {
		return nil, err
	}
	return p, nil
}

func (p *winPainter) run(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(p.done)

	vx := win.GetSystemMetrics(win.SM_XVIRTUALSCREEN)
	vy := win.GetSystemMetrics(win.SM_YVIRTUALSCREEN)
	vw := win.GetSystemMetrics(win.SM_CXVIRTUALSCREEN)
	vh := win.GetSystemMetrics(win.SM_CYVIRTUALSCREEN)
	p.origin = image.Pt(int(vx), int(vy))

	className, err := windows.UTF16PtrFromString(fmt.Sprintf("RoiOverlay_%d", time.Now().UnixNano()))
	if err != nil {
		ready <- err
		return
	}
	title, _ := windows.UTF16PtrFromString("ROI overlay")
	wndClass := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		Style:         win.CS_HREDRAW | win.CS_VREDRAW,
		LpfnWndProc:   windows.NewCallback(screenWndProc),
		HInstance:     win.GetModuleHandle(nil),
		LpszClassName: className,
	}
	if win.RegisterClassEx(&wndClass) == 0 {
		ready <- fmt.Errorf("failed to register window class")
		return
	}
	defer win.UnregisterClass(className)

	hwnd := win.CreateWindowEx(
		win.WS_EX_TOPMOST|wsExLayered|wsExTransparent|wsExToolWindow|wsExNoActivate,
		className, title,
		win.WS_POPUP,
		vx, vy, vw, vh,
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if hwnd == 0 {
		ready <- fmt.Errorf("failed to create overlay window")
		return
	}
	procSetLayeredWindowAttributes.Call(uintptr(hwnd), transparentKey, 0, lwaColorKey)
	log.Printf("OVERLAY: screen window created at (%d,%d) size %dx%d", vx, vy, vw, vh)

	paintersMu.Lock()
	painters[hwnd] = p
	paintersMu.Unlock()
	defer func() {
		paintersMu.Lock()
		delete(painters, hwnd)
		paintersMu.Unlock()
	}()
	p.hwnd = hwnd
	ready <- nil

	var msg win.MSG
	for {
		ret := win.GetMessage(&msg, 0, 0, 0)
		if ret == 0 || ret == -1 {
			return
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
}

func (p *winPainter) post(msg uint32) {
	procPostMessage.Call(uintptr(p.hwnd), uintptr(msg), 0, 0)
}

func (p *winPainter) paint(r image.Rectangle) {
	p.mu.Lock()
	p.rect = r.Sub(p.origin)
	p.mu.Unlock()
	p.post(msgShow)
}

func (p *winPainter) hide() { p.post(msgHide) }

func (p *winPainter) close() error {
	p.post(win.WM_CLOSE)
	<-p.done
	return nil
}

func screenWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	paintersMu.Lock()
	p := painters[hwnd]
	paintersMu.Unlock()
	if p == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	switch msg {
	case msgShow:
		win.ShowWindow(hwnd, win.SW_SHOWNOACTIVATE)
		win.InvalidateRect(hwnd, nil, true)
		return 0
	case msgHide:
		win.ShowWindow(hwnd, win.SW_HIDE)
		return 0
	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		p.mu.Lock()
		r := p.rect
		p.mu.Unlock()
		drawGhost(hwnd, hdc, r)
		win.EndPaint(hwnd, &ps)
		return 0
	case win.WM_DESTROY:
		win.PostQuitMessage(0)
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

// drawGhost clears the window to the transparent key and strokes r.
func drawGhost(hwnd win.HWND, hdc win.HDC, r image.Rectangle) {
	var client win.RECT
	win.GetClientRect(hwnd, &client)
	bg, _, _ := procCreateSolidBrush.Call(transparentKey)
	procFillRect.Call(uintptr(hdc), uintptr(unsafe.Pointer(&client)), bg)
	win.DeleteObject(win.HGDIOBJ(bg))

	pen, _, _ := procCreatePen.Call(psSolid, ghostStrokeWidth, ghostStroke)
	oldPen := win.SelectObject(hdc, win.HGDIOBJ(pen))
	oldBrush := win.SelectObject(hdc, win.GetStockObject(win.NULL_BRUSH))
	procRectangle.Call(uintptr(hdc), uintptr(r.Min.X), uintptr(r.Min.Y), uintptr(r.Max.X), uintptr(r.Max.Y))
	win.SelectObject(hdc, oldPen)
	win.SelectObject(hdc, oldBrush)
	win.DeleteObject(win.HGDIOBJ(pen))
}
