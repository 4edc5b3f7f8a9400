//go:build windows

package main

import (
	"log"

	"golang.org/x/sys/windows"
)

// dpiAttempt is one way of opting into physical-pixel coordinates. The
// first one the system supports wins.
type dpiAttempt struct {
	dll, proc string
	args      []uintptr
	ok        func(ret uintptr) bool
}

// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 is the handle value -4.
var perMonitorAwareV2 = ^uintptr(3)

var dpiAttempts = []dpiAttempt{
	{"user32.dll", "SetProcessDpiAwarenessContext", []uintptr{perMonitorAwareV2}, func(r uintptr) bool { return r != 0 }},
	// PROCESS_PER_MONITOR_DPI_AWARE; returns S_OK.
	{"shcore.dll", "SetProcessDpiAwareness", []uintptr{2}, func(r uintptr) bool { return r == 0 }},
	{"user32.dll", "SetProcessDPIAware", nil, func(r uintptr) bool { return r != 0 }},
}

// enableDPIAwareness makes the global hook report physical pixels, so screen
// positions agree with the display bounds on scaled monitors.
func enableDPIAwareness() {
	for _, a := range dpiAttempts {
		proc := windows.NewLazySystemDLL(a.dll).NewProc(a.proc)
		if err := proc.Find(); err != nil {
			log.Printf("DPI: %s not available", a.proc)
			continue
		}
		ret, _, err := proc.Call(a.args...)
		if a.ok(ret) {
			log.Printf("DPI: awareness set via %s", a.proc)
			return
		}
		log.Printf("DPI: %s failed (ret=%d): %v", a.proc, ret, err)
	}
	log.Printf("DPI: no DPI awareness set")
}
