package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"roi-overlay/src/geometry"
)

var (
	writeMu sync.Mutex
)

func Init() error {
	return clipboard.Init()
}

// Write performs a mutex-guarded clipboard write to prevent corruption under parallel writes.
func Write(text string) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// FormatRect renders r as "x,y,width,height" with full precision.
func FormatRect(r geometry.Rect) string {
	return fmt.Sprintf("%g,%g,%g,%g", r.X, r.Y, r.Width, r.Height)
}

// WriteRect copies r to the clipboard in FormatRect's layout.
func WriteRect(r geometry.Rect) error {
	return Write(FormatRect(r))
}
