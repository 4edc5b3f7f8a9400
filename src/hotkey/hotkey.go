package hotkey

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
)

// ErrNoKeys is returned when a combination has no key that maps to a rawcode.
var ErrNoKeys = errors.New("no valid keys in hotkey configuration")

type keyState struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

// Matcher detects a key combination such as "Esc" or "Ctrl+Shift+X" from
// raw key transitions. It is safe for use from the input hook goroutine.
type Matcher struct {
	combo string

	mu   sync.Mutex
	keys []keyState
}

// NewMatcher parses combo. Keys that cannot be mapped are logged and left
// out; a combination with no usable key is an error.
func NewMatcher(combo string) (*Matcher, error) {
	names := parseHotkey(combo)
	log.Printf("Parsed hotkey configuration: %v", names)

	m := &Matcher{combo: combo}
	for _, name := range names {
		rawcodes := keyNameToRawcodes(name)
		if len(rawcodes) == 0 {
			log.Printf("ERROR: Cannot map key '%s' to rawcodes, hotkey may not work correctly", name)
			continue
		}
		m.keys = append(m.keys, keyState{name: name, rawcodes: rawcodes})
	}
	if len(m.keys) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoKeys, combo)
	}
	return m, nil
}

// Combo returns the configured combination.
func (m *Matcher) Combo() string { return m.combo }

// Handle records one key transition and reports whether it completed the
// combination. Key states reset after a match so holding the keys does not
// fire again until they are pressed anew.
func (m *Matcher) Handle(rawcode uint16, down bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.keys {
		if !m.keys[i].matches(rawcode) {
			continue
		}
		m.keys[i].pressed = down
	}
	if !down {
		return false
	}

	for i := range m.keys {
		if !m.keys[i].pressed {
			return false
		}
	}
	log.Printf("HOTKEY COMBINATION DETECTED! %s", m.combo)
	for i := range m.keys {
		m.keys[i].pressed = false
	}
	return true
}

func (k keyState) matches(rawcode uint16) bool {
	for _, rc := range k.rawcodes {
		if rc == rawcode {
			return true
		}
	}
	return false
}

// parseHotkey converts a hotkey string like "Ctrl+Alt+q" to normalized key names
func parseHotkey(hotkeyConfig string) []string {
	parts := strings.Split(strings.ToLower(hotkeyConfig), "+")
	var keys []string

	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "win", "cmd", "super":
			keys = append(keys, "cmd")
		default:
			keys = append(keys, part)
		}
	}

	return keys
}

// keyNameToRawcodes maps a key name to its Windows virtual key code rawcodes.
// Modifiers return both the left and right variants.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))

	switch keyName {
	case "ctrl":
		return []uint16{162, 163} // VK_LCONTROL, VK_RCONTROL
	case "alt":
		return []uint16{164, 165} // VK_LMENU, VK_RMENU
	case "shift":
		return []uint16{160, 161} // VK_LSHIFT, VK_RSHIFT
	case "win", "cmd", "super":
		return []uint16{91, 92} // VK_LWIN, VK_RWIN
	case "space":
		return []uint16{32}
	case "enter", "return":
		return []uint16{13}
	case "esc", "escape":
		return []uint16{27}
	case "tab":
		return []uint16{9}
	case "backspace":
		return []uint16{8}
	case "delete", "del":
		return []uint16{46}
	case "insert", "ins":
		return []uint16{45}
	case "home":
		return []uint16{36}
	case "end":
		return []uint16{35}
	case "pageup", "pgup":
		return []uint16{33} // VK_PRIOR
	case "pagedown", "pgdn":
		return []uint16{34} // VK_NEXT
	case "left":
		return []uint16{37}
	case "up":
		return []uint16{38}
	case "right":
		return []uint16{39}
	case "down":
		return []uint16{40}
	}

	if len(keyName) == 1 {
		c := keyName[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65} // VK 'A'..'Z'
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48} // VK '0'..'9'
		}
	}

	// F1-F24 are VK_F1 (112) onward.
	if strings.HasPrefix(keyName, "f") {
		if n, err := strconv.Atoi(keyName[1:]); err == nil && n >= 1 && n <= 24 {
			return []uint16{uint16(111 + n)}
		}
	}

	log.Printf("WARNING: Unknown key name '%s', cannot map to rawcode", keyName)
	return nil
}
