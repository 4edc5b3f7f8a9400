package hotkey

import (
	"errors"
	"testing"
)

func TestKeyNameToRawcodes(t *testing.T) {
	tests := []struct {
		keyName  string
		expected []uint16
	}{
		// Modifier keys
		{"ctrl", []uint16{162, 163}},
		{"alt", []uint16{164, 165}},
		{"shift", []uint16{160, 161}},
		{"win", []uint16{91, 92}},
		{"cmd", []uint16{91, 92}},

		// Letter keys
		{"a", []uint16{65}},
		{"q", []uint16{81}},
		{"z", []uint16{90}},

		// Number keys
		{"0", []uint16{48}},
		{"9", []uint16{57}},

		// Function keys
		{"f1", []uint16{112}},
		{"f12", []uint16{123}},
		{"f24", []uint16{135}},

		// Special keys
		{"space", []uint16{32}},
		{"enter", []uint16{13}},
		{"esc", []uint16{27}},
		{"Escape", []uint16{27}},
		{"pgdn", []uint16{34}},

		// Unknown keys
		{"unknown", nil},
		{"f0", nil},
		{"f25", nil},
		{"!", nil},
	}

	for _, tt := range tests {
		t.Run(tt.keyName, func(t *testing.T) {
			result := keyNameToRawcodes(tt.keyName)
			if len(result) != len(tt.expected) {
				t.Errorf("keyNameToRawcodes(%q) returned %d rawcodes, expected %d",
					tt.keyName, len(result), len(tt.expected))
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("keyNameToRawcodes(%q)[%d] = %d, expected %d",
						tt.keyName, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Esc", []string{"esc"}},
		{"Ctrl+Alt+Q", []string{"ctrl", "alt", "q"}},
		{"Ctrl+Shift+F13", []string{"ctrl", "shift", "f13"}},
		{"Ctrl+Win+E", []string{"ctrl", "cmd", "e"}},
		{"Super + Alt + T", []string{"cmd", "alt", "t"}},
		{"Ctrl++X", []string{"ctrl", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseHotkey(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("parseHotkey(%q) returned %d keys, expected %d",
					tt.input, len(result), len(tt.expected))
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("parseHotkey(%q)[%d] = %q, expected %q",
						tt.input, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMatcherSingleKey(t *testing.T) {
	m, err := NewMatcher("Esc")
	if err != nil {
		t.Fatalf("NewMatcher failed: %v", err)
	}
	if m.Handle(65, true) {
		t.Error("unrelated key should not match")
	}
	if !m.Handle(27, true) {
		t.Error("Esc down should match")
	}
	if m.Handle(27, false) {
		t.Error("key up should never match")
	}
}

func TestMatcherCombination(t *testing.T) {
	m, err := NewMatcher("Ctrl+Shift+X")
	if err != nil {
		t.Fatalf("NewMatcher failed: %v", err)
	}
	if m.Combo() != "Ctrl+Shift+X" {
		t.Errorf("Combo() = %q", m.Combo())
	}

	steps := []struct {
		rawcode uint16
		down    bool
		want    bool
	}{
		{162, true, false}, // left ctrl
		{161, true, false}, // right shift
		{88, true, true},   // x completes the combo
		{88, false, false},
		{88, true, false}, // states were reset after the match
		{88, false, false},
		{163, true, false},
		{160, true, false},
		{160, false, false},
		{88, true, false}, // shift released
		{161, true, true},
	}
	for i, s := range steps {
		if got := m.Handle(s.rawcode, s.down); got != s.want {
			t.Errorf("step %d: Handle(%d, %v) = %v, expected %v", i, s.rawcode, s.down, got, s.want)
		}
	}
}

func TestMatcherRejectsUnmappableCombo(t *testing.T) {
	_, err := NewMatcher("Hyper+Meh")
	if !errors.Is(err, ErrNoKeys) {
		t.Errorf("expected ErrNoKeys, got %v", err)
	}
}
