package menu

import (
	"fmt"
	"strings"

	"gioui.org/io/event"
	"gioui.org/io/key"
)

// Accelerator is a parsed keyboard chord such as "CmdOrCtrl+Shift+O".
type Accelerator struct {
	Key       key.Name
	Modifiers key.Modifiers
}

// ParseAccelerator parses a chord string. "CmdOrCtrl" maps to the platform
// shortcut modifier (Cmd on macOS, Ctrl elsewhere). An empty string yields
// the zero Accelerator.
func ParseAccelerator(s string) (Accelerator, error) {
	if strings.TrimSpace(s) == "" {
		return Accelerator{}, nil
	}

	var mods key.Modifiers
	var rawKeyPart string

	// A literal plus key is spelled "Plus"
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		switch strings.ToLower(part) {
		case "cmdorctrl", "commandorcontrol", "shortcut":
			mods |= key.ModShortcut
		case "ctrl", "control":
			mods |= key.ModCtrl
		case "shift":
			mods |= key.ModShift
		case "alt", "option":
			mods |= key.ModAlt
		case "cmd", "command":
			mods |= key.ModCommand
		case "super", "meta":
			mods |= key.ModSuper
		case "":
			return Accelerator{}, fmt.Errorf("accelerator %q: empty component", s)
		default:
			if rawKeyPart != "" {
				return Accelerator{}, fmt.Errorf("accelerator %q: more than one key (%q, %q)", s, rawKeyPart, part)
			}
			rawKeyPart = part
		}
	}

	if rawKeyPart == "" {
		return Accelerator{}, fmt.Errorf("accelerator %q: no key", s)
	}

	return Accelerator{Key: parseKeyName(rawKeyPart), Modifiers: mods}, nil
}

// MustParseAccelerator is ParseAccelerator for static chords known to be valid.
func MustParseAccelerator(s string) Accelerator {
	a, err := ParseAccelerator(s)
	if err != nil {
		panic(err)
	}
	return a
}

// parseKeyName converts a key string to Gio's key.Name
func parseKeyName(s string) key.Name {
	// Single characters: letters are upper-case in key.Name
	if len(s) == 1 {
		return key.Name(strings.ToUpper(s))
	}

	switch strings.ToLower(s) {
	case "f1":
		return key.NameF1
	case "f2":
		return key.NameF2
	case "f3":
		return key.NameF3
	case "f4":
		return key.NameF4
	case "f5":
		return key.NameF5
	case "f6":
		return key.NameF6
	case "f7":
		return key.NameF7
	case "f8":
		return key.NameF8
	case "f9":
		return key.NameF9
	case "f10":
		return key.NameF10
	case "f11":
		return key.NameF11
	case "f12":
		return key.NameF12

	case "up", "uparrow":
		return key.NameUpArrow
	case "down", "downarrow":
		return key.NameDownArrow
	case "left", "leftarrow":
		return key.NameLeftArrow
	case "right", "rightarrow":
		return key.NameRightArrow
	case "home":
		return key.NameHome
	case "end":
		return key.NameEnd
	case "pageup":
		return key.NamePageUp
	case "pagedown":
		return key.NamePageDown

	case "enter", "return":
		return key.NameReturn
	case "tab":
		return key.NameTab
	case "space":
		return key.NameSpace
	case "backspace":
		return key.NameDeleteBackward
	case "delete", "del":
		return key.NameDeleteForward
	case "escape", "esc":
		return key.NameEscape
	case "plus":
		return key.Name("+")

	default:
		return key.Name(s)
	}
}

// IsEmpty returns true if no chord is assigned
func (a Accelerator) IsEmpty() bool {
	return a.Key == ""
}

// Matches checks if a key event triggers this accelerator. Modifiers must
// match exactly so Ctrl+S and Ctrl+Shift+S stay distinct.
func (a Accelerator) Matches(e key.Event) bool {
	if a.Key == "" {
		return false
	}
	return e.State == key.Press && e.Name == a.Key && e.Modifiers == a.Modifiers
}

// Filter returns a key.Filter that delivers this chord to the given tag.
func (a Accelerator) Filter(focus event.Tag) key.Filter {
	return key.Filter{
		Focus:    focus,
		Name:     a.Key,
		Required: a.Modifiers,
	}
}

// String returns a human-readable representation of the chord
func (a Accelerator) String() string {
	if a.Key == "" {
		return ""
	}

	var parts []string
	if a.Modifiers.Contain(key.ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if a.Modifiers.Contain(key.ModCommand) {
		parts = append(parts, "Cmd")
	}
	if a.Modifiers.Contain(key.ModShift) {
		parts = append(parts, "Shift")
	}
	if a.Modifiers.Contain(key.ModAlt) {
		parts = append(parts, "Alt")
	}
	if a.Modifiers.Contain(key.ModSuper) {
		parts = append(parts, "Super")
	}
	parts = append(parts, string(a.Key))
	return strings.Join(parts, "+")
}
