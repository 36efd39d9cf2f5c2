package bindings

import (
	"fmt"
	"strings"

	"golang.org/x/mobile/event/key"
)

// Modifiers tracks the four physical modifier groups from raw key events.
type Modifiers struct {
	Shift   bool
	Control bool
	Alt     bool
	Super   bool
}

// IsModifier reports whether code is one of the eight physical modifier keys.
func IsModifier(code key.Code) bool {
	switch code {
	case key.CodeLeftShift, key.CodeRightShift,
		key.CodeLeftControl, key.CodeRightControl,
		key.CodeLeftAlt, key.CodeRightAlt,
		key.CodeLeftGUI, key.CodeRightGUI:
		return true
	}
	return false
}

// Set records a press or release of a modifier key. Passing any other code
// is a caller bug.
func (m *Modifiers) Set(code key.Code, state PressState) {
	down := state == Pressed
	switch code {
	case key.CodeLeftAlt, key.CodeRightAlt:
		m.Alt = down
	case key.CodeLeftGUI, key.CodeRightGUI:
		m.Super = down
	case key.CodeLeftControl, key.CodeRightControl:
		m.Control = down
	case key.CodeLeftShift, key.CodeRightShift:
		m.Shift = down
	default:
		panic(fmt.Sprintf("bindings: %v is not a modifier key", code))
	}
}

// Get looks a modifier up by name (shift, control/ctrl, alt, super).
// Unknown names are a caller bug.
func (m Modifiers) Get(name string) bool {
	switch strings.ToUpper(name) {
	case "SHIFT":
		return m.Shift
	case "CONTROL", "CTRL":
		return m.Control
	case "ALT":
		return m.Alt
	case "SUPER":
		return m.Super
	}
	panic(fmt.Sprintf("bindings: unknown modifier %q", name))
}

// Mask combines the held modifiers into a single mask.
func (m Modifiers) Mask() key.Modifiers {
	var mask key.Modifiers
	if m.Shift {
		mask |= key.ModShift
	}
	if m.Control {
		mask |= key.ModControl
	}
	if m.Alt {
		mask |= key.ModAlt
	}
	if m.Super {
		mask |= key.ModMeta
	}
	return mask
}

// PressedSet remembers which device keys are held so OS auto-repeat does not
// retrigger bindings.
type PressedSet map[key.Code]bool

// Filter updates the set and reports whether the event should be resolved.
// A press of a key already held is dropped; releases always pass.
func (p PressedSet) Filter(code key.Code, state PressState) bool {
	if state == Released {
		p[code] = false
		return true
	}
	if p[code] {
		return false
	}
	p[code] = true
	return true
}
