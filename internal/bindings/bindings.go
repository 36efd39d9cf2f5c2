// Package bindings resolves raw input events into overlay actions using
// static binding tables.
package bindings

import (
	"strings"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
)

// PressState is the transition carried by a button or key event.
type PressState uint8

const (
	Released PressState = iota
	Pressed
)

func (s PressState) String() string {
	if s == Pressed {
		return "press"
	}
	return "release"
}

// KeyState converts a key direction. Auto-repeat (DirNone) has no press state.
func KeyState(d key.Direction) (PressState, bool) {
	switch d {
	case key.DirPress:
		return Pressed, true
	case key.DirRelease:
		return Released, true
	}
	return Released, false
}

// MouseState converts a mouse direction. Motion and wheel steps have no press state.
func MouseState(d mouse.Direction) (PressState, bool) {
	switch d {
	case mouse.DirPress:
		return Pressed, true
	case mouse.DirRelease:
		return Released, true
	}
	return Released, false
}

// Condition gates a binding on the event's press state.
type Condition struct {
	oneShot bool
	state   PressState
}

// Toggle fires on both press and release.
func Toggle() Condition { return Condition{} }

// OneShot fires only on the given transition.
func OneShot(s PressState) Condition { return Condition{oneShot: true, state: s} }

// Satisfied reports whether an event with state s meets the condition.
func (c Condition) Satisfied(s PressState) bool {
	return !c.oneShot || c.state == s
}

func (c Condition) String() string {
	if !c.oneShot {
		return "toggle"
	}
	return c.state.String()
}

// ModifierMatch is either a wildcard or an exact modifier mask.
type ModifierMatch struct {
	any  bool
	mask key.Modifiers
}

// AnyModifiers matches every modifier state.
func AnyModifiers() ModifierMatch { return ModifierMatch{any: true} }

// Exactly matches only when the held modifiers equal m.
func Exactly(m key.Modifiers) ModifierMatch { return ModifierMatch{mask: m} }

// Matches reports whether the modifier snapshot satisfies the match.
func (m ModifierMatch) Matches(state key.Modifiers) bool {
	return m.any || m.mask == state
}

// Mask returns the exact mask, or false for the wildcard.
func (m ModifierMatch) Mask() (key.Modifiers, bool) {
	return m.mask, !m.any
}

func (m ModifierMatch) String() string {
	if m.any {
		return "any"
	}
	return FormatModifiers(m.mask)
}

// FormatModifiers renders a mask as "ctrl+alt", or "none" when empty.
func FormatModifiers(m key.Modifiers) string {
	var parts []string
	if m&key.ModControl != 0 {
		parts = append(parts, "ctrl")
	}
	if m&key.ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if m&key.ModShift != 0 {
		parts = append(parts, "shift")
	}
	if m&key.ModMeta != 0 {
		parts = append(parts, "super")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// Binding maps one trigger value plus a modifier and press condition to an Action.
type Binding[T comparable] struct {
	Trigger   T
	Modifiers ModifierMatch
	Action    Action
	Condition Condition
}

// TriggeredBy reports whether the binding fires for the event.
func (b Binding[T]) TriggeredBy(trigger T, mods key.Modifiers, state PressState) bool {
	return b.Trigger == trigger && b.Modifiers.Matches(mods) && b.Condition.Satisfied(state)
}

// Resolve returns the action of the first binding in table triggered by the
// event. Tables are evaluated in declaration order.
func Resolve[T comparable](table []Binding[T], trigger T, mods key.Modifiers, state PressState) (Action, bool) {
	for _, b := range table {
		if b.TriggeredBy(trigger, mods, state) {
			return b.Action, true
		}
	}
	return 0, false
}

// ResolveMouse resolves a window mouse button event.
func ResolveMouse(button mouse.Button, mods key.Modifiers, state PressState) (Action, bool) {
	return Resolve(MouseBindings, button, mods, state)
}

// ResolveKeyboard resolves a window character key event. The character is
// matched case-insensitively; mods must be the snapshot carried by the same event.
func ResolveKeyboard(ch string, mods key.Modifiers, state PressState) (Action, bool) {
	return Resolve(KeyboardBindings, strings.ToUpper(ch), mods, state)
}

// ResolveDevice resolves a device-level key event against the global hotkeys.
func ResolveDevice(code key.Code, mods Modifiers, state PressState) (Action, bool) {
	return Resolve(DeviceBindings, code, mods.Mask(), state)
}
