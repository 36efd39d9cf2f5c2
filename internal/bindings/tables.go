package bindings

import (
	"fmt"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
)

// MouseBindings apply to button events on the overlay window.
var MouseBindings = []Binding[mouse.Button]{
	{Trigger: mouse.ButtonLeft, Modifiers: Exactly(0), Action: SetDrawing, Condition: Toggle()},
	{Trigger: mouse.ButtonRight, Modifiers: Exactly(key.ModControl), Action: ToggleDecorations, Condition: OneShot(Pressed)},
}

// KeyboardBindings apply to character keys while the overlay has focus.
// Triggers are upper case.
var KeyboardBindings = []Binding[string]{
	{Trigger: "F", Modifiers: Exactly(0), Action: ToggleFullscreen, Condition: OneShot(Pressed)},
	{Trigger: "M", Modifiers: Exactly(0), Action: Minimize, Condition: OneShot(Pressed)},
	{Trigger: "Z", Modifiers: Exactly(key.ModControl), Action: UndoDraw, Condition: OneShot(Pressed)},
	{Trigger: "Z", Modifiers: Exactly(key.ModControl | key.ModShift), Action: RedoDraw, Condition: OneShot(Pressed)},
	{Trigger: "Y", Modifiers: Exactly(key.ModControl), Action: RedoDraw, Condition: OneShot(Pressed)},
	{Trigger: "X", Modifiers: Exactly(key.ModControl), Action: ToggleMaximize, Condition: OneShot(Pressed)},
	{Trigger: "Q", Modifiers: Exactly(key.ModControl), Action: CloseWindow, Condition: OneShot(Pressed)},
}

// DeviceBindings are global hotkeys delivered regardless of window focus.
var DeviceBindings = []Binding[key.Code]{
	{Trigger: key.CodeD, Modifiers: Exactly(key.ModControl | key.ModAlt), Action: ToggleDrawMode, Condition: OneShot(Pressed)},
	{Trigger: key.CodeEscape, Modifiers: Exactly(0), Action: ExitDrawMode, Condition: OneShot(Pressed)},
	{Trigger: key.CodeZ, Modifiers: Exactly(key.ModControl | key.ModAlt), Action: UndoDraw, Condition: OneShot(Pressed)},
	{Trigger: key.CodeY, Modifiers: Exactly(key.ModControl | key.ModAlt), Action: RedoDraw, Condition: OneShot(Pressed)},
}

// ButtonName returns a short label for a mouse button.
func ButtonName(b mouse.Button) string {
	switch b {
	case mouse.ButtonLeft:
		return "left"
	case mouse.ButtonMiddle:
		return "middle"
	case mouse.ButtonRight:
		return "right"
	case mouse.ButtonWheelUp:
		return "wheel-up"
	case mouse.ButtonWheelDown:
		return "wheel-down"
	}
	return fmt.Sprintf("button%d", int(b))
}

// DeviceKey is a device-level key transition reported by the input backend.
type DeviceKey struct {
	Code  key.Code
	State PressState
}
