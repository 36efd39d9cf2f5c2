package bindings

import "fmt"

// Action is an abstract operation a binding can trigger. The set is closed:
// every value below is handled by the overlay dispatcher.
type Action int

const (
	CloseWindow Action = iota
	Minimize
	ToggleMaximize
	ToggleDecorations
	ToggleFullscreen

	ToggleDrawMode
	EnterDrawMode
	ExitDrawMode

	UndoDraw
	RedoDraw

	SetDrawing

	actionCount
)

var actionNames = [actionCount]string{
	CloseWindow:       "CloseWindow",
	Minimize:          "Minimize",
	ToggleMaximize:    "ToggleMaximize",
	ToggleDecorations: "ToggleDecorations",
	ToggleFullscreen:  "ToggleFullscreen",
	ToggleDrawMode:    "ToggleDrawMode",
	EnterDrawMode:     "EnterDrawMode",
	ExitDrawMode:      "ExitDrawMode",
	UndoDraw:          "UndoDraw",
	RedoDraw:          "RedoDraw",
	SetDrawing:        "SetDrawing",
}

var actionHelp = [actionCount]string{
	CloseWindow:       "Close window",
	Minimize:          "Minimize window",
	ToggleMaximize:    "Toggles maximize",
	ToggleDecorations: "Toggles decorations",
	ToggleFullscreen:  "Toggles fullscreen",
	ToggleDrawMode:    "Toggles draw mode",
	EnterDrawMode:     "Brings the overlay forward for drawing",
	ExitDrawMode:      "Hides the overlay and stops drawing",
	UndoDraw:          "Undoes the last stroke",
	RedoDraw:          "Redoes the last undone stroke",
	SetDrawing:        "Starts drawing when cursor moved",
}

// Valid reports whether a is part of the action vocabulary.
func (a Action) Valid() bool { return a >= 0 && a < actionCount }

func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Help returns a one line description of the action.
func (a Action) Help() string {
	if !a.Valid() {
		return ""
	}
	return actionHelp[a]
}

// Actions returns every action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, actionCount)
	for a := Action(0); a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}
