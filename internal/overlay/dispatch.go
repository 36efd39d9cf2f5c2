package overlay

import (
	"fmt"

	"github.com/example/scrawl/internal/bindings"
)

// Dispatch applies a to w synchronously.
func Dispatch(a bindings.Action, w *WindowState) {
	switch a {
	case bindings.CloseWindow:
		w.Close()
	case bindings.Minimize:
		w.Minimize()
	case bindings.ToggleMaximize:
		// accepted, not implemented
	case bindings.ToggleDecorations:
		w.ToggleDecorations()
	case bindings.ToggleFullscreen:
		w.ToggleFullscreen()
	case bindings.ToggleDrawMode:
		w.ToggleDrawMode()
	case bindings.EnterDrawMode:
		w.EnterDrawMode()
	case bindings.ExitDrawMode:
		w.ExitDrawMode()
	case bindings.UndoDraw:
		w.Undo()
	case bindings.RedoDraw:
		w.Redo()
	case bindings.SetDrawing:
		w.InvertDrawing()
	default:
		panic(fmt.Sprintf("overlay: dispatch of unknown action %d", int(a)))
	}
}
