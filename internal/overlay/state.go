package overlay

import (
	"image"
	"log"

	"github.com/example/scrawl/internal/canvas"
)

// DrawMode is the window-level state in which the overlay is shown
// fullscreen on top of the desktop.
type DrawMode uint8

const (
	DrawModeInactive DrawMode = iota
	DrawModeActive
)

func (m DrawMode) String() string {
	if m == DrawModeActive {
		return "active"
	}
	return "inactive"
}

// Chrome receives display-state commands for the host window.
type Chrome interface {
	SetMinimized(bool) error
	SetFullscreen(bool) error
	SetDecorations(bool) error
	Activate() error
}

// Detached returns a Chrome that accepts every command and does nothing. It
// stands in until a window manager connection is available.
func Detached() Chrome { return detachedChrome{} }

type detachedChrome struct{}

func (detachedChrome) SetMinimized(bool) error   { return nil }
func (detachedChrome) SetFullscreen(bool) error  { return nil }
func (detachedChrome) SetDecorations(bool) error { return nil }
func (detachedChrome) Activate() error           { return nil }

// CursorTrack holds the last two cursor positions. Both are nil before the
// first motion and after the cursor leaves the surface.
type CursorTrack struct {
	Current  *image.Point
	Previous *image.Point
}

// Move records a new position.
func (c *CursorTrack) Move(p image.Point) {
	c.Previous = c.Current
	c.Current = &p
}

// Leave forgets both positions.
func (c *CursorTrack) Leave() {
	c.Current = nil
	c.Previous = nil
}

// Segment returns the last movement. Without a previous position the segment
// is the single current point.
func (c CursorTrack) Segment() (prev, curr image.Point, ok bool) {
	if c.Current == nil {
		return image.Point{}, image.Point{}, false
	}
	curr = *c.Current
	prev = curr
	if c.Previous != nil {
		prev = *c.Previous
	}
	return prev, curr, true
}

// WindowState is everything the dispatcher mutates for one overlay window.
// It is owned by the event loop goroutine.
type WindowState struct {
	Canvas *canvas.Canvas
	Cursor CursorTrack

	chrome     Chrome
	mode       DrawMode
	drawing    bool
	fullscreen bool
	minimized  bool
	decorated  bool
	closed     bool
	dirty      bool
	hooks      []func(active bool)
}

// NewWindowState wraps cv. A nil chrome is replaced by Detached.
func NewWindowState(cv *canvas.Canvas, chrome Chrome) *WindowState {
	if chrome == nil {
		chrome = Detached()
	}
	return &WindowState{Canvas: cv, chrome: chrome, decorated: true, dirty: true}
}

func (w *WindowState) Mode() DrawMode   { return w.mode }
func (w *WindowState) Drawing() bool    { return w.drawing }
func (w *WindowState) Fullscreen() bool { return w.fullscreen }
func (w *WindowState) Minimized() bool  { return w.minimized }
func (w *WindowState) Decorated() bool  { return w.decorated }
func (w *WindowState) Closed() bool     { return w.closed }
func (w *WindowState) MarkDirty()       { w.dirty = true }

// TakeDirty reports whether the raster changed since the last call.
func (w *WindowState) TakeDirty() bool {
	d := w.dirty
	w.dirty = false
	return d
}

// OnDrawModeChange registers fn to run after every draw mode transition.
func (w *WindowState) OnDrawModeChange(fn func(active bool)) {
	w.hooks = append(w.hooks, fn)
}

// Attach switches to a real window manager and makes the window borderless.
func (w *WindowState) Attach(c Chrome) {
	w.chrome = c
	w.decorated = false
	w.check("decorations", c.SetDecorations(false))
}

// Startup applies the initial display state: minimized with draw mode off,
// or straight into draw mode.
func (w *WindowState) Startup(minimized bool) {
	if minimized {
		w.mode = DrawModeInactive
		w.Minimize()
		return
	}
	w.EnterDrawMode()
}

// EnterDrawMode shows the overlay fullscreen in front. It does nothing when
// draw mode is already active.
func (w *WindowState) EnterDrawMode() {
	if w.mode != DrawModeInactive {
		return
	}
	w.mode = DrawModeActive
	w.minimized = false
	w.dirty = true
	w.check("restore", w.chrome.SetMinimized(false))
	w.fullscreen = true
	w.check("fullscreen", w.chrome.SetFullscreen(true))
	w.check("activate", w.chrome.Activate())
	w.drawModeChanged()
}

// ExitDrawMode finishes any open stroke, leaves fullscreen and minimizes. It
// does nothing when draw mode is inactive.
func (w *WindowState) ExitDrawMode() {
	if w.mode != DrawModeActive {
		return
	}
	if w.drawing {
		w.InvertDrawing()
	}
	w.mode = DrawModeInactive
	w.fullscreen = false
	w.check("fullscreen", w.chrome.SetFullscreen(false))
	w.Minimize()
	w.drawModeChanged()
}

// ToggleDrawMode flips draw mode.
func (w *WindowState) ToggleDrawMode() {
	if w.mode == DrawModeActive {
		w.ExitDrawMode()
		return
	}
	w.EnterDrawMode()
}

func (w *WindowState) drawModeChanged() {
	log.Printf("draw mode %v", w.mode)
	for _, fn := range w.hooks {
		fn(w.mode == DrawModeActive)
	}
}

// InvertDrawing flips the drawing flag. Turning it on opens a stroke, turning
// it off commits the stroke to history.
func (w *WindowState) InvertDrawing() {
	w.drawing = !w.drawing
	if w.drawing {
		w.Canvas.BeginStroke()
		return
	}
	w.Canvas.EndStroke()
}

// CursorMoved tracks the cursor and paints the covered segment while drawing.
func (w *WindowState) CursorMoved(p image.Point) {
	w.Cursor.Move(p)
	if !w.drawing {
		return
	}
	if prev, curr, ok := w.Cursor.Segment(); ok {
		w.Canvas.Draw(prev, curr)
		w.dirty = true
	}
}

// CursorLeft forgets the cursor so the next stroke segment does not jump.
func (w *WindowState) CursorLeft() {
	w.Cursor.Leave()
}

// Resize retargets the canvas. An in-progress stroke is restarted since the
// resize discards its history.
func (w *WindowState) Resize(width, height int) {
	before := w.Canvas.Size()
	w.Canvas.Resize(width, height)
	if w.Canvas.Size() == before {
		return
	}
	if w.drawing {
		w.Canvas.BeginStroke()
	}
	w.dirty = true
}

// ChangeBrushSize forwards to the canvas and marks the frame dirty when the
// size changed.
func (w *WindowState) ChangeBrushSize(delta int) {
	if w.Canvas.ChangeBrushSize(delta) {
		w.dirty = true
	}
}

func (w *WindowState) Undo() {
	if w.Canvas.Undo() {
		w.dirty = true
	}
}

func (w *WindowState) Redo() {
	if w.Canvas.Redo() {
		w.dirty = true
	}
}

func (w *WindowState) Minimize() {
	w.minimized = true
	w.check("minimize", w.chrome.SetMinimized(true))
}

func (w *WindowState) ToggleFullscreen() {
	w.fullscreen = !w.fullscreen
	w.check("fullscreen", w.chrome.SetFullscreen(w.fullscreen))
}

func (w *WindowState) ToggleDecorations() {
	w.decorated = !w.decorated
	w.check("decorations", w.chrome.SetDecorations(w.decorated))
}

// Close marks the window for teardown by the event loop.
func (w *WindowState) Close() {
	w.closed = true
}

func (w *WindowState) check(op string, err error) {
	if err != nil {
		log.Printf("%s: %v", op, err)
	}
}
