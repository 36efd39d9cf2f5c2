package overlay

import (
	"image"
	"log"
	"time"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/scrawl/internal/bindings"
	"github.com/example/scrawl/internal/canvas"
)

const (
	// attachRetry spaces out attempts to find the window through the window
	// manager while it is still being mapped.
	attachRetry       = 200 * time.Millisecond
	maxAttachAttempts = 10
)

// startup is posted once the window exists to apply the initial display state.
type startup struct{}

// session routes window events for one overlay window.
type session struct {
	state   *WindowState
	present func(*canvas.Canvas) bool
	repaint func()

	attach         func() (Chrome, error)
	attached       bool
	attachAttempts int
	nextAttach     time.Time
	now            func() time.Time
	startMinimized bool
	started        bool

	// localHotkeys feeds window key events through the device table when no
	// global hotkey source exists.
	localHotkeys bool
	mods         bindings.Modifiers
	pressed      bindings.PressedSet
}

func newSession(st *WindowState, present func(*canvas.Canvas) bool, repaint func()) *session {
	return &session{
		state:   st,
		present: present,
		repaint: repaint,
		pressed: bindings.PressedSet{},
		now:     time.Now,
	}
}

// handle processes one event and reports whether the loop should stop.
func (s *session) handle(e interface{}) bool {
	switch e := e.(type) {
	case lifecycle.Event:
		if e.To == lifecycle.StageDead {
			return true
		}
		if e.Crosses(lifecycle.StageVisible) == lifecycle.CrossOn {
			s.state.MarkDirty()
		}
		if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
			s.state.CursorLeft()
			// Keys released while another window has focus are never seen.
			s.pressed = bindings.PressedSet{}
			s.mods = bindings.Modifiers{}
		}
	case size.Event:
		s.state.Resize(e.WidthPx, e.HeightPx)
		s.tryAttach()
	case startup:
		s.tryAttach()
		s.start()
	case paint.Event:
		s.tryAttach()
		// Every paint presents: expose events after a remap carry no
		// damage information.
		s.state.TakeDirty()
		if !s.present(s.state.Canvas) {
			s.state.MarkDirty()
		}
		return false
	case mouse.Event:
		s.mouse(e)
	case key.Event:
		s.key(e)
	case bindings.DeviceKey:
		s.device(e)
	}
	if s.state.Closed() {
		return true
	}
	if s.repaint != nil && s.state.dirty {
		s.repaint()
	}
	return false
}

func (s *session) tryAttach() {
	if s.attach == nil || s.attached || s.attachAttempts >= maxAttachAttempts {
		return
	}
	now := s.now()
	if now.Before(s.nextAttach) {
		return
	}
	s.nextAttach = now.Add(attachRetry)
	s.attachAttempts++
	c, err := s.attach()
	if err != nil {
		if s.attachAttempts == maxAttachAttempts {
			log.Printf("window manager: %v", err)
			s.start()
		}
		return
	}
	s.attached = true
	s.state.Attach(c)
	s.start()
}

// start applies the initial display state once. It waits for the window
// manager while an attachment is still possible.
func (s *session) start() {
	if s.started {
		return
	}
	if s.attach != nil && !s.attached && s.attachAttempts < maxAttachAttempts {
		return
	}
	s.started = true
	s.state.Startup(s.startMinimized)
}

func (s *session) mouse(e mouse.Event) {
	p := image.Pt(int(e.X), int(e.Y))
	if e.Button.IsWheel() {
		if e.Direction == mouse.DirRelease {
			return
		}
		switch e.Button {
		case mouse.ButtonWheelUp:
			s.state.ChangeBrushSize(1)
		case mouse.ButtonWheelDown:
			s.state.ChangeBrushSize(-1)
		}
		return
	}
	st, ok := bindings.MouseState(e.Direction)
	if !ok {
		s.state.CursorMoved(p)
		return
	}
	s.state.Cursor.Move(p)
	if act, ok := bindings.ResolveMouse(e.Button, e.Modifiers, st); ok {
		Dispatch(act, s.state)
	}
}

func (s *session) key(e key.Event) {
	st, ok := bindings.KeyState(e.Direction)
	if !ok {
		return
	}
	if s.localHotkeys && e.Code != key.CodeUnknown {
		if bindings.IsModifier(e.Code) {
			return
		}
		s.mods = modifiersOf(e.Modifiers)
		s.device(bindings.DeviceKey{Code: e.Code, State: st})
	}
	ch, ok := keyChar(e)
	if !ok {
		return
	}
	if act, ok := bindings.ResolveKeyboard(ch, e.Modifiers, st); ok {
		Dispatch(act, s.state)
	}
}

func (s *session) device(e bindings.DeviceKey) {
	if bindings.IsModifier(e.Code) {
		s.mods.Set(e.Code, e.State)
		return
	}
	if !s.pressed.Filter(e.Code, e.State) {
		return
	}
	if act, ok := bindings.ResolveDevice(e.Code, s.mods, e.State); ok {
		Dispatch(act, s.state)
	}
}

// modifiersOf converts the modifier snapshot carried by a window key event.
func modifiersOf(m key.Modifiers) bindings.Modifiers {
	return bindings.Modifiers{
		Shift:   m&key.ModShift != 0,
		Control: m&key.ModControl != 0,
		Alt:     m&key.ModAlt != 0,
		Super:   m&key.ModMeta != 0,
	}
}

// keyChar returns the upper-case character a key event stands for. Control
// characters produced by ctrl chords fall back to the key code's letter.
func keyChar(e key.Event) (string, bool) {
	if e.Rune > ' ' && unicode.IsPrint(e.Rune) {
		return string(unicode.ToUpper(e.Rune)), true
	}
	if e.Code >= key.CodeA && e.Code <= key.CodeZ {
		return string(rune('A' + int(e.Code-key.CodeA))), true
	}
	return "", false
}
