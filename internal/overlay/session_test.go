package overlay

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/scrawl/internal/bindings"
	"github.com/example/scrawl/internal/canvas"
)

type testSession struct {
	*session
	presented int
	failures  int // presents left to fail
	attempts  int
	fc        *fakeChrome
}

func newTestSession(t *testing.T) *testSession {
	t.Helper()
	st, fc := newTestState()
	ts := &testSession{fc: fc}
	ts.session = newSession(st, func(*canvas.Canvas) bool {
		ts.attempts++
		if ts.failures > 0 {
			ts.failures--
			return false
		}
		ts.presented++
		return true
	}, nil)
	return ts
}

func TestSessionMouseDrawsStroke(t *testing.T) {
	s := newTestSession(t)
	s.handle(mouse.Event{X: 2, Y: 2})
	s.handle(mouse.Event{X: 2, Y: 2, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	if !s.state.Drawing() {
		t.Fatal("left press did not start drawing")
	}
	s.handle(mouse.Event{X: 15, Y: 9})
	s.handle(mouse.Event{X: 15, Y: 9, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if s.state.Drawing() {
		t.Fatal("left release did not stop drawing")
	}
	if !s.state.Canvas.History().CanUndo() {
		t.Fatal("stroke missing from history")
	}
}

func TestSessionCtrlLeftDoesNotDraw(t *testing.T) {
	s := newTestSession(t)
	s.handle(mouse.Event{Button: mouse.ButtonLeft, Direction: mouse.DirPress, Modifiers: key.ModControl})
	if s.state.Drawing() {
		t.Fatal("ctrl+left started drawing")
	}
}

func TestSessionWheelChangesBrush(t *testing.T) {
	s := newTestSession(t)
	before := s.state.Canvas.BrushSize()
	s.handle(mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep})
	if got := s.state.Canvas.BrushSize(); got != before+1 {
		t.Fatalf("brush size %d, want %d", got, before+1)
	}
}

func TestSessionKeyboardBindings(t *testing.T) {
	s := newTestSession(t)
	s.handle(key.Event{Rune: 'f', Code: key.CodeF, Direction: key.DirPress})
	if !s.state.Fullscreen() {
		t.Fatal("F did not toggle fullscreen")
	}
	s.handle(key.Event{Rune: 'f', Code: key.CodeF, Direction: key.DirRelease})
	if !s.state.Fullscreen() {
		t.Fatal("release toggled fullscreen again")
	}
	if !s.handle(key.Event{Rune: 0x11, Code: key.CodeQ, Modifiers: key.ModControl, Direction: key.DirPress}) {
		t.Fatal("ctrl+Q did not close the window")
	}
}

func TestSessionDeviceHotkeys(t *testing.T) {
	s := newTestSession(t)
	s.handle(bindings.DeviceKey{Code: key.CodeLeftControl, State: bindings.Pressed})
	s.handle(bindings.DeviceKey{Code: key.CodeLeftAlt, State: bindings.Pressed})
	s.handle(bindings.DeviceKey{Code: key.CodeD, State: bindings.Pressed})
	if s.state.Mode() != DrawModeActive {
		t.Fatal("ctrl+alt+D did not enter draw mode")
	}
	// Auto-repeat press is filtered.
	s.handle(bindings.DeviceKey{Code: key.CodeD, State: bindings.Pressed})
	if s.state.Mode() != DrawModeActive {
		t.Fatal("repeat press toggled draw mode")
	}
	s.handle(bindings.DeviceKey{Code: key.CodeD, State: bindings.Released})
	s.handle(bindings.DeviceKey{Code: key.CodeLeftControl, State: bindings.Released})
	s.handle(bindings.DeviceKey{Code: key.CodeLeftAlt, State: bindings.Released})
	s.handle(bindings.DeviceKey{Code: key.CodeEscape, State: bindings.Pressed})
	if s.state.Mode() != DrawModeInactive {
		t.Fatal("escape did not exit draw mode")
	}
}

func TestSessionLocalHotkeys(t *testing.T) {
	s := newTestSession(t)
	s.localHotkeys = true
	s.handle(key.Event{Code: key.CodeLeftControl, Direction: key.DirPress})
	s.handle(key.Event{Code: key.CodeLeftAlt, Direction: key.DirPress, Modifiers: key.ModControl})
	s.handle(key.Event{Rune: 'd', Code: key.CodeD, Direction: key.DirPress, Modifiers: key.ModControl | key.ModAlt})
	if s.state.Mode() != DrawModeActive {
		t.Fatal("local ctrl+alt+D did not enter draw mode")
	}
}

func TestSessionPaintPresentsEveryFrame(t *testing.T) {
	s := newTestSession(t)
	for i := 1; i <= 3; i++ {
		s.handle(paint.Event{})
		if s.presented != i {
			t.Fatalf("presented %d after %d paints", s.presented, i)
		}
	}
	s.handle(size.Event{WidthPx: 64, HeightPx: 48})
	s.handle(paint.Event{})
	if s.presented != 4 {
		t.Fatal("resize did not trigger a frame")
	}
	if s.state.Canvas.Width() != 64 {
		t.Fatalf("canvas width %d", s.state.Canvas.Width())
	}
}

func TestSessionRepaintsAfterRestore(t *testing.T) {
	s := newTestSession(t)
	Dispatch(bindings.EnterDrawMode, s.state)
	s.handle(mouse.Event{X: 2, Y: 2})
	s.handle(mouse.Event{X: 2, Y: 2, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	s.handle(mouse.Event{X: 12, Y: 8})
	s.handle(mouse.Event{X: 12, Y: 8, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	s.handle(paint.Event{})
	before := s.presented

	Dispatch(bindings.ExitDrawMode, s.state)
	Dispatch(bindings.EnterDrawMode, s.state)
	s.handle(lifecycle.Event{From: lifecycle.StageAlive, To: lifecycle.StageFocused})
	s.handle(paint.Event{})
	s.handle(paint.Event{})
	if s.presented != before+2 {
		t.Fatalf("presents after restore = %d, want 2", s.presented-before)
	}
}

func TestSessionRetriesFailedPresent(t *testing.T) {
	s := newTestSession(t)
	s.failures = 1
	s.handle(paint.Event{})
	if s.presented != 0 || !s.state.dirty {
		t.Fatalf("failed present: presented=%d dirty=%v", s.presented, s.state.dirty)
	}
	for i := 0; i < 5; i++ {
		s.handle(paint.Event{})
	}
	if s.attempts != 6 || s.presented != 5 {
		t.Fatalf("attempts=%d presented=%d over 6 ticks", s.attempts, s.presented)
	}
	if s.state.dirty {
		t.Fatal("dirty after a successful present")
	}
}

func TestSessionVisibilityMarksDirty(t *testing.T) {
	s := newTestSession(t)
	s.state.TakeDirty()
	s.handle(lifecycle.Event{From: lifecycle.StageAlive, To: lifecycle.StageVisible})
	if !s.state.dirty {
		t.Fatal("becoming visible did not mark the frame dirty")
	}
}

func TestSessionFocusLossResetsLocalKeys(t *testing.T) {
	s := newTestSession(t)
	s.localHotkeys = true
	Dispatch(bindings.EnterDrawMode, s.state)
	s.handle(key.Event{Code: key.CodeEscape, Direction: key.DirPress})
	if s.state.Mode() != DrawModeInactive {
		t.Fatal("escape did not exit draw mode")
	}
	// The release happens while another window has focus.
	s.handle(lifecycle.Event{From: lifecycle.StageFocused, To: lifecycle.StageVisible})
	s.handle(lifecycle.Event{From: lifecycle.StageVisible, To: lifecycle.StageFocused})
	Dispatch(bindings.EnterDrawMode, s.state)
	s.handle(key.Event{Code: key.CodeEscape, Direction: key.DirPress})
	if s.state.Mode() != DrawModeInactive {
		t.Fatal("second escape press was dropped as auto-repeat")
	}
}

func TestSessionLocalHotkeysUseEventModifiers(t *testing.T) {
	s := newTestSession(t)
	s.localHotkeys = true
	s.handle(key.Event{Code: key.CodeLeftControl, Direction: key.DirPress})
	// Control released elsewhere; the next event carries no modifiers.
	s.handle(lifecycle.Event{From: lifecycle.StageFocused, To: lifecycle.StageVisible})
	if s.mods.Mask() != 0 {
		t.Fatalf("tracked mask after focus loss: %v", bindings.FormatModifiers(s.mods.Mask()))
	}
	s.handle(key.Event{Rune: 'd', Code: key.CodeD, Direction: key.DirPress, Modifiers: key.ModAlt})
	if s.state.Mode() != DrawModeInactive {
		t.Fatal("alt+D resolved as ctrl+alt+D")
	}
	s.handle(key.Event{Code: key.CodeD, Direction: key.DirRelease, Modifiers: key.ModAlt})
	s.handle(key.Event{Rune: 'd', Code: key.CodeD, Direction: key.DirPress, Modifiers: key.ModControl | key.ModAlt})
	if s.state.Mode() != DrawModeActive {
		t.Fatal("ctrl+alt+D from event modifiers did not enter draw mode")
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestSession(t)
	s.handle(mouse.Event{X: 3, Y: 3})
	s.handle(lifecycle.Event{From: lifecycle.StageFocused, To: lifecycle.StageVisible})
	if s.state.Cursor.Current != nil {
		t.Fatal("focus loss kept the cursor")
	}
	if !s.handle(lifecycle.Event{From: lifecycle.StageVisible, To: lifecycle.StageDead}) {
		t.Fatal("dead stage did not stop the loop")
	}
}

func TestSessionStartupWithoutWindowManager(t *testing.T) {
	s := newTestSession(t)
	s.startMinimized = true
	s.handle(startup{})
	if !s.state.Minimized() || s.state.Mode() != DrawModeInactive {
		t.Fatal("start minimized not applied")
	}
}

func TestSessionAttachRetries(t *testing.T) {
	s := newTestSession(t)
	clock := time.Unix(0, 0)
	s.now = func() time.Time { return clock }
	s.startMinimized = true
	fc := &fakeChrome{}
	fails := 2
	s.attach = func() (Chrome, error) {
		if fails > 0 {
			fails--
			return nil, errors.New("not mapped yet")
		}
		return fc, nil
	}
	s.handle(startup{})
	if s.started {
		t.Fatal("started before the window manager was reached")
	}
	s.handle(paint.Event{})
	if s.attachAttempts != 1 {
		t.Fatalf("retried without waiting: %d attempts", s.attachAttempts)
	}
	for i := 0; i < 2; i++ {
		clock = clock.Add(attachRetry)
		s.handle(paint.Event{})
	}
	if !s.attached || !s.started {
		t.Fatal("attach did not complete")
	}
	if len(fc.calls) == 0 || fc.calls[0] != "borderless" {
		t.Fatalf("attached chrome calls %v", fc.calls)
	}
	if s.state.Mode() != DrawModeInactive || !s.state.Minimized() {
		t.Fatal("startup state not applied after attach")
	}
}

func TestSessionAttachGivesUp(t *testing.T) {
	s := newTestSession(t)
	clock := time.Unix(0, 0)
	s.now = func() time.Time { return clock }
	s.attach = func() (Chrome, error) { return nil, errors.New("no X") }
	s.startMinimized = false
	for i := 0; i < maxAttachAttempts; i++ {
		s.handle(paint.Event{})
		clock = clock.Add(attachRetry)
	}
	if s.attached || !s.started {
		t.Fatal("expected detached start after giving up")
	}
	if s.state.Mode() != DrawModeActive {
		t.Fatal("expected draw mode on start")
	}
}

func TestKeyChar(t *testing.T) {
	tests := []struct {
		ev   key.Event
		want string
		ok   bool
	}{
		{key.Event{Rune: 'z', Code: key.CodeZ}, "Z", true},
		{key.Event{Rune: 0x1a, Code: key.CodeZ}, "Z", true},
		{key.Event{Rune: -1, Code: key.CodeEscape}, "", false},
		{key.Event{Rune: '?', Code: key.CodeSlash}, "?", true},
	}
	for _, tc := range tests {
		got, ok := keyChar(tc.ev)
		if got != tc.want || ok != tc.ok {
			t.Errorf("%+v: got %q,%v want %q,%v", tc.ev, got, ok, tc.want, tc.ok)
		}
	}
}
