package wm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"golang.org/x/mobile/event/key"

	"github.com/example/scrawl/internal/bindings"
)

// Hotkey is a key plus exact modifier mask grabbed on the root window.
type Hotkey struct {
	Code key.Code
	Mods key.Modifiers
}

// Exclusive reports whether the hotkey is a bare key. Bare keys are only
// grabbed while draw mode is active so other applications keep them.
func (h Hotkey) Exclusive() bool { return h.Mods == 0 }

func (h Hotkey) String() string {
	return fmt.Sprintf("%s+%v", bindings.FormatModifiers(h.Mods), h.Code)
}

// HotkeysFor lists the distinct key and modifier pairs of a device table.
// Wildcard bindings are skipped since X grabs need a concrete mask.
func HotkeysFor(table []bindings.Binding[key.Code]) []Hotkey {
	seen := map[Hotkey]bool{}
	var out []Hotkey
	for _, b := range table {
		mask, ok := b.Modifiers.Mask()
		if !ok {
			continue
		}
		h := Hotkey{Code: b.Trigger, Mods: mask}
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}

// Listener grabs hotkeys on the root window and reports their transitions as
// device key events.
type Listener struct {
	conn    *xgb.Conn
	root    xproto.Window
	hotkeys []Hotkey
	codes   map[key.Code]xproto.Keycode
	reverse map[xproto.Keycode]key.Code

	mu       sync.Mutex
	drawMode bool
	mods     bindings.Modifiers
}

// NewListener connects to the X server and grabs every non-exclusive hotkey.
func NewListener(hotkeys []Hotkey) (*Listener, error) {
	if !supported() {
		return nil, errUnsupported
	}
	if runningOnWayland() {
		return nil, errors.New("global hotkeys are not available under Wayland")
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	root, err := rootWindow(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	l := &Listener{
		conn:    conn,
		root:    root,
		hotkeys: hotkeys,
		codes:   map[key.Code]xproto.Keycode{},
		reverse: map[xproto.Keycode]key.Code{},
	}
	if err := l.loadKeymap(); err != nil {
		conn.Close()
		return nil, err
	}
	for _, h := range hotkeys {
		if h.Exclusive() {
			continue
		}
		if err := l.grab(h); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return l, nil
}

func (l *Listener) loadKeymap() error {
	setup := xproto.Setup(l.conn)
	first := setup.MinKeycode
	count := int(setup.MaxKeycode) - int(first) + 1
	reply, err := xproto.GetKeyboardMapping(l.conn, first, byte(count)).Reply()
	if err != nil {
		return fmt.Errorf("keyboard mapping: %w", err)
	}
	for _, h := range l.hotkeys {
		sym, ok := keysymFor(h.Code)
		if !ok {
			return fmt.Errorf("hotkey %v: no keysym", h)
		}
		kc, ok := findKeycode(reply.Keysyms, int(reply.KeysymsPerKeycode), first, sym)
		if !ok {
			return fmt.Errorf("hotkey %v: keysym %#x not on keyboard", h, sym)
		}
		l.codes[h.Code] = kc
		l.reverse[kc] = h.Code
	}
	return nil
}

// SetDrawMode grabs exclusive hotkeys while draw mode is active and releases
// them otherwise.
func (l *Listener) SetDrawMode(active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.drawMode == active {
		return
	}
	l.drawMode = active
	for _, h := range l.hotkeys {
		if !h.Exclusive() {
			continue
		}
		if active {
			if err := l.grab(h); err != nil {
				log.Printf("hotkey: %v", err)
			}
			continue
		}
		l.ungrab(h)
	}
}

func (l *Listener) grab(h Hotkey) error {
	kc := l.codes[h.Code]
	for _, mask := range grabMasks(h.Mods) {
		err := xproto.GrabKeyChecked(l.conn, true, l.root, mask, kc, xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
		if err != nil {
			return fmt.Errorf("grab hotkey %v: %w", h, err)
		}
	}
	return nil
}

func (l *Listener) ungrab(h Hotkey) {
	kc := l.codes[h.Code]
	for _, mask := range grabMasks(h.Mods) {
		xproto.UngrabKey(l.conn, kc, l.root, mask)
	}
}

// Run forwards hotkey transitions to out until ctx is cancelled or the
// connection drops. Modifier changes seen in each event's state are sent
// ahead of the key itself.
func (l *Listener) Run(ctx context.Context, out chan<- bindings.DeviceKey) error {
	go func() {
		<-ctx.Done()
		l.conn.Close()
	}()
	var pending xgb.Event
	for {
		ev := pending
		pending = nil
		if ev == nil {
			var xerr xgb.Error
			ev, xerr = l.conn.WaitForEvent()
			if ev == nil && xerr == nil {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("X connection closed")
			}
			if xerr != nil {
				log.Printf("hotkey: %v", xerr)
				continue
			}
		}
		switch e := ev.(type) {
		case xproto.KeyPressEvent:
			l.emit(ctx, out, e.Detail, e.State, bindings.Pressed)
		case xproto.KeyReleaseEvent:
			next, xerr := l.conn.PollForEvent()
			if xerr != nil {
				log.Printf("hotkey: %v", xerr)
			}
			if isAutoRepeat(e, next) {
				continue
			}
			pending = next
			l.emit(ctx, out, e.Detail, e.State, bindings.Released)
		}
	}
}

// isAutoRepeat reports whether release and the queued event after it form an
// auto-repeat pair. X reports auto-repeat as a release immediately followed
// by a press of the same key with the same timestamp.
func isAutoRepeat(release xproto.KeyReleaseEvent, next xgb.Event) bool {
	p, ok := next.(xproto.KeyPressEvent)
	return ok && p.Detail == release.Detail && p.Time == release.Time
}

func (l *Listener) emit(ctx context.Context, out chan<- bindings.DeviceKey, kc xproto.Keycode, state uint16, ps bindings.PressState) {
	code, ok := l.reverse[kc]
	if !ok {
		return
	}
	l.mu.Lock()
	next := modifiersFromState(state)
	events := modifierTransitions(l.mods, next)
	l.mods = next
	l.mu.Unlock()
	events = append(events, bindings.DeviceKey{Code: code, State: ps})
	for _, dk := range events {
		select {
		case out <- dk:
		case <-ctx.Done():
			return
		}
	}
}

// Close ungrabs everything by dropping the connection.
func (l *Listener) Close() {
	l.conn.Close()
}

// grabMasks returns the X modifier masks to grab for mods, including the
// Caps Lock and Num Lock variants so the hotkey fires regardless of them.
func grabMasks(mods key.Modifiers) []uint16 {
	base := xMask(mods)
	out := make([]uint16, 0, 4)
	for _, extra := range []uint16{0, xproto.ModMaskLock, xproto.ModMask2, xproto.ModMaskLock | xproto.ModMask2} {
		out = append(out, base|extra)
	}
	return out
}

func xMask(mods key.Modifiers) uint16 {
	var m uint16
	if mods&key.ModShift != 0 {
		m |= xproto.ModMaskShift
	}
	if mods&key.ModControl != 0 {
		m |= xproto.ModMaskControl
	}
	if mods&key.ModAlt != 0 {
		m |= xproto.ModMask1
	}
	if mods&key.ModMeta != 0 {
		m |= xproto.ModMask4
	}
	return m
}

func modifiersFromState(state uint16) bindings.Modifiers {
	return bindings.Modifiers{
		Shift:   state&xproto.ModMaskShift != 0,
		Control: state&xproto.ModMaskControl != 0,
		Alt:     state&xproto.ModMask1 != 0,
		Super:   state&xproto.ModMask4 != 0,
	}
}

// modifierTransitions returns synthetic left-hand modifier key events that
// move a tracker from prev to next.
func modifierTransitions(prev, next bindings.Modifiers) []bindings.DeviceKey {
	var out []bindings.DeviceKey
	for _, m := range modifierKeys {
		was, is := prev.Get(m.name), next.Get(m.name)
		if was == is {
			continue
		}
		st := bindings.Released
		if is {
			st = bindings.Pressed
		}
		out = append(out, bindings.DeviceKey{Code: m.code, State: st})
	}
	return out
}

var modifierKeys = []struct {
	name string
	code key.Code
}{
	{"shift", key.CodeLeftShift},
	{"control", key.CodeLeftControl},
	{"alt", key.CodeLeftAlt},
	{"super", key.CodeLeftGUI},
}

func keysymFor(code key.Code) (xproto.Keysym, bool) {
	switch {
	case code >= key.CodeA && code <= key.CodeZ:
		return xproto.Keysym(0x61 + int(code-key.CodeA)), true
	case code >= key.Code1 && code <= key.Code9:
		return xproto.Keysym(0x31 + int(code-key.Code1)), true
	case code == key.Code0:
		return 0x30, true
	case code >= key.CodeF1 && code <= key.CodeF12:
		return xproto.Keysym(0xffbe + int(code-key.CodeF1)), true
	}
	switch code {
	case key.CodeEscape:
		return 0xff1b, true
	case key.CodeReturnEnter:
		return 0xff0d, true
	case key.CodeTab:
		return 0xff09, true
	case key.CodeSpacebar:
		return 0x20, true
	case key.CodeDeleteBackspace:
		return 0xff08, true
	}
	return 0, false
}

// findKeycode scans a GetKeyboardMapping table for the first keycode that
// produces sym at any shift level.
func findKeycode(syms []xproto.Keysym, perCode int, first xproto.Keycode, sym xproto.Keysym) (xproto.Keycode, bool) {
	if perCode <= 0 {
		return 0, false
	}
	for i := 0; i+perCode <= len(syms); i += perCode {
		for _, s := range syms[i : i+perCode] {
			if s == sym {
				return first + xproto.Keycode(i/perCode), true
			}
		}
	}
	return 0, false
}
