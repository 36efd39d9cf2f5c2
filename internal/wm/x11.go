// Package wm drives the overlay's host window and global hotkeys through the
// X11 window manager.
package wm

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

var (
	errNoMonitors     = errors.New("no monitors available")
	errWindowNotFound = errors.New("window not found")
)

const (
	netWMStateRemove = 0
	netWMStateAdd    = 1
	sourceNormalApp  = 1
	iconicState      = 3
	mwmHintsDecor    = 1 << 1
)

// Controller sends EWMH requests for a single top-level window.
type Controller struct {
	conn *xgb.Conn
	root xproto.Window
	win  xproto.Window
}

// Attach connects to the X server and locates the top-level window owned by
// this process whose title is title.
func Attach(title string) (*Controller, error) {
	if !supported() {
		return nil, errUnsupported
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
	win, err := findWindow(conn, root, title, uint32(os.Getpid()))
	if err != nil {
		conn.Close()
		return nil, err
	}
	c := &Controller{conn: conn, root: root, win: win}
	if err := c.setState(true, "_NET_WM_STATE_ABOVE"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("keep above: %w", err)
	}
	return c, nil
}

// Window returns the X window id being controlled.
func (c *Controller) Window() uint32 { return uint32(c.win) }

// Close drops the X connection. The window itself is left alone.
func (c *Controller) Close() {
	c.conn.Close()
}

// SetFullscreen adds or removes _NET_WM_STATE_FULLSCREEN.
func (c *Controller) SetFullscreen(on bool) error {
	if err := c.setState(on, "_NET_WM_STATE_FULLSCREEN"); err != nil {
		return fmt.Errorf("fullscreen: %w", err)
	}
	return nil
}

// SetMinimized iconifies the window, or maps and activates it again.
func (c *Controller) SetMinimized(on bool) error {
	if !on {
		if err := xproto.MapWindowChecked(c.conn, c.win).Check(); err != nil {
			return fmt.Errorf("map window: %w", err)
		}
		return c.Activate()
	}
	if err := c.clientMessage("WM_CHANGE_STATE", iconicState); err != nil {
		return fmt.Errorf("iconify: %w", err)
	}
	return nil
}

// Activate asks the window manager to raise and focus the window.
func (c *Controller) Activate() error {
	if err := c.clientMessage("_NET_ACTIVE_WINDOW", sourceNormalApp, 0, 0); err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	return nil
}

// SetDecorations toggles the title bar and border via _MOTIF_WM_HINTS.
func (c *Controller) SetDecorations(on bool) error {
	atom, err := internAtom(c.conn, "_MOTIF_WM_HINTS")
	if err != nil {
		return fmt.Errorf("decorations: %w", err)
	}
	var decor uint32
	if on {
		decor = 1
	}
	hints := []uint32{mwmHintsDecor, 0, decor, 0, 0}
	buf := make([]byte, 4*len(hints))
	for i, v := range hints {
		xgb.Put32(buf[i*4:], v)
	}
	err = xproto.ChangePropertyChecked(c.conn, xproto.PropModeReplace, c.win, atom, atom, 32, uint32(len(hints)), buf).Check()
	if err != nil {
		return fmt.Errorf("decorations: %w", err)
	}
	return nil
}

func (c *Controller) setState(on bool, names ...string) error {
	action := uint32(netWMStateRemove)
	if on {
		action = netWMStateAdd
	}
	data := []uint32{action, 0, 0, sourceNormalApp, 0}
	for i, name := range names {
		atom, err := internAtom(c.conn, name)
		if err != nil {
			return err
		}
		data[1+i] = uint32(atom)
	}
	return c.clientMessage("_NET_WM_STATE", data...)
}

func (c *Controller) clientMessage(typ string, data ...uint32) error {
	atom, err := internAtom(c.conn, typ)
	if err != nil {
		return err
	}
	payload := make([]uint32, 5)
	copy(payload, data)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: c.win,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}
	mask := uint32(xproto.EventMaskSubstructureNotify | xproto.EventMaskSubstructureRedirect)
	return xproto.SendEventChecked(c.conn, false, c.root, mask, string(ev.Bytes())).Check()
}

// PrimaryMonitor returns the bounds of the primary RandR output, or of the
// first connected output when none is marked primary.
func PrimaryMonitor() (image.Rectangle, error) {
	if !supported() {
		return image.Rectangle{}, errUnsupported
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()
	root, err := rootWindow(conn)
	if err != nil {
		return image.Rectangle{}, err
	}
	if err := randr.Init(conn); err != nil {
		return image.Rectangle{}, fmt.Errorf("init randr: %w", err)
	}
	res, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("randr screen resources: %w", err)
	}
	primary := randr.Output(0)
	if reply, err := randr.GetOutputPrimary(conn, root).Reply(); err == nil {
		primary = reply.Output
	}
	var first image.Rectangle
	found := false
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, output, res.ConfigTimestamp).Reply()
		if err != nil || info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		rect := image.Rect(int(crtc.X), int(crtc.Y), int(crtc.X)+int(crtc.Width), int(crtc.Y)+int(crtc.Height))
		if output == primary {
			return rect, nil
		}
		if !found {
			first, found = rect, true
		}
	}
	if !found {
		return image.Rectangle{}, errNoMonitors
	}
	return first, nil
}

func rootWindow(conn *xgb.Conn) (xproto.Window, error) {
	setup := xproto.Setup(conn)
	if setup == nil {
		return 0, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return 0, fmt.Errorf("xproto screen unavailable")
	}
	return screen.Root, nil
}

func findWindow(conn *xgb.Conn, root xproto.Window, title string, pid uint32) (xproto.Window, error) {
	listAtom, err := internAtom(conn, "_NET_CLIENT_LIST")
	if err != nil {
		return 0, err
	}
	reply, err := xproto.GetProperty(conn, false, root, listAtom, xproto.AtomWindow, 0, 1<<16).Reply()
	if err != nil {
		return 0, fmt.Errorf("client list: %w", err)
	}
	for idx := 0; idx < int(reply.ValueLen); idx++ {
		win := xproto.Window(xgb.Get32(reply.Value[idx*4:]))
		name := readUTF8Property(conn, win, "_NET_WM_NAME")
		if name == "" {
			name = readStringProperty(conn, win, "WM_NAME")
		}
		if name != title {
			continue
		}
		if p := readPID(conn, win); p != 0 && p != pid {
			continue
		}
		return win, nil
	}
	return 0, fmt.Errorf("%q: %w", title, errWindowNotFound)
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

func readUTF8Property(conn *xgb.Conn, win xproto.Window, name string) string {
	atom, err := internAtom(conn, name)
	if err != nil {
		return ""
	}
	utf8StringAtom, err := internAtom(conn, "UTF8_STRING")
	if err != nil {
		return ""
	}
	reply, err := xproto.GetProperty(conn, false, win, atom, utf8StringAtom, 0, 1<<16).Reply()
	if err != nil || reply.ValueLen == 0 {
		return ""
	}
	return strings.TrimRight(string(reply.Value), "\x00")
}

func readStringProperty(conn *xgb.Conn, win xproto.Window, name string) string {
	atom, err := internAtom(conn, name)
	if err != nil {
		return ""
	}
	reply, err := xproto.GetProperty(conn, false, win, atom, xproto.AtomString, 0, 1<<16).Reply()
	if err != nil || reply.ValueLen == 0 {
		return ""
	}
	return strings.TrimRight(string(reply.Value), "\x00")
}

func readPID(conn *xgb.Conn, win xproto.Window) uint32 {
	atom, err := internAtom(conn, "_NET_WM_PID")
	if err != nil {
		return 0
	}
	reply, err := xproto.GetProperty(conn, false, win, atom, xproto.AtomCardinal, 0, 1).Reply()
	if err != nil || reply.Format != 32 || reply.ValueLen == 0 {
		return 0
	}
	return xgb.Get32(reply.Value)
}
