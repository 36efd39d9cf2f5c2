// Package overlay runs the drawing overlay window: it resolves input into
// actions, dispatches them against the window state and presents the canvas.
package overlay

import (
	"image"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/paint"

	"github.com/example/scrawl/internal/bindings"
	"github.com/example/scrawl/internal/canvas"
)

// DefaultRedrawInterval is how often the redraw ticker requests a frame.
const DefaultRedrawInterval = 16 * time.Millisecond

var defaultSize = image.Pt(1280, 720)

// App holds the configuration for one overlay window.
type App struct {
	Title          string
	Size           image.Point
	RedrawInterval time.Duration
	StartMinimized bool

	canvasOpts   []canvas.Option
	attach       func(title string) (Chrome, error)
	hotkeys      <-chan bindings.DeviceKey
	localHotkeys bool
	hooks        []func(active bool)
	onClose      func()
}

// Option modifies an App during creation.
type Option func(*App)

// WithTitle sets the window title, which is also how the window manager
// connection finds the window.
func WithTitle(t string) Option { return func(a *App) { a.Title = t } }

// WithSize sets the initial window size. Non-positive sizes keep the default.
func WithSize(p image.Point) Option {
	return func(a *App) {
		if p.X > 0 && p.Y > 0 {
			a.Size = p
		}
	}
}

// WithRedrawInterval sets the redraw ticker period. Zero disables the ticker
// and frames are requested after each change instead.
func WithRedrawInterval(d time.Duration) Option { return func(a *App) { a.RedrawInterval = d } }

// WithStartMinimized starts with draw mode off and the window minimized.
func WithStartMinimized(on bool) Option { return func(a *App) { a.StartMinimized = on } }

// WithCanvasOptions configures the canvas created for the window.
func WithCanvasOptions(opts ...canvas.Option) Option {
	return func(a *App) { a.canvasOpts = append(a.canvasOpts, opts...) }
}

// WithChrome registers how to reach the window manager once the window exists.
func WithChrome(fn func(title string) (Chrome, error)) Option {
	return func(a *App) { a.attach = fn }
}

// WithHotkeys supplies a stream of device key events.
func WithHotkeys(ch <-chan bindings.DeviceKey) Option { return func(a *App) { a.hotkeys = ch } }

// WithLocalHotkeys resolves the device table from window key events, for
// platforms without global hotkeys.
func WithLocalHotkeys(on bool) Option { return func(a *App) { a.localHotkeys = on } }

// WithDrawModeHook registers a callback for draw mode transitions. It runs on
// the event loop goroutine.
func WithDrawModeHook(fn func(active bool)) Option {
	return func(a *App) { a.hooks = append(a.hooks, fn) }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *App) { a.onClose = fn } }

// New creates an App with the provided options.
func New(opts ...Option) *App {
	a := &App{
		Title:          "scrawl",
		Size:           defaultSize,
		RedrawInterval: DefaultRedrawInterval,
		StartMinimized: true,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run executes the overlay using shiny's driver. It returns when the window
// is closed.
func (a *App) Run() { driver.Main(a.Main) }

func (a *App) Main(s screen.Screen) {
	if a.onClose != nil {
		defer a.onClose()
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: a.Size.X, Height: a.Size.Y, Title: a.Title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()

	st := NewWindowState(canvas.New(a.Size.X, a.Size.Y, a.canvasOpts...), nil)
	for _, fn := range a.hooks {
		st.OnDrawModeChange(fn)
	}

	done := make(chan struct{})
	defer close(done)

	var repaint func()
	if a.RedrawInterval > 0 {
		go func() {
			t := time.NewTicker(a.RedrawInterval)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					w.Send(paint.Event{})
				case <-done:
					return
				}
			}
		}()
	} else {
		repaint = func() { w.Send(paint.Event{}) }
	}

	if a.hotkeys != nil {
		go func() {
			for {
				select {
				case dk, ok := <-a.hotkeys:
					if !ok {
						return
					}
					w.Send(dk)
				case <-done:
					return
				}
			}
		}()
	}

	p := &bufferPresenter{s: s, w: w}
	defer p.release()

	sess := newSession(st, p.present, repaint)
	sess.startMinimized = a.StartMinimized
	sess.localHotkeys = a.localHotkeys
	if a.attach != nil {
		title := a.Title
		sess.attach = func() (Chrome, error) { return a.attach(title) }
	}
	defer func() {
		if c, ok := st.chrome.(interface{ Close() }); ok {
			c.Close()
		}
	}()
	w.Send(startup{})

	for {
		if sess.handle(w.NextEvent()) {
			return
		}
	}
}

// bufferPresenter uploads the canvas through a reused shiny buffer.
type bufferPresenter struct {
	s   screen.Screen
	w   screen.Window
	buf screen.Buffer
}

// present reports whether a frame reached the window.
func (p *bufferPresenter) present(cv *canvas.Canvas) bool {
	if cv.Empty() {
		return false
	}
	sz := cv.Size()
	if p.buf == nil || p.buf.Size() != sz {
		p.release()
		b, err := p.s.NewBuffer(sz)
		if err != nil {
			log.Printf("new buffer: %v", err)
			return false
		}
		p.buf = b
	}
	cv.CopyTo(p.buf.RGBA())
	p.w.Upload(image.Point{}, p.buf, p.buf.Bounds())
	p.w.Publish()
	return true
}

func (p *bufferPresenter) release() {
	if p.buf != nil {
		p.buf.Release()
		p.buf = nil
	}
}
