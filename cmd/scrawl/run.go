package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/example/scrawl/internal/bindings"
	"github.com/example/scrawl/internal/canvas"
	"github.com/example/scrawl/internal/overlay"
	"github.com/example/scrawl/internal/wm"
)

type runCmd struct {
	*root
	fs *flag.FlagSet

	minimized      bool
	size           string
	brushSize      int
	cooldown       time.Duration
	sizeFeedback   bool
	redraw         time.Duration
	globalHotkeys  bool
	hotkeyListener func() (hotkeySource, error)
}

// hotkeySource streams global key transitions.
type hotkeySource interface {
	Run(ctx context.Context, out chan<- bindings.DeviceKey) error
	SetDrawMode(active bool)
	Close()
}

func (c *runCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseRunCmd(args []string, r *root) (*runCmd, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	c := &runCmd{root: r.subcommand("run"), fs: fs}
	cfg := r.config
	fs.Usage = usageFunc(c)
	fs.BoolVar(&c.minimized, "minimized", cfg.StartMinimized, "start minimized with draw mode off")
	fs.StringVar(&c.size, "size", "", "initial window size WIDTHxHEIGHT (default: primary monitor)")
	fs.IntVar(&c.brushSize, "brush-size", cfg.Brush.Size, fmt.Sprintf("initial brush size (%d-%d)", canvas.MinBrushSize, canvas.MaxBrushSize))
	fs.DurationVar(&c.cooldown, "brush-cooldown", cfg.Brush.Cooldown, "minimum time between brush size changes")
	fs.BoolVar(&c.sizeFeedback, "size-feedback", cfg.Brush.SizeFeedback, "stamp the brush size in the corner when it changes")
	fs.DurationVar(&c.redraw, "redraw", cfg.RedrawInterval, "redraw interval; 0 redraws only after changes")
	fs.BoolVar(&c.globalHotkeys, "global-hotkeys", true, "grab draw mode hotkeys on the whole display")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.brushSize < canvas.MinBrushSize || c.brushSize > canvas.MaxBrushSize {
		return nil, fmt.Errorf("brush size %d out of range %d-%d", c.brushSize, canvas.MinBrushSize, canvas.MaxBrushSize)
	}
	if c.redraw < 0 {
		return nil, fmt.Errorf("redraw interval must not be negative")
	}
	if c.size != "" {
		if _, err := parseSize(c.size); err != nil {
			return nil, err
		}
	}
	c.hotkeyListener = func() (hotkeySource, error) {
		return wm.NewListener(wm.HotkeysFor(bindings.DeviceBindings))
	}
	return c, nil
}

func (r *root) subcommand(name string) *root {
	sub := *r
	sub.program = strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &sub
}

// parseSize reads WIDTHxHEIGHT.
func parseSize(s string) (image.Point, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("invalid size %q: want WIDTHxHEIGHT", s)
	}
	wi, err := strconv.Atoi(w)
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	hi, err := strconv.Atoi(h)
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if wi <= 0 || hi <= 0 {
		return image.Point{}, fmt.Errorf("invalid size %q: dimensions must be positive", s)
	}
	return image.Pt(wi, hi), nil
}

func (c *runCmd) windowSize() image.Point {
	if c.size != "" {
		p, _ := parseSize(c.size)
		return p
	}
	mon, err := wm.PrimaryMonitor()
	if err != nil {
		log.Printf("primary monitor: %v", err)
		return image.Point{}
	}
	return mon.Size()
}

// options assembles the overlay configuration. The returned cleanup stops
// the hotkey listener.
func (c *runCmd) options(ctx context.Context, cancel context.CancelFunc) ([]overlay.Option, func()) {
	canvasOpts := append(c.activeTheme.CanvasOptions(),
		canvas.WithBrushSize(c.brushSize),
		canvas.WithCooldown(c.cooldown),
		canvas.WithSizeFeedback(c.sizeFeedback),
	)
	opts := []overlay.Option{
		overlay.WithTitle(windowTitle()),
		overlay.WithSize(c.windowSize()),
		overlay.WithRedrawInterval(c.redraw),
		overlay.WithStartMinimized(c.minimized),
		overlay.WithCanvasOptions(canvasOpts...),
		overlay.WithChrome(func(title string) (overlay.Chrome, error) {
			ctl, err := wm.Attach(title)
			if err != nil {
				return nil, err
			}
			log.Printf("window manager: controlling window %#x", ctl.Window())
			return ctl, nil
		}),
		overlay.WithOnClose(cancel),
	}
	if c.notifier != nil {
		n := c.notifier
		opts = append(opts, overlay.WithDrawModeHook(func(active bool) { go n.DrawMode(active) }))
	}

	cleanup := func() {}
	var src hotkeySource
	var err error
	if c.globalHotkeys && c.hotkeyListener != nil {
		src, err = c.hotkeyListener()
	} else {
		err = errors.New("disabled")
	}
	if err != nil {
		log.Printf("global hotkeys: %v; using window key events", err)
		return append(opts, overlay.WithLocalHotkeys(true)), cleanup
	}

	ch := make(chan bindings.DeviceKey, 16)
	go func() {
		defer close(ch)
		if err := src.Run(ctx, ch); err != nil {
			log.Printf("hotkeys: %v", err)
		}
	}()
	opts = append(opts,
		overlay.WithHotkeys(ch),
		overlay.WithDrawModeHook(src.SetDrawMode),
	)
	return opts, src.Close
}

func (c *runCmd) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	opts, cleanup := c.options(ctx, cancel)
	defer cleanup()
	overlay.New(opts...).Run()
	return nil
}
