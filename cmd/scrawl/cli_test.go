package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/example/scrawl/internal/bindings"
	"github.com/example/scrawl/internal/config"
	"github.com/example/scrawl/internal/overlay"
	"github.com/example/scrawl/internal/theme"
)

func testRoot(t *testing.T) *root {
	t.Helper()
	t.Setenv("SCRAWL_THEME", "")
	r := newRootWithConfig(config.New())
	r.activeTheme = theme.Default()
	return r
}

func TestRootUnknownCommandIsUsageError(t *testing.T) {
	r := testRoot(t)
	err := r.Run([]string{"bogus"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UsageError, got %v", err)
	}
	if help := uerr.Error(); !strings.Contains(help, "Usage: scrawl") || !strings.Contains(help, "-theme") {
		t.Fatalf("unexpected help:\n%s", help)
	}
}

func TestSubcommandHelpRenders(t *testing.T) {
	r := testRoot(t)
	run, err := parseRunCmd(nil, r)
	if err != nil {
		t.Fatalf("parseRunCmd: %v", err)
	}
	for _, d := range []HelpData{run, &versionCmd{r: r}} {
		help, err := (&UsageError{of: d}).renderHelp()
		if err != nil {
			t.Fatalf("%s: %v", d.Template(), err)
		}
		if !strings.Contains(help, "Usage: "+d.Program()) {
			t.Errorf("%s help missing program name:\n%s", d.Template(), help)
		}
	}
}

func TestParseRunCmdDefaultsFromConfig(t *testing.T) {
	cfg := config.New()
	cfg.StartMinimized = false
	cfg.Brush.Size = 6
	r := newRootWithConfig(cfg)
	c, err := parseRunCmd(nil, r)
	if err != nil {
		t.Fatalf("parseRunCmd: %v", err)
	}
	if c.minimized || c.brushSize != 6 || c.redraw != cfg.RedrawInterval {
		t.Fatalf("flags did not default to config: %+v", c)
	}
	if c.Program() != "scrawl run" {
		t.Fatalf("program %q", c.Program())
	}
}

func TestParseRunCmdValidation(t *testing.T) {
	r := testRoot(t)
	cases := [][]string{
		{"-brush-size", "0"},
		{"-brush-size", "11"},
		{"-redraw", "-1s"},
		{"-size", "wide"},
		{"extra"},
	}
	for _, args := range cases {
		if _, err := parseRunCmd(args, r); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want image.Point
		ok   bool
	}{
		{"800x600", image.Pt(800, 600), true},
		{" 10X20 ", image.Pt(10, 20), true},
		{"0x10", image.Point{}, false},
		{"10", image.Point{}, false},
		{"ax1", image.Point{}, false},
	}
	for _, tc := range tests {
		got, err := parseSize(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("parseSize(%q) = %v, %v", tc.in, got, err)
		}
	}
}

type fakeHotkeys struct {
	ran    chan struct{}
	modes  []bool
	closed bool
}

func (f *fakeHotkeys) Run(ctx context.Context, out chan<- bindings.DeviceKey) error {
	close(f.ran)
	<-ctx.Done()
	return nil
}

func (f *fakeHotkeys) SetDrawMode(active bool) { f.modes = append(f.modes, active) }
func (f *fakeHotkeys) Close()                  { f.closed = true }

func TestRunOptionsUseGlobalHotkeys(t *testing.T) {
	r := testRoot(t)
	c, err := parseRunCmd([]string{"-size", "320x200", "-minimized=false"}, r)
	if err != nil {
		t.Fatalf("parseRunCmd: %v", err)
	}
	fh := &fakeHotkeys{ran: make(chan struct{})}
	c.hotkeyListener = func() (hotkeySource, error) { return fh, nil }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	opts, cleanup := c.options(ctx, cancel)
	<-fh.ran
	cleanup()
	if !fh.closed {
		t.Fatal("cleanup did not close the hotkey source")
	}

	app := overlay.New(opts...)
	if app.Size != image.Pt(320, 200) || app.StartMinimized {
		t.Fatalf("app config %+v", app)
	}
	if !strings.HasPrefix(app.Title, programTitle) {
		t.Fatalf("title %q", app.Title)
	}
}

func TestRunOptionsWithoutGlobalHotkeys(t *testing.T) {
	r := testRoot(t)
	c, err := parseRunCmd([]string{"-size", "64x64"}, r)
	if err != nil {
		t.Fatalf("parseRunCmd: %v", err)
	}
	c.hotkeyListener = func() (hotkeySource, error) { return nil, errors.New("no display") }
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	opts, cleanup := c.options(ctx, cancel)
	cleanup()
	if app := overlay.New(opts...); app.Size != image.Pt(64, 64) {
		t.Fatalf("size %v", app.Size)
	}
}

func TestBindingsCmd(t *testing.T) {
	r := testRoot(t)
	c, err := parseBindingsCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	c.out = &buf
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"mouse:", "keyboard:", "global:", "left", "SetDrawing", "ctrl+alt", "ToggleDrawMode", "Escape"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	c, _ = parseBindingsCmd([]string{"-actions"}, r)
	buf.Reset()
	c.out = &buf
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "\n"); got != len(bindings.Actions()) {
		t.Fatalf("listed %d actions:\n%s", got, buf.String())
	}
}

func TestThemesCmd(t *testing.T) {
	r := testRoot(t)
	c, err := parseThemesCmd([]string{"-show", "dark"}, r)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	c.out = &buf
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Name: Dark") {
		t.Fatalf("show output:\n%s", buf.String())
	}

	c, _ = parseThemesCmd(nil, r)
	buf.Reset()
	c.out = &buf
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "* default") {
		t.Fatalf("active theme not marked:\n%s", buf.String())
	}
}

func TestResolveThemePrecedence(t *testing.T) {
	r := testRoot(t)
	r.config.Theme = "high_contrast"
	if got := r.resolveTheme().Name; got != "High Contrast" {
		t.Fatalf("config theme: got %q", got)
	}
	t.Setenv("SCRAWL_THEME", "dark")
	if got := r.resolveTheme().Name; got != "Dark" {
		t.Fatalf("env theme: got %q", got)
	}
	r.themeName = "default"
	if got := r.resolveTheme().Name; got != "Default" {
		t.Fatalf("flag theme: got %q", got)
	}
	r.themeName = "no-such-theme"
	if got := r.resolveTheme().Name; got != "Default" {
		t.Fatalf("fallback: got %q", got)
	}
}

func TestConfigCmdPrint(t *testing.T) {
	r := testRoot(t)
	c, err := parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	c.out = &buf
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[brush]") {
		t.Fatalf("print output:\n%s", buf.String())
	}
	c, _ = parseConfigCmd([]string{"frobnicate"}, r)
	if err := c.Run(); err == nil {
		t.Fatal("expected error for unknown config command")
	}
	c, _ = parseConfigCmd(nil, r)
	var uerr *UsageError
	if err := c.Run(); !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestVersionAndTitle(t *testing.T) {
	r := testRoot(t)
	var buf bytes.Buffer
	if err := (&versionCmd{r: r, out: &buf}).Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "scrawl version dev") {
		t.Fatalf("version output %q", buf.String())
	}
	if got := windowTitle("draw", " "); got != "scrawl - vdev - draw" {
		t.Fatalf("windowTitle = %q", got)
	}
}
