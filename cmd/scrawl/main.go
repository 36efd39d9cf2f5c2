package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/scrawl/internal/config"
	"github.com/example/scrawl/internal/notify"
	"github.com/example/scrawl/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs             *flag.FlagSet
	program        string
	notifier       *notify.Notifier
	config         *config.Config
	drawModeAlerts bool
	themeName      string
	activeTheme    *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	return newRootWithConfig(cfg)
}

func newRootWithConfig(cfg *config.Config) *root {
	r := &root{
		fs:       flag.NewFlagSet("scrawl", flag.ContinueOnError),
		program:  "scrawl",
		notifier: notify.New(notify.LoadPreferences()),
		config:   cfg,
	}
	r.fs.BoolVar(&r.drawModeAlerts, "notify-draw-mode", cfg.Notify.DrawMode, "show a desktop notification when draw mode changes")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, high_contrast, or a file)")
	r.fs.Usage = usageFunc(r)
	return r
}

// resolveTheme picks the theme name by precedence and loads it, falling back
// to the default theme with a warning.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = strings.TrimSpace(os.Getenv("SCRAWL_THEME"))
	}
	if name == "" {
		name = r.config.Theme
	}
	loader := theme.NewLoader()
	loader.Custom = r.config.Themes
	t, err := loader.Load(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		return theme.Default()
	}
	return t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	r.notifier.Enable(notify.EventDrawMode, r.drawModeAlerts)
	r.activeTheme = r.resolveTheme()

	cmdName := "run"
	var subArgs []string
	if r.fs.NArg() > 0 {
		cmdName = r.fs.Arg(0)
		subArgs = r.fs.Args()[1:]
	}

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "run":
		cmd, err = parseRunCmd(subArgs, r)
	case "bindings":
		cmd, err = parseBindingsCmd(subArgs, r)
	case "themes":
		cmd, err = parseThemesCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r, out: os.Stdout}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
