package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/scrawl/internal/theme"
)

type themesCmd struct {
	*root
	fs   *flag.FlagSet
	out  io.Writer
	show string
}

func (c *themesCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	fs := flag.NewFlagSet("themes", flag.ContinueOnError)
	c := &themesCmd{root: r.subcommand("themes"), fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.show, "show", "", "print the definition of the named theme")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *themesCmd) loader() *theme.Loader {
	l := theme.NewLoader()
	l.Custom = c.config.Themes
	return l
}

func (c *themesCmd) Run() error {
	l := c.loader()
	if c.show != "" {
		t, err := l.Load(c.show)
		if err != nil {
			return err
		}
		fmt.Fprint(c.out, t.String())
		return nil
	}
	active := ""
	if c.activeTheme != nil {
		active = c.activeTheme.Name
	}
	for _, name := range l.Names() {
		marker := " "
		if t, err := l.Load(name); err == nil && t.Name == active {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %s\n", marker, name)
	}
	return nil
}
