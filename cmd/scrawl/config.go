package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/scrawl/internal/config"
)

type configCmd struct {
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	c := &configCmd{root: r.subcommand("config"), fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		fmt.Fprint(c.out, c.config.String())
		return nil
	case "path":
		path := config.NewLoader(version, configPathOverride).GetConfigPath()
		if path == "" {
			path = "(none)"
		}
		fmt.Fprintln(c.out, path)
		return nil
	case "save":
		path, err := config.NewLoader(version, configPathOverride).Save(c.config)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
		return nil
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}
