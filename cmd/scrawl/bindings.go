package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/mobile/event/key"

	"github.com/example/scrawl/internal/bindings"
)

type bindingsCmd struct {
	*root
	fs      *flag.FlagSet
	out     io.Writer
	actions bool
}

func (c *bindingsCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseBindingsCmd(args []string, r *root) (*bindingsCmd, error) {
	fs := flag.NewFlagSet("bindings", flag.ContinueOnError)
	c := &bindingsCmd{root: r.subcommand("bindings"), fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(c)
	fs.BoolVar(&c.actions, "actions", false, "list the actions instead of the binding tables")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *bindingsCmd) Run() error {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	if c.actions {
		for _, a := range bindings.Actions() {
			fmt.Fprintf(tw, "%v\t%s\n", a, a.Help())
		}
		return tw.Flush()
	}

	fmt.Fprintln(tw, "mouse:")
	for _, b := range bindings.MouseBindings {
		fmt.Fprintf(tw, "  %s\t%v\t%v\t%v\n", bindings.ButtonName(b.Trigger), b.Modifiers, b.Condition, b.Action)
	}
	fmt.Fprintln(tw, "keyboard:")
	for _, b := range bindings.KeyboardBindings {
		fmt.Fprintf(tw, "  %s\t%v\t%v\t%v\n", b.Trigger, b.Modifiers, b.Condition, b.Action)
	}
	fmt.Fprintln(tw, "global:")
	for _, b := range bindings.DeviceBindings {
		fmt.Fprintf(tw, "  %s\t%v\t%v\t%v\n", codeName(b.Trigger), b.Modifiers, b.Condition, b.Action)
	}
	return tw.Flush()
}

func codeName(c key.Code) string {
	return strings.TrimPrefix(c.String(), "Code")
}
