package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

type versionCmd struct {
	r   *root
	out io.Writer
}

func (v *versionCmd) Program() string        { return v.r.program + " version" }
func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }

func (v *versionCmd) Run() error {
	line := fmt.Sprintf("%s version %s", v.r.program, version)
	if c := strings.TrimSpace(commit); c != "" {
		line += " (" + c + ")"
	}
	if d := strings.TrimSpace(date); d != "" {
		line += " built " + d
	}
	fmt.Fprintln(v.out, line)
	return nil
}
