package main

import (
	"fmt"
	"strings"
)

// programTitle prefixes every window title; the window manager lookup matches
// on the full title.
const programTitle = "scrawl"

func windowTitle(extras ...string) string {
	parts := []string{programTitle}

	if v := strings.TrimSpace(version); v != "" {
		parts = append(parts, fmt.Sprintf("v%s", v))
	}
	if c := strings.TrimSpace(commit); c != "" {
		parts = append(parts, fmt.Sprintf("commit %s", c))
	}
	for _, e := range extras {
		if e = strings.TrimSpace(e); e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, " - ")
}
