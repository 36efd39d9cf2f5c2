//go:build linux || freebsd || openbsd || netbsd || dragonfly

package wm

import (
	"errors"
	"os"
	"strings"
)

var errUnsupported = errors.New("X11 window management is unavailable")

func supported() bool {
	return os.Getenv("DISPLAY") != ""
}

func runningOnWayland() bool {
	sessionType := strings.ToLower(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")))
	if sessionType == "wayland" {
		return true
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return true
	}
	return false
}
