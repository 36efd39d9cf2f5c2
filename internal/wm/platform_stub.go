//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package wm

import "errors"

var errUnsupported = errors.New("window management is not supported on this platform")

func supported() bool { return false }

func runningOnWayland() bool { return false }
