package platform

import "time"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconName is a freedesktop icon name shown where supported.
	IconName string
	// Timeout bounds how long the notification stays on screen. Zero leaves
	// it to the notification server.
	Timeout time.Duration
}
