//go:build linux

package platform

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Notify sends a desktop notification using the Freedesktop.org notification spec.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("session bus: %w", err)
	}
	defer conn.Close()

	timeout := int32(-1)
	if opts.Timeout > 0 {
		timeout = int32(opts.Timeout.Milliseconds())
	}
	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"scrawl", uint32(0), opts.IconName, title, body, []string{}, map[string]dbus.Variant{}, timeout)
	return call.Err
}
