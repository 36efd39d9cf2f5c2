//go:build darwin

package platform

import (
	"context"
	"fmt"
	"os/exec"
)

// Notify posts to Notification Center through osascript. Timeout bounds the
// osascript run; Notification Center decides how long the banner stays.
func Notify(title, body string, opts Options) error {
	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if err := exec.CommandContext(ctx, "osascript", "-e", notificationScript(title, body)).Run(); err != nil {
		return fmt.Errorf("osascript: %w", err)
	}
	return nil
}
