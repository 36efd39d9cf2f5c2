//go:build !linux && !darwin && !windows

package platform

// Notify drops the notification; there is no desktop notifier to reach.
func Notify(string, string, Options) error { return nil }
