//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
	"time"
)

func psQuote(s string) string {
	escaped := strings.ReplaceAll(s, "'", "''")
	return "'" + escaped + "'"
}

// Notify displays a toast notification using the Windows notification center.
func Notify(title, body string, opts Options) error {
	script := fmt.Sprintf(`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=Windows Runtime] > $null; `+
		`$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02); `+
		`$texts = $template.GetElementsByTagName("text"); `+
		`$texts.Item(0).AppendChild($template.CreateTextNode(%s)) > $null; `+
		`$texts.Item(1).AppendChild($template.CreateTextNode(%s)) > $null; `+
		`$toast = [Windows.UI.Notifications.ToastNotification]::new($template); `+
		`%s`+
		`$notifier = [Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s); `+
		`$notifier.Show($toast);`, psQuote(title), psQuote(body), expiry(opts.Timeout), psQuote("scrawl"))
	cmd := exec.Command("powershell.exe", "-NoProfile", "-Command", script)
	return cmd.Run()
}

func expiry(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return fmt.Sprintf("$toast.ExpirationTime = [DateTimeOffset]::Now.AddSeconds(%d); ", int(d.Seconds()))
}
