package platform

import "strings"

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// notificationScript builds a "display notification" statement. AppleScript
// string literals only escape backslash and double quote.
func notificationScript(title, body string) string {
	return `display notification "` + appleScriptEscaper.Replace(body) +
		`" with title "` + appleScriptEscaper.Replace(title) + `"`
}
