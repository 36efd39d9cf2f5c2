package notify

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/example/scrawl/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventDrawMode emits a notification when draw mode is switched on or off.
	EventDrawMode Event = "draw_mode"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "scrawl",
		Events: map[Event]EventPreference{
			EventDrawMode: {Template: "Draw mode %s"},
		},
	}
}

// LoadPreferences reads configuration from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("SCRAWL_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	if v := strings.TrimSpace(os.Getenv("SCRAWL_NOTIFY_DRAW_MODE_TEXT")); v != "" {
		prefs.Events[EventDrawMode] = EventPreference{Template: v}
	}
	return prefs
}

// send delivers a notification; tests replace it.
var send = platform.Notify

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// DrawMode announces a draw mode transition.
func (n *Notifier) DrawMode(active bool) {
	state := "off"
	if active {
		state = "on"
	}
	n.dispatch(EventDrawMode, state, platform.Options{IconName: "applications-graphics", Timeout: 2 * time.Second})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := template
	if strings.Contains(template, "%") {
		body = fmt.Sprintf(template, strings.TrimSpace(detail))
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func (n *Notifier) template(event Event) string {
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}
