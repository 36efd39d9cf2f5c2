package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/scrawl/internal/canvas"
	"github.com/example/scrawl/internal/theme"
)

// Brush holds brush settings.
type Brush struct {
	Size         int
	Cooldown     time.Duration
	SizeFeedback bool
}

// Notify holds notification settings.
type Notify struct {
	DrawMode bool
}

// Config holds the application configuration.
type Config struct {
	Theme          string
	StartMinimized bool
	RedrawInterval time.Duration
	Brush          Brush
	Notify         Notify
	Themes         map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:          "", // Default to empty to allow fallback to Env/Default
		StartMinimized: true,
		RedrawInterval: 16 * time.Millisecond,
		Brush: Brush{
			Size:         canvas.DefaultBrushSize,
			Cooldown:     canvas.BrushCooldown,
			SizeFeedback: true,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	fmt.Fprintf(&sb, "start_minimized = %v\n", c.StartMinimized)
	fmt.Fprintf(&sb, "redraw_interval = %v\n", c.RedrawInterval)
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "size = %d\n", c.Brush.Size)
	fmt.Fprintf(&sb, "cooldown = %v\n", c.Brush.Cooldown)
	fmt.Fprintf(&sb, "size_feedback = %v\n", c.Brush.SizeFeedback)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "draw_mode = %v\n", c.Notify.DrawMode)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		sb.WriteString(c.Themes[name].String())
		sb.WriteString("\n")
	}

	return sb.String()
}
