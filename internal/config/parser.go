package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/scrawl/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case currentSection == "brush":
			err = setBrushField(&cfg.Brush, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("error in section [%s]: %w", section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) (err error) {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "start_minimized":
		cfg.StartMinimized, err = parseBool(key, value)
	case "redraw_interval":
		cfg.RedrawInterval, err = parseDuration(key, value)
	}
	return err
}

func setBrushField(b *Brush, key, value string) (err error) {
	switch strings.ToLower(key) {
	case "size":
		b.Size, err = strconv.Atoi(value)
		if err != nil {
			err = fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
	case "cooldown":
		b.Cooldown, err = parseDuration(key, value)
	case "size_feedback":
		b.SizeFeedback, err = parseBool(key, value)
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch strings.ToLower(key) {
	case "draw_mode":
		n.DrawMode = b
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for key %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration for key %s", key)
	}
	return d, nil
}
