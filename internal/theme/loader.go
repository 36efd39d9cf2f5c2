package theme

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/scrawl/assets"
)

// Loader handles loading themes from various sources.
type Loader struct {
	ConfigDir string
	SystemDir string
	// Custom holds themes defined inline in the config file.
	Custom map[string]*Theme
}

// NewLoader creates a new Loader with standard paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "scrawl", "themes"),
		SystemDir: "/usr/share/scrawl/themes",
	}
}

// Load attempts to load a theme by name or path.
// Order:
// 1. If it's a file path that exists, load it.
// 2. Check themes defined in the config file.
// 3. Check embedded themes.
// 4. Check ConfigDir.
// 5. Check SystemDir.
// An empty name returns Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}

	// 1. File path
	if _, err := os.Stat(name); err == nil {
		return parseFile(name)
	}

	// 2. Config sections
	if t, ok := l.Custom[name]; ok {
		c := *t
		return &c, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}

	// 3. Embedded
	if data, err := assets.Theme(filename); err == nil {
		return Parse(bytes.NewReader(data))
	}

	// 4. Config Dir, 5. System Dir
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, filename)
		if _, err := os.Stat(p); err == nil {
			return parseFile(p)
		}
	}

	return nil, fmt.Errorf("theme '%s' not found", name)
}

// Names lists every theme Load can find by name.
func (l *Loader) Names() []string {
	seen := map[string]bool{}
	for name := range l.Custom {
		seen[name] = true
	}
	for _, name := range assets.ThemeNames() {
		seen[name] = true
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		matches, _ := filepath.Glob(filepath.Join(dir, "*.theme"))
		for _, m := range matches {
			seen[strings.TrimSuffix(filepath.Base(m), ".theme")] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
