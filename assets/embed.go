package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// Embedded theme definitions shipped with scrawl.
//
//go:embed themes/*.theme
var embeddedThemes embed.FS

const themeExt = ".theme"

var (
	loadThemesOnce sync.Once
	loadThemesErr  error

	themeData = map[string][]byte{}
)

func loadThemes() {
	entries, err := fs.ReadDir(embeddedThemes, "themes")
	if err != nil {
		loadThemesErr = err
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, themeExt) {
			continue
		}
		data, err := embeddedThemes.ReadFile(path.Join("themes", name))
		if err != nil {
			loadThemesErr = err
			return
		}
		themeData[strings.TrimSuffix(name, themeExt)] = data
	}
}

func ensureThemes() error {
	loadThemesOnce.Do(loadThemes)
	return loadThemesErr
}

// Theme returns a copy of the embedded theme file with the given name. The
// ".theme" extension is optional.
func Theme(name string) ([]byte, error) {
	if err := ensureThemes(); err != nil {
		return nil, err
	}
	data, ok := themeData[strings.TrimSuffix(name, themeExt)]
	if !ok {
		return nil, fmt.Errorf("theme %q not embedded", name)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// ThemeNames lists the embedded themes in sorted order.
func ThemeNames() []string {
	if err := ensureThemes(); err != nil {
		return nil
	}
	names := make([]string, 0, len(themeData))
	for name := range themeData {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
