package assets

import (
	"slices"
	"strings"
	"testing"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	for _, want := range []string{"dark", "default", "high_contrast"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing embedded theme %q in %v", want, names)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}
}

func TestThemeCopies(t *testing.T) {
	a, err := Theme("default.theme")
	if err != nil {
		t.Fatalf("Theme: %v", err)
	}
	if !strings.Contains(string(a), "Brush:") {
		t.Fatalf("unexpected content %q", a)
	}
	a[0] = 'X'
	b, _ := Theme("default")
	if b[0] == 'X' {
		t.Fatal("Theme returned shared storage")
	}
	if _, err := Theme("nope"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}
