package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Parse reads a theme definition from an io.Reader.
// The format is a simple key-value pair per line: Key: #RRGGBB, #RRGGBBAA or
// an SVG color name.
func Parse(r io.Reader) (*Theme, error) {
	t := Default() // Start with defaults
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if err := t.Set(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])); err != nil {
			return nil, err
		}
	}
	return t, scanner.Err()
}

// Set assigns one field by case-insensitive name. Unknown keys are ignored
// for forward compatibility.
func (t *Theme) Set(key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		if !strings.EqualFold(typ.Field(i).Name, key) {
			continue
		}
		field := val.Field(i)
		if field.Type() != reflect.TypeOf(color.NRGBA{}) {
			return nil
		}
		col, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		field.Set(reflect.ValueOf(col))
		return nil
	}
	return nil
}

// ParseColor accepts #RRGGBB, #RRGGBBAA or a name from colornames.
func ParseColor(s string) (color.NRGBA, error) {
	if !strings.HasPrefix(s, "#") {
		c, ok := colornames.Map[strings.ToLower(s)]
		if !ok {
			return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
		}
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, err
	}
	switch len(hex) {
	case 6:
		// #RRGGBB
		return color.NRGBA{
			R: uint8(val >> 16),
			G: uint8((val >> 8) & 0xFF),
			B: uint8(val & 0xFF),
			A: 255,
		}, nil
	case 8:
		// #RRGGBBAA
		return color.NRGBA{
			R: uint8(val >> 24),
			G: uint8((val >> 16) & 0xFF),
			B: uint8((val >> 8) & 0xFF),
			A: uint8(val & 0xFF),
		}, nil
	}
	return color.NRGBA{}, fmt.Errorf("invalid hex length")
}

// FormatColor is the inverse of ParseColor for hex values.
func FormatColor(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
