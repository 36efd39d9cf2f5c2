package theme

import (
	"fmt"
	"image/color"
	"reflect"
	"strings"

	"github.com/example/scrawl/internal/canvas"
)

// Theme defines the overlay colors.
type Theme struct {
	Name string

	Background color.NRGBA // Fill behind strokes, usually transparent
	Brush      color.NRGBA // Stroke color
	Glyph      color.NRGBA // Brush size digits; zero alpha falls back to Brush
}

// Default returns the built-in theme: a clear overlay with a peach brush.
func Default() *Theme {
	return &Theme{
		Name:       "Default",
		Background: canvas.Clear.NRGBA(),
		Brush:      canvas.DefaultBrushColor.NRGBA(),
	}
}

// CanvasOptions converts t into canvas settings.
func (t *Theme) CanvasOptions() []canvas.Option {
	opts := []canvas.Option{
		canvas.WithBackground(canvas.ColorFrom(t.Background)),
		canvas.WithBrushColor(canvas.ColorFrom(t.Brush)),
	}
	if t.Glyph.A != 0 {
		opts = append(opts, canvas.WithGlyphColor(canvas.ColorFrom(t.Glyph)))
	}
	return opts
}

// String renders t in the theme file format.
func (t *Theme) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", t.Name)
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		if c, ok := val.Field(i).Interface().(color.NRGBA); ok {
			fmt.Fprintf(&sb, "%s: %s\n", typ.Field(i).Name, FormatColor(c))
		}
	}
	return sb.String()
}
