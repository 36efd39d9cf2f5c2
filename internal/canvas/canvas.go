// Package canvas holds the overlay raster, the brush and the stroke history.
//
// A Canvas is owned by a single goroutine; none of its methods are safe for
// concurrent use.
package canvas

import (
	"image"
	"time"
)

const (
	MinBrushSize     = 1
	MaxBrushSize     = 10
	DefaultBrushSize = 2
	// BrushCooldown is the minimum gap between accepted brush size changes.
	BrushCooldown = time.Second
)

// DefaultNumberOffset is the distance of the size glyph from the bottom right
// corner.
var DefaultNumberOffset = image.Pt(20, 100)

// Canvas is a linear raster of packed colors addressed as x + y*width.
type Canvas struct {
	pix    []Color
	width  int
	height int

	brushSize      int
	brushColor     Color
	background     Color
	glyphColor     *Color
	sizeFeedback   bool
	cooldown       time.Duration
	brushChangedAt time.Time
	now            func() time.Time

	history History
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithBrushColor sets the stroke color.
func WithBrushColor(c Color) Option { return func(cv *Canvas) { cv.brushColor = c } }

// WithBrushSize sets the initial brush size, clamped to the valid range.
func WithBrushSize(n int) Option {
	return func(cv *Canvas) { cv.brushSize = clamp(n, MinBrushSize, MaxBrushSize) }
}

// WithBackground sets the fill used by Resize and Fill(nil). It defaults to
// Clear so the desktop shows through.
func WithBackground(c Color) Option { return func(cv *Canvas) { cv.background = c } }

// WithGlyphColor sets the color of the size glyph. It defaults to the brush color.
func WithGlyphColor(c Color) Option { return func(cv *Canvas) { cv.glyphColor = &c } }

// WithCooldown overrides BrushCooldown.
func WithCooldown(d time.Duration) Option { return func(cv *Canvas) { cv.cooldown = d } }

// WithClock replaces time.Now for cooldown checks.
func WithClock(now func() time.Time) Option { return func(cv *Canvas) { cv.now = now } }

// WithSizeFeedback toggles stamping the brush size glyph on accepted changes.
func WithSizeFeedback(on bool) Option { return func(cv *Canvas) { cv.sizeFeedback = on } }

// New creates a canvas of the given size filled with the background. A
// degenerate size leaves the canvas empty until the first valid Resize.
func New(width, height int, opts ...Option) *Canvas {
	c := &Canvas{
		brushSize:    DefaultBrushSize,
		brushColor:   DefaultBrushColor,
		background:   Clear,
		sizeFeedback: true,
		cooldown:     BrushCooldown,
		now:          time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	c.Resize(width, height)
	return c
}

func (c *Canvas) Width() int        { return c.width }
func (c *Canvas) Height() int       { return c.height }
func (c *Canvas) Size() image.Point { return image.Pt(c.width, c.height) }
func (c *Canvas) BrushSize() int    { return c.brushSize }
func (c *Canvas) BrushColor() Color { return c.brushColor }
func (c *Canvas) Background() Color { return c.background }
func (c *Canvas) History() *History { return &c.history }
func (c *Canvas) Pixel(i int) Color { return c.pix[i] }
func (c *Canvas) Empty() bool       { return len(c.pix) == 0 }
func (c *Canvas) Drawing() bool     { return c.history.Recording() }

// Resize reallocates the raster, fills it with the background and drops all
// history. Non-positive dimensions and an unchanged size are ignored.
func (c *Canvas) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	// The X driver drops ConfigureNotify events that keep the size, so an
	// unchanged size only reaches here from a repeated size event.
	if width == c.width && height == c.height && len(c.pix) == width*height {
		return
	}
	c.width, c.height = width, height
	c.pix = make([]Color, width*height)
	c.history.Clear()
	c.Fill(nil)
}

// Fill sets every cell to col, or to the background when col is nil. Fills
// are not recorded in history.
func (c *Canvas) Fill(col *Color) {
	v := c.background
	if col != nil {
		v = *col
	}
	for i := range c.pix {
		c.pix[i] = v
	}
}

// BrushFootprint is Footprint at the current brush size.
func (c *Canvas) BrushFootprint(center image.Point) []image.Point {
	return Footprint(center, c.brushSize)
}

// StrokeSegment returns the cell indices painted by a brush dragged from
// prev to curr. Coordinates are clamped to the raster before they are
// linearised so off-canvas strokes paint the edge.
func (c *Canvas) StrokeSegment(prev, curr image.Point) []uint32 {
	if len(c.pix) == 0 {
		return nil
	}
	seen := make(map[uint32]struct{})
	var out []uint32
	for _, p := range LinePoints(prev, curr) {
		for _, q := range c.BrushFootprint(p) {
			idx := c.clampIndex(q)
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			out = append(out, idx)
		}
	}
	return out
}

func (c *Canvas) clampIndex(p image.Point) uint32 {
	x := clamp(p.X, 0, c.width-1)
	y := clamp(p.Y, 0, c.height-1)
	return uint32(x + y*c.width)
}

// Draw paints a segment with the brush and records every write in the open
// stroke. It does nothing when no stroke is open.
func (c *Canvas) Draw(prev, curr image.Point) {
	if !c.history.Recording() {
		return
	}
	for _, idx := range c.StrokeSegment(prev, curr) {
		c.history.Record(PixelChange{Index: idx, Before: c.pix[idx], After: c.brushColor})
		c.pix[idx] = c.brushColor
	}
}

// BeginStroke opens a new stroke and clears the redo stack.
func (c *Canvas) BeginStroke() { c.history.Begin() }

// EndStroke freezes the open stroke into history. It reports whether a
// non-empty stroke was pushed.
func (c *Canvas) EndStroke() bool { return c.history.Commit() }

// Undo reverts the last stroke.
func (c *Canvas) Undo() bool { return c.history.Undo(c.pix) }

// Redo reapplies the last undone stroke.
func (c *Canvas) Redo() bool { return c.history.Redo(c.pix) }

// ClearHistory forgets all strokes without touching the raster.
func (c *Canvas) ClearHistory() { c.history.Clear() }

// ChangeBrushSize adjusts the brush by delta within [MinBrushSize,
// MaxBrushSize]. Changes inside the cooldown window, or that clamp to the
// current size, are dropped and leave the cooldown untouched.
func (c *Canvas) ChangeBrushSize(delta int) bool {
	now := c.now()
	if !c.brushChangedAt.IsZero() && now.Sub(c.brushChangedAt) < c.cooldown {
		return false
	}
	n := clamp(c.brushSize+delta, MinBrushSize, MaxBrushSize)
	if n == c.brushSize {
		return false
	}
	c.brushSize = n
	c.brushChangedAt = now
	if c.sizeFeedback {
		c.DrawNumberInCorner(n, nil)
	}
	return true
}

// DrawNumberInCorner stamps the glyph for n with its cell placed offset
// pixels in from the bottom right corner (DefaultNumberOffset when nil). The
// stamp bypasses history.
func (c *Canvas) DrawNumberInCorner(n int, offset *image.Point) {
	if len(c.pix) == 0 {
		return
	}
	off := DefaultNumberOffset
	if offset != nil {
		off = *offset
	}
	col := c.brushColor
	if c.glyphColor != nil {
		col = *c.glyphColor
	}
	origin := image.Pt(c.width-off.X-GlyphSize, c.height-off.Y-GlyphSize)
	g := NumberGlyph(n)
	for y := 0; y < GlyphSize; y++ {
		for x := 0; x < GlyphSize; x++ {
			if g.Set(x, y) {
				c.pix[c.clampIndex(origin.Add(image.Pt(x, y)))] = col
			}
		}
	}
}

// CopyTo writes the raster into dst starting at its origin, premultiplying
// alpha. Cells outside dst are skipped.
func (c *Canvas) CopyTo(dst *image.RGBA) {
	b := dst.Bounds()
	w := min(c.width, b.Dx())
	h := min(c.height, b.Dy())
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride:]
		src := c.pix[y*c.width : y*c.width+w]
		for x, px := range src {
			r, g, bl, a := px.premultiplied()
			o := x * 4
			row[o], row[o+1], row[o+2], row[o+3] = r, g, bl, a
		}
	}
}
