package canvas

import (
	"image"
	"image/draw"
	"strconv"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// GlyphSize is the edge length of a number glyph cell.
const GlyphSize = 16

// Glyph is a GlyphSize×GlyphSize bitmap in row-major order.
type Glyph [GlyphSize * GlyphSize]bool

// Set reports whether the cell at (x, y) is lit.
func (g *Glyph) Set(x, y int) bool { return g[x+y*GlyphSize] }

var (
	glyphMu    sync.Mutex
	glyphCache = map[int]*Glyph{}
)

// NumberGlyph returns the bitmap for n, rendered once with the 7x13 basic
// face and stretched to fill the cell.
func NumberGlyph(n int) *Glyph {
	glyphMu.Lock()
	defer glyphMu.Unlock()
	if g, ok := glyphCache[n]; ok {
		return g
	}
	g := renderGlyph(strconv.Itoa(n))
	glyphCache[n] = g
	return g
}

func renderGlyph(text string) *Glyph {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	w := d.MeasureString(text).Ceil()
	h := face.Height
	src := image.NewAlpha(image.Rect(0, 0, w, h))
	d.Dst = src
	d.Src = image.Opaque
	d.Dot = fixed.P(0, face.Ascent)
	d.DrawString(text)

	cell := image.NewAlpha(image.Rect(0, 0, GlyphSize, GlyphSize))
	xdraw.NearestNeighbor.Scale(cell, cell.Bounds(), src, src.Bounds(), draw.Src, nil)

	var g Glyph
	for y := 0; y < GlyphSize; y++ {
		for x := 0; x < GlyphSize; x++ {
			g[x+y*GlyphSize] = cell.AlphaAt(x, y).A >= 0x80
		}
	}
	return &g
}
