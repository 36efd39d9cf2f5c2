package canvas

import (
	"fmt"
	"image/color"
)

// Color is a packed 0xAARRGGBB pixel with straight (non-premultiplied) alpha.
type Color uint32

const (
	// Clear is fully transparent.
	Clear Color = 0x00000000
	// DefaultBrushColor is a warm peach.
	DefaultBrushColor Color = 0xffffccaa
)

// NRGBA unpacks c.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: uint8(c >> 24)}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// ColorFrom packs any color.Color.
func ColorFrom(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color(uint32(n.A)<<24 | uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B))
}

// premultiplied returns the 8-bit premultiplied channels of c for writing
// into an image.RGBA.
func (c Color) premultiplied() (r, g, b, a uint8) {
	n := c.NRGBA()
	if n.A == 0xff {
		return n.R, n.G, n.B, n.A
	}
	mul := func(v uint8) uint8 { return uint8(uint32(v) * uint32(n.A) / 0xff) }
	return mul(n.R), mul(n.G), mul(n.B), n.A
}
