// Package colour provides colour space conversion, per-frame summarisation,
// temporal aggregation and named colour matching.
package colour

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Lab is a colour in the CIE L*a*b* space.
// L is conventionally 0-100 and a/b roughly -128..127, but no range is enforced.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// String returns the colour formatted as "lab(L, a, b)".
func (c Lab) String() string {
	return fmt.Sprintf("lab(%.2f, %.2f, %.2f)", c.L, c.A, c.B)
}

// RGB returns the closest displayable sRGB value for the colour.
// Out of gamut colours are clamped.
func (c Lab) RGB() RGB {
	cf := colorful.Lab(c.L/labScale, c.A/labScale, c.B/labScale).Clamped()
	r, g, b := cf.RGB255()
	return RGB{R: r, G: g, B: b}
}

// labScale converts between go-colorful's unit Lab range and the CIE 0-100 range.
const labScale = 100.0

// Depth is the maximum channel value of a pixel representation.
type Depth uint16

const (
	// Depth8 is 8 bits per channel.
	Depth8 Depth = 0xff

	// Depth16 is 16 bits per channel, as returned by color.Color.RGBA.
	Depth16 Depth = 0xffff
)

// Pixel is a raw pixel as captured from a source buffer.
type Pixel struct {
	R, G, B, A uint16
	Depth      Depth
}

// PixelFromColor builds an 8-bit Pixel from any color.Color.
func PixelFromColor(c color.Color) Pixel {
	rgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pixel{
		R:     uint16(rgba.R),
		G:     uint16(rgba.G),
		B:     uint16(rgba.B),
		A:     uint16(rgba.A),
		Depth: Depth8,
	}
}

// IsBackground reports whether the pixel is pure black or pure white.
// All three colour channels must match exactly; alpha is ignored.
func (p Pixel) IsBackground() bool {
	if p.R == 0 && p.G == 0 && p.B == 0 {
		return true
	}
	m := uint16(p.depth())
	return p.R == m && p.G == m && p.B == m
}

func (p Pixel) depth() Depth {
	if p.Depth == 0 {
		return Depth8
	}
	return p.Depth
}

// Converter converts pixels to Lab.
type Converter interface {
	// ToLab converts a single pixel to CIE L*a*b*.
	ToLab(p Pixel) Lab
}

// ColorfulConverter converts sRGB pixels to Lab under the D65 white point.
type ColorfulConverter struct{}

// ToLab implements Converter.
func (ColorfulConverter) ToLab(p Pixel) Lab {
	full := float64(p.depth())
	c := colorful.Color{
		R: float64(p.R) / full,
		G: float64(p.G) / full,
		B: float64(p.B) / full,
	}
	l, a, b := c.Lab()
	return Lab{L: l * labScale, A: a * labScale, B: b * labScale}
}

// LabFromColor converts a color.Color to Lab with the default converter.
func LabFromColor(c color.Color) Lab {
	return ColorfulConverter{}.ToLab(PixelFromColor(c))
}

// LabFromHex parses a "#rrggbb" string and converts it to Lab.
func LabFromHex(s string) (Lab, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Lab{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	l, a, b := c.Lab()
	return Lab{L: l * labScale, A: a * labScale, B: b * labScale}, nil
}
