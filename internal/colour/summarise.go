package colour

import (
	"errors"
	"image"
	"slices"
)

// ErrDegenerateFrame is returned when a region holds no usable pixels,
// typically because the whole region is covered by the guide overlay.
// It is not fatal: the accompanying colour is the zero Lab value.
var ErrDegenerateFrame = errors.New("degenerate frame: no pixels left after excluding black and white")

// Summariser reduces the pixels of one frame region to a single Lab colour.
//
// The summary is a per-channel median: L, a and b are sorted independently
// and the element at index n/2 is taken from each. The result is a valid Lab
// triple but not necessarily a pixel that was actually sampled.
type Summariser struct {
	converter Converter
}

// NewSummariser creates a Summariser using the given converter.
// A nil converter selects ColorfulConverter.
func NewSummariser(conv Converter) *Summariser {
	if conv == nil {
		conv = ColorfulConverter{}
	}
	return &Summariser{converter: conv}
}

// Summarise returns the per-channel median of the pixels after dropping
// pure black and pure white pixels.
func (s *Summariser) Summarise(pixels []Pixel) (Lab, error) {
	ls := make([]float64, 0, len(pixels))
	as := make([]float64, 0, len(pixels))
	bs := make([]float64, 0, len(pixels))

	for _, p := range pixels {
		if p.IsBackground() {
			continue
		}
		lab := s.converter.ToLab(p)
		ls = append(ls, lab.L)
		as = append(as, lab.A)
		bs = append(bs, lab.B)
	}

	return medianLab(ls, as, bs)
}

// SummariseImage summarises the pixels of img that fall inside rect.
// The rectangle is clipped to the image bounds.
func (s *Summariser) SummariseImage(img image.Image, rect image.Rectangle) (Lab, error) {
	if img == nil {
		return Lab{}, ErrDegenerateFrame
	}
	rect = rect.Intersect(img.Bounds())

	pixels := make([]Pixel, 0, rect.Dx()*rect.Dy())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			pixels = append(pixels, PixelFromColor(img.At(x, y)))
		}
	}

	return s.Summarise(pixels)
}

// labWhite is the Lab value of the maximal (white) pixel.
var labWhite = Lab{L: 100}

// SummariseLab summarises a region that has already been converted to Lab.
// Exact Lab black (0,0,0) and exact Lab white (100,0,0) are excluded.
func SummariseLab(pixels []Lab) (Lab, error) {
	ls := make([]float64, 0, len(pixels))
	as := make([]float64, 0, len(pixels))
	bs := make([]float64, 0, len(pixels))

	for _, p := range pixels {
		if p == (Lab{}) || p == labWhite {
			continue
		}
		ls = append(ls, p.L)
		as = append(as, p.A)
		bs = append(bs, p.B)
	}

	return medianLab(ls, as, bs)
}

func medianLab(ls, as, bs []float64) (Lab, error) {
	if len(ls) == 0 || len(as) == 0 || len(bs) == 0 {
		return Lab{}, ErrDegenerateFrame
	}
	return Lab{L: median(ls), A: median(as), B: median(bs)}, nil
}

// median sorts values in place and returns the element at index len/2.
func median(values []float64) float64 {
	slices.Sort(values)
	return values[len(values)/2]
}
