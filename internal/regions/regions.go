// Package regions selects the region of interest sampled from each frame
// and the guide rectangle drawn around it by the display layer.
//
// The region is a square whose side is a fraction of the smaller frame
// dimension. It sits in the centre of the frame by default, or against one
// of the edges or corners.
package regions

import (
	"fmt"
	"image"
)

// Anchor is where the sampling square is placed within the frame.
type Anchor string

const (
	// AnchorCentre places the square in the middle of the frame (default).
	AnchorCentre Anchor = "centre"

	AnchorTopLeft     Anchor = "top-left"
	AnchorTop         Anchor = "top"
	AnchorTopRight    Anchor = "top-right"
	AnchorRight       Anchor = "right"
	AnchorBottomRight Anchor = "bottom-right"
	AnchorBottom      Anchor = "bottom"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorLeft        Anchor = "left"
)

const (
	// DefaultDivisor gives a square of a quarter of the smaller dimension.
	DefaultDivisor = 4

	// DefaultGuideMargin is how much larger the guide is than the sampled square.
	DefaultGuideMargin = 50
)

// Sampler computes sampling and guide rectangles for a frame.
type Sampler struct {
	// Anchor is the placement of the square. Default: AnchorCentre.
	Anchor Anchor

	// Divisor sets the square side to min(width, height) / Divisor.
	// Default: 4.
	Divisor int

	// GuideMargin is added to the square side to size the guide rectangle.
	// Default: 50.
	GuideMargin int
}

// NewSampler creates a new region sampler with default settings.
func NewSampler() *Sampler {
	return &Sampler{
		Anchor:      AnchorCentre,
		Divisor:     DefaultDivisor,
		GuideMargin: DefaultGuideMargin,
	}
}

// Validate checks the sampler settings.
func (s *Sampler) Validate() error {
	if !IsValidAnchor(s.Anchor) {
		return fmt.Errorf("invalid anchor: %s (valid: %v)", s.Anchor, ValidAnchors())
	}
	if s.Divisor < 1 {
		return fmt.Errorf("divisor must be at least 1, got %d", s.Divisor)
	}
	if s.GuideMargin < 0 {
		return fmt.Errorf("guide margin cannot be negative, got %d", s.GuideMargin)
	}
	return nil
}

// Region returns the sampled square for a frame with the given bounds.
// An empty frame yields an empty rectangle.
func (s *Sampler) Region(bounds image.Rectangle) image.Rectangle {
	return s.square(bounds, s.side(bounds))
}

// Guide returns the rectangle the display layer draws around the region.
// It shares the region's anchor and is clipped to the frame.
func (s *Sampler) Guide(bounds image.Rectangle) image.Rectangle {
	side := s.side(bounds)
	if side == 0 {
		return image.Rectangle{}
	}
	return s.square(bounds, side+s.GuideMargin).Intersect(bounds)
}

func (s *Sampler) side(bounds image.Rectangle) int {
	if bounds.Empty() {
		return 0
	}
	divisor := s.Divisor
	if divisor < 1 {
		divisor = DefaultDivisor
	}
	return max(min(bounds.Dx(), bounds.Dy())/divisor, 1)
}

// square places a side x side square within bounds according to the anchor.
func (s *Sampler) square(bounds image.Rectangle, side int) image.Rectangle {
	if side == 0 {
		return image.Rectangle{}
	}

	w, h := bounds.Dx(), bounds.Dy()
	x0, y0 := bounds.Min.X, bounds.Min.Y
	cx := x0 + (w-side)/2
	cy := y0 + (h-side)/2
	right := x0 + w - side
	bottom := y0 + h - side

	var x, y int
	switch s.Anchor {
	case AnchorTopLeft:
		x, y = x0, y0
	case AnchorTop:
		x, y = cx, y0
	case AnchorTopRight:
		x, y = right, y0
	case AnchorRight:
		x, y = right, cy
	case AnchorBottomRight:
		x, y = right, bottom
	case AnchorBottom:
		x, y = cx, bottom
	case AnchorBottomLeft:
		x, y = x0, bottom
	case AnchorLeft:
		x, y = x0, cy
	default:
		x, y = cx, cy
	}

	return image.Rect(x, y, x+side, y+side)
}

// DetectionSquare returns the default centred sampling square.
func DetectionSquare(bounds image.Rectangle) image.Rectangle {
	return NewSampler().Region(bounds)
}

// GuideSquare returns the default guide rectangle around DetectionSquare.
func GuideSquare(bounds image.Rectangle) image.Rectangle {
	return NewSampler().Guide(bounds)
}

// ValidAnchors returns the supported anchors.
func ValidAnchors() []Anchor {
	return []Anchor{
		AnchorCentre,
		AnchorTopLeft,
		AnchorTop,
		AnchorTopRight,
		AnchorRight,
		AnchorBottomRight,
		AnchorBottom,
		AnchorBottomLeft,
		AnchorLeft,
	}
}

// IsValidAnchor checks if the given anchor is supported.
func IsValidAnchor(a Anchor) bool {
	for _, valid := range ValidAnchors() {
		if a == valid {
			return true
		}
	}
	return false
}

// ParseAnchor converts a flag value to an Anchor. "center" is accepted as
// an alias of "centre".
func ParseAnchor(s string) (Anchor, error) {
	if s == "center" {
		return AnchorCentre, nil
	}
	a := Anchor(s)
	if !IsValidAnchor(a) {
		return "", fmt.Errorf("invalid anchor: %s (valid: %v)", s, ValidAnchors())
	}
	return a, nil
}
