package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for 24-bit terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	defaultWidth = 8
)

// Swatch returns a solid block of width cells painted with c.
func Swatch(c Lab, width int) string {
	return SwatchWithText(c, "", width)
}

// SwatchWithText returns a block painted with c with text centred on it.
// The text is black or white, whichever reads better on the lightness of c.
func SwatchWithText(c Lab, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	rgb := c.RGB()
	bg := fmt.Sprintf("%s%d;%d;%dm", ansiBgPrefix, rgb.R, rgb.G, rgb.B)

	if text == "" {
		return bg + strings.Repeat(" ", width) + ansiReset
	}

	var fg uint8 = 255
	if c.L > 50 {
		fg = 0
	}
	fgColour := fmt.Sprintf("%s%d;%d;%dm", ansiFgPrefix, fg, fg, fg)

	runes := []rune(text)
	if len(runes) > width {
		runes = runes[:width]
	}
	pad := width - len(runes)
	left := pad / 2
	display := strings.Repeat(" ", left) + string(runes) + strings.Repeat(" ", pad-left)

	return bg + fgColour + display + ansiReset
}
