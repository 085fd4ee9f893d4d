package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	formatText = "text"
	formatJSON = "json"

	swatchWidth = 4
)

var outputFormats = []string{formatText, formatJSON}

// outputOptions controls how results are written to stdout.
type outputOptions struct {
	format  string
	preview bool
}

func (o *outputOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", formatText, "output format (text, json)")
	cmd.Flags().BoolVar(&o.preview, "preview", false, "show a colour swatch next to each result (terminals only)")
}

func (o *outputOptions) validate() error {
	if !slices.Contains(outputFormats, o.format) {
		return fmt.Errorf("unsupported format: %s (supported: %s)", o.format, strings.Join(outputFormats, ", "))
	}
	return nil
}

// swatch returns a colour block followed by a space when previews are
// enabled and w is a terminal, and an empty string otherwise.
func (o *outputOptions) swatch(w io.Writer, c colour.Lab) string {
	if !o.preview || !isTerminal(w) {
		return ""
	}
	return colour.Swatch(c, swatchWidth) + " "
}

// isTerminal reports whether w is attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to convert to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// parseLab parses three command-line arguments as L, a and b.
func parseLab(args []string) (colour.Lab, error) {
	if len(args) != 3 {
		return colour.Lab{}, fmt.Errorf("expected 3 values (L a b), got %d", len(args))
	}
	var v [3]float64
	for i, arg := range args {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return colour.Lab{}, fmt.Errorf("invalid Lab component %q: %w", arg, err)
		}
		v[i] = f
	}
	return colour.Lab{L: v[0], A: v[1], B: v[2]}, nil
}
