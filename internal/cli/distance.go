package cli

import (
	"fmt"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/spf13/cobra"
)

func newDistanceCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "distance L1 a1 b1 L2 a2 b2",
		Short: "Compute the CIEDE2000 difference between two colours",
		Long: `Compute the CIEDE2000 colour difference between two CIE L*a*b* colours.
Use -- before the values when any of them are negative.

Example:
  swatch distance -- 50 2.6772 -79.7751 50 0 -82.7485`,
		Args: cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatJSON {
				return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
			}

			x, err := parseLab(args[:3])
			if err != nil {
				return err
			}
			y, err := parseLab(args[3:])
			if err != nil {
				return err
			}

			d := colour.CIEDE2000(x, y)
			out := cmd.OutOrStdout()
			if format == formatJSON {
				return writeJSON(out, struct {
					From     colour.Lab `json:"from"`
					To       colour.Lab `json:"to"`
					Distance float64    `json:"distance"`
				}{x, y, d})
			}
			_, err = fmt.Fprintf(out, "%.4f\n", d)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json)")
	return cmd
}
