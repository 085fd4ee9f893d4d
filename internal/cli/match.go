package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/spf13/cobra"
)

type matchOptions struct {
	refs   referenceOptions
	output outputOptions
	hex    string
	top    int
}

func newMatchCmd() *cobra.Command {
	opts := &matchOptions{}

	cmd := &cobra.Command{
		Use:   "match [L a b]",
		Short: "Name a single colour",
		Long: `Find the reference colours closest to a single colour given either as
CIE L*a*b* components or as an sRGB hex code.

Examples:
  swatch match 53.24 80.09 67.20
  swatch match --hex '#ff8800' --top 3
  swatch match --locale fr -- 32.3 79.2 -107.9`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.hex != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, args, opts)
		},
	}

	opts.refs.addFlags(cmd)
	opts.output.addFlags(cmd)
	cmd.Flags().StringVar(&opts.hex, "hex", "", "colour as an sRGB hex code instead of Lab components")
	cmd.Flags().IntVarP(&opts.top, "top", "n", 1, "number of closest colours to show")

	return cmd
}

func runMatch(cmd *cobra.Command, args []string, opts *matchOptions) error {
	if err := opts.output.validate(); err != nil {
		return err
	}
	if opts.top < 1 {
		return errors.New("--top must be at least 1")
	}

	var (
		query colour.Lab
		err   error
	)
	if opts.hex != "" {
		query, err = colour.LabFromHex(opts.hex)
	} else {
		query, err = parseLab(args)
	}
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	matcher, err := opts.refs.matcher(logger)
	if err != nil {
		return err
	}

	matches := matcher.Nearest(query, opts.top)
	logger.Debug("matched colour", "query", query.String(), "candidates", matcher.Len(), "results", len(matches))

	out := cmd.OutOrStdout()
	if opts.output.format == formatJSON {
		return writeJSON(out, matches)
	}

	if len(matches) == 1 {
		_, err := fmt.Fprintf(out, "%s%s\n", opts.output.swatch(out, matches[0].Lab), matches[0].Name)
		return err
	}

	table := NewTable("#", "NAME", "LAB", "HEX", "DISTANCE")
	for i, m := range matches {
		table.AddRow(
			strconv.Itoa(i+1),
			m.Name,
			m.Lab.String(),
			m.Lab.RGB().Hex(),
			strconv.FormatFloat(m.Distance, 'f', 2, 64),
		)
	}
	_, err = fmt.Fprint(out, table.Render())
	return err
}
