// Package cli provides the command-line interface for Swatch.
package cli

import (
	"fmt"

	"github.com/jmylchreest/swatch/internal/refset"
	"github.com/jmylchreest/swatch/internal/version"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the swatch command tree. Each call returns a fresh tree
// so tests can execute commands independently.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swatch",
		Short: "Name the colour in front of the camera",
		Long: `Swatch samples a small square of each frame, averages the samples over a
short window and names the result by finding the closest colour in a
reference set using the CIEDE2000 colour difference.

Frames are read from image files, so a directory of captured stills can
stand in for a live camera.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newDistanceCmd())

	return rootCmd
}

// versionInfo is the build information plus the size of the built-in
// reference set.
type versionInfo struct {
	version.Info
	ReferenceColours int `json:"reference_colours"`
}

func newVersionCmd() *cobra.Command {
	var output outputOptions

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print detailed version information including build date, commit hash, Go
version and the number of colours in the built-in reference set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := output.validate(); err != nil {
				return err
			}

			set, err := refset.Builtin(refset.LayoutForLocale(""), nil)
			if err != nil {
				return fmt.Errorf("failed to load built-in reference set: %w", err)
			}
			info := versionInfo{Info: version.GetInfo(), ReferenceColours: set.Len()}

			w := cmd.OutOrStdout()
			if output.format == formatJSON {
				return writeJSON(w, info)
			}
			_, err = fmt.Fprintf(w, "%s\nbuilt-in reference set: %d colours\n", version.String(), info.ReferenceColours)
			return err
		},
	}
	cmd.Flags().StringVarP(&output.format, "format", "f", formatText, "output format (text, json)")

	return cmd
}
