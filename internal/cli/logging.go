package cli

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

// newLogger creates the root logger for a command. Output goes to the
// command's error stream so that results on stdout stay machine readable.
func newLogger(cmd *cobra.Command) hclog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	return hclog.New(&hclog.LoggerOptions{
		Name:   "swatch",
		Output: cmd.ErrOrStderr(),
		Level:  logLevel(verbose, quiet),
	})
}

// logLevel maps the global flags to a level. Quiet wins over verbose.
func logLevel(verbose, quiet bool) hclog.Level {
	switch {
	case quiet:
		return hclog.Error
	case verbose:
		return hclog.Debug
	default:
		return hclog.Info
	}
}
