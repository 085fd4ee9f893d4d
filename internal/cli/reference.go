package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/refset"
	"github.com/spf13/cobra"
)

// referenceOptions selects and loads the reference set for a command.
type referenceOptions struct {
	path    string
	locale  string
	workers int
}

func (o *referenceOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.path, "reference", "r", "", "reference set file (.csv, optionally .xz, .gz or .bz2 compressed; default: built-in set)")
	cmd.Flags().StringVarP(&o.locale, "locale", "l", "", "language of colour names (default: from LC_ALL, LC_MESSAGES or LANG)")
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "parallel workers for large reference sets (0 = number of CPUs)")
}

// layout returns the column layout for the selected locale. The built-in set
// is localised and falls back to English; a user file without a locale uses
// the single-language layout.
func (o *referenceOptions) layout() refset.Layout {
	locale := o.locale
	if locale == "" {
		locale = localeFromEnv()
	}
	if locale == "" && o.path != "" {
		return refset.DefaultLayout()
	}
	return refset.LayoutForLocale(locale)
}

// load reads the reference set, either from --reference or the built-in copy.
func (o *referenceOptions) load(logger hclog.Logger) (colour.ReferenceSet, error) {
	layout := o.layout()
	logger = logger.Named("refset")

	if o.path == "" {
		set, err := refset.Builtin(layout, logger)
		if err != nil {
			return colour.ReferenceSet{}, fmt.Errorf("failed to load built-in reference set: %w", err)
		}
		logger.Debug("loaded built-in reference set", "colours", set.Len(), "name_column", layout.NameColumn)
		return set, nil
	}

	set, err := refset.LoadFile(o.path, layout, logger)
	if err != nil {
		return colour.ReferenceSet{}, err
	}
	logger.Debug("loaded reference set", "path", o.path, "colours", set.Len(), "name_column", layout.NameColumn)
	return set, nil
}

// matcher loads the reference set and wraps it in a Matcher.
func (o *referenceOptions) matcher(logger hclog.Logger) (*colour.Matcher, error) {
	set, err := o.load(logger)
	if err != nil {
		return nil, err
	}
	m, err := colour.NewMatcher(set, colour.WithWorkers(o.workers))
	if err != nil {
		return nil, fmt.Errorf("failed to create matcher: %w", err)
	}
	return m, nil
}

// localeFromEnv follows the POSIX precedence for message catalogues.
func localeFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" && v != "C" && v != "POSIX" {
			return v
		}
	}
	return ""
}
