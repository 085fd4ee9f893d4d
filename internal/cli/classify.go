package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/pipeline"
	"github.com/spf13/cobra"
)

// errNoUsableFrames is returned when every sampled region was pure black or white.
var errNoUsableFrames = errors.New("no usable frames: every sampled region was pure black or white")

type classifyOptions struct {
	refs     referenceOptions
	sampling samplerOptions
	output   outputOptions
	each     bool
}

// classification is the JSON form of a classify result.
type classification struct {
	Path     string     `json:"path,omitempty"`
	Name     string     `json:"name"`
	Lab      colour.Lab `json:"lab"`
	Hex      string     `json:"hex"`
	Distance float64    `json:"distance"`
	Frames   int        `json:"frames"`
}

func newClassification(path string, res pipeline.Result) classification {
	return classification{
		Path:     path,
		Name:     res.Name,
		Lab:      res.Lab,
		Hex:      res.Lab.RGB().Hex(),
		Distance: res.Distance,
		Frames:   res.Frames,
	}
}

func newClassifyCmd() *cobra.Command {
	opts := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify <image|directory>...",
		Short: "Name the colour in one or more images",
		Long: `Treat each image as one camera frame, average the frames and print the
name of the closest reference colour.

Only the square region selected by --anchor is sampled. Directories are
expanded to the images they contain. With --each every image is classified
on its own.

Supported formats: JPEG, PNG, GIF, WebP

Examples:
  swatch classify photo.jpg
  swatch classify --each --format json captures/
  swatch classify --locale fr --anchor top-left photo.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, args, opts)
		},
	}

	opts.refs.addFlags(cmd)
	opts.sampling.addFlags(cmd)
	opts.output.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.each, "each", false, "classify every image separately")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string, opts *classifyOptions) error {
	if err := opts.output.validate(); err != nil {
		return err
	}

	paths, err := image.ExpandPaths(args)
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	p, err := buildPipeline(cmd, &opts.refs, &opts.sampling, logger)
	if err != nil {
		return err
	}

	loader := image.NewFileLoader()
	var results []classification

	for _, path := range paths {
		img, err := loader.Load(path)
		if err != nil {
			return err
		}
		if err := p.SubmitFrame(img); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		logger.Debug("sampled frame", "path", path, "region", p.Region(img.Bounds()))

		if !opts.each {
			continue
		}
		res, err := p.Tick()
		if errors.Is(err, colour.ErrEmptyWindow) {
			logger.Warn("skipping image without usable pixels", "path", path)
			continue
		}
		if err != nil {
			return err
		}
		results = append(results, newClassification(path, res))
	}

	if !opts.each {
		res, err := p.Tick()
		if errors.Is(err, colour.ErrEmptyWindow) {
			return errNoUsableFrames
		}
		if err != nil {
			return err
		}
		results = append(results, newClassification("", res))
	}

	stats := p.Stats()
	logger.Debug("classification complete", "images", len(paths), "frames", stats.Frames, "degenerate", stats.Degenerate)

	if len(results) == 0 {
		return errNoUsableFrames
	}
	return writeClassifications(cmd.OutOrStdout(), results, opts)
}

func writeClassifications(w io.Writer, results []classification, opts *classifyOptions) error {
	if opts.output.format == formatJSON {
		if opts.each {
			return writeJSON(w, results)
		}
		return writeJSON(w, results[0])
	}

	for _, r := range results {
		prefix := ""
		if r.Path != "" {
			prefix = r.Path + ": "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, opts.output.swatch(w, r.Lab), r.Name); err != nil {
			return err
		}
	}
	return nil
}
