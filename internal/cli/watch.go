package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/pipeline"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type watchOptions struct {
	refs     referenceOptions
	sampling samplerOptions
	output   outputOptions
	fps      float64
	interval time.Duration
	duration time.Duration
	loop     bool
}

func newWatchCmd() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <image|directory>...",
		Short: "Continuously name the colour of a stream of frames",
		Long: `Replay images as a live camera feed. Frames are submitted at --fps while
the pipeline averages them and prints the colour name once per --interval.

The feed runs until interrupted, until --duration elapses, or, with
--loop=false, until every image has been shown once.

Environment:
  SWATCH_INTERVAL   default aggregation interval (Go duration)
  SWATCH_WORKERS    default number of matcher workers

Examples:
  swatch watch captures/
  swatch watch --fps 5 --interval 500ms --duration 10s captures/
  swatch watch --loop=false --format json captures/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	opts.refs.addFlags(cmd)
	opts.sampling.addFlags(cmd)
	opts.output.addFlags(cmd)
	cmd.Flags().Float64Var(&opts.fps, "fps", 10, "frames submitted per second")
	cmd.Flags().DurationVarP(&opts.interval, "interval", "i", pipeline.DefaultInterval, "aggregation interval")
	cmd.Flags().DurationVarP(&opts.duration, "duration", "d", 0, "stop after this long (0 = run until interrupted)")
	cmd.Flags().BoolVar(&opts.loop, "loop", true, "repeat the images once they have all been shown")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *watchOptions) error {
	if err := opts.output.validate(); err != nil {
		return err
	}
	if opts.fps <= 0 {
		return fmt.Errorf("--fps must be positive, got %g", opts.fps)
	}
	if opts.duration < 0 {
		return fmt.Errorf("--duration must not be negative, got %s", opts.duration)
	}

	paths, err := image.ExpandPaths(args)
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	b, err := newPipelineBuilder(cmd, &opts.refs, &opts.sampling, logger)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("interval") {
		b.WithInterval(opts.interval)
	}
	p, err := b.Build()
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	out := cmd.OutOrStdout()
	write := resultWriter(out, &opts.output)
	p.Subscribe(func(res pipeline.Result) {
		if err := write(res); err != nil {
			logger.Error("failed to write result", "error", err)
		}
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := image.NewFileFrames(nil, paths)
	frames.Loop = opts.loop
	period := time.Duration(float64(time.Second) / opts.fps)

	logger.Info("watching", "images", frames.Len(), "fps", opts.fps, "interval", p.Interval())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Run(gctx)
	})
	g.Go(func() error {
		// A finite feed ends the aggregation loop too.
		defer cancel()
		return p.Feed(gctx, frames, period)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	// Classify whatever arrived after the last tick.
	if p.Pending() > 0 {
		if _, err := p.Tick(); err != nil {
			logger.Debug("final tick without result", "error", err)
		}
	}

	stats := p.Stats()
	logger.Info("stopped", "frames", stats.Frames, "degenerate", stats.Degenerate, "ticks", stats.Ticks, "empty_ticks", stats.EmptyTicks)

	if _, ok := p.Current(); !ok {
		return errNoUsableFrames
	}
	return nil
}

// resultWriter returns a function printing one line per result: plain text
// or one JSON object per line.
func resultWriter(w io.Writer, opts *outputOptions) func(pipeline.Result) error {
	if opts.format == formatJSON {
		enc := json.NewEncoder(w)
		return func(res pipeline.Result) error {
			return enc.Encode(res)
		}
	}
	return func(res pipeline.Result) error {
		_, err := fmt.Fprintf(w, "%s  %s%-16s %s  ΔE %.2f  (%d frames)\n",
			res.At.Format(time.TimeOnly), opts.swatch(w, res.Lab), res.Name, res.Lab, res.Distance, res.Frames)
		return err
	}
}
