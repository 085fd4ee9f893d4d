package cli

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/jmylchreest/swatch/internal/pipeline"
	"github.com/jmylchreest/swatch/internal/regions"
	"github.com/spf13/cobra"
)

// samplerOptions chooses the region of interest within each frame.
type samplerOptions struct {
	anchor  string
	divisor int
}

func (o *samplerOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.anchor, "anchor", "a", string(regions.AnchorCentre), "position of the sampled square (centre, top-left, top, top-right, right, bottom-right, bottom, bottom-left, left)")
	cmd.Flags().IntVar(&o.divisor, "divisor", regions.DefaultDivisor, "the sampled square's side is the frame's shorter side divided by this")
}

func (o *samplerOptions) sampler() (*regions.Sampler, error) {
	anchor, err := regions.ParseAnchor(o.anchor)
	if err != nil {
		return nil, err
	}
	s := regions.NewSampler()
	s.Anchor = anchor
	s.Divisor = o.divisor
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// newPipelineBuilder prepares a pipeline builder from the shared flags.
// Flags given on the command line take precedence over SWATCH_* variables.
func newPipelineBuilder(cmd *cobra.Command, refs *referenceOptions, sampling *samplerOptions, logger hclog.Logger) (*pipeline.Builder, error) {
	sampler, err := sampling.sampler()
	if err != nil {
		return nil, err
	}

	set, err := refs.load(logger)
	if err != nil {
		return nil, err
	}

	b := pipeline.NewBuilder().
		WithEnvConfig().
		WithReferenceSet(set).
		WithSampler(sampler).
		WithLogger(logger)

	if cmd.Flags().Changed("workers") {
		b.WithWorkers(refs.workers)
	}
	return b, nil
}

// buildPipeline is newPipelineBuilder followed by Build.
func buildPipeline(cmd *cobra.Command, refs *referenceOptions, sampling *samplerOptions, logger hclog.Logger) (*pipeline.Pipeline, error) {
	b, err := newPipelineBuilder(cmd, refs, sampling, logger)
	if err != nil {
		return nil, err
	}
	p, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	return p, nil
}
