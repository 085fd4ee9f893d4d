package pipeline

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/regions"
)

// Environment variables read by WithEnvConfig.
const (
	EnvInterval = "SWATCH_INTERVAL"
	EnvWorkers  = "SWATCH_WORKERS"
)

// Builder provides a fluent API for constructing a Pipeline.
type Builder struct {
	refs       *colour.ReferenceSet
	matcher    *colour.Matcher
	workers    int
	summariser *colour.Summariser
	sampler    *regions.Sampler
	interval   time.Duration
	clock      Clock
	logger     hclog.Logger
	useEnv     bool

	// Settings made through With* calls, which the environment does not
	// override.
	workersSet  bool
	intervalSet bool
}

// NewBuilder creates a new Builder with default settings.
func NewBuilder() *Builder {
	return &Builder{
		interval: DefaultInterval,
	}
}

// WithReferenceSet sets the reference colours the pipeline matches against.
func (b *Builder) WithReferenceSet(set colour.ReferenceSet) *Builder {
	b.refs = &set
	return b
}

// WithMatcher sets a ready-made matcher. It takes precedence over
// WithReferenceSet. The matcher keeps its own worker count: Build rejects
// WithWorkers and ignores SWATCH_WORKERS when a matcher is set.
func (b *Builder) WithMatcher(m *colour.Matcher) *Builder {
	b.matcher = m
	return b
}

// WithWorkers sets how many goroutines evaluate the reference set.
// Values below 1 use every available CPU. It only applies to a matcher built
// from WithReferenceSet; see WithMatcher.
func (b *Builder) WithWorkers(n int) *Builder {
	b.workers = n
	b.workersSet = true
	return b
}

// WithSummariser sets the per-frame summariser.
func (b *Builder) WithSummariser(s *colour.Summariser) *Builder {
	b.summariser = s
	return b
}

// WithSampler sets how the region of interest is chosen.
func (b *Builder) WithSampler(s *regions.Sampler) *Builder {
	b.sampler = s
	return b
}

// WithInterval sets the aggregation cadence.
func (b *Builder) WithInterval(d time.Duration) *Builder {
	b.interval = d
	b.intervalSet = true
	return b
}

// WithClock sets the clock used for ticks and timestamps.
func (b *Builder) WithClock(c Clock) *Builder {
	b.clock = c
	return b
}

// WithLogger sets the logger. The pipeline logs under the "pipeline" name.
func (b *Builder) WithLogger(l hclog.Logger) *Builder {
	b.logger = l
	return b
}

// WithEnvConfig loads configuration from environment variables.
// Reads SWATCH_INTERVAL (a Go duration) and SWATCH_WORKERS.
// Values set explicitly with WithInterval or WithWorkers take precedence.
// SWATCH_WORKERS has no effect when WithMatcher is used.
func (b *Builder) WithEnvConfig() *Builder {
	b.useEnv = true
	return b
}

// Build constructs the Pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	if b.useEnv {
		if err := b.applyEnv(); err != nil {
			return nil, err
		}
	}

	if b.interval <= 0 {
		return nil, fmt.Errorf("aggregation interval must be positive, got %s", b.interval)
	}

	matcher := b.matcher
	if matcher != nil && b.workersSet {
		return nil, ErrWorkersWithMatcher
	}
	if matcher == nil {
		if b.refs == nil {
			return nil, ErrNoMatcher
		}
		m, err := colour.NewMatcher(*b.refs, colour.WithWorkers(b.workers))
		if err != nil {
			return nil, fmt.Errorf("failed to create matcher: %w", err)
		}
		matcher = m
	}

	sampler := b.sampler
	if sampler == nil {
		sampler = regions.NewSampler()
	}
	if err := sampler.Validate(); err != nil {
		return nil, fmt.Errorf("invalid region sampler: %w", err)
	}

	summariser := b.summariser
	if summariser == nil {
		summariser = colour.NewSummariser(nil)
	}

	clock := b.clock
	if clock == nil {
		clock = RealClock{}
	}

	logger := b.logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Pipeline{
		matcher:    matcher,
		summariser: summariser,
		sampler:    sampler,
		window:     NewWindow(),
		interval:   b.interval,
		clock:      clock,
		logger:     logger.Named("pipeline"),
	}, nil
}

func (b *Builder) applyEnv() error {
	if v := os.Getenv(EnvInterval); v != "" && !b.intervalSet {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvInterval, err)
		}
		b.interval = d
	}
	if v := os.Getenv(EnvWorkers); v != "" && !b.workersSet && b.matcher == nil {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvWorkers, err)
		}
		b.workers = n
	}
	return nil
}
