// Package pipeline drives colour classification over a stream of frames.
//
// Two timing domains share one Window. The frame domain calls SubmitFrame
// once per captured frame, at whatever rate frames arrive. The aggregation
// domain calls Tick on a fixed cadence (see Run), which drains the window,
// averages the per-frame medians and resolves the result to a reference
// colour name.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/regions"
)

var (
	// ErrEmptyFrame is returned by SubmitFrame for a nil or zero-sized frame.
	ErrEmptyFrame = errors.New("frame is nil or empty")

	// ErrNoMatcher is returned by Build when no reference colours were given.
	ErrNoMatcher = errors.New("no colour matcher configured")

	// ErrWorkersWithMatcher is returned by Build when WithWorkers is combined
	// with a ready-made matcher, whose worker count is already fixed.
	ErrWorkersWithMatcher = errors.New("workers cannot be set together with a matcher")
)

// DefaultInterval is the default aggregation cadence.
const DefaultInterval = time.Second

// Result is the outcome of one aggregation tick.
type Result struct {
	Name     string     `json:"name"`
	Lab      colour.Lab `json:"lab"`
	Distance float64    `json:"distance"`

	// Frames is how many per-frame samples were averaged.
	Frames int       `json:"frames"`
	At     time.Time `json:"at"`
}

// Stats counts pipeline activity since creation.
type Stats struct {
	Frames     uint64 `json:"frames"`
	Degenerate uint64 `json:"degenerate"`
	Rejected   uint64 `json:"rejected"`
	Ticks      uint64 `json:"ticks"`
	EmptyTicks uint64 `json:"empty_ticks"`
}

// FrameSource yields frames one at a time.
type FrameSource interface {
	// Next returns the next frame, or io.EOF once the source is exhausted.
	Next() (image.Image, error)
}

// Pipeline classifies the colour seen in a stream of frames.
// Create one with NewBuilder.
type Pipeline struct {
	matcher    *colour.Matcher
	summariser *colour.Summariser
	sampler    *regions.Sampler
	window     *Window
	interval   time.Duration
	clock      Clock
	logger     hclog.Logger

	mu          sync.RWMutex
	current     Result
	hasResult   bool
	subscribers []func(Result)

	frames     atomic.Uint64
	degenerate atomic.Uint64
	rejected   atomic.Uint64
	ticks      atomic.Uint64
	emptyTicks atomic.Uint64
}

// Interval returns the aggregation cadence used by Run.
func (p *Pipeline) Interval() time.Duration {
	return p.interval
}

// Region returns the sampled square for a frame of the given bounds.
func (p *Pipeline) Region(bounds image.Rectangle) image.Rectangle {
	return p.sampler.Region(bounds)
}

// Guide returns the display rectangle drawn around the sampled square.
func (p *Pipeline) Guide(bounds image.Rectangle) image.Rectangle {
	return p.sampler.Guide(bounds)
}

// SubmitFrame summarises the region of interest of img and appends the
// result to the current window. Safe to call from any goroutine.
//
// A frame whose region holds only black or white pixels is logged and
// skipped without error. ErrEmptyFrame is returned for a nil or empty
// frame; it is not fatal and the pipeline keeps running.
func (p *Pipeline) SubmitFrame(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		p.rejected.Add(1)
		p.logger.Warn("rejected frame", "error", ErrEmptyFrame)
		return ErrEmptyFrame
	}

	region := p.sampler.Region(img.Bounds())
	lab, err := p.summariser.SummariseImage(img, region)
	if errors.Is(err, colour.ErrDegenerateFrame) {
		p.degenerate.Add(1)
		p.logger.Debug("degenerate frame skipped", "region", region)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to summarise frame: %w", err)
	}

	p.SubmitSample(lab)
	return nil
}

// SubmitSample appends an already summarised frame to the current window.
func (p *Pipeline) SubmitSample(lab colour.Lab) {
	p.window.Append(lab)
	p.frames.Add(1)
}

// Pending returns the number of samples waiting for the next tick.
func (p *Pipeline) Pending() int {
	return p.window.Len()
}

// Tick closes the current window and classifies its mean colour.
//
// When the window is empty it returns colour.ErrEmptyWindow along with the
// last known result, which is left in place. Subscribers are only notified
// of new results.
func (p *Pipeline) Tick() (Result, error) {
	p.ticks.Add(1)

	mean, n, err := p.window.Aggregate()
	if err != nil {
		p.emptyTicks.Add(1)
		last, _ := p.Current()
		return last, err
	}

	match := p.matcher.Classify(mean)
	res := Result{
		Name:     match.Name,
		Lab:      mean,
		Distance: match.Distance,
		Frames:   n,
		At:       p.clock.Now(),
	}

	p.mu.Lock()
	p.current = res
	p.hasResult = true
	subscribers := slices.Clone(p.subscribers)
	p.mu.Unlock()

	p.logger.Debug("classified window", "name", res.Name, "lab", res.Lab.String(), "distance", res.Distance, "frames", n)

	for _, fn := range subscribers {
		fn(res)
	}
	return res, nil
}

// Current returns the last classification. The boolean is false until the
// first non-empty window has been classified.
func (p *Pipeline) Current() (Result, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.hasResult
}

// Subscribe registers fn to be called with every new result.
// fn runs on the aggregation goroutine and should return quickly.
func (p *Pipeline) Subscribe(fn func(Result)) {
	p.mu.Lock()
	p.subscribers = append(p.subscribers, fn)
	p.mu.Unlock()
}

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Frames:     p.frames.Load(),
		Degenerate: p.degenerate.Load(),
		Rejected:   p.rejected.Load(),
		Ticks:      p.ticks.Load(),
		EmptyTicks: p.emptyTicks.Load(),
	}
}

// Run calls Tick every interval until ctx is cancelled. Tick errors are
// logged and never stop the loop.
func (p *Pipeline) Run(ctx context.Context) error {
	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Debug("aggregation started", "interval", p.interval)
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("aggregation stopped")
			return nil
		case <-ticker.C():
			if _, err := p.Tick(); err != nil {
				p.logger.Debug("tick without result", "error", err)
			}
		}
	}
}

// Feed submits frames from src every period until the source is exhausted
// or ctx is cancelled. Frame errors are logged and skipped.
func (p *Pipeline) Feed(ctx context.Context, src FrameSource, period time.Duration) error {
	ticker := p.clock.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			img, err := src.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				p.logger.Warn("failed to read frame", "error", err)
				continue
			}
			if err := p.SubmitFrame(img); err != nil {
				p.logger.Warn("failed to submit frame", "error", err)
			}
		}
	}
}
