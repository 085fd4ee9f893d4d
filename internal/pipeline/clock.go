package pipeline

import (
	"sync"
	"time"
)

// Clock provides an abstraction over time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// NewTicker returns a new Ticker containing a channel that will
	// send the time with a period specified by the duration argument.
	NewTicker(d time.Duration) Ticker
}

// Ticker holds a channel that delivers "ticks" of a clock at intervals.
type Ticker interface {
	// C returns the channel on which the ticks are delivered.
	C() <-chan time.Time

	// Stop turns off a ticker.
	Stop()
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// NewTicker returns a new Ticker.
func (RealClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time { return t.ticker.C }
func (t *realTicker) Stop()               { t.ticker.Stop() }

// ManualClock is a clock whose tickers only fire when told to.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
	created chan struct{}
}

// NewManualClock creates a ManualClock set to the given time.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t, created: make(chan struct{}, 16)}
}

// Now returns the mocked current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NewTicker creates a ticker that fires on Advance.
func (c *ManualClock) NewTicker(d time.Duration) Ticker {
	t := &manualTicker{period: d, c: make(chan time.Time)}
	c.mu.Lock()
	c.tickers = append(c.tickers, t)
	c.mu.Unlock()

	select {
	case c.created <- struct{}{}:
	default:
	}
	return t
}

// WaitForTicker blocks until at least one ticker has been created.
func (c *ManualClock) WaitForTicker() {
	c.mu.Lock()
	n := len(c.tickers)
	c.mu.Unlock()
	if n > 0 {
		return
	}
	<-c.created
}

// Advance moves the clock forward by d and delivers one tick to every
// running ticker whose period has elapsed. Delivery blocks until the tick
// has been received.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	tickers := append([]*manualTicker(nil), c.tickers...)
	c.mu.Unlock()

	for _, t := range tickers {
		t.fire(now, d)
	}
}

type manualTicker struct {
	mu      sync.Mutex
	period  time.Duration
	elapsed time.Duration
	stopped bool
	c       chan time.Time
}

func (t *manualTicker) C() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *manualTicker) fire(now time.Time, d time.Duration) {
	t.mu.Lock()
	t.elapsed += d
	due := !t.stopped && t.elapsed >= t.period
	if due {
		t.elapsed = 0
	}
	t.mu.Unlock()

	if due {
		t.c <- now
	}
}
