package colour

import (
	"cmp"
	"fmt"
	"runtime"
	"slices"
	"sync"
)

// parallelThreshold is the smallest reference set evaluated concurrently.
const parallelThreshold = 256

// Match is the result of a nearest colour lookup.
type Match struct {
	Name     string  `json:"name"`
	Lab      Lab     `json:"lab"`
	Distance float64 `json:"distance"`

	// Index is the position of the entry in the reference set.
	Index int `json:"index"`
}

// less orders matches by distance, then by reference set position.
func (m Match) less(o Match) bool {
	if m.Distance != o.Distance {
		return m.Distance < o.Distance
	}
	return m.Index < o.Index
}

// Matcher finds the reference colour closest to a query colour using
// CIEDE2000. A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	refs    []Reference
	workers int
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithWorkers sets the number of goroutines used to evaluate large
// reference sets. Values below 1 select runtime.GOMAXPROCS.
func WithWorkers(n int) MatcherOption {
	return func(m *Matcher) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		m.workers = n
	}
}

// NewMatcher creates a Matcher for set.
// Returns ErrEmptyReferenceSet if the set holds no entries.
func NewMatcher(set ReferenceSet, opts ...MatcherOption) (*Matcher, error) {
	if set.Len() == 0 {
		return nil, ErrEmptyReferenceSet
	}

	m := &Matcher{
		refs:    set.Entries(),
		workers: 1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Len returns the size of the reference set.
func (m *Matcher) Len() int {
	return len(m.refs)
}

// Classify returns the reference colour nearest to c. When several entries
// are at the same distance the one that comes first in the reference set
// wins, regardless of how many workers evaluate the set.
func (m *Matcher) Classify(c Lab) Match {
	if len(m.refs) == 0 {
		panic(fmt.Errorf("classify: %w", ErrEmptyReferenceSet))
	}

	if m.workers <= 1 || len(m.refs) < parallelThreshold {
		return nearestIn(m.refs, 0, c)
	}

	chunk := (len(m.refs) + m.workers - 1) / m.workers
	results := make([]Match, (len(m.refs)+chunk-1)/chunk)

	var wg sync.WaitGroup
	for i := range results {
		start := i * chunk
		end := min(start+chunk, len(m.refs))
		wg.Go(func() {
			results[i] = nearestIn(m.refs[start:end], start, c)
		})
	}
	wg.Wait()

	best := results[0]
	for _, r := range results[1:] {
		if r.less(best) {
			best = r
		}
	}
	return best
}

// Nearest returns up to n reference colours ordered from closest to
// furthest, ties broken by reference set position.
func (m *Matcher) Nearest(c Lab, n int) []Match {
	if n <= 0 {
		return nil
	}

	all := make([]Match, len(m.refs))
	for i, r := range m.refs {
		all[i] = Match{Name: r.Name, Lab: r.Lab, Distance: CIEDE2000(c, r.Lab), Index: i}
	}
	slices.SortFunc(all, func(x, y Match) int {
		if d := cmp.Compare(x.Distance, y.Distance); d != 0 {
			return d
		}
		return cmp.Compare(x.Index, y.Index)
	})

	return all[:min(n, len(all))]
}

// nearestIn scans refs sequentially, keeping the first minimum.
// offset is the position of refs[0] in the full reference set.
func nearestIn(refs []Reference, offset int, c Lab) Match {
	best := Match{Index: -1}
	for i, r := range refs {
		d := CIEDE2000(c, r.Lab)
		if best.Index < 0 || d < best.Distance {
			best = Match{Name: r.Name, Lab: r.Lab, Distance: d, Index: offset + i}
		}
	}
	return best
}
