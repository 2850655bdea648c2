package scanner

import (
	"context"
	"sync"
	"time"

	"portfolio/internal/metrics"
)

const (
	// DefaultPollInterval is the time between change checks
	DefaultPollInterval = 100 * time.Millisecond
)

// Poller fires a callback whenever a walk finds a file modified after the
// last detected change.
type Poller struct {
	walker      *Walker
	onChange    func()
	interval    time.Duration
	walkTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	baseline time.Time
}

// PollerOption configures a Poller
type PollerOption func(*Poller)

// WithInterval sets the tick interval. Non-positive values are ignored.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithWalkTimeout bounds a single walk. Zero disables the bound.
func WithWalkTimeout(d time.Duration) PollerOption {
	return func(p *Poller) {
		p.walkTimeout = d
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) PollerOption {
	return func(p *Poller) {
		p.now = now
	}
}

// NewPoller creates a poller over walker. The baseline starts at the current
// time, so files already on disk do not count as changes.
func NewPoller(walker *Walker, onChange func(), opts ...PollerOption) *Poller {
	p := &Poller{
		walker:   walker,
		onChange: onChange,
		interval: DefaultPollInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.baseline = p.now()
	return p
}

// Baseline returns the time of the last detected change (or of creation).
func (p *Poller) Baseline() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.baseline
}

// Interval returns the tick interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Check performs one walk and reports whether a change was detected. On a
// change the callback runs once and the baseline moves to now.
func (p *Poller) Check(ctx context.Context) bool {
	start := time.Now()
	defer func() {
		metrics.PollerCheckDuration.Observe(time.Since(start).Seconds())
		metrics.PollerChecksTotal.Inc()
	}()

	if p.walkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.walkTimeout)
		defer cancel()
	}

	files, err := p.walker.Walk(ctx)
	if err != nil {
		// an interrupted walk still checks the files it collected
		log.Debug("poll walk of %s interrupted: %v", p.walker.Root(), err)
	}

	baseline := p.Baseline()
	changed := ""
	for _, f := range files {
		if f.ModTime.After(baseline) {
			changed = f.Path
			break
		}
	}
	if changed == "" {
		return false
	}

	p.mu.Lock()
	p.baseline = p.now()
	p.mu.Unlock()

	metrics.PollerChangesDetected.Inc()
	log.Info("change detected under %s (%s), requesting rebuild", p.walker.Root(), changed)
	if p.onChange != nil {
		p.onChange()
	}
	return true
}

// Run checks for changes on every tick until ctx is canceled.
func (p *Poller) Run(ctx context.Context) error {
	log.Info("polling %s every %v", p.walker.Root(), p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Check(ctx)
		case <-ctx.Done():
			log.Info("change polling stopped")
			return ctx.Err()
		}
	}
}
