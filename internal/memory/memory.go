package memory

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"portfolio/internal/logging"
	"portfolio/internal/metrics"
)

var log = logging.With("memory")

// Config holds memory monitoring configuration
type Config struct {
	// LimitBytes is the soft limit; 0 uses GOMEMLIMIT.
	LimitBytes int64

	// HighWaterMark is the fraction of the limit above which callers should throttle.
	HighWaterMark float64

	// LowWaterMark is the fraction below which throttling ends.
	LowWaterMark float64

	CheckInterval time.Duration
}

// DefaultConfig returns the defaults used by the server.
func DefaultConfig() Config {
	return Config{
		HighWaterMark: 0.85,
		LowWaterMark:  0.7,
		CheckInterval: 5 * time.Second,
	}
}

// Monitor samples heap usage against a limit and tells image work when to
// back off. A Monitor without a limit never throttles.
type Monitor struct {
	config Config
	limit  int64
	sample func() uint64

	mu        sync.RWMutex
	current   uint64
	throttled bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor creates a monitor. Call Start to begin sampling.
func NewMonitor(config Config) *Monitor {
	limit := config.LimitBytes
	if limit == 0 {
		if goMemLimit := debug.SetMemoryLimit(-1); goMemLimit > 0 && goMemLimit < 1<<62 {
			limit = goMemLimit
		}
	}
	if limit == 0 {
		log.Debug("no memory limit configured, backpressure disabled")
	} else {
		log.Info("using memory limit %s", formatBytes(limit))
	}

	return &Monitor{
		config: config,
		limit:  limit,
		sample: heapAlloc,
	}
}

func heapAlloc() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.Alloc
}

// Start samples usage every CheckInterval until ctx is done or Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	if m.limit == 0 || m.cancel != nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.config.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.check()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends sampling and waits for the sampling goroutine.
func (m *Monitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
}

func (m *Monitor) check() {
	alloc := m.sample()
	usage := float64(alloc) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = alloc

	switch {
	case !m.throttled && usage >= m.config.HighWaterMark:
		log.Warn("memory high (%.1f%% of limit), throttling thumbnail derivation", usage*100)
		m.throttled = true
		metrics.MemoryThrottled.Set(1)
		go runtime.GC()
	case m.throttled && usage < m.config.LowWaterMark:
		log.Info("memory recovered (%.1f%% of limit), resuming thumbnail derivation", usage*100)
		m.throttled = false
		metrics.MemoryThrottled.Set(0)
	}
}

// ShouldThrottle reports whether usage crossed the high water mark and has
// not yet fallen below the low one.
func (m *Monitor) ShouldThrottle() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.throttled
}

// GetUsage returns the last sampled usage as a fraction of the limit, or 0
// when no limit is configured.
func (m *Monitor) GetUsage() float64 {
	if m.limit == 0 {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return float64(m.current) / float64(m.limit)
}

// Limit returns the limit in bytes, 0 when unlimited.
func (m *Monitor) Limit() int64 {
	return m.limit
}
