package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"portfolio/internal/filesystem"
	"portfolio/internal/metrics"
	"portfolio/internal/scanner"
	"portfolio/internal/workers"
)

// maxBuildWorkers caps entry build concurrency when Config.Workers is unset.
const maxBuildWorkers = 16

// Layout describes how entry directories are arranged under the root.
type Layout int

const (
	// LayoutFlat: <root>/<entry>. Every entry's category is the root's name.
	LayoutFlat Layout = iota
	// LayoutCategorized: <root>/<category>/<entry>.
	LayoutCategorized
)

// ParseLayout accepts "flat" and "categorized".
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat":
		return LayoutFlat, nil
	case "categorized", "categorised", "two-level":
		return LayoutCategorized, nil
	default:
		return LayoutFlat, fmt.Errorf("unknown layout %q", s)
	}
}

func (l Layout) String() string {
	if l == LayoutCategorized {
		return "categorized"
	}
	return "flat"
}

// Config configures a Catalog.
type Config struct {
	Root             string
	Layout           Layout
	CategoryFallback CategoryFallback
	ScriptMedia      bool
	// Workers bounds concurrent entry builds; 0 picks a value from the CPU count.
	Workers int
	// RebuildTimeout bounds a single rebuild; 0 means no limit.
	RebuildTimeout time.Duration
	// RetryInterval is how often the worker re-queues a rebuild while the
	// root is unreadable; 0 uses DefaultRetryInterval.
	RetryInterval time.Duration
}

// DefaultRetryInterval is the root-failure retry period when none is configured.
const DefaultRetryInterval = time.Second

// Catalog owns the current snapshot and the machinery that replaces it.
type Catalog struct {
	cfg     Config
	builder *Builder
	workers int
	retry   filesystem.RetryConfig

	current atomic.Pointer[Snapshot]

	// rebuildMu serializes rebuilds and guards generation.
	rebuildMu  sync.Mutex
	generation uint64

	requests chan struct{}

	stateMu      sync.Mutex
	rebuilding   bool
	ready        bool
	lastRebuild  time.Time
	lastDuration time.Duration
	lastErr      error
	startTime    time.Time

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// beforePublish runs after a successful build, just before the store.
	beforePublish func()
}

// New creates a Catalog with an empty generation-0 snapshot. Nothing is read
// from disk until Rebuild runs.
func New(cfg Config) *Catalog {
	c := &Catalog{
		cfg: cfg,
		builder: NewBuilder(BuilderOptions{
			CategoryFallback: cfg.CategoryFallback,
			ScriptMedia:      cfg.ScriptMedia,
		}),
		workers:   workers.Resolve(cfg.Workers, maxBuildWorkers),
		retry:     filesystem.DefaultRetryConfig(),
		requests:  make(chan struct{}, 1),
		startTime: time.Now(),
	}
	c.current.Store(newSnapshot(nil, 0, time.Time{}))
	return c
}

// Root returns the content root directory.
func (c *Catalog) Root() string {
	return c.cfg.Root
}

// Snapshot returns the current snapshot.
func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

// Get returns the entry with the given id from the current snapshot.
func (c *Catalog) Get(id int) (*Entry, bool) {
	return c.current.Load().Get(id)
}

// List returns the entries of the current snapshot in id order.
func (c *Catalog) List() []*Entry {
	return c.current.Load().Entries()
}

// Rebuild re-reads the whole content tree and publishes it as a new
// snapshot. Entries that fail to build are left out. When the root cannot be
// listed, or ctx ends first, the current snapshot stays in place and the
// error is returned.
func (c *Catalog) Rebuild(ctx context.Context) error {
	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()

	if c.cfg.RebuildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RebuildTimeout)
		defer cancel()
	}

	start := time.Now()
	c.setRebuilding()
	metrics.CatalogRebuildInProgress.Set(1)
	defer metrics.CatalogRebuildInProgress.Set(0)

	entries, err := c.build(ctx)
	duration := time.Since(start)
	metrics.CatalogRebuildDuration.Observe(duration.Seconds())

	if err != nil {
		status := "canceled"
		if errors.Is(err, ErrRootUnreadable) {
			status = "root_unreadable"
		}
		metrics.CatalogRebuildsTotal.WithLabelValues(status).Inc()
		c.finish(err, duration)
		log.Error("rebuild failed after %v, keeping generation %d: %v", duration, c.generation, err)
		return err
	}

	if c.beforePublish != nil {
		c.beforePublish()
	}

	c.generation++
	snap := newSnapshot(entries, c.generation, time.Now())
	c.current.Store(snap)

	metrics.CatalogRebuildsTotal.WithLabelValues("success").Inc()
	metrics.CatalogEntries.Set(float64(snap.Len()))
	metrics.CatalogLastRebuildTimestamp.Set(float64(snap.BuiltAt.Unix()))
	c.finish(nil, duration)

	log.Info("rebuild complete: %d entries, generation %d, in %v", snap.Len(), snap.Generation, duration)
	return nil
}

func (c *Catalog) setRebuilding() {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.rebuilding = true
}

func (c *Catalog) finish(err error, duration time.Duration) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	c.rebuilding = false
	c.lastErr = err
	c.lastDuration = duration
	if err == nil {
		c.ready = true
		c.lastRebuild = time.Now()
	}
}

type candidate struct {
	dir      string
	category string
}

func (c *Catalog) build(ctx context.Context) ([]*Entry, error) {
	candidates, err := c.enumerate()
	if err != nil {
		return nil, err
	}
	return c.buildAll(ctx, candidates)
}

// enumerate lists entry directories in id order.
func (c *Catalog) enumerate() ([]candidate, error) {
	if c.cfg.Layout != LayoutCategorized {
		dirs, err := c.listDirs(c.cfg.Root)
		if err != nil {
			return nil, err
		}
		category := filepath.Base(filepath.Clean(c.cfg.Root))
		out := make([]candidate, len(dirs))
		for i, dir := range dirs {
			out[i] = candidate{dir: dir, category: category}
		}
		return out, nil
	}

	categories, err := c.listDirs(c.cfg.Root)
	if err != nil {
		return nil, err
	}
	var out []candidate
	for _, categoryDir := range categories {
		dirs, err := c.listDirs(categoryDir)
		if err != nil {
			return nil, err
		}
		category := filepath.Base(categoryDir)
		for _, dir := range dirs {
			out = append(out, candidate{dir: dir, category: category})
		}
	}
	return out, nil
}

// listDirs returns the non-hidden subdirectories of dir sorted by name,
// following symlinks that point at directories.
func (c *Catalog) listDirs(dir string) ([]string, error) {
	entries, err := filesystem.ReadDirWithRetry(dir, c.retry)
	if err != nil {
		return nil, &RootUnreadableError{Path: dir, Err: err}
	}

	var dirs []string
	for _, entry := range entries {
		if scanner.IsHidden(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			dirs = append(dirs, path)
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			if info, err := filesystem.StatWithRetry(path, c.retry); err == nil && info.IsDir() {
				dirs = append(dirs, path)
			}
		}
	}
	return dirs, nil
}

// buildAll builds candidates concurrently. The result keeps candidate order
// and drops entries that failed.
func (c *Catalog) buildAll(ctx context.Context, candidates []candidate) ([]*Entry, error) {
	results := make([]*Entry, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, cand := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.buildEntry(gctx, i, cand)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(results))
	for _, e := range results {
		if e != nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (c *Catalog) buildEntry(ctx context.Context, id int, cand candidate) *Entry {
	info, err := LoadInfo(id, cand.dir, cand.category)
	if err != nil {
		metrics.CatalogEntryErrors.WithLabelValues("missing_info").Inc()
		log.Warn("skipping %s: %v", cand.dir, err)
		return nil
	}

	entry, err := c.builder.Build(ctx, info)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		var missing *MissingPropertyError
		if errors.As(err, &missing) {
			metrics.CatalogEntryErrors.WithLabelValues("missing_property").Inc()
		} else {
			metrics.CatalogEntryErrors.WithLabelValues("build_error").Inc()
		}
		log.Warn("skipping %s: %v", cand.dir, err)
		return nil
	}
	return entry
}

// TriggerReload asks the rebuild worker for a rebuild without waiting. It
// returns false when a request was already pending, in which case the two
// requests are served by one rebuild.
func (c *Catalog) TriggerReload() bool {
	select {
	case c.requests <- struct{}{}:
		metrics.CatalogReloadRequests.WithLabelValues("queued").Inc()
		log.Debug("reload queued")
		return true
	default:
		metrics.CatalogReloadRequests.WithLabelValues("coalesced").Inc()
		log.Debug("reload coalesced with pending request")
		return false
	}
}

// Start launches the rebuild worker that serves TriggerReload. It runs until
// ctx ends or Stop is called. Calling Start on a running catalog does nothing.
func (c *Catalog) Start(ctx context.Context) {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	if c.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(ctx, c.done)
}

// Stop ends the rebuild worker, cancelling a rebuild in progress, and waits
// for it to exit.
func (c *Catalog) Stop() {
	c.runMu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Catalog) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	interval := c.cfg.RetryInterval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	retry := time.NewTicker(interval)
	defer retry.Stop()

	log.Info("rebuild worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info("rebuild worker stopped")
			return
		case <-c.requests:
			// Rebuild logs its own failures.
			_ = c.Rebuild(ctx)
		case <-retry.C:
			// A restored root may hold only old files, which the poller
			// never reports as changed.
			if c.rootUnreadable() {
				log.Debug("root unreadable, retrying rebuild")
				c.TriggerReload()
			}
		}
	}
}

func (c *Catalog) rootUnreadable() bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return errors.Is(c.lastErr, ErrRootUnreadable)
}

// HealthStatus contains health check information.
type HealthStatus struct {
	Ready               bool      `json:"ready"`
	Rebuilding          bool      `json:"rebuilding"`
	StartTime           time.Time `json:"startTime"`
	Uptime              string    `json:"uptime"`
	LastRebuild         time.Time `json:"lastRebuild,omitempty"`
	LastRebuildDuration string    `json:"lastRebuildDuration,omitempty"`
	LastError           string    `json:"lastError,omitempty"`
	Entries             int       `json:"entries"`
	Generation          uint64    `json:"generation"`
}

// Health reports readiness and the outcome of the latest rebuild. The
// catalog is ready once any rebuild has succeeded; a later failure is
// reported in LastError without clearing readiness.
func (c *Catalog) Health() HealthStatus {
	snap := c.current.Load()

	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	status := HealthStatus{
		Ready:       c.ready,
		Rebuilding:  c.rebuilding,
		StartTime:   c.startTime,
		Uptime:      time.Since(c.startTime).String(),
		LastRebuild: c.lastRebuild,
		Entries:     snap.Len(),
		Generation:  snap.Generation,
	}
	if c.lastDuration > 0 {
		status.LastRebuildDuration = c.lastDuration.String()
	}
	if c.lastErr != nil {
		status.LastError = c.lastErr.Error()
	}
	return status
}

// IsReady reports whether a rebuild has succeeded.
func (c *Catalog) IsReady() bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.ready
}

// GetStats summarizes the current snapshot for the metrics collector.
func (c *Catalog) GetStats() metrics.Stats {
	entries := c.current.Load().entries

	stats := metrics.Stats{Entries: len(entries)}
	categories := make(map[string]struct{})
	for _, e := range entries {
		stats.Sections += len(e.Sections)
		for _, cat := range e.Categories {
			categories[cat] = struct{}{}
		}
		if e.Thumbnail().Exists {
			stats.EntriesWithThumbnail++
		}
		if e.Header().Exists {
			stats.EntriesWithHeader++
		}
	}
	stats.Categories = len(categories)
	return stats
}

// Compile-time check that the catalog feeds the metrics collector.
var _ metrics.StatsProvider = (*Catalog)(nil)
