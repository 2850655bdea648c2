package metrics

import (
	"time"

	"portfolio/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats summarizes the current catalog snapshot
type Stats struct {
	Entries              int
	Sections             int
	Categories           int
	EntriesWithThumbnail int
	EntriesWithHeader    int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
	done          chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection and waits for the loop to exit
func (c *Collector) Stop() {
	close(c.stopChan)
	<-c.done
}

func (c *Collector) collectLoop() {
	defer close(c.done)

	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	CatalogSectionsTotal.Set(float64(stats.Sections))
	CatalogCategoriesTotal.Set(float64(stats.Categories))
	CatalogEntriesWithMedia.WithLabelValues("thumbnail").Set(float64(stats.EntriesWithThumbnail))
	CatalogEntriesWithMedia.WithLabelValues("header").Set(float64(stats.EntriesWithHeader))

	logging.Debug("Metrics collected: entries=%d, sections=%d, categories=%d",
		stats.Entries, stats.Sections, stats.Categories)
}
