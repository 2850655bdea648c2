package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Catalog metrics
var (
	CatalogRebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_catalog_rebuilds_total",
			Help: "Total number of catalog rebuilds by outcome",
		},
		[]string{"status"}, // "success", "root_unreadable", "canceled"
	)

	CatalogRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_catalog_rebuild_duration_seconds",
			Help:    "Duration of full catalog rebuilds in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	CatalogLastRebuildTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_catalog_last_rebuild_timestamp",
			Help: "Unix timestamp of the last successful catalog rebuild",
		},
	)

	CatalogRebuildInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_catalog_rebuild_in_progress",
			Help: "Whether a catalog rebuild is currently running (1 = running, 0 = idle)",
		},
	)

	CatalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_catalog_entries",
			Help: "Number of entries in the published catalog snapshot",
		},
	)

	CatalogEntryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_catalog_entry_errors_total",
			Help: "Entries omitted from a rebuild by reason",
		},
		[]string{"reason"}, // "missing_info", "missing_property", "build_error"
	)

	CatalogReloadRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_catalog_reload_requests_total",
			Help: "Reload requests by result",
		},
		[]string{"result"}, // "queued", "coalesced"
	)
)

// Poller metrics
var (
	PollerChecksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_poller_checks_total",
			Help: "Total number of change detection checks",
		},
	)

	PollerChangesDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_poller_changes_detected_total",
			Help: "Total number of checks that detected a change",
		},
	)

	PollerCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_poller_check_duration_seconds",
			Help:    "Duration of a single change detection check in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)
)

// Scanner metrics
var (
	ScannerFilesScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_scanner_files_scanned_total",
			Help: "Total number of files accepted by directory walks",
		},
	)

	ScannerDirectoryErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_scanner_directory_errors_total",
			Help: "Total number of directories skipped because they could not be read",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"}, // "stat", "readdir", "readfile"
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_filesystem_retry_attempts_total",
			Help: "Total number of retries after NFS stale file handle errors",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_filesystem_retry_success_total",
			Help: "Total number of operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_filesystem_retry_failures_total",
			Help: "Total number of operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_filesystem_stale_errors_total",
			Help: "Total number of NFS stale file handle errors observed",
		},
		[]string{"operation"},
	)
)

// Thumbnail metrics
var (
	ThumbnailDerivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_thumbnail_derivations_total",
			Help: "Derived thumbnail requests by status",
		},
		[]string{"status"}, // "cache_hit", "generated", "throttled", "error"
	)

	ThumbnailDerivationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_thumbnail_derivation_duration_seconds",
			Help:    "Time spent deriving a thumbnail from a header image",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the configured memory limit",
		},
	)

	MemoryThrottled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_memory_throttled",
			Help: "Whether thumbnail derivation is throttled by memory pressure (1 = throttled)",
		},
	)
)

// Catalog content metrics, refreshed by the Collector
var (
	CatalogSectionsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_catalog_sections",
			Help: "Number of sections across all catalog entries",
		},
	)

	CatalogCategoriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_catalog_categories",
			Help: "Number of distinct categories across all catalog entries",
		},
	)

	CatalogEntriesWithMedia = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portfolio_catalog_entries_with_media",
			Help: "Number of entries that have a given media resource",
		},
		[]string{"resource"}, // "thumbnail", "header"
	)
)

// AppInfo exposes build information as labels
var AppInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "portfolio_app_info",
		Help: "Application build information",
	},
	[]string{"version", "commit", "go_version"},
)
