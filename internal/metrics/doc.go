// Package metrics provides Prometheus instrumentation for the portfolio catalog.
//
// All metrics are registered with promauto at package init and prefixed with
// "portfolio_".
//
// # Metric Categories
//
// ## Catalog
//
//   - CatalogRebuildsTotal: rebuilds by outcome (success, root_unreadable, canceled)
//   - CatalogRebuildDuration: full rebuild latency
//   - CatalogLastRebuildTimestamp, CatalogRebuildInProgress, CatalogEntries
//   - CatalogEntryErrors: entries dropped from a rebuild, by reason
//   - CatalogReloadRequests: reload triggers, queued vs coalesced
//
// ## Poller and Scanner
//
//   - PollerChecksTotal, PollerChangesDetected, PollerCheckDuration
//   - ScannerFilesScanned, ScannerDirectoryErrors
//
// ## Filesystem
//
// Operation latency and NFS retry behaviour, recorded through the
// filesystem.Observer implementation returned by NewFilesystemObserver.
//
// ## Content
//
// The Collector periodically refreshes gauges describing the published
// snapshot (sections, categories, entries with media) from a StatsProvider.
//
// ## HTTP
//
// Request counts, durations and in-flight requests, recorded by the
// middleware package.
//
// Call InitializeMetrics once at startup so labelled series exist before the
// first scrape.
package metrics
