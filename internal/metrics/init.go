package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "root_unreadable", "canceled"} {
		CatalogRebuildsTotal.WithLabelValues(status)
	}

	for _, reason := range []string{"missing_info", "missing_property", "build_error"} {
		CatalogEntryErrors.WithLabelValues(reason)
	}

	for _, result := range []string{"queued", "coalesced"} {
		CatalogReloadRequests.WithLabelValues(result)
	}

	for _, op := range []string{"stat", "readdir", "readfile"} {
		FilesystemOperationDuration.WithLabelValues(op)
		FilesystemOperationErrors.WithLabelValues(op)
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}

	for _, status := range []string{"cache_hit", "generated", "throttled", "error"} {
		ThumbnailDerivationsTotal.WithLabelValues(status)
	}

	for _, resource := range []string{"thumbnail", "header"} {
		CatalogEntriesWithMedia.WithLabelValues(resource)
	}
}
