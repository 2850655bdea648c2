/*
Package filesystem provides resilient filesystem operations with automatic retry logic
for NFS stale file handle errors.

The catalog content root is often an NFS export. Listing or reading a file while the
server swaps it out can fail with ESTALE; those failures are transient and retried
with exponential backoff. All other errors are returned immediately.

# Usage

	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	data, err := filesystem.ReadFileWithRetry(path, filesystem.DefaultRetryConfig())
	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())

# Retry Behavior

Defaults:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

# Metrics

Operation latency and retry outcomes are reported to the Observer registered with
SetObserver. The metrics package provides the Prometheus-backed implementation;
without one, nothing is recorded.
*/
package filesystem
