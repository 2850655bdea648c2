/*
Package workers sizes worker pools in containerized environments.

runtime.NumCPU reports the host's CPUs, while GOMAXPROCS follows the container
CPU limit (Go 1.19+). Pool sizes here are derived from GOMAXPROCS:

	workers.ForIO(16)  // 2 per CPU, at most 16: entry building during a rebuild
	workers.ForCPU(4)  // 1 per CPU, at most 4: image decoding

Set CATALOG_WORKERS to pin the count regardless of CPU limits.
*/
package workers
