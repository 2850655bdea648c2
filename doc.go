// Package main is the entry point for the Portfolio server.
//
// Portfolio turns a directory of entries into a read-only JSON catalog. Each
// entry directory holds an info file, optional numbered sections, body text,
// assets, a thumbnail and a header. The catalog is rebuilt whenever a poller
// sees a file change and is swapped in atomically, so readers never observe
// a half-built catalog.
//
// # Application Lifecycle
//
//  1. Memory: GOMEMLIMIT from MEMORY_LIMIT when not set explicitly
//  2. Configuration: environment variables, validated and logged
//  3. Metrics: label pre-population and the filesystem observer
//  4. Catalog: initial synchronous rebuild, then the rebuild worker
//  5. Poller: walks the content directory every POLL_INTERVAL
//  6. HTTP: API server and, when enabled, the metrics server
//  7. Shutdown on SIGINT/SIGTERM: poller, rebuild worker, servers, collectors
//
// A failed rebuild never replaces the published catalog. The server keeps
// serving the last good snapshot and reports itself degraded on /health.
//
// # HTTP Server
//
// The main server (PORT, default 8080) serves:
//
//   - GET  /heroes: entry summaries
//   - GET  /heroes/{id}: one entry with sections and body
//   - GET  /heroes/{id}/thumbnail, /header, /text, /assets/{name}: entry files
//   - POST /heroes/reload: queue a rebuild (bearer token when RELOAD_TOKEN_HASH is set)
//   - GET  /health, /healthz, /livez, /readyz, /version
//
// The metrics server (METRICS_PORT, default 9090) serves /metrics and /health.
//
// See package startup for the full list of environment variables.
package main
