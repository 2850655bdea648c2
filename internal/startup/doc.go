// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig]:
//
//   - CONTENT_DIR: catalog root (default: $PANDA_HOME/content, else ./content)
//   - LAYOUT: flat or categorized (default: flat)
//   - CATEGORY_FALLBACK: empty or parent (default: empty)
//   - SCRIPT_MEDIA: serve header.js as entry header media (default: false)
//   - POLL_INTERVAL: change poller tick as Go duration (default: 100ms)
//   - POLL_WALK_TIMEOUT: bound on one poll walk (default: 10s)
//   - REBUILD_TIMEOUT: bound on one catalog rebuild (default: 1m)
//   - CATALOG_WORKERS: concurrent entry builds (default: 2 per CPU, max 16)
//   - CACHE_DIR: derived thumbnail cache (default: ./cache)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: enable or disable the metrics server (default: true)
//   - RELOAD_TOKEN_HASH: bcrypt hash required as bearer token by POST /heroes/reload
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: log media and asset requests (default: false)
//   - LOG_HEALTH_CHECKS: log health check requests (default: true)
//
// Invalid values fall back to their defaults with a warning, except
// RELOAD_TOKEN_HASH, which fails LoadConfig. MEMORY_LIMIT and MEMORY_RATIO
// are read earlier by package memory.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//
//	go build -ldflags "-X portfolio/internal/startup.Version=1.2.0 -X portfolio/internal/startup.Commit=$(git rev-parse --short HEAD)"
//
// # Lifecycle Logging
//
// [LogCatalogInit], [LogInitialRebuild], [LogPollerStarted], [LogHTTPRoutes],
// [LogServerStarted] and the shutdown helpers print the sectioned startup log.
package startup
