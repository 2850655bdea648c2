package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"portfolio/internal/catalog"
	"portfolio/internal/logging"
	"portfolio/internal/scanner"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Defaults for the duration settings
const (
	DefaultPollWalkTimeout = 10 * time.Second
	DefaultRebuildTimeout  = time.Minute
)

// Config holds all application configuration
type Config struct {
	ContentDir       string
	Layout           catalog.Layout
	CategoryFallback catalog.CategoryFallback
	ScriptMedia      bool
	PollInterval     time.Duration
	PollWalkTimeout  time.Duration
	RebuildTimeout   time.Duration
	Workers          int

	CacheDir        string
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	LogStaticFiles  bool
	LogHealthChecks bool

	// ReloadTokenHash is a bcrypt hash; empty leaves the reload endpoint open.
	ReloadTokenHash []byte

	// Derived paths
	ThumbnailDir string

	// Feature flags based on directory availability
	ThumbnailsEnabled bool
}

// CatalogConfig returns the catalog settings.
func (c *Config) CatalogConfig() catalog.Config {
	return catalog.Config{
		Root:             c.ContentDir,
		Layout:           c.Layout,
		CategoryFallback: c.CategoryFallback,
		ScriptMedia:      c.ScriptMedia,
		Workers:          c.Workers,
		RebuildTimeout:   c.RebuildTimeout,
		RetryInterval:    c.PollInterval,
	}
}

// defaultContentDir is $PANDA_HOME/content, or ./content without PANDA_HOME.
func defaultContentDir() string {
	if home := os.Getenv("PANDA_HOME"); home != "" {
		return filepath.Join(home, "content")
	}
	return "content"
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	contentDir := getEnv("CONTENT_DIR", defaultContentDir())
	layoutStr := getEnv("LAYOUT", "flat")
	fallbackStr := getEnv("CATEGORY_FALLBACK", "empty")
	scriptMedia := getEnvBool("SCRIPT_MEDIA", false)
	pollInterval := getEnvDuration("POLL_INTERVAL", scanner.DefaultPollInterval)
	pollWalkTimeout := getEnvDuration("POLL_WALK_TIMEOUT", DefaultPollWalkTimeout)
	rebuildTimeout := getEnvDuration("REBUILD_TIMEOUT", DefaultRebuildTimeout)
	workers := getEnvInt("CATALOG_WORKERS", 0)
	cacheDir := getEnv("CACHE_DIR", "cache")
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	tokenHash := strings.TrimSpace(os.Getenv("RELOAD_TOKEN_HASH"))

	layout, err := catalog.ParseLayout(layoutStr)
	if err != nil {
		logging.Warn("  Invalid LAYOUT %q, using default: flat", layoutStr)
	}
	fallback, err := catalog.ParseCategoryFallback(fallbackStr)
	if err != nil {
		logging.Warn("  Invalid CATEGORY_FALLBACK %q, using default: empty", fallbackStr)
	}

	logging.Info("  CONTENT_DIR:         %s", contentDir)
	logging.Info("  LAYOUT:              %s", layout)
	logging.Info("  CATEGORY_FALLBACK:   %s", fallback)
	logging.Info("  SCRIPT_MEDIA:        %v", scriptMedia)
	logging.Info("  POLL_INTERVAL:       %v", pollInterval)
	logging.Info("  POLL_WALK_TIMEOUT:   %v", pollWalkTimeout)
	logging.Info("  REBUILD_TIMEOUT:     %v", rebuildTimeout)
	if workers > 0 {
		logging.Info("  CATALOG_WORKERS:     %d", workers)
	} else {
		logging.Info("  CATALOG_WORKERS:     auto")
	}
	logging.Info("  CACHE_DIR:           %s", cacheDir)
	logging.Info("  PORT:                %s", port)
	logging.Info("  METRICS_PORT:        %s", metricsPort)
	logging.Info("  METRICS_ENABLED:     %v", metricsEnabled)
	logging.Info("  LOG_STATIC_FILES:    %v", logStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", logHealthChecks)
	logging.Info("  RELOAD_TOKEN_HASH:   %s", setString(tokenHash != ""))
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	if tokenHash != "" {
		if _, err := bcrypt.Cost([]byte(tokenHash)); err != nil {
			return nil, fmt.Errorf("RELOAD_TOKEN_HASH is not a bcrypt hash: %w", err)
		}
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	contentDir, err = filepath.Abs(contentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve content directory path: %w", err)
	}
	logging.Info("  Content directory (absolute): %s", contentDir)

	cacheDir, err = filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	logging.Info("  Cache directory (absolute): %s", cacheDir)

	// A missing content directory is not fatal: the catalog reports it
	// through its health status and recovers once it appears.
	if err := checkContentDirectory(contentDir); err != nil {
		logging.Warn("  Content directory issue: %v", err)
	}

	config := &Config{
		ContentDir:       contentDir,
		Layout:           layout,
		CategoryFallback: fallback,
		ScriptMedia:      scriptMedia,
		PollInterval:     pollInterval,
		PollWalkTimeout:  pollWalkTimeout,
		RebuildTimeout:   rebuildTimeout,
		Workers:          workers,
		CacheDir:         cacheDir,
		Port:             port,
		MetricsPort:      metricsPort,
		MetricsEnabled:   metricsEnabled,
		LogStaticFiles:   logStaticFiles,
		LogHealthChecks:  logHealthChecks,
		ThumbnailDir:     filepath.Join(cacheDir, "thumbnails"),
	}
	if tokenHash != "" {
		config.ReloadTokenHash = []byte(tokenHash)
	}

	config.ThumbnailsEnabled = setupOptionalDir(config.ThumbnailDir, "thumbnails")

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Derived thumbnails: %s", enabledString(config.ThumbnailsEnabled))
	logging.Info("    Header scripts:     %s", enabledString(config.ScriptMedia))
	logging.Info("    Reload auth:        %s", enabledString(config.ReloadTokenHash != nil))
	logging.Info("    Metrics:            %s", enabledString(config.MetricsEnabled))

	return config, nil
}

func setupOptionalDir(path, name string) bool {
	logging.Debug("  Setting up %s directory: %s", name, path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		logging.Warn("    Failed to create %s directory: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	if err := testWriteAccess(path); err != nil {
		logging.Warn("    %s directory is not writable: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	logging.Debug("    [OK] %s directory ready", name)
	return true
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func setString(set bool) string {
	if set {
		return "(set)"
	}
	return "(not set)"
}

// LogCatalogInit logs catalog creation
func LogCatalogInit(cfg catalog.Config) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("CATALOG INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Root:    %s", cfg.Root)
	logging.Info("  Layout:  %s", cfg.Layout)
	logging.Info("  Building initial snapshot...")
}

// LogInitialRebuild logs the outcome of the first rebuild
func LogInitialRebuild(health catalog.HealthStatus, duration time.Duration, err error) {
	if err != nil {
		logging.Warn("  Initial rebuild failed after %v: %v", duration, err)
		logging.Warn("  Serving an empty catalog until the content directory is readable")
		return
	}
	logging.Info("  [OK] %d entries loaded in %v", health.Entries, duration)
}

// LogPollerStarted logs change poller start
func LogPollerStarted(interval, walkTimeout time.Duration) {
	logging.Info("  [OK] Change poller started (interval %v, walk timeout %v)", interval, walkTimeout)
}

// LogThumbnailInit logs thumbnail deriver initialization
func LogThumbnailInit(enabled bool) {
	if !enabled {
		logging.Info("  Derived thumbnails disabled (cache directory not writable)")
		logging.Info("  Entries without a thumbnail file will return 404")
	}
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))

		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		for _, group := range groupKeys {
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}
			for _, route := range groups[group] {
				logging.Debug("    %-6s %s", route.Method, route.Path)
			}
		}
	}

	logging.Info("  HTTP logging enabled")
	if logStaticFiles {
		logging.Info("    Static file logging: ON")
	} else {
		logging.Info("    Static file logging: OFF (set LOG_STATIC_FILES=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup returns the first path segment of a route
func getRouteGroup(path string) string {
	first, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Catalog:       http://0.0.0.0:%s/heroes", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	banner := `
------------------------------------------------------------
    ____             __  ____      ___
   / __ \____  _____/ /_/ __/___  / (_)___
  / /_/ / __ \/ ___/ __/ /_/ __ \/ / / __ \
 / ____/ /_/ / /  / /_/ __/ /_/ / / / /_/ /
/_/    \____/_/   \__/_/  \____/_/_/\____/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

// checkContentDirectory verifies that path is a listable directory.
func checkContentDirectory(path string) error {
	logging.Debug("  Checking content directory: %s", path)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("failed to list directory: %w", err)
	}

	dirCount := 0
	for _, e := range entries {
		if e.IsDir() && !scanner.IsHidden(e.Name()) {
			dirCount++
		}
	}
	logging.Debug("    [OK] %d top-level directories", dirCount)
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvDuration parses a positive duration; anything else yields the default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		logging.Warn("Invalid duration for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvInt parses a non-negative integer; anything else yields the default.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		logging.Warn("Invalid integer for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
