package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio/internal/catalog"
	"portfolio/internal/filesystem"
	"portfolio/internal/handlers"
	"portfolio/internal/logging"
	"portfolio/internal/memory"
	"portfolio/internal/metrics"
	"portfolio/internal/middleware"
	"portfolio/internal/scanner"
	"portfolio/internal/startup"

	"github.com/gorilla/mux"
)

const (
	// metricsCollectInterval is how often catalog gauges are refreshed
	metricsCollectInterval = 30 * time.Second
	// shutdownTimeout bounds draining of in-flight requests
	shutdownTimeout = 30 * time.Second
	// thumbnailCacheMaxAge is how long an unused cached thumbnail is kept
	thumbnailCacheMaxAge = 30 * 24 * time.Hour
)

func main() {
	startTime := time.Now()

	memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.InitializeMetrics()
	filesystem.SetObserver(metrics.NewFilesystemObserver())
	buildInfo := startup.GetBuildInfo()
	metrics.AppInfo.WithLabelValues(buildInfo.Version, buildInfo.Commit, buildInfo.GoVersion).Set(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat, poller := startCatalog(ctx, config)

	pollCtx, stopPoller := context.WithCancel(ctx)
	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		if err := poller.Run(pollCtx); err != nil && !errors.Is(err, context.Canceled) {
			logging.Error("Poller stopped: %v", err)
		}
	}()
	startup.LogPollerStarted(poller.Interval(), config.PollWalkTimeout)

	collector := metrics.NewCollector(cat, metricsCollectInterval)
	collector.Start()

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start(ctx)
	if limit := monitor.Limit(); limit > 0 {
		logging.Info("Thumbnail backpressure enabled (limit %d bytes)", limit)
	}

	h := handlers.New(cat, config)
	h.SetMemoryMonitor(monitor)
	startup.LogThumbnailInit(h.ThumbnailsEnabled())
	go func() {
		if _, err := h.PruneThumbnails(ctx, thumbnailCacheMaxAge); err != nil && !errors.Is(err, context.Canceled) {
			logging.Warn("Thumbnail cache prune failed: %v", err)
		}
	}()

	router, handler := setupRouter(h, config)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsMux.HandleFunc("/health", h.HealthCheck)
		metricsSrv = &http.Server{
			Addr:              ":" + config.MetricsPort,
			Handler:           metricsMux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	go handleShutdown(srv, metricsSrv, shutdownComponents{
		stopPoller: func() {
			stopPoller()
			<-pollerDone
		},
		catalog:   cat,
		collector: collector,
		monitor:   monitor,
	})

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
	<-shutdownDone
}

// startCatalog creates the catalog and its poller, runs the initial
// synchronous rebuild and starts the rebuild worker. The poller is created
// first so that its baseline predates every file the rebuild reads.
func startCatalog(ctx context.Context, config *startup.Config) (*catalog.Catalog, *scanner.Poller) {
	catalogConfig := config.CatalogConfig()
	startup.LogCatalogInit(catalogConfig)
	cat := catalog.New(catalogConfig)

	poller := scanner.NewPoller(
		scanner.NewWalker(config.ContentDir, scanner.NotHidden),
		func() { cat.TriggerReload() },
		scanner.WithInterval(config.PollInterval),
		scanner.WithWalkTimeout(config.PollWalkTimeout),
	)

	rebuildStart := time.Now()
	err := cat.Rebuild(ctx)
	startup.LogInitialRebuild(cat.Health(), time.Since(rebuildStart), err)
	cat.Start(ctx)
	return cat, poller
}

// setupRouter registers the API on a router and wraps it with the request
// middleware chain. The router is returned for route logging.
func setupRouter(h *handlers.Handlers, config *startup.Config) (*mux.Router, http.Handler) {
	router := mux.NewRouter()
	router.Use(middleware.RequestID)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	router.Use(middleware.Logger(loggingConfig))
	router.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	h.RegisterRoutes(router)

	handler := middleware.Compression(middleware.DefaultCompressionConfig())(router)
	handler = middleware.CORS(middleware.DefaultCORSConfig())(handler)
	return router, handler
}

type shutdownComponents struct {
	stopPoller func()
	catalog    *catalog.Catalog
	collector  *metrics.Collector
	monitor    *memory.Monitor
}

var shutdownDone = make(chan struct{})

func handleShutdown(srv, metricsSrv *http.Server, c shutdownComponents) {
	defer close(shutdownDone)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	startup.LogShutdownStep("Stopping poller")
	c.stopPoller()
	startup.LogShutdownStepComplete("Poller stopped")

	startup.LogShutdownStep("Stopping rebuild worker")
	c.catalog.Stop()
	startup.LogShutdownStepComplete("Rebuild worker stopped")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	c.collector.Stop()
	c.monitor.Stop()

	startup.LogShutdownComplete()
}
