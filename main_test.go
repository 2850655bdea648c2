package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"portfolio/internal/catalog"
	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
	"portfolio/internal/startup"
)

func newTestHandler(t *testing.T, entries int) http.Handler {
	t.Helper()
	root := t.TempDir()
	for i := 0; i < entries; i++ {
		dir := filepath.Join(root, fmt.Sprintf("entry-%02d", i))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		info := fmt.Sprintf("Title: Entry number %d\nCategories: web, print, motion\nLikes: %d\n", i, i)
		if err := os.WriteFile(filepath.Join(dir, "info"), []byte(info), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	config := &startup.Config{ContentDir: root, CacheDir: t.TempDir()}
	cat := catalog.New(config.CatalogConfig())
	if err := cat.Rebuild(t.Context()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	router, handler := setupRouter(handlers.New(cat, config), config)
	if routes, err := startup.GetRoutes(router); err != nil || len(routes) == 0 {
		t.Fatalf("GetRoutes = %d routes, %v", len(routes), err)
	}
	return handler
}

func TestSetupRouterMiddlewareChain(t *testing.T) {
	handler := newTestHandler(t, 20)

	req := httptest.NewRequest(http.MethodGet, "/heroes", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("response should carry a request id")
	}
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}

	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	var heroes []handlers.HeroSummary
	if err := json.Unmarshal(body, &heroes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(heroes) != 20 || heroes[7].Title != "Entry number 7" {
		t.Errorf("got %d heroes, heroes[7] = %+v", len(heroes), heroes[7])
	}
}

func TestSetupRouterPreflight(t *testing.T) {
	handler := newTestHandler(t, 1)

	req := httptest.NewRequest(http.MethodOptions, "/heroes/reload", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("preflight should list allowed methods")
	}
}

func TestSetupRouterNotFoundCarriesCORS(t *testing.T) {
	handler := newTestHandler(t, 1)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/heroes/42", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("404 should carry CORS headers")
	}
}

func TestStartCatalogPollerBaselinePrecedesRebuild(t *testing.T) {
	root := t.TempDir()
	info := filepath.Join(root, "a", "info")
	if err := os.MkdirAll(filepath.Dir(info), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(info, []byte("Title: A\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	config := &startup.Config{ContentDir: root, PollInterval: time.Hour}
	cat, poller := startCatalog(t.Context(), config)
	defer cat.Stop()

	if e, ok := cat.Get(0); !ok || e.Title != "A" {
		t.Fatalf("initial rebuild missing entry: %v, %v", e, ok)
	}
	if poller.Baseline().After(cat.Snapshot().BuiltAt) {
		t.Error("poller baseline taken after the initial rebuild; edits made during it would be missed")
	}

	// An edit landing just after the rebuild read the file.
	edited := cat.Snapshot().BuiltAt.Add(2 * time.Second)
	if err := os.Chtimes(info, edited, edited); err != nil {
		t.Fatal(err)
	}
	if !poller.Check(t.Context()) {
		t.Error("edit after the poller baseline should be detected")
	}
}
