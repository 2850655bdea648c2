package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"portfolio/internal/catalog"
	"portfolio/internal/startup"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func pngBytes(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

type testServer struct {
	catalog  *catalog.Catalog
	handlers *Handlers
	router   *mux.Router
}

// newTestServer builds a catalog over a fresh content tree:
//
//	0 alpha: thumbnail.jpg, sections, text, assets
//	1 beta:  header.png only
//	2 gamma: header.js only
//	(delta has no Title and is skipped)
func newTestServer(t *testing.T, tokenHash []byte) *testServer {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"alpha/info":              "Title: Alpha\nCategories: web, print\nLikes: 4\nDescription: #about.txt\nClient: ACME\n",
		"alpha/content/about.txt": "About alpha",
		"alpha/thumbnail.jpg":     "jpeg-bytes",
		"alpha/sections/0":        "type: image\nsrc: one.png\n",
		"alpha/sections/1":        "type: quote\n",
		"alpha/text/body.md":      "# Alpha",
		"alpha/assets/logo.svg":   "<svg/>",
		"beta/info":               "Title: Beta\n",
		"beta/header.png":         pngBytes(t, 600, 300),
		"gamma/info":              "Title: Gamma\n",
		"gamma/header.js":         "draw()",
		"delta/info":              "Description: untitled\n",
	})

	cat := catalog.New(catalog.Config{Root: root, ScriptMedia: true, Workers: 2})
	if err := cat.Rebuild(t.Context()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	h := New(cat, &startup.Config{
		CacheDir:          t.TempDir(),
		ThumbnailsEnabled: true,
		ReloadTokenHash:   tokenHash,
	})
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return &testServer{catalog: cat, handlers: h, router: router}
}

func (s *testServer) do(t *testing.T, method, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestListHeroes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/heroes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	heroes := decode[[]HeroSummary](t, rec)

	if len(heroes) != 3 {
		t.Fatalf("got %d heroes, want 3", len(heroes))
	}
	want := []struct {
		id        int
		title     string
		thumbnail bool
		header    bool
	}{
		{0, "Alpha", true, false},
		{1, "Beta", true, true},
		{2, "Gamma", false, true},
	}
	for i, w := range want {
		got := heroes[i]
		if got.ID != w.id || got.Title != w.title || got.AlterEgo != w.title || !got.Default {
			t.Errorf("hero %d = %+v", i, got)
		}
		if got.Thumbnail != w.thumbnail || got.Header != w.header {
			t.Errorf("hero %d media = thumbnail %v header %v, want %v %v", i, got.Thumbnail, got.Header, w.thumbnail, w.header)
		}
		if got.Categories == nil {
			t.Errorf("hero %d categories should encode as []", i)
		}
	}
	if heroes[0].Likes != 4 || len(heroes[0].Categories) != 2 {
		t.Errorf("alpha = %+v", heroes[0])
	}
}

func TestListHeroesEmptyCatalog(t *testing.T) {
	h := New(catalog.New(catalog.Config{Root: t.TempDir()}), &startup.Config{CacheDir: t.TempDir()})
	router := mux.NewRouter()
	h.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/heroes", nil))
	if body := bytes.TrimSpace(rec.Body.Bytes()); string(body) != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestGetHero(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/heroes/0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	hero := decode[HeroDetail](t, rec)

	if hero.Title != "Alpha" || hero.Description != "About alpha" || hero.Attributes["Client"] != "ACME" {
		t.Errorf("unexpected hero: %+v", hero)
	}
	if len(hero.Sections) != 2 || hero.Sections[1].Type != "quote" || hero.Sections[0].Attributes["src"] != "one.png" {
		t.Errorf("sections = %+v", hero.Sections)
	}
	if hero.Body == nil || *hero.Body != "# Alpha" {
		t.Errorf("body = %v", hero.Body)
	}
	if len(hero.Assets) != 1 || hero.Assets[0] != "logo.svg" {
		t.Errorf("assets = %v", hero.Assets)
	}

	gamma := decode[HeroDetail](t, s.do(t, http.MethodGet, "/heroes/2", nil))
	if gamma.HeaderType != "script" || gamma.Body != nil {
		t.Errorf("gamma = %+v", gamma)
	}
}

func TestGetHeroNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/heroes/3", "/heroes/99", "/heroes/abc", "/heroes/-1"} {
		if rec := s.do(t, http.MethodGet, path, nil); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, rec.Code)
		}
	}
}

func TestGetHeroThumbnail(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/heroes/0/thumbnail", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "jpeg-bytes" {
		t.Errorf("alpha thumbnail = %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q", ct)
	}

	rec = s.do(t, http.MethodGet, "/heroes/1/thumbnail", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("beta derived thumbnail status = %d", rec.Code)
	}
	img, err := jpeg.Decode(rec.Body)
	if err != nil {
		t.Fatalf("derived thumbnail is not a JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("derived thumbnail bounds = %v", b)
	}

	if rec := s.do(t, http.MethodGet, "/heroes/2/thumbnail", nil); rec.Code != http.StatusNotFound {
		t.Errorf("gamma thumbnail = %d, want 404 (scripts are not derived from)", rec.Code)
	}
}

func TestGetHeroHeader(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/heroes/2/header", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "draw()" {
		t.Errorf("gamma header = %d %q", rec.Code, rec.Body.String())
	}

	if rec := s.do(t, http.MethodGet, "/heroes/0/header", nil); rec.Code != http.StatusNotFound {
		t.Errorf("alpha header = %d, want 404", rec.Code)
	}
}

func TestGetHeroAsset(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/heroes/0/assets/logo.svg", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "<svg/>" {
		t.Errorf("asset = %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}

	for _, path := range []string{"/heroes/0/assets/missing.svg", "/heroes/0/assets/.hidden", "/heroes/1/assets/logo.svg"} {
		if rec := s.do(t, http.MethodGet, path, nil); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, rec.Code)
		}
	}
}

func TestGetHeroText(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/heroes/0/text", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "# Alpha" {
		t.Errorf("text = %d %q", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, http.MethodGet, "/heroes/1/text", nil); rec.Code != http.StatusNotFound {
		t.Errorf("beta text = %d, want 404", rec.Code)
	}
}

func TestReloadHeroesOpen(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/heroes/reload", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if got := decode[map[string]string](t, rec)["status"]; got != "queued" {
		t.Errorf("first reload status = %q, want queued", got)
	}

	rec = s.do(t, http.MethodPost, "/heroes/reload", nil)
	if got := decode[map[string]string](t, rec)["status"]; got != "coalesced" {
		t.Errorf("second reload status = %q, want coalesced", got)
	}

	if rec := s.do(t, http.MethodGet, "/heroes/reload", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /heroes/reload = %d, want 405", rec.Code)
	}
}

func TestReloadHeroesToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, hash)

	tests := []struct {
		name   string
		auth   string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "Basic s3cret-token", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"valid", "Bearer s3cret-token", http.StatusAccepted},
		{"lowercase scheme", "bearer s3cret-token", http.StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.auth != "" {
				header.Set("Authorization", tt.auth)
			}
			rec := s.do(t, http.MethodPost, "/heroes/reload", header)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("401 should carry WWW-Authenticate")
			}
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	cat := catalog.New(catalog.Config{Root: filepath.Join(t.TempDir(), "missing")})
	h := New(cat, &startup.Config{CacheDir: t.TempDir()})
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/health")
	if rec.Code != http.StatusServiceUnavailable || decode[HealthResponse](t, rec).Status != statusStarting {
		t.Errorf("health before rebuild = %d %s", rec.Code, rec.Body.String())
	}
	if rec := get("/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz before rebuild = %d", rec.Code)
	}
	if rec := get("/livez"); rec.Code != http.StatusOK {
		t.Errorf("livez = %d", rec.Code)
	}

	_ = cat.Rebuild(t.Context())
	rec = get("/healthz")
	if resp := decode[HealthResponse](t, rec); resp.Status != statusDegraded || resp.LastError == "" {
		t.Errorf("health after failed rebuild = %+v", resp)
	}
}

func TestHealthHealthy(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/health", nil)
	resp := decode[HealthResponse](t, rec)
	if rec.Code != http.StatusOK || resp.Status != statusHealthy || resp.Entries != 3 || resp.Generation != 1 {
		t.Errorf("health = %d %+v", rec.Code, resp)
	}
	if resp.LastRebuild == "" || resp.GoVersion == "" {
		t.Errorf("missing fields: %+v", resp)
	}
	if rec := s.do(t, http.MethodGet, "/readyz", nil); rec.Code != http.StatusOK {
		t.Errorf("readyz = %d", rec.Code)
	}
}

func TestLivenessHead(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodHead, "/livez", nil)
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("HEAD /livez = %d with %d bytes", rec.Code, rec.Body.Len())
	}
}

func TestGetVersion(t *testing.T) {
	s := newTestServer(t, nil)

	info := decode[startup.BuildInfo](t, s.do(t, http.MethodGet, "/version", nil))
	if info.Version != startup.Version || info.GoVersion == "" {
		t.Errorf("version = %+v", info)
	}
}

func TestMetricsHandler(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.handlers.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("portfolio_catalog_rebuilds_total")) {
		t.Errorf("metrics = %d, missing catalog metrics", rec.Code)
	}
}

type alwaysThrottle struct{}

func (alwaysThrottle) ShouldThrottle() bool { return true }
func (alwaysThrottle) GetUsage() float64 { return 0.9 }

func TestGetHeroThumbnailThrottled(t *testing.T) {
	s := newTestServer(t, nil)
	s.handlers.SetMemoryMonitor(alwaysThrottle{})

	rec := s.do(t, http.MethodGet, "/heroes/1/thumbnail", nil)
	if rec.Code != http.StatusServiceUnavailable || rec.Header().Get("Retry-After") == "" {
		t.Errorf("throttled derivation = %d, Retry-After %q", rec.Code, rec.Header().Get("Retry-After"))
	}

	if rec := s.do(t, http.MethodGet, "/heroes/0/thumbnail", nil); rec.Code != http.StatusOK {
		t.Errorf("existing thumbnail under pressure = %d, want 200", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/health", nil)
	if usage := decode[HealthResponse](t, rec).MemoryUsage; usage != 0.9 {
		t.Errorf("health memoryUsage = %v, want 0.9", usage)
	}
}
