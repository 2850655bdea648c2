package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"portfolio/internal/catalog"
	"portfolio/internal/logging"
	"portfolio/internal/media"
	"portfolio/internal/startup"

	"github.com/gorilla/mux"
)

var log = logging.With("http")

// Catalog is the read and reload surface of catalog.Catalog used by the handlers.
type Catalog interface {
	Get(id int) (*catalog.Entry, bool)
	List() []*catalog.Entry
	TriggerReload() bool
	Health() catalog.HealthStatus
	IsReady() bool
}

// MemoryMonitor reports heap pressure. memory.Monitor satisfies it.
type MemoryMonitor interface {
	media.Throttler
	GetUsage() float64
}

// Handlers serves the catalog HTTP API: entry and hero reads, entry media,
// thumbnails, reload requests and health.
type Handlers struct {
	catalog         Catalog
	thumbs          *media.ThumbnailDeriver
	memory          MemoryMonitor
	reloadTokenHash []byte
}

// New creates the handlers over cat. Thumbnails are cached under
// config.CacheDir when config.ThumbnailsEnabled is set.
func New(cat Catalog, config *startup.Config) *Handlers {
	return &Handlers{
		catalog:         cat,
		thumbs:          media.NewThumbnailDeriver(config.CacheDir, config.ThumbnailsEnabled),
		reloadTokenHash: config.ReloadTokenHash,
	}
}

// ThumbnailsEnabled reports whether missing thumbnails can be derived.
func (h *Handlers) ThumbnailsEnabled() bool {
	return h.thumbs.IsEnabled()
}

// SetMemoryMonitor defers thumbnail derivation to m under memory pressure
// and reports its usage from the health endpoint.
func (h *Handlers) SetMemoryMonitor(m MemoryMonitor) {
	h.memory = m
	h.thumbs.SetThrottler(m)
}

// PruneThumbnails removes cached thumbnails unused for maxAge.
func (h *Handlers) PruneThumbnails(ctx context.Context, maxAge time.Duration) (int, error) {
	return h.thumbs.PruneCache(ctx, maxAge)
}

// entryFromRequest resolves the {id} route variable, writing a 404 and
// returning false when it names no entry.
func (h *Handlers) entryFromRequest(w http.ResponseWriter, r *http.Request) (*catalog.Entry, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, "entry not found", http.StatusNotFound)
		return nil, false
	}
	entry, ok := h.catalog.Get(id)
	if !ok {
		writeJSONError(w, "entry not found", http.StatusNotFound)
		return nil, false
	}
	return entry, true
}
