package handlers

import (
	"errors"
	"net/http"

	"portfolio/internal/catalog"
	"portfolio/internal/media"
	"portfolio/internal/mediatypes"
	"portfolio/internal/metadata"

	"github.com/gorilla/mux"
)

// HeroSummary is the list representation of an entry.
type HeroSummary struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	AlterEgo   string   `json:"alterEgo"`
	Title      string   `json:"title"`
	Likes      int      `json:"likes"`
	Categories []string `json:"categories"`
	Default    bool     `json:"default"`
	Thumbnail  bool     `json:"thumbnail"`
	Header     bool     `json:"header"`
}

// SectionResponse is one section of an entry.
type SectionResponse struct {
	Index      int                 `json:"index"`
	Type       string              `json:"type"`
	Attributes metadata.Attributes `json:"attributes"`
}

// HeroDetail is the full representation of an entry.
type HeroDetail struct {
	HeroSummary
	Category    string              `json:"category"`
	Description string              `json:"description,omitempty"`
	HeaderType  mediatypes.Kind     `json:"headerType,omitempty"`
	Attributes  metadata.Attributes `json:"attributes"`
	Sections    []SectionResponse   `json:"sections"`
	Assets      []string            `json:"assets"`
	Body        *string             `json:"body,omitempty"`
}

func (h *Handlers) summarize(e *catalog.Entry) HeroSummary {
	categories := e.Categories
	if categories == nil {
		categories = []string{}
	}
	return HeroSummary{
		ID:         e.ID,
		Name:       e.Name,
		AlterEgo:   e.Title,
		Title:      e.Title,
		Likes:      e.Likes,
		Categories: categories,
		Default:    true,
		Thumbnail:  h.hasThumbnail(e),
		Header:     e.Header().Exists,
	}
}

// hasThumbnail is true when a thumbnail file exists or can be derived from
// an image header.
func (h *Handlers) hasThumbnail(e *catalog.Entry) bool {
	if e.Thumbnail().Exists {
		return true
	}
	header := e.Header()
	return h.thumbs.IsEnabled() && header.Exists && !header.IsScript()
}

// ListHeroes returns every entry of the current snapshot in id order.
func (h *Handlers) ListHeroes(w http.ResponseWriter, _ *http.Request) {
	entries := h.catalog.List()
	response := make([]HeroSummary, 0, len(entries))
	for _, e := range entries {
		response = append(response, h.summarize(e))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, response)
}

// GetHero returns one entry with its attributes, sections and body.
func (h *Handlers) GetHero(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	detail := HeroDetail{
		HeroSummary: h.summarize(e),
		Category:    e.Category,
		Description: e.Description(),
		Attributes:  e.Attributes,
		Sections:    make([]SectionResponse, 0, len(e.Sections)),
		Assets:      e.Assets(),
	}
	if header := e.Header(); header.Exists {
		detail.HeaderType = header.Kind
	}
	for _, s := range e.Sections {
		detail.Sections = append(detail.Sections, SectionResponse{
			Index:      s.Index,
			Type:       s.Type,
			Attributes: s.Attributes,
		})
	}
	if detail.Assets == nil {
		detail.Assets = []string{}
	}
	if body, ok := e.Body(); ok {
		detail.Body = &body
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, detail)
}

// GetHeroThumbnail serves the entry's thumbnail, deriving one from an image
// header when the entry has none.
func (h *Handlers) GetHeroThumbnail(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	if thumb := e.Thumbnail(); thumb.Exists {
		serveFile(w, r, thumb.Path)
		return
	}

	header := e.Header()
	if !header.Exists || header.IsScript() || !h.thumbs.IsEnabled() {
		writeJSONError(w, "thumbnail not found", http.StatusNotFound)
		return
	}

	data, err := h.thumbs.Derive(header.Path)
	if errors.Is(err, media.ErrThrottled) {
		w.Header().Set("Retry-After", "5")
		writeJSONError(w, "thumbnail temporarily unavailable", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		log.Warn("thumbnail derivation failed for entry %d: %v", e.ID, err)
		writeJSONError(w, "thumbnail not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(data); err != nil {
		log.Debug("thumbnail write for entry %d: %v", e.ID, err)
	}
}

// GetHeroHeader serves the entry's header image or script.
func (h *Handlers) GetHeroHeader(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	header := e.Header()
	if !header.Exists {
		writeJSONError(w, "header not found", http.StatusNotFound)
		return
	}
	serveFile(w, r, header.Path)
}

// GetHeroAsset serves a named file from the entry's assets directory.
func (h *Handlers) GetHeroAsset(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	path, err := e.Asset(mux.Vars(r)["name"])
	if err != nil {
		writeJSONError(w, "asset not found", http.StatusNotFound)
		return
	}
	serveFile(w, r, path)
}

// GetHeroText serves the entry's body text.
func (h *Handlers) GetHeroText(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	body, ok := e.Body()
	if !ok {
		writeJSONError(w, "text not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write([]byte(body)); err != nil {
		log.Debug("text write for entry %d: %v", e.ID, err)
	}
}
