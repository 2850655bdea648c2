package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ReloadHeroes queues a catalog rebuild and returns immediately. When a
// reload token hash is configured the request must carry the token as a
// bearer credential.
func (h *Handlers) ReloadHeroes(w http.ResponseWriter, r *http.Request) {
	if !h.authorizeReload(r) {
		w.Header().Set("WWW-Authenticate", `Bearer realm="portfolio"`)
		writeJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	status := "coalesced"
	if h.catalog.TriggerReload() {
		status = "queued"
	}
	log.Info("reload requested (%s)", status)
	writeJSONStatus(w, status, http.StatusAccepted)
}

func (h *Handlers) authorizeReload(r *http.Request) bool {
	if len(h.reloadTokenHash) == 0 {
		return true
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(h.reloadTokenHash, []byte(strings.TrimSpace(token))) == nil
}
