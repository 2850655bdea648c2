package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"portfolio/internal/mediatypes"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Encoding or write errors are only logged; the status line is already sent.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeJSONStatus writes a status response as JSON with the given status code.
func writeJSONStatus(w http.ResponseWriter, status string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"status": status})
}

// serveFile serves path with a content type derived from its extension.
func serveFile(w http.ResponseWriter, r *http.Request, path string) {
	w.Header().Set("Content-Type", mediatypes.GetMimeType(filepath.Ext(path)))
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, path)
}
