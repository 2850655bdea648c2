package handlers

import (
	"net/http"
	"runtime"
	"time"

	"portfolio/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status              string `json:"status"`
	Ready               bool   `json:"ready"`
	Version             string `json:"version"`
	Uptime              string `json:"uptime"`
	Rebuilding          bool   `json:"rebuilding"`
	LastRebuild         string `json:"lastRebuild,omitempty"`
	LastRebuildDuration string `json:"lastRebuildDuration,omitempty"`
	LastError           string `json:"lastError,omitempty"`
	Entries             int    `json:"entries"`
	Generation          uint64 `json:"generation"`

	// System info
	GoVersion    string  `json:"goVersion"`
	NumCPU       int     `json:"numCpu"`
	NumGoroutine int     `json:"numGoroutine"`
	MemoryUsage  float64 `json:"memoryUsage,omitempty"`
}

// HealthCheck returns the health status of the service. A catalog whose
// latest rebuild failed is degraded but still serves its last snapshot.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	status := h.catalog.Health()

	response := HealthResponse{
		Ready:               status.Ready,
		Version:             startup.Version,
		Uptime:              status.Uptime,
		Rebuilding:          status.Rebuilding,
		LastRebuildDuration: status.LastRebuildDuration,
		LastError:           status.LastError,
		Entries:             status.Entries,
		Generation:          status.Generation,
		GoVersion:           runtime.Version(),
		NumCPU:              runtime.NumCPU(),
		NumGoroutine:        runtime.NumGoroutine(),
	}

	switch {
	case status.LastError != "":
		response.Status = statusDegraded
	case status.Ready:
		response.Status = statusHealthy
	default:
		response.Status = statusStarting
	}

	if h.memory != nil {
		response.MemoryUsage = h.memory.GetUsage()
	}
	if !status.LastRebuild.IsZero() {
		response.LastRebuild = status.LastRebuild.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	if status.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness check (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 once the catalog has completed a rebuild
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if h.catalog.IsReady() {
		writeJSONStatus(w, "ready", http.StatusOK)
		return
	}
	writeJSONStatus(w, "not_ready", http.StatusServiceUnavailable)
}
