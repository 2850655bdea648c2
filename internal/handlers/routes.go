package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes adds the catalog API and health endpoints to router.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/heroes", h.ListHeroes).Methods(http.MethodGet, http.MethodHead).Name("listHeroes")
	router.HandleFunc("/heroes/reload", h.ReloadHeroes).Methods(http.MethodPost).Name("reloadHeroes")
	router.HandleFunc("/heroes/{id:[0-9]+}", h.GetHero).Methods(http.MethodGet, http.MethodHead).Name("getHero")
	router.HandleFunc("/heroes/{id:[0-9]+}/thumbnail", h.GetHeroThumbnail).Methods(http.MethodGet, http.MethodHead).Name("heroThumbnail")
	router.HandleFunc("/heroes/{id:[0-9]+}/header", h.GetHeroHeader).Methods(http.MethodGet, http.MethodHead).Name("heroHeader")
	router.HandleFunc("/heroes/{id:[0-9]+}/text", h.GetHeroText).Methods(http.MethodGet, http.MethodHead).Name("heroText")
	router.HandleFunc("/heroes/{id:[0-9]+}/assets/{name}", h.GetHeroAsset).Methods(http.MethodGet, http.MethodHead).Name("heroAsset")

	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	router.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)
}
