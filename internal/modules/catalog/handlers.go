package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles catalog HTTP requests
type Handler struct {
	loader *Loader
	log    zerolog.Logger
}

// NewHandler creates a new catalog handler
func NewHandler(loader *Loader, log zerolog.Logger) *Handler {
	return &Handler{
		loader: loader,
		log:    log.With().Str("handler", "catalog").Logger(),
	}
}

// RegisterRoutes registers all catalog routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/status", h.HandleGetStatus)
		r.Post("/refresh", h.HandleRefresh)
	})
}

// HandleGetStatus reports the cached catalog's source, age, and size
func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	current := h.loader.Current()
	if current == nil {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"loaded": false,
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"loaded":       true,
		"source":       current.Source,
		"checksum":     current.Checksum,
		"record_count": len(current.Records),
		"loaded_at":    current.LoadedAt,
	})
}

// HandleRefresh forces a re-read of the catalog source
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshed, err := h.loader.Refresh(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Catalog refresh failed")
		h.writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"record_count": len(refreshed.Records),
		"checksum":     refreshed.Checksum,
		"loaded_at":    refreshed.LoadedAt,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
