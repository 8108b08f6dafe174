// Package handlers provides HTTP handlers for benchmark queries.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/meridianlake/fundbench/internal/modules/benchmark"
	"github.com/meridianlake/fundbench/internal/modules/charts"
)

// Metrics counts query outcomes for observability
type Metrics interface {
	QueryCompleted(outcome string)
}

// Handler handles benchmark HTTP requests
type Handler struct {
	service *benchmark.Service
	charts  *charts.Service
	metrics Metrics
	log     zerolog.Logger
}

// NewHandler creates a new benchmark handler
func NewHandler(service *benchmark.Service, chartService *charts.Service, metrics Metrics, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		charts:  chartService,
		metrics: metrics,
		log:     log.With().Str("handler", "benchmark").Logger(),
	}
}

// HandleRunBenchmark runs a benchmark query and returns the result with
// its chart payload
func (h *Handler) HandleRunBenchmark(w http.ResponseWriter, r *http.Request) {
	var query benchmark.Query
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Run(r.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, benchmark.ErrValidation), errors.Is(err, benchmark.ErrNoMetrics):
			h.countOutcome("validation_failed")
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, benchmark.ErrNoCatalog):
			h.countOutcome("no_catalog")
			h.writeError(w, http.StatusServiceUnavailable, "catalog not loaded")
		default:
			h.countOutcome("error")
			h.log.Error().Err(err).Msg("Benchmark query failed")
			h.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if result.MatchCount == 0 {
		h.countOutcome("empty")
	} else {
		h.countOutcome("ok")
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"page":   h.charts.BuildPage(result),
	})
}

// HandleGetOptions returns the selector labels for the dashboard's dropdowns
func (h *Handler) HandleGetOptions(w http.ResponseWriter, r *http.Request) {
	sizeBuckets := make(map[string][]string)
	for _, assetClass := range benchmark.AssetClassOptions() {
		sizeBuckets[assetClass] = benchmark.SizeBucketOptions(assetClass)
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"asset_classes": benchmark.AssetClassOptions(),
		"vintages":      benchmark.VintageOptions(h.service.CurrentYear()),
		"geographies":   benchmark.GeographyOptions(),
		"size_buckets":  sizeBuckets,
	})
}

func (h *Handler) countOutcome(outcome string) {
	if h.metrics != nil {
		h.metrics.QueryCompleted(outcome)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}
