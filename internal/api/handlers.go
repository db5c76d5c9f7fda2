package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/misinfoguard/sentinel/internal/database"
	"github.com/misinfoguard/sentinel/internal/models"
	"github.com/misinfoguard/sentinel/internal/pipeline"
)

const maxRequestBody = 1 << 20 // 1MB

// Handler holds dependencies for API handlers.
type Handler struct {
	pipeline *pipeline.Pipeline
	store    database.Store
}

// NewHandler creates a new API handler.
func NewHandler(p *pipeline.Pipeline, store database.Store) *Handler {
	return &Handler{
		pipeline: p,
		store:    store,
	}
}

// HealthCheck returns service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "sentinel",
	})
}

// AnalyzeText classifies content and extracts claims without verification.
func (h *Handler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	resp, err := h.pipeline.Analyze(r.Context(), req.Text, req.Language, req.Entities)
	if err != nil {
		if errors.Is(err, pipeline.ErrInappropriate) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("Analysis failed")
		writeError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// CheckText runs the full pipeline: classification, extraction, and verdicts.
func (h *Handler) CheckText(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	resp, err := h.pipeline.Check(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, pipeline.ErrInappropriate) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("Check failed")
		writeError(w, http.StatusInternalServerError, "Check failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// FactCheckClaims evaluates caller-supplied claims against external evidence.
func (h *Handler) FactCheckClaims(w http.ResponseWriter, r *http.Request) {
	var req models.FactCheckRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Claims) == 0 {
		writeError(w, http.StatusBadRequest, "At least one claim is required")
		return
	}

	results := h.pipeline.CheckClaims(r.Context(), req.Claims)
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// ListResults returns stored analyses.
func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	analyses, err := h.store.ListAnalyses(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list analyses")
		writeError(w, http.StatusInternalServerError, "Failed to list analyses")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analyses": analyses,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetResult returns a stored analysis with its verdict results.
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	analysis, err := h.store.GetAnalysis(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get analysis")
		writeError(w, http.StatusInternalServerError, "Failed to get analysis")
		return
	}
	if analysis == nil {
		writeError(w, http.StatusNotFound, "Analysis not found")
		return
	}

	results, err := h.store.GetResultsByAnalysis(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get results")
		writeError(w, http.StatusInternalServerError, "Failed to get results")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analysis": analysis,
		"results":  results,
	})
}

// GetAuditLogs returns audit log entries (admin).
func (h *Handler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	logs, err := h.store.GetAuditLogs(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get audit logs")
		writeError(w, http.StatusInternalServerError, "Failed to get audit logs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"logs": logs,
	})
}

// CreateAPIKey creates a new API key (admin).
func (h *Handler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string `json:"name"`
		RequestsPerMinute int    `json:"requests_per_minute"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.RequestsPerMinute <= 0 {
		req.RequestsPerMinute = 60
	}

	// Generate random key
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		log.Error().Err(err).Msg("Failed to generate key")
		writeError(w, http.StatusInternalServerError, "Failed to generate key")
		return
	}
	rawKey := "sntl_" + hex.EncodeToString(keyBytes)

	key := &models.APIKey{
		ID:                uuid.New().String(),
		KeyHash:           hashKey(rawKey),
		Name:              req.Name,
		RequestsPerMinute: req.RequestsPerMinute,
		CreatedAt:         time.Now(),
	}

	if err := h.store.CreateAPIKey(r.Context(), key); err != nil {
		log.Error().Err(err).Msg("Failed to create API key")
		writeError(w, http.StatusInternalServerError, "Failed to create API key")
		return
	}

	// Return the raw key only once, at creation time
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":                  key.ID,
		"key":                 rawKey,
		"name":                key.Name,
		"requests_per_minute": key.RequestsPerMinute,
		"created_at":          key.CreatedAt,
	})
}

// ListAPIKeys returns all API keys (admin).
func (h *Handler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.ListAPIKeys(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list API keys")
		writeError(w, http.StatusInternalServerError, "Failed to list API keys")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"keys": keys,
	})
}

// DeleteAPIKey removes an API key (admin).
func (h *Handler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteAPIKey(r.Context(), id); err != nil {
		log.Error().Err(err).Msg("Failed to delete API key")
		writeError(w, http.StatusInternalServerError, "Failed to delete API key")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
