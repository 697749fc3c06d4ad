package api

import (
	"codecompanion/internal/analysis"
	"codecompanion/internal/models"
	"errors"
	"net/http"
)

// Handler serves the analyze and health endpoints.
type Handler struct {
	analyzer     *analysis.Analyzer
	maxBodyBytes int64
}

// NewHandler creates a new Handler.
func NewHandler(analyzer *analysis.Analyzer, maxBodyBytes int64) *Handler {
	return &Handler{analyzer: analyzer, maxBodyBytes: maxBodyBytes}
}

// Analyze handles POST /api/analyze.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeDetail(w, r, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	log := LoggerFrom(r.Context())

	body, err := readBody(w, r, h.maxBodyBytes)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			log.Warnf("Rejected analyze request larger than %d bytes", h.maxBodyBytes)
			writeDetail(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		log.Warnf("Error reading request body: %v", err)
		writeDetail(w, r, http.StatusBadRequest, "Error reading request body")
		return
	}

	req, vErr := decodeAnalyzeRequest(body)
	if vErr != nil {
		log.Infof("Malformed analyze request: %v", vErr)
		writeValidationError(w, r, vErr)
		return
	}

	resp, err := h.analyzer.Analyze(log, req)
	if err != nil {
		if errors.Is(err, analysis.ErrInvalidArgument) {
			log.Infof("Rejected analyze request: %v", err)
			writeDetail(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Errorf("Error during analysis: %v", err)
		writeDetail(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, r, http.StatusOK, resp)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeDetail(w, r, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	writeJSON(w, r, http.StatusOK, models.HealthResponse{OK: true})
}

// NotFound answers every unrouted path.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, r, http.StatusNotFound, "Not Found")
}
