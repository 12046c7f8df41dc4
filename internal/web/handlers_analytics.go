package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/handora/gamesapi/internal/domain"
	"github.com/handora/gamesapi/internal/ports"
)

// handleHighscores reports the per-game maximum score. The response keys are
// positional: "1", "2", "3" in game-key declaration order.
// GET /api/v1/analytics/highscores
func (s *Server) handleHighscores(w http.ResponseWriter, r *http.Request) {
	scores, err := s.store.Highscores(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	response := make(map[string]int, len(domain.GameKeys()))
	for i, game := range domain.GameKeys() {
		response[strconv.Itoa(i+1)] = scores[game]
	}
	writeJSON(w, http.StatusOK, response)
}

// handleAnalyze proxies aggregated metrics to the language-model service.
// POST /api/v1/analytics/analyze
// Request:  {"prompt":"...","metrics":{...}}
// Response: {"analysis":"..."}
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt  string             `json:"prompt"`
		Metrics map[string]float64 `json:"metrics"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required.")
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), req.Prompt, req.Metrics)
	if err != nil {
		if errors.Is(err, ports.ErrNotConfigured) {
			s.metrics.AnalyzeCompleted(r.Context(), "not_configured")
			writeError(w, http.StatusServiceUnavailable, "Analysis is not configured.")
			return
		}
		s.metrics.AnalyzeCompleted(r.Context(), "error")
		s.logger.Error("analyze call failed", "error", err)
		writeError(w, http.StatusBadGateway, "Analysis service failed.")
		return
	}

	s.metrics.AnalyzeCompleted(r.Context(), "ok")
	writeJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}
