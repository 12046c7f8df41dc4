package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/handora/gamesapi/internal/domain"
	"github.com/handora/gamesapi/internal/store"
)

// handleStartSession creates a session.
// POST /api/v1/sessions/start
// Request:  {"game_key":"piano_tiles"}
// Response: {"session_id":"...","started_at":"..."}
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameKey string `json:"game_key"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	game, err := domain.ParseGameKey(req.GameKey)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	view, err := s.store.Create(r.Context(), game)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": view.ID,
		"started_at": view.StartedAt,
	})
}

// handleWarmup sets the warmup baseline.
// POST /api/v1/sessions/{id}/warmup
// Request:  {"baseline_by_finger":{"index":30}}
// Response: {"baseline_by_finger":{"index":30}}
func (s *Server) handleWarmup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Baseline map[string]float64 `json:"baseline_by_finger"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	baseline, err := s.store.SetBaseline(r.Context(), chi.URLParam(r, "id"), req.Baseline)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if baseline == nil {
		baseline = domain.Baseline{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"baseline_by_finger": baseline,
	})
}

// handleRecordEvent appends a gameplay event.
// POST /api/v1/sessions/{id}/events
// Response: {"total_events":n}
func (s *Server) handleRecordEvent(w http.ResponseWriter, r *http.Request) {
	var req eventPayload
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	total, err := s.store.RecordEvent(r.Context(), chi.URLParam(r, "id"), req.toEvent())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"total_events": total})
}

// handleFinishSession applies the finish transition and returns the summary.
// POST /api/v1/sessions/{id}/finish
func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		eventPayload
		Score *int `json:"score"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	summary, err := s.store.Finish(r.Context(), chi.URLParam(r, "id"), store.FinishInput{
		Score:        req.Score,
		ReactionTime: req.ReactionTime,
		Smoothness:   req.Smoothness,
		Accuracy:     req.Accuracy,
		ROMPercent:   req.ROMPercent,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// handleGetSession returns a single session summary.
// GET /api/v1/sessions/{id}
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(view))
}

// handleGetSessionWithHistory returns a session plus recent sessions of the
// same game.
// GET /api/v1/sessions/{id}/with-history
func (s *Server) handleGetSessionWithHistory(w http.ResponseWriter, r *http.Request) {
	current, history, err := s.store.GetWithHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"current": toSessionDTO(current),
		"history": toSessionDTOs(history),
	})
}

// handleListSessions returns up to 50 recent sessions.
// GET /api/v1/sessions
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	views, err := s.store.ListAll(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTOs(views))
}

// writeStoreError maps store and domain errors onto HTTP statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Session not found.")
	case errors.Is(err, domain.ErrUnknownGameKey):
		writeError(w, http.StatusBadRequest, "Unknown game key.")
	case errors.Is(err, domain.ErrBaselineNotSet):
		writeError(w, http.StatusBadRequest, "Baseline not set. Run warmup first.")
	case errors.Is(err, domain.ErrAlreadyFinished):
		writeError(w, http.StatusConflict, "Session already finished.")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("session operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
