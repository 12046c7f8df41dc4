package web

import (
	"time"

	"github.com/handora/gamesapi/internal/domain"
	"github.com/handora/gamesapi/internal/store"
)

type sessionDTO struct {
	SessionID   string             `json:"session_id"`
	GameKey     string             `json:"game_key"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  *time.Time         `json:"finished_at,omitempty"`
	Baseline    map[string]float64 `json:"baseline_by_finger,omitempty"`
	Score       *int               `json:"score,omitempty"`
	TotalEvents int                `json:"total_events"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

func toSessionDTO(view *domain.SessionView) sessionDTO {
	return sessionDTO{
		SessionID:   view.ID,
		GameKey:     string(view.GameKey),
		StartedAt:   view.StartedAt,
		FinishedAt:  view.FinishedAt,
		Baseline:    view.Baseline,
		Score:       view.Score,
		TotalEvents: view.TotalEvents,
		Metrics:     view.Metrics,
	}
}

func toSessionDTOs(views []*domain.SessionView) []sessionDTO {
	dtos := make([]sessionDTO, len(views))
	for i, view := range views {
		dtos[i] = toSessionDTO(view)
	}
	return dtos
}

type summaryDTO struct {
	SessionID   string             `json:"session_id"`
	GameKey     string             `json:"game_key"`
	Baseline    map[string]float64 `json:"baseline_by_finger,omitempty"`
	Score       int                `json:"score"`
	TotalEvents int                `json:"total_events"`
	CountedHits int                `json:"counted_hits"`
	FinishedAt  time.Time          `json:"finished_at"`
	Metrics     map[string]float64 `json:"metrics"`
}

func toSummaryDTO(summary *store.Summary) summaryDTO {
	return summaryDTO{
		SessionID:   summary.SessionID,
		GameKey:     string(summary.GameKey),
		Baseline:    summary.Baseline,
		Score:       summary.Score,
		TotalEvents: summary.TotalEvents,
		CountedHits: summary.CountedHits,
		FinishedAt:  summary.FinishedAt,
		Metrics:     summary.Metrics,
	}
}

type eventPayload struct {
	TimestampMS  *int64   `json:"timestamp_ms"`
	Hit          *bool    `json:"hit"`
	FlexAngle    *float64 `json:"flex_angle"`
	Finger       *string  `json:"finger"`
	ReactionTime *float64 `json:"reaction_time"`
	Smoothness   *float64 `json:"smoothness"`
	Accuracy     *float64 `json:"accuracy"`
	ROMPercent   *float64 `json:"rom_percent"`
}

func (p eventPayload) toEvent() domain.Event {
	return domain.Event{
		TimestampMS:  p.TimestampMS,
		Hit:          p.Hit,
		FlexAngle:    p.FlexAngle,
		Finger:       p.Finger,
		ReactionTime: p.ReactionTime,
		Smoothness:   p.Smoothness,
		Accuracy:     p.Accuracy,
		ROMPercent:   p.ROMPercent,
	}
}
