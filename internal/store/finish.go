package store

import (
	"context"
	"time"

	"github.com/handora/gamesapi/internal/domain"
)

// FinishInput carries the caller-supplied finish payload. Under the
// threshold policy everything is ignored and the score is derived from the
// recorded events; under the reported policy Score is required and the
// present metric fields are recorded verbatim.
type FinishInput struct {
	Score        *int
	ReactionTime *float64
	Smoothness   *float64
	Accuracy     *float64
	ROMPercent   *float64
}

// Summary is the finish-time result returned to the caller and summarized
// into the session's metrics.
type Summary struct {
	SessionID   string
	GameKey     domain.GameKey
	Baseline    domain.Baseline
	Score       int
	TotalEvents int
	CountedHits int
	FinishedAt  time.Time
	Metrics     map[string]float64
}

// Finish applies the finish transition exactly once: score, finished_at and
// metrics are set together under the lock. A second finish is rejected.
func (s *Store) Finish(ctx context.Context, id string, in FinishInput) (*Summary, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	if sess.Finished() {
		s.mu.Unlock()
		return nil, domain.ErrAlreadyFinished
	}

	var (
		score       int
		countedHits int
		metrics     map[string]float64
	)
	switch s.policy {
	case domain.PolicyReported:
		if in.Score == nil {
			s.mu.Unlock()
			return nil, domain.ErrInvalidInput
		}
		score = *in.Score
		metrics = reportedMetrics(in, len(sess.Events))
	default:
		if len(sess.Baseline) == 0 {
			s.mu.Unlock()
			return nil, domain.ErrBaselineNotSet
		}
		countedHits = domain.CountQualifyingHits(sess.Baseline, sess.Events)
		score = countedHits
		metrics = map[string]float64{
			"total_events": float64(len(sess.Events)),
			"counted_hits": float64(countedHits),
		}
	}

	finishedAt := s.now().UTC()
	sess.FinishedAt = &finishedAt
	sess.Score = &score
	sess.Metrics = metrics
	view := sess.View()
	summary := &Summary{
		SessionID:   sess.ID,
		GameKey:     sess.GameKey,
		Baseline:    view.Baseline,
		Score:       score,
		TotalEvents: len(sess.Events),
		CountedHits: countedHits,
		FinishedAt:  finishedAt,
		Metrics:     view.Metrics,
	}
	s.mu.Unlock()

	s.mirror(ctx, view)
	if s.metrics != nil {
		s.metrics.SessionFinished(ctx, summary.GameKey, summary.Score, summary.TotalEvents)
	}
	return summary, nil
}

func reportedMetrics(in FinishInput, totalEvents int) map[string]float64 {
	metrics := map[string]float64{
		"total_events": float64(totalEvents),
	}
	if in.ReactionTime != nil {
		metrics["reaction_time"] = *in.ReactionTime
	}
	if in.Smoothness != nil {
		metrics["smoothness"] = *in.Smoothness
	}
	if in.Accuracy != nil {
		metrics["accuracy"] = *in.Accuracy
	}
	if in.ROMPercent != nil {
		metrics["rom_percent"] = *in.ROMPercent
	}
	return metrics
}
