package domain

import "time"

// GameKey identifies one of the fixed mini-games.
type GameKey string

const (
	GamePianoTiles   GameKey = "piano_tiles"
	GameSpaceInvader GameKey = "space_invader"
	GameDinosaur     GameKey = "dinosaur"
)

// GameKeys returns all known game keys in declaration order. The order is
// part of the API contract: the highscores endpoint reports games under
// positional keys "1", "2", "3" following this order.
func GameKeys() []GameKey {
	return []GameKey{GamePianoTiles, GameSpaceInvader, GameDinosaur}
}

// ParseGameKey validates a raw game key string.
func ParseGameKey(raw string) (GameKey, error) {
	key := GameKey(raw)
	for _, known := range GameKeys() {
		if key == known {
			return key, nil
		}
	}
	return "", ErrUnknownGameKey
}

// Baseline maps finger name to the calibration angle (degrees) captured
// during warmup.
type Baseline map[string]float64

// MaxAngle returns the highest calibrated angle, or 0 for an empty baseline.
// Events that do not name a finger are scored against this value.
func (b Baseline) MaxAngle() float64 {
	var max float64
	for _, angle := range b {
		if angle > max {
			max = angle
		}
	}
	return max
}

// Session is one play-through of a single mini-game from start to finish,
// with its telemetry and derived score.
type Session struct {
	ID         string
	GameKey    GameKey
	StartedAt  time.Time
	FinishedAt *time.Time
	Baseline   Baseline
	Events     []Event
	Score      *int
	Metrics    map[string]float64
}

// Finished reports whether the finish transition already happened.
func (s *Session) Finished() bool {
	return s.FinishedAt != nil
}

// View returns the read-only projection of the session that is exposed over
// the API and mirrored to the remote store. Raw events stay in the transient
// in-memory buffer; only their count survives in the view.
func (s *Session) View() *SessionView {
	view := &SessionView{
		ID:          s.ID,
		GameKey:     s.GameKey,
		StartedAt:   s.StartedAt,
		TotalEvents: len(s.Events),
	}
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		view.FinishedAt = &t
	}
	if s.Baseline != nil {
		view.Baseline = make(Baseline, len(s.Baseline))
		for finger, angle := range s.Baseline {
			view.Baseline[finger] = angle
		}
	}
	if s.Score != nil {
		score := *s.Score
		view.Score = &score
	}
	if s.Metrics != nil {
		view.Metrics = make(map[string]float64, len(s.Metrics))
		for k, v := range s.Metrics {
			view.Metrics[k] = v
		}
	}
	return view
}

// SessionView is the read-only session projection. It carries no raw events
// and is safe to hand out and to persist.
type SessionView struct {
	ID          string
	GameKey     GameKey
	StartedAt   time.Time
	FinishedAt  *time.Time
	Baseline    Baseline
	Score       *int
	Metrics     map[string]float64
	TotalEvents int
}
