package ports

import (
	"context"

	"github.com/handora/gamesapi/internal/domain"
)

// SessionRepository is the durable mirror of the session store. All methods
// operate on read-only session views; raw events are never persisted.
// GetByID returns (nil, nil) when the record does not exist.
type SessionRepository interface {
	Upsert(ctx context.Context, view *domain.SessionView) error
	GetByID(ctx context.Context, id string) (*domain.SessionView, error)
	// List returns up to limit sessions ordered by start time descending.
	List(ctx context.Context, limit int) ([]*domain.SessionView, error)
	// ListByGameKey returns up to limit sessions of the given game ordered by
	// start time ascending, excluding excludeID.
	ListByGameKey(ctx context.Context, game domain.GameKey, excludeID string, limit int) ([]*domain.SessionView, error)
	// Highscores returns the maximum recorded score per game key. Games
	// without a scored session are absent from the result.
	Highscores(ctx context.Context) (map[domain.GameKey]int, error)
}
