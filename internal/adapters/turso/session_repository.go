package turso

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/handora/gamesapi/internal/domain"
)

const maxRetries = 2

// SessionRepository persists session views in a Turso sessions table.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Upsert(ctx context.Context, view *domain.SessionView) error {
	var finishedAt sql.NullString
	if view.FinishedAt != nil {
		finishedAt = sql.NullString{String: view.FinishedAt.Format(time.RFC3339Nano), Valid: true}
	}
	var score sql.NullInt64
	if view.Score != nil {
		score = sql.NullInt64{Int64: int64(*view.Score), Valid: true}
	}

	baseline, err := nullJSON(view.Baseline)
	if err != nil {
		return fmt.Errorf("failed to encode baseline: %w", err)
	}
	metrics, err := nullJSON(view.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}

	_, err = withRetry(ctx, maxRetries, func() (sql.Result, error) {
		return r.db.ExecContext(ctx, `
			INSERT INTO sessions (id, game_key, started_at, finished_at, baseline, score, metrics, total_events)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				finished_at = excluded.finished_at,
				baseline = excluded.baseline,
				score = excluded.score,
				metrics = excluded.metrics,
				total_events = excluded.total_events
		`,
			view.ID,
			string(view.GameKey),
			view.StartedAt.Format(time.RFC3339Nano),
			finishedAt,
			baseline,
			score,
			metrics,
			view.TotalEvents,
		)
	})
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.SessionView, error) {
	view, err := withRetry(ctx, maxRetries, func() (*domain.SessionView, error) {
		row := r.db.QueryRowContext(ctx, `
			SELECT id, game_key, started_at, finished_at, baseline, score, metrics, total_events
			FROM sessions WHERE id = ?
		`, id)
		return scanSession(row)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return view, nil
}

func (r *SessionRepository) List(ctx context.Context, limit int) ([]*domain.SessionView, error) {
	views, err := withRetry(ctx, maxRetries, func() ([]*domain.SessionView, error) {
		rows, err := r.db.QueryContext(ctx, `
			SELECT id, game_key, started_at, finished_at, baseline, score, metrics, total_events
			FROM sessions ORDER BY started_at DESC LIMIT ?
		`, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return scanSessions(rows)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return views, nil
}

func (r *SessionRepository) ListByGameKey(ctx context.Context, game domain.GameKey, excludeID string, limit int) ([]*domain.SessionView, error) {
	views, err := withRetry(ctx, maxRetries, func() ([]*domain.SessionView, error) {
		rows, err := r.db.QueryContext(ctx, `
			SELECT id, game_key, started_at, finished_at, baseline, score, metrics, total_events
			FROM sessions WHERE game_key = ? AND id != ?
			ORDER BY started_at ASC LIMIT ?
		`, string(game), excludeID, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return scanSessions(rows)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list session history: %w", err)
	}
	return views, nil
}

func (r *SessionRepository) Highscores(ctx context.Context) (map[domain.GameKey]int, error) {
	scores, err := withRetry(ctx, maxRetries, func() (map[domain.GameKey]int, error) {
		rows, err := r.db.QueryContext(ctx, `
			SELECT game_key, MAX(score) FROM sessions
			WHERE score IS NOT NULL GROUP BY game_key
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		scores := make(map[domain.GameKey]int)
		for rows.Next() {
			var game string
			var score int
			if err := rows.Scan(&game, &score); err != nil {
				return nil, err
			}
			scores[domain.GameKey(game)] = score
		}
		return scores, rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan highscores: %w", err)
	}
	return scores, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.SessionView, error) {
	var (
		view        domain.SessionView
		gameKey     string
		startedAt   string
		finishedAt  sql.NullString
		baselineRaw sql.NullString
		score       sql.NullInt64
		metricsRaw  sql.NullString
	)
	if err := row.Scan(&view.ID, &gameKey, &startedAt, &finishedAt, &baselineRaw, &score, &metricsRaw, &view.TotalEvents); err != nil {
		return nil, err
	}

	view.GameKey = domain.GameKey(gameKey)
	started, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
	}
	view.StartedAt = started

	if finishedAt.Valid {
		finished, err := time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid finished_at %q: %w", finishedAt.String, err)
		}
		view.FinishedAt = &finished
	}
	if score.Valid {
		n := int(score.Int64)
		view.Score = &n
	}
	if baselineRaw.Valid {
		if err := json.Unmarshal([]byte(baselineRaw.String), &view.Baseline); err != nil {
			return nil, fmt.Errorf("invalid baseline payload: %w", err)
		}
	}
	if metricsRaw.Valid {
		if err := json.Unmarshal([]byte(metricsRaw.String), &view.Metrics); err != nil {
			return nil, fmt.Errorf("invalid metrics payload: %w", err)
		}
	}
	return &view, nil
}

func scanSessions(rows *sql.Rows) ([]*domain.SessionView, error) {
	var views []*domain.SessionView
	for rows.Next() {
		view, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func nullJSON(v any) (sql.NullString, error) {
	switch typed := v.(type) {
	case domain.Baseline:
		if typed == nil {
			return sql.NullString{}, nil
		}
	case map[string]float64:
		if typed == nil {
			return sql.NullString{}, nil
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}
