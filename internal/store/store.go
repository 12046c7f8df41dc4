// Package store owns the lifecycle of gameplay sessions from creation
// through finish. The in-memory map is the authoritative copy for the
// lifetime of the process; a remote repository, when configured, receives a
// best-effort mirror whose failures never affect the primary operation.
package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/handora/gamesapi/internal/domain"
	"github.com/handora/gamesapi/internal/ports"
)

const (
	listLimit    = 50
	historyLimit = 10

	defaultMirrorTimeout = 3 * time.Second
)

// Options configures a Store. Repo and Metrics may be nil; Now and NewID
// default to the wall clock and random UUIDs.
type Options struct {
	Repo          ports.SessionRepository
	Metrics       ports.MetricsExporter
	Logger        *slog.Logger
	Policy        domain.ScoringPolicy
	MirrorTimeout time.Duration
	Now           func() time.Time
	NewID         func() string
}

// Store is the session store and scorer.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session

	repo          ports.SessionRepository
	metrics       ports.MetricsExporter
	logger        *slog.Logger
	policy        domain.ScoringPolicy
	mirrorTimeout time.Duration
	now           func() time.Time
	newID         func() string
}

// New creates a Store.
func New(opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Policy == "" {
		opts.Policy = domain.PolicyThreshold
	}
	if opts.MirrorTimeout <= 0 {
		opts.MirrorTimeout = defaultMirrorTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Store{
		sessions:      make(map[string]*domain.Session),
		repo:          opts.Repo,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		policy:        opts.Policy,
		mirrorTimeout: opts.MirrorTimeout,
		now:           opts.Now,
		newID:         opts.NewID,
	}
}

// Policy returns the scoring policy active for this deployment.
func (s *Store) Policy() domain.ScoringPolicy {
	return s.policy
}

// Create allocates a new session for the given game and returns its view.
func (s *Store) Create(ctx context.Context, game domain.GameKey) (*domain.SessionView, error) {
	if _, err := domain.ParseGameKey(string(game)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	id := s.newID()
	for {
		if _, taken := s.sessions[id]; !taken {
			break
		}
		id = s.newID()
	}
	sess := &domain.Session{
		ID:        id,
		GameKey:   game,
		StartedAt: s.now().UTC(),
	}
	s.sessions[id] = sess
	view := sess.View()
	s.mu.Unlock()

	s.mirror(ctx, view)
	if s.metrics != nil {
		s.metrics.SessionStarted(ctx, game)
	}
	return view, nil
}

// SetBaseline replaces the session's baseline wholesale. An empty or absent
// mapping is an idempotent no-op returning the stored baseline unchanged.
func (s *Store) SetBaseline(ctx context.Context, id string, baseline domain.Baseline) (domain.Baseline, error) {
	for finger, angle := range baseline {
		if finger == "" || angle <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

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
	if len(baseline) > 0 {
		replacement := make(domain.Baseline, len(baseline))
		for finger, angle := range baseline {
			replacement[finger] = angle
		}
		sess.Baseline = replacement
	}
	view := sess.View()
	s.mu.Unlock()

	if len(baseline) > 0 {
		s.mirror(ctx, view)
	}
	return view.Baseline, nil
}

// RecordEvent appends an event to the session's ordered sequence and returns
// the running count. Events are not mirrored to the remote store; only the
// finish-time summary is durable.
func (s *Store) RecordEvent(ctx context.Context, id string, event domain.Event) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	if sess.Finished() {
		return 0, domain.ErrAlreadyFinished
	}
	if err := event.ValidateFor(sess.GameKey); err != nil {
		return 0, err
	}
	sess.Events = append(sess.Events, event)
	return len(sess.Events), nil
}

// Get returns the read-only projection of a session. The remote copy is
// preferred when reachable; the in-memory copy is the fallback.
func (s *Store) Get(ctx context.Context, id string) (*domain.SessionView, error) {
	if s.repo != nil {
		view, err := s.repo.GetByID(ctx, id)
		if err != nil {
			s.logger.Warn("remote session lookup failed", "session_id", id, "error", err)
		} else if view != nil {
			return view, nil
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess.View(), nil
}

// GetWithHistory returns the session's view plus up to 10 other sessions of
// the same game, ordered by start time ascending.
func (s *Store) GetWithHistory(ctx context.Context, id string) (*domain.SessionView, []*domain.SessionView, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if s.repo != nil {
		history, err := s.repo.ListByGameKey(ctx, current.GameKey, id, historyLimit)
		if err != nil {
			s.logger.Warn("remote history lookup failed", "session_id", id, "error", err)
		} else {
			return current, history, nil
		}
	}
	return current, s.memoryHistory(current.GameKey, id), nil
}

// ListAll returns up to 50 most-recently-started sessions from the remote
// store, or every in-memory session when the remote store is unavailable or
// empty.
func (s *Store) ListAll(ctx context.Context) ([]*domain.SessionView, error) {
	if s.repo != nil {
		views, err := s.repo.List(ctx, listLimit)
		if err != nil {
			s.logger.Warn("remote session list failed", "error", err)
		} else if len(views) > 0 {
			return views, nil
		}
	}

	s.mu.RLock()
	views := make([]*domain.SessionView, 0, len(s.sessions))
	for _, sess := range s.sessions {
		views = append(views, sess.View())
	}
	s.mu.RUnlock()

	sort.Slice(views, func(i, j int) bool {
		return views[i].StartedAt.After(views[j].StartedAt)
	})
	return views, nil
}

// Highscores returns the maximum recorded score per game key, 0 when a game
// has no scored session. The population is scanned on every call.
func (s *Store) Highscores(ctx context.Context) (map[domain.GameKey]int, error) {
	scores := make(map[domain.GameKey]int, len(domain.GameKeys()))
	for _, game := range domain.GameKeys() {
		scores[game] = 0
	}

	if s.repo != nil {
		remote, err := s.repo.Highscores(ctx)
		if err != nil {
			s.logger.Warn("remote highscore scan failed", "error", err)
		} else {
			for game, score := range remote {
				if score > scores[game] {
					scores[game] = score
				}
			}
			return scores, nil
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.Score != nil && *sess.Score > scores[sess.GameKey] {
			scores[sess.GameKey] = *sess.Score
		}
	}
	return scores, nil
}

func (s *Store) memoryHistory(game domain.GameKey, excludeID string) []*domain.SessionView {
	s.mu.RLock()
	var history []*domain.SessionView
	for _, sess := range s.sessions {
		if sess.ID == excludeID || sess.GameKey != game {
			continue
		}
		history = append(history, sess.View())
	}
	s.mu.RUnlock()

	sort.Slice(history, func(i, j int) bool {
		return history[i].StartedAt.Before(history[j].StartedAt)
	})
	if len(history) > historyLimit {
		history = history[:historyLimit]
	}
	return history
}

// mirror writes a session view to the remote repository. Failures are logged
// and swallowed: the in-memory record stays authoritative and the primary
// operation has already succeeded. The write is detached from the request's
// cancellation but bounded by the configured timeout.
func (s *Store) mirror(ctx context.Context, view *domain.SessionView) {
	if s.repo == nil {
		return
	}
	mirrorCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mirrorTimeout)
	defer cancel()
	if err := s.repo.Upsert(mirrorCtx, view); err != nil {
		s.logger.Warn("session mirror failed", "session_id", view.ID, "error", err)
	}
}
