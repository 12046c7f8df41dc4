package turso_test

import (
	"context"
	"testing"
	"time"

	"github.com/handora/gamesapi/internal/adapters/turso"
	"github.com/handora/gamesapi/internal/domain"
)

func intPtr(n int) *int { return &n }

func seedView(id string, game domain.GameKey, startedAt time.Time) *domain.SessionView {
	return &domain.SessionView{
		ID:        id,
		GameKey:   game,
		StartedAt: startedAt,
	}
}

func TestSessionRepositoryUpsertAndGet(t *testing.T) {
	db := testDB(t)
	repo := turso.NewSessionRepository(db)
	ctx := context.Background()

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	view := seedView("s-1", domain.GamePianoTiles, started)
	view.Baseline = domain.Baseline{"index": 30}

	if err := repo.Upsert(ctx, view); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.GetByID(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil for existing session")
	}
	if got.GameKey != domain.GamePianoTiles || !got.StartedAt.Equal(started) {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if got.Baseline["index"] != 30 {
		t.Errorf("baseline not persisted: %v", got.Baseline)
	}
	if got.Score != nil || got.FinishedAt != nil {
		t.Errorf("unfinished session has finish fields: %+v", got)
	}

	// A second upsert updates the finish fields in place.
	finished := started.Add(2 * time.Minute)
	view.FinishedAt = &finished
	view.Score = intPtr(5)
	view.Metrics = map[string]float64{"total_events": 8, "counted_hits": 5}
	view.TotalEvents = 8
	if err := repo.Upsert(ctx, view); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	got, err = repo.GetByID(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetByID after finish: %v", err)
	}
	if got.Score == nil || *got.Score != 5 || got.FinishedAt == nil || !got.FinishedAt.Equal(finished) {
		t.Errorf("finish fields not updated: %+v", got)
	}
	if got.Metrics["counted_hits"] != 5 || got.TotalEvents != 8 {
		t.Errorf("metrics not updated: %+v", got)
	}
}

func TestSessionRepositoryGetMissing(t *testing.T) {
	db := testDB(t)
	repo := turso.NewSessionRepository(db)

	got, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("GetByID(missing) = %+v, want nil", got)
	}
}

func TestSessionRepositoryList(t *testing.T) {
	db := testDB(t)
	repo := turso.NewSessionRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		view := seedView(
			string(rune('a'+i)),
			domain.GameDinosaur,
			base.Add(time.Duration(i)*time.Minute),
		)
		if err := repo.Upsert(ctx, view); err != nil {
			t.Fatalf("Upsert #%d: %v", i, err)
		}
	}

	views, err := repo.List(ctx, 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("List returned %d sessions, want 3", len(views))
	}
	// Most recently started first.
	if views[0].ID != "d" || views[1].ID != "c" || views[2].ID != "b" {
		t.Errorf("List order wrong: %s, %s, %s", views[0].ID, views[1].ID, views[2].ID)
	}
}

func TestSessionRepositoryListByGameKey(t *testing.T) {
	db := testDB(t)
	repo := turso.NewSessionRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seeds := []struct {
		id   string
		game domain.GameKey
	}{
		{"p-1", domain.GamePianoTiles},
		{"p-2", domain.GamePianoTiles},
		{"d-1", domain.GameDinosaur},
		{"p-3", domain.GamePianoTiles},
	}
	for i, seed := range seeds {
		if err := repo.Upsert(ctx, seedView(seed.id, seed.game, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Upsert %s: %v", seed.id, err)
		}
	}

	views, err := repo.ListByGameKey(ctx, domain.GamePianoTiles, "p-2", 10)
	if err != nil {
		t.Fatalf("ListByGameKey: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("ListByGameKey returned %d sessions, want 2", len(views))
	}
	// Ascending by start time, excluded session absent.
	if views[0].ID != "p-1" || views[1].ID != "p-3" {
		t.Errorf("ListByGameKey order wrong: %s, %s", views[0].ID, views[1].ID)
	}
}

func TestSessionRepositoryHighscores(t *testing.T) {
	db := testDB(t)
	repo := turso.NewSessionRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seeds := []struct {
		id    string
		game  domain.GameKey
		score *int
	}{
		{"p-1", domain.GamePianoTiles, intPtr(5)},
		{"p-2", domain.GamePianoTiles, intPtr(9)},
		{"d-1", domain.GameDinosaur, intPtr(3)},
		{"s-1", domain.GameSpaceInvader, nil},
	}
	for i, seed := range seeds {
		view := seedView(seed.id, seed.game, base.Add(time.Duration(i)*time.Minute))
		view.Score = seed.score
		if err := repo.Upsert(ctx, view); err != nil {
			t.Fatalf("Upsert %s: %v", seed.id, err)
		}
	}

	scores, err := repo.Highscores(ctx)
	if err != nil {
		t.Fatalf("Highscores: %v", err)
	}
	if scores[domain.GamePianoTiles] != 9 || scores[domain.GameDinosaur] != 3 {
		t.Errorf("Highscores = %v", scores)
	}
	if _, ok := scores[domain.GameSpaceInvader]; ok {
		t.Errorf("unscored game present in highscores: %v", scores)
	}
}
