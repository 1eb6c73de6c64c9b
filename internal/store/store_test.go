package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRound(score int) *Round {
	return &Round{
		ID:              uuid.New().String(),
		Score:           score,
		HighestCombo:    3,
		NormalHits:      5,
		BonusHits:       1,
		DangerHits:      2,
		ExplosiveHits:   1,
		Misses:          4,
		DurationSeconds: 60,
	}
}

func TestMigrations_CreateTables(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"rounds", "settings"} {
		var name string
		err := s.DB().QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}
}

func TestRoundRepo_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	round := testRound(120)
	if err := s.Rounds().Create(round); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Rounds().GetByID(round.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Score != 120 || got.HighestCombo != 3 || got.Misses != 4 {
		t.Errorf("round round-trip mismatch: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not populated")
	}
}

func TestRoundRepo_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Rounds().GetByID("no-such-round")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRoundRepo_Create_RequiresID(t *testing.T) {
	s := newTestStore(t)

	if err := s.Rounds().Create(&Round{Score: 10}); err == nil {
		t.Error("expected error creating a round without an id")
	}
}

func TestRoundRepo_Leaderboard(t *testing.T) {
	s := newTestStore(t)

	for _, score := range []int{40, 200, 90, 150, 10} {
		if err := s.Rounds().Create(testRound(score)); err != nil {
			t.Fatalf("Create(%d) error = %v", score, err)
		}
	}

	t.Run("ordered by score descending", func(t *testing.T) {
		rounds, err := s.Rounds().Leaderboard(10)
		if err != nil {
			t.Fatalf("Leaderboard() error = %v", err)
		}
		if len(rounds) != 5 {
			t.Fatalf("len = %d, want 5", len(rounds))
		}
		for i := 1; i < len(rounds); i++ {
			if rounds[i].Score > rounds[i-1].Score {
				t.Fatalf("leaderboard out of order at %d: %d > %d", i, rounds[i].Score, rounds[i-1].Score)
			}
		}
	})

	t.Run("respects the limit", func(t *testing.T) {
		rounds, err := s.Rounds().Leaderboard(3)
		if err != nil {
			t.Fatalf("Leaderboard() error = %v", err)
		}
		if len(rounds) != 3 {
			t.Errorf("len = %d, want 3", len(rounds))
		}
		if rounds[0].Score != 200 {
			t.Errorf("top score = %d, want 200", rounds[0].Score)
		}
	})

	t.Run("best score", func(t *testing.T) {
		best, err := s.Rounds().BestScore()
		if err != nil {
			t.Fatalf("BestScore() error = %v", err)
		}
		if best != 200 {
			t.Errorf("best = %d, want 200", best)
		}
	})
}

func TestSettingsRepo(t *testing.T) {
	s := newTestStore(t)

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		_, err := s.Settings().Get("no-such-key")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("set and get round-trip", func(t *testing.T) {
		if err := s.Settings().Set("tracking_enabled", "false"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := s.Settings().Get("tracking_enabled")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "false" {
			t.Errorf("value = %q, want %q", got, "false")
		}
	})

	t.Run("set overwrites previous value", func(t *testing.T) {
		if err := s.Settings().Set("tracking_enabled", "true"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := s.Settings().Get("tracking_enabled")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "true" {
			t.Errorf("value = %q, want %q", got, "true")
		}
	})
}

func TestRoundRepo_BestScore_Empty(t *testing.T) {
	s := newTestStore(t)

	best, err := s.Rounds().BestScore()
	if err != nil {
		t.Fatalf("BestScore() error = %v", err)
	}
	if best != 0 {
		t.Errorf("best on empty table = %d, want 0", best)
	}
}
