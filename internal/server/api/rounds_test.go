package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/ayusman/punchdrop/internal/store"
)

// newTestStore creates a Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createRound(t *testing.T, s *store.Store, score int) *store.Round {
	t.Helper()

	round := &store.Round{
		ID:              uuid.New().String(),
		Score:           score,
		HighestCombo:    4,
		NormalHits:      8,
		BonusHits:       1,
		Misses:          3,
		DurationSeconds: 60,
	}
	if err := s.Rounds().Create(round); err != nil {
		t.Fatalf("failed to create round: %v", err)
	}
	return round
}

func TestRoundsHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewRoundsHandler(s)

	for _, score := range []int{50, 180, 120} {
		createRound(t, s, score)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rounds", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listRoundsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Rounds) != 3 {
		t.Errorf("expected 3 rounds, got %d", len(response.Rounds))
	}
	if response.Rounds[0].Score != 180 {
		t.Errorf("expected top score 180, got %d", response.Rounds[0].Score)
	}
	if response.BestScore != 180 {
		t.Errorf("expected best score 180, got %d", response.BestScore)
	}
}

func TestRoundsHandler_List_Limit(t *testing.T) {
	s := newTestStore(t)
	handler := NewRoundsHandler(s)

	for _, score := range []int{10, 20, 30, 40} {
		createRound(t, s, score)
	}

	t.Run("respects limit parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/rounds?limit=2", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		var response listRoundsResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(response.Rounds) != 2 {
			t.Errorf("expected 2 rounds, got %d", len(response.Rounds))
		}
	})

	t.Run("rejects invalid limit", func(t *testing.T) {
		for _, raw := range []string{"abc", "0", "-5"} {
			req := httptest.NewRequest(http.MethodGet, "/api/rounds?limit="+raw, nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("limit %q: expected status %d, got %d", raw, http.StatusBadRequest, rec.Code)
			}
		}
	})
}

func TestRoundsHandler_Get(t *testing.T) {
	s := newTestStore(t)
	handler := NewRoundsHandler(s)

	round := createRound(t, s, 95)

	req := httptest.NewRequest(http.MethodGet, "/api/rounds/"+round.ID, nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response roundResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.ID != round.ID {
		t.Errorf("expected id %s, got %s", round.ID, response.ID)
	}
	if response.Score != 95 || response.HighestCombo != 4 || response.Misses != 3 {
		t.Errorf("round fields mismatch: %+v", response)
	}
	if response.CreatedAt == "" {
		t.Error("expected created_at to be populated")
	}
}

func TestRoundsHandler_Get_NotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewRoundsHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/rounds/no-such-round", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	var response errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Error == "" {
		t.Error("expected error message in response")
	}
}

func TestRoundsHandler_RejectsWrites(t *testing.T) {
	s := newTestStore(t)
	handler := NewRoundsHandler(s)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/rounds", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}
