package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/punchdrop/internal/app"
	"github.com/ayusman/punchdrop/internal/detector"
	"github.com/ayusman/punchdrop/internal/game"
	"github.com/ayusman/punchdrop/internal/store"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()

	a := app.New(app.Config{})
	a.SetDetector(detector.NewMockDetector())
	if err := a.Start(); err != nil {
		t.Fatalf("app.Start() error = %v", err)
	}
	t.Cleanup(a.Stop)
	return a
}

func TestAPI_RoundHistory(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	if err := s.Rounds().Create(&store.Round{ID: "round-1", Score: 75, DurationSeconds: 60}); err != nil {
		t.Fatalf("failed to seed round: %v", err)
	}

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	resp, err := client.Get(ts.URL + "/api/rounds")
	if err != nil {
		t.Fatalf("GET /api/rounds error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/rounds status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Rounds []struct {
			ID    string `json:"id"`
			Score int    `json:"score"`
		} `json:"rounds"`
		BestScore int `json:"best_score"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Rounds) != 1 || listed.Rounds[0].ID != "round-1" {
		t.Fatalf("rounds = %+v, want the seeded round", listed.Rounds)
	}
	if listed.BestScore != 75 {
		t.Errorf("best_score = %d, want 75", listed.BestScore)
	}

	resp, _ = client.Get(ts.URL + "/api/rounds/round-1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/rounds/round-1 status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	resp, _ = client.Get(ts.URL + "/api/rounds/missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET missing round status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestWS_GameControl(t *testing.T) {
	application := newTestApp(t)

	srv := New(Config{App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/game"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"start"}`)); err != nil {
		t.Fatalf("failed to send start: %v", err)
	}

	// Read snapshots until the round shows up as active.
	deadline := time.Now().Add(3 * time.Second)
	var snap game.Snapshot
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("websocket read error = %v", err)
		}
		if err := json.Unmarshal(data, &snap); err != nil {
			t.Fatalf("failed to decode snapshot: %v", err)
		}
		if snap.Active {
			break
		}
	}
	if !snap.Active {
		t.Fatal("round never became active over websocket control")
	}
	if snap.TimeLeft <= 0 {
		t.Errorf("active round has time_left = %d", snap.TimeLeft)
	}

	// Malformed and unknown messages must not break the connection.
	conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
	conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"warp"}`))

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"end"}`)); err != nil {
		t.Fatalf("failed to send end: %v", err)
	}

	deadline = time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("websocket read error = %v", err)
		}
		if err := json.Unmarshal(data, &snap); err != nil {
			t.Fatalf("failed to decode snapshot: %v", err)
		}
		if !snap.Active {
			return
		}
	}
	t.Fatal("round never ended over websocket control")
}

func TestAPI_HealthReportsTracker(t *testing.T) {
	application := newTestApp(t)

	srv := New(Config{App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	var health struct {
		Status  string `json:"status"`
		Tracker *bool  `json:"tracker"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
	if health.Tracker == nil {
		t.Error("expected tracker field when an app is configured")
	}
}
