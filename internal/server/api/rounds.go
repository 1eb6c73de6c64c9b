// Package api provides HTTP API handlers for punchdrop round history.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/punchdrop/internal/store"
)

// defaultLeaderboardLimit caps the list response when no limit is given.
const defaultLeaderboardLimit = 10

// RoundsHandler handles HTTP requests for round resources. Rounds are
// created by the game loop, never over HTTP, so the API is read-only.
type RoundsHandler struct {
	store *store.Store
}

// NewRoundsHandler creates a new RoundsHandler with the given store.
func NewRoundsHandler(s *store.Store) *RoundsHandler {
	return &RoundsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *RoundsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Expected paths: /api/rounds or /api/rounds/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/rounds")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		h.list(w, r)
		return
	}
	h.get(w, r, path)
}

// Response types

type roundResponse struct {
	ID              string  `json:"id"`
	Score           int     `json:"score"`
	HighestCombo    int     `json:"highest_combo"`
	NormalHits      int     `json:"normal_hits"`
	BonusHits       int     `json:"bonus_hits"`
	DangerHits      int     `json:"danger_hits"`
	ExplosiveHits   int     `json:"explosive_hits"`
	Misses          int     `json:"misses"`
	DurationSeconds float64 `json:"duration_seconds"`
	CreatedAt       string  `json:"created_at"`
}

type listRoundsResponse struct {
	Rounds    []roundResponse `json:"rounds"`
	BestScore int             `json:"best_score"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Round to a roundResponse.
func toResponse(round *store.Round) roundResponse {
	return roundResponse{
		ID:              round.ID,
		Score:           round.Score,
		HighestCombo:    round.HighestCombo,
		NormalHits:      round.NormalHits,
		BonusHits:       round.BonusHits,
		DangerHits:      round.DangerHits,
		ExplosiveHits:   round.ExplosiveHits,
		Misses:          round.Misses,
		DurationSeconds: round.DurationSeconds,
		CreatedAt:       round.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/rounds and returns the leaderboard.
func (h *RoundsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	rounds, err := h.store.Rounds().Leaderboard(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rounds")
		return
	}

	best, err := h.store.Rounds().BestScore()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query best score")
		return
	}

	response := listRoundsResponse{
		Rounds:    make([]roundResponse, 0, len(rounds)),
		BestScore: best,
	}
	for _, round := range rounds {
		response.Rounds = append(response.Rounds, toResponse(round))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/rounds/{id} and returns a single round.
func (h *RoundsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	round, err := h.store.Rounds().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Round not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get round")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(round))
}
