package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Round is a persisted round result.
type Round struct {
	ID              string
	Score           int
	HighestCombo    int
	NormalHits      int
	BonusHits       int
	DangerHits      int
	ExplosiveHits   int
	Misses          int
	DurationSeconds float64
	CreatedAt       time.Time
}

// RoundRepo provides access to the rounds table.
type RoundRepo struct {
	db *sql.DB
}

// Rounds returns the round repository.
func (s *Store) Rounds() *RoundRepo {
	return &RoundRepo{db: s.db}
}

// Create inserts a finished round.
func (r *RoundRepo) Create(round *Round) error {
	if round.ID == "" {
		return fmt.Errorf("round id is required")
	}
	_, err := r.db.Exec(
		`INSERT INTO rounds
			(id, score, highest_combo, normal_hits, bonus_hits, danger_hits, explosive_hits, misses, duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		round.ID, round.Score, round.HighestCombo,
		round.NormalHits, round.BonusHits, round.DangerHits, round.ExplosiveHits,
		round.Misses, round.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// GetByID returns a single round by its ID.
func (r *RoundRepo) GetByID(id string) (*Round, error) {
	row := r.db.QueryRow(
		`SELECT id, score, highest_combo, normal_hits, bonus_hits, danger_hits, explosive_hits, misses, duration_seconds, created_at
		FROM rounds WHERE id = ?`, id)

	round, err := scanRound(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return round, nil
}

// Leaderboard returns the top rounds ordered by score descending, newest
// first among equals.
func (r *RoundRepo) Leaderboard(limit int) ([]*Round, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(
		`SELECT id, score, highest_combo, normal_hits, bonus_hits, danger_hits, explosive_hits, misses, duration_seconds, created_at
		FROM rounds ORDER BY score DESC, created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []*Round
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

// BestScore returns the highest persisted score, or 0 with no rounds.
func (r *RoundRepo) BestScore() (int, error) {
	var best sql.NullInt64
	if err := r.db.QueryRow(`SELECT MAX(score) FROM rounds`).Scan(&best); err != nil {
		return 0, fmt.Errorf("failed to query best score: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRound(s scanner) (*Round, error) {
	var round Round
	err := s.Scan(
		&round.ID, &round.Score, &round.HighestCombo,
		&round.NormalHits, &round.BonusHits, &round.DangerHits, &round.ExplosiveHits,
		&round.Misses, &round.DurationSeconds, &round.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &round, nil
}
