package repository

import (
	"context"
	"fmt"

	"wordgallows/internal/database"
	"wordgallows/internal/models"
)

// ScoreRepository handles database operations for completed-game scores
type ScoreRepository struct {
	db *database.DB
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *database.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

const scoreColumns = `s.id, s.user_id, u.name, s.game_id, g.game_key, g.word,
	s.won, s.points, s.played_on`

// Insert records the score of one completed game. It accepts a DBTX so it
// can share the end-of-game transaction.
func (r *ScoreRepository) Insert(ctx context.Context, q database.DBTX, score *models.Score) (int64, error) {
	query := `
		INSERT INTO scores (user_id, game_id, won, points, played_on)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := q.ExecReturningID(ctx, query,
		score.UserID, score.GameID, score.Won, score.Points, score.PlayedOn)
	if err != nil {
		return 0, fmt.Errorf("failed to insert score: %w", err)
	}
	return id, nil
}

// Leaderboard retrieves scores ordered by points descending. A limit of
// zero or less means no limit.
func (r *ScoreRepository) Leaderboard(ctx context.Context, limit int) ([]models.Score, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM scores s
		JOIN users u ON u.id = s.user_id
		JOIN games g ON g.id = s.game_id
		ORDER BY s.points DESC
	`
	if limit > 0 {
		return r.list(ctx, query+" LIMIT ?", limit)
	}
	return r.list(ctx, query)
}

// ByUser retrieves a user's scores, newest first
func (r *ScoreRepository) ByUser(ctx context.Context, userID int64) ([]models.Score, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM scores s
		JOIN users u ON u.id = s.user_id
		JOIN games g ON g.id = s.game_id
		WHERE s.user_id = ?
		ORDER BY s.played_on DESC, s.id DESC
	`
	return r.list(ctx, query, userID)
}

// All retrieves every score, oldest first
func (r *ScoreRepository) All(ctx context.Context) ([]models.Score, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM scores s
		JOIN users u ON u.id = s.user_id
		JOIN games g ON g.id = s.game_id
		ORDER BY s.id
	`
	return r.list(ctx, query)
}

func (r *ScoreRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Score, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []models.Score
	for rows.Next() {
		var s models.Score
		if err := rows.Scan(&s.ID, &s.UserID, &s.UserName, &s.GameID, &s.GameKey,
			&s.Word, &s.Won, &s.Points, &s.PlayedOn); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
