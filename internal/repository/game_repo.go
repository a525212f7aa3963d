package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"wordgallows/internal/database"
	"wordgallows/internal/models"
)

// GameRepository handles database operations for games
type GameRepository struct {
	db *database.DB
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `g.id, g.game_key, g.user_id, u.name, g.word, g.hits, g.misses,
	g.miss_count, g.match_count, g.guess_limit, g.image_uri, g.game_over,
	g.cancelled, g.history, g.created_at`

// Create inserts a new game and returns its row ID
func (r *GameRepository) Create(ctx context.Context, game *models.Game) (int64, error) {
	hits, misses, history, err := marshalGameState(game)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO games (game_key, user_id, word, hits, misses, miss_count,
			match_count, guess_limit, image_uri, game_over, cancelled, history)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		game.Key, game.UserID, game.Word, hits, misses, game.MissCount,
		game.MatchCount, game.GuessLimit, game.ImageURI, game.GameOver,
		game.Cancelled, history)
	if err != nil {
		return 0, fmt.Errorf("failed to create game: %w", err)
	}
	return id, nil
}

// GetByKey retrieves a game by its public key, or nil when absent
func (r *GameRepository) GetByKey(ctx context.Context, key string) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games g
		JOIN users u ON u.id = g.user_id
		WHERE g.game_key = ?
	`
	return scanGame(r.db.QueryRow(ctx, query, key))
}

// Update persists the mutable state of a game. It accepts a DBTX so the
// end-of-game write can share a transaction with Score and UserRecord.
func (r *GameRepository) Update(ctx context.Context, q database.DBTX, game *models.Game) error {
	hits, misses, history, err := marshalGameState(game)
	if err != nil {
		return err
	}

	query := `
		UPDATE games
		SET hits = ?, misses = ?, miss_count = ?, match_count = ?,
			image_uri = ?, game_over = ?, cancelled = ?, history = ?
		WHERE id = ?
	`
	_, err = q.Exec(ctx, query, hits, misses, game.MissCount, game.MatchCount,
		game.ImageURI, game.GameOver, game.Cancelled, history, game.ID)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	return nil
}

// ListActiveByUser retrieves a user's games that are neither finished nor
// cancelled, newest first
func (r *GameRepository) ListActiveByUser(ctx context.Context, userID int64) ([]models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games g
		JOIN users u ON u.id = g.user_id
		WHERE g.user_id = ? AND g.game_over = ? AND g.cancelled = ?
		ORDER BY g.created_at DESC, g.id DESC
	`
	return r.list(ctx, query, userID, false, false)
}

// All retrieves every game, oldest first
func (r *GameRepository) All(ctx context.Context) ([]models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games g
		JOIN users u ON u.id = g.user_id
		ORDER BY g.id
	`
	return r.list(ctx, query)
}

func (r *GameRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Game, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		game, err := scanGameRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

func marshalGameState(game *models.Game) (hits, misses, history string, err error) {
	h, err := json.Marshal(orEmpty(game.Hits))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal hits: %w", err)
	}
	m, err := json.Marshal(orEmpty(game.Misses))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal misses: %w", err)
	}
	moves := game.History
	if moves == nil {
		moves = []models.MoveRecord{}
	}
	hist, err := json.Marshal(moves)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal history: %w", err)
	}
	return string(h), string(m), string(hist), nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func scanGame(row *sql.Row) (*models.Game, error) {
	game, err := scanGameRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return game, err
}

func scanGameRow(scan func(dest ...interface{}) error) (*models.Game, error) {
	game := &models.Game{}
	var hits, misses, history string

	err := scan(&game.ID, &game.Key, &game.UserID, &game.UserName, &game.Word,
		&hits, &misses, &game.MissCount, &game.MatchCount, &game.GuessLimit,
		&game.ImageURI, &game.GameOver, &game.Cancelled, &history, &game.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}

	if err := json.Unmarshal([]byte(hits), &game.Hits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hits: %w", err)
	}
	if err := json.Unmarshal([]byte(misses), &game.Misses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal misses: %w", err)
	}
	if err := json.Unmarshal([]byte(history), &game.History); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return game, nil
}
