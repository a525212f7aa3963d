package repository

import (
	"context"
	"database/sql"
	"fmt"

	"wordgallows/internal/database"
	"wordgallows/internal/models"
)

// RecordRepository handles database operations for per-user win/loss
// aggregates
type RecordRepository struct {
	db *database.DB
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *database.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Get retrieves the aggregate for a user, or nil when the user has no
// completed games yet.
func (r *RecordRepository) Get(ctx context.Context, userID int64) (*models.UserRecord, error) {
	return r.GetByUserID(ctx, r.db, userID)
}

// GetByUserID is the transaction-aware variant of Get, used inside the
// end-of-game write.
func (r *RecordRepository) GetByUserID(ctx context.Context, q database.DBTX, userID int64) (*models.UserRecord, error) {
	query := `
		SELECT r.user_id, u.name, r.games, r.wins, r.losses, r.win_pct
		FROM user_records r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = ?
	`
	rec := &models.UserRecord{}
	err := q.QueryRow(ctx, query, userID).Scan(&rec.UserID, &rec.UserName,
		&rec.Games, &rec.Wins, &rec.Losses, &rec.WinPct)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user record: %w", err)
	}
	return rec, nil
}

// Upsert writes the aggregate row for a user, updating in place when one
// exists and inserting otherwise. The row is addressed directly by user id.
func (r *RecordRepository) Upsert(ctx context.Context, q database.DBTX, rec *models.UserRecord) error {
	update := `
		UPDATE user_records
		SET games = ?, wins = ?, losses = ?, win_pct = ?
		WHERE user_id = ?
	`
	result, err := q.Exec(ctx, update, rec.Games, rec.Wins, rec.Losses, rec.WinPct, rec.UserID)
	if err != nil {
		return fmt.Errorf("failed to update user record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read upsert result: %w", err)
	}
	if affected > 0 {
		return nil
	}

	insert := `
		INSERT INTO user_records (user_id, games, wins, losses, win_pct)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := q.Exec(ctx, insert, rec.UserID, rec.Games, rec.Wins, rec.Losses, rec.WinPct); err != nil {
		return fmt.Errorf("failed to insert user record: %w", err)
	}
	return nil
}

// Rankings retrieves all aggregates ordered by wins descending, with win
// percentage breaking ties.
func (r *RecordRepository) Rankings(ctx context.Context) ([]models.UserRecord, error) {
	query := `
		SELECT r.user_id, u.name, r.games, r.wins, r.losses, r.win_pct
		FROM user_records r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.wins DESC, r.win_pct DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	var records []models.UserRecord
	for rows.Next() {
		var rec models.UserRecord
		if err := rows.Scan(&rec.UserID, &rec.UserName, &rec.Games, &rec.Wins,
			&rec.Losses, &rec.WinPct); err != nil {
			return nil, fmt.Errorf("failed to scan user record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// All retrieves every aggregate keyed by user, for backup tooling
func (r *RecordRepository) All(ctx context.Context) ([]models.UserRecord, error) {
	return r.Rankings(ctx)
}
