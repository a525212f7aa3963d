package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"wordgallows/internal/database"
	"wordgallows/internal/models"
	"wordgallows/internal/repository"
)

// BackupService exports and imports the full data set as JSON snapshots.
type BackupService struct {
	db      *database.DB
	users   *repository.UserRepository
	games   *repository.GameRepository
	scores  *repository.ScoreRepository
	records *repository.RecordRepository
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, users *repository.UserRepository,
	games *repository.GameRepository, scores *repository.ScoreRepository,
	records *repository.RecordRepository) *BackupService {
	return &BackupService{db: db, users: users, games: games, scores: scores, records: records}
}

// Snapshot is the on-disk backup format.
type Snapshot struct {
	ExportedAt time.Time           `json:"exported_at"`
	Users      []models.User       `json:"users"`
	Games      []models.Game       `json:"games"`
	Scores     []models.Score      `json:"scores"`
	Records    []models.UserRecord `json:"records"`
}

// Export writes a snapshot of all users, games, scores and records to path.
func (s *BackupService) Export(ctx context.Context, path string) (*Snapshot, error) {
	snap := &Snapshot{ExportedAt: time.Now()}

	var err error
	if snap.Users, err = s.users.All(ctx); err != nil {
		return nil, err
	}
	if snap.Games, err = s.games.All(ctx); err != nil {
		return nil, err
	}
	if snap.Scores, err = s.scores.All(ctx); err != nil {
		return nil, err
	}
	if snap.Records, err = s.records.All(ctx); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	return snap, nil
}

// Import loads a snapshot file into the database, preserving row IDs.
// When clear is true all existing rows are deleted first. The whole
// import runs in one transaction.
func (s *BackupService) Import(ctx context.Context, path string, clear bool) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		if clear {
			for _, table := range []string{"scores", "user_records", "games", "users"} {
				if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
					return fmt.Errorf("failed to clear %s: %w", table, err)
				}
			}
		}

		for _, u := range snap.Users {
			_, err := tx.Exec(ctx,
				"INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)",
				u.ID, u.Name, u.Email, u.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to import user %s: %w", u.Name, err)
			}
		}

		for i := range snap.Games {
			g := &snap.Games[i]
			hits, misses, history, err := marshalJSONColumns(g)
			if err != nil {
				return err
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO games (id, game_key, user_id, word, hits, misses,
					miss_count, match_count, guess_limit, image_uri, game_over,
					cancelled, history, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				g.ID, g.Key, g.UserID, g.Word, hits, misses, g.MissCount,
				g.MatchCount, g.GuessLimit, g.ImageURI, g.GameOver, g.Cancelled,
				history, g.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to import game %s: %w", g.Key, err)
			}
		}

		for _, sc := range snap.Scores {
			_, err := tx.Exec(ctx,
				"INSERT INTO scores (id, user_id, game_id, won, points, played_on) VALUES (?, ?, ?, ?, ?, ?)",
				sc.ID, sc.UserID, sc.GameID, sc.Won, sc.Points, sc.PlayedOn)
			if err != nil {
				return fmt.Errorf("failed to import score %d: %w", sc.ID, err)
			}
		}

		for _, rec := range snap.Records {
			_, err := tx.Exec(ctx,
				"INSERT INTO user_records (user_id, games, wins, losses, win_pct) VALUES (?, ?, ?, ?, ?)",
				rec.UserID, rec.Games, rec.Wins, rec.Losses, rec.WinPct)
			if err != nil {
				return fmt.Errorf("failed to import record for user %d: %w", rec.UserID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func marshalJSONColumns(g *models.Game) (hits, misses, history string, err error) {
	h, err := json.Marshal(g.Hits)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal hits: %w", err)
	}
	m, err := json.Marshal(g.Misses)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal misses: %w", err)
	}
	mv, err := json.Marshal(g.History)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal history: %w", err)
	}
	return string(h), string(m), string(mv), nil
}
