package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wordgallows/internal/database"
	"wordgallows/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, name, email string) (*models.User, error) {
	query := "INSERT INTO users (name, email) VALUES (?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, name, email)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}, nil
}

// GetByName retrieves a user by display name, or nil when absent
func (r *UserRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	query := `
		SELECT id, name, email, created_at
		FROM users
		WHERE name = ?
	`
	return r.scanOne(r.db.QueryRow(ctx, query, name))
}

// GetByID retrieves a user by ID, or nil when absent
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, name, email, created_at
		FROM users
		WHERE id = ?
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// All retrieves every user, oldest first
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, name, email, created_at
		FROM users
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// WithActiveGames retrieves users that have an email address and at least
// one game still in play. Used by the reminder loop.
func (r *UserRepository) WithActiveGames(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT DISTINCT u.id, u.name, u.email, u.created_at
		FROM users u
		JOIN games g ON g.user_id = u.id
		WHERE u.email != '' AND g.game_over = ? AND g.cancelled = ?
	`
	rows, err := r.db.Query(ctx, query, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to query users with active games: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
