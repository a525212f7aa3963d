package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"wordgallows/internal/apperr"
	"wordgallows/internal/models"
	"wordgallows/internal/repository"
)

// UserService handles user registration.
type UserService struct {
	users *repository.UserRepository
	email *EmailService
}

// NewUserService creates a new user service. The email service may be
// disabled; welcome mail is best effort either way.
func NewUserService(users *repository.UserRepository, email *EmailService) *UserService {
	return &UserService{users: users, email: email}
}

// Create registers a new user. Display names are unique; email is
// optional. Users are immutable once created.
func (s *UserService) Create(ctx context.Context, name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidInput("user_name field required")
	}

	existing, err := s.users.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("a user with that name already exists")
	}

	user, err := s.users.Create(ctx, name, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}

	if user.Email != "" {
		if err := s.email.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
			log.Warn().Err(err).Str("user", user.Name).Msg("welcome email failed")
		}
	}
	return user, nil
}
