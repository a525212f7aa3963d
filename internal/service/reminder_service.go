package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"wordgallows/internal/repository"
)

// ReminderService periodically emails players who have unfinished games.
type ReminderService struct {
	users *repository.UserRepository
	games *repository.GameRepository
	email *EmailService
}

// NewReminderService creates a new reminder service
func NewReminderService(users *repository.UserRepository, games *repository.GameRepository,
	email *EmailService) *ReminderService {
	return &ReminderService{users: users, games: games, email: email}
}

// Run sends reminders on every tick of interval until ctx is cancelled.
// Intended to run on its own goroutine.
func (s *ReminderService) Run(ctx context.Context, interval time.Duration) {
	if !s.email.IsEnabled() {
		log.Info().Msg("reminder loop not started: email service disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SendReminders(ctx); err != nil {
				log.Error().Err(err).Msg("reminder run failed")
			}
		}
	}
}

// SendReminders emails every user that has an address on file and at
// least one active game. Individual send failures are logged and do not
// stop the run.
func (s *ReminderService) SendReminders(ctx context.Context) error {
	users, err := s.users.WithActiveGames(ctx)
	if err != nil {
		return err
	}

	for _, u := range users {
		games, err := s.games.ListActiveByUser(ctx, u.ID)
		if err != nil {
			log.Warn().Err(err).Str("user", u.Name).Msg("listing active games failed")
			continue
		}
		if len(games) == 0 {
			continue
		}
		if err := s.email.SendReminderEmail(ctx, u.Email, u.Name, len(games)); err != nil {
			log.Warn().Err(err).Str("user", u.Name).Msg("reminder email failed")
		}
	}

	log.Info().Int("users", len(users)).Msg("reminder run complete")
	return nil
}
