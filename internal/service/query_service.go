package service

import (
	"context"

	"wordgallows/internal/apperr"
	"wordgallows/internal/models"
	"wordgallows/internal/repository"
)

// QueryService serves the read-only projections: game state and history,
// active games per user, scores and rankings.
type QueryService struct {
	users   *repository.UserRepository
	games   *repository.GameRepository
	scores  *repository.ScoreRepository
	records *repository.RecordRepository
}

// NewQueryService creates a new query service
func NewQueryService(users *repository.UserRepository, games *repository.GameRepository,
	scores *repository.ScoreRepository, records *repository.RecordRepository) *QueryService {
	return &QueryService{users: users, games: games, scores: scores, records: records}
}

// GetGame returns the game with the given public key.
func (s *QueryService) GetGame(ctx context.Context, key string) (*models.Game, error) {
	game, err := s.games.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperr.NotFound("game not found")
	}
	return game, nil
}

// GameHistory returns the ordered move history of a game.
func (s *QueryService) GameHistory(ctx context.Context, key string) (*models.Game, []models.MoveRecord, error) {
	game, err := s.GetGame(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	return game, game.History, nil
}

// ListActiveGames returns the named user's games that are neither finished
// nor cancelled, newest first.
func (s *QueryService) ListActiveGames(ctx context.Context, userName string) ([]models.Game, error) {
	user, err := s.requireUser(ctx, userName)
	if err != nil {
		return nil, err
	}
	return s.games.ListActiveByUser(ctx, user.ID)
}

// Leaderboard returns scores ordered by points descending. A limit of zero
// or less returns every score.
func (s *QueryService) Leaderboard(ctx context.Context, limit int) ([]models.Score, error) {
	return s.scores.Leaderboard(ctx, limit)
}

// Scores returns every score on record.
func (s *QueryService) Scores(ctx context.Context) ([]models.Score, error) {
	return s.scores.All(ctx)
}

// UserScores returns the named user's scores, newest first.
func (s *QueryService) UserScores(ctx context.Context, userName string) ([]models.Score, error) {
	user, err := s.requireUser(ctx, userName)
	if err != nil {
		return nil, err
	}
	return s.scores.ByUser(ctx, user.ID)
}

// Rankings returns all user records ordered by wins descending, win
// percentage breaking ties.
func (s *QueryService) Rankings(ctx context.Context) ([]models.UserRecord, error) {
	return s.records.Rankings(ctx)
}

// UserRecord returns the named user's win/loss aggregate. A user with no
// completed games yet gets an empty record.
func (s *QueryService) UserRecord(ctx context.Context, userName string) (*models.UserRecord, error) {
	user, err := s.requireUser(ctx, userName)
	if err != nil {
		return nil, err
	}
	rec, err := s.records.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &models.UserRecord{UserID: user.ID, UserName: user.Name}
	}
	return rec, nil
}

func (s *QueryService) requireUser(ctx context.Context, name string) (*models.User, error) {
	user, err := s.users.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("a user with that name does not exist")
	}
	return user, nil
}
