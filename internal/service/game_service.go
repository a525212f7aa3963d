package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"wordgallows/internal/apperr"
	"wordgallows/internal/config"
	"wordgallows/internal/database"
	"wordgallows/internal/models"
	"wordgallows/internal/repository"
)

// Move response messages. The exact wording is part of the API contract.
const (
	MsgHit         = "Hit!"
	MsgMiss        = "Miss!"
	MsgWin         = "You win!"
	MsgGameOver    = " Game over!"
	MsgAlreadyOver = "Game already over!"
	MsgNewGame     = "Good luck playing Hangman!"
)

// GameService is the word-guess engine. It owns game creation, move
// evaluation and end-of-game scoring, including the per-user ranking
// aggregate.
type GameService struct {
	db      *database.DB
	users   *repository.UserRepository
	games   *repository.GameRepository
	scores  *repository.ScoreRepository
	records *repository.RecordRepository
	rules   config.Rules
}

// NewGameService creates a new game service with an immutable rule set.
func NewGameService(db *database.DB, users *repository.UserRepository,
	games *repository.GameRepository, scores *repository.ScoreRepository,
	records *repository.RecordRepository, rules config.Rules) *GameService {
	return &GameService{
		db:      db,
		users:   users,
		games:   games,
		scores:  scores,
		records: records,
		rules:   rules,
	}
}

// CreateGame starts a new game for the named user. The word must be a
// single non-empty token; it is stored upper-cased.
func (s *GameService) CreateGame(ctx context.Context, userName, rawWord string) (*models.Game, error) {
	user, err := s.users.GetByName(ctx, userName)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("a user with that name does not exist")
	}

	word := strings.TrimSpace(rawWord)
	if word == "" {
		return nil, apperr.InvalidInput("word field required")
	}
	if len(strings.Fields(word)) > 1 {
		return nil, apperr.InvalidInput("word must be a single word")
	}

	game := &models.Game{
		Key:        uuid.NewString(),
		UserID:     user.ID,
		UserName:   user.Name,
		Word:       strings.ToUpper(word),
		Hits:       []string{},
		Misses:     []string{},
		GuessLimit: s.rules.GuessLimit,
		ImageURI:   s.rules.StartImage(),
		History:    []models.MoveRecord{},
		CreatedAt:  time.Now(),
	}

	id, err := s.games.Create(ctx, game)
	if err != nil {
		return nil, err
	}
	game.ID = id
	return game, nil
}

// ApplyMove evaluates a single-letter guess against the game identified by
// key. Moves against a terminal game are a benign no-op, not an error.
// Wins take priority over losses when a guess completes the word on the
// final allowed miss.
func (s *GameService) ApplyMove(ctx context.Context, key, rawGuess string) (*models.Game, string, error) {
	game, err := s.games.GetByKey(ctx, key)
	if err != nil {
		return nil, "", err
	}
	if game == nil {
		return nil, "", apperr.NotFound("game not found")
	}
	if game.Terminal() {
		return game, MsgAlreadyOver, nil
	}

	guess := strings.ToUpper(strings.TrimSpace(rawGuess))
	if guess == "" {
		return nil, "", apperr.InvalidInput("guess field required")
	}
	if utf8.RuneCountInString(guess) > 1 {
		return nil, "", apperr.InvalidInput("guess must be 1 character")
	}
	if game.HasGuessed(guess) {
		return nil, "", apperr.Conflict("already guessed '%s'", guess)
	}

	var msg string
	result := models.MoveMiss
	if strings.Contains(game.Word, guess) {
		game.Hits = append(game.Hits, guess)
		game.MatchCount += strings.Count(game.Word, guess)
		result = models.MoveHit
		msg = MsgHit
	} else {
		game.Misses = append(game.Misses, guess)
		prevMisses := game.MissCount
		game.MissCount++
		if prevMisses < game.GuessLimit {
			game.ImageURI = s.rules.ImageFor(game.MissCount)
		}
		msg = MsgMiss
	}

	// Win strictly precedes loss: completing the word on the last
	// allowed miss still counts as a win.
	switch {
	case game.Solved():
		result = models.MoveWin
		msg = MsgWin
	case game.MissCount == game.GuessLimit:
		result = models.MoveLoss
		msg += MsgGameOver
	}
	game.History = append(game.History, models.MoveRecord{Guess: guess, Result: result})

	switch result {
	case models.MoveWin:
		err = s.endGame(ctx, game, true)
	case models.MoveLoss:
		err = s.endGame(ctx, game, false)
	default:
		err = s.games.Update(ctx, s.db, game)
	}
	if err != nil {
		return nil, "", err
	}
	return game, msg, nil
}

// CancelGame marks a game as cancelled. Cancelled games produce no Score
// and never touch the ranking aggregate; a completed game cannot be
// cancelled.
func (s *GameService) CancelGame(ctx context.Context, key string) (*models.Game, error) {
	game, err := s.games.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperr.NotFound("game not found")
	}
	if game.GameOver {
		return nil, apperr.InvalidOperation("already completed")
	}

	game.Cancelled = true
	if err := s.games.Update(ctx, s.db, game); err != nil {
		return nil, err
	}
	return game, nil
}

// endGame finalizes a game: it marks the game over, writes its Score and
// folds the result into the owner's UserRecord. All three writes share
// one transaction.
func (s *GameService) endGame(ctx context.Context, game *models.Game, won bool) error {
	game.GameOver = true

	points := 0
	if won {
		points = len(game.Hits) * s.rules.PointsPerHit
	}

	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		if err := s.games.Update(ctx, tx, game); err != nil {
			return err
		}

		score := &models.Score{
			UserID:   game.UserID,
			GameID:   game.ID,
			Won:      won,
			Points:   points,
			PlayedOn: time.Now(),
		}
		if _, err := s.scores.Insert(ctx, tx, score); err != nil {
			return err
		}

		rec, err := s.records.GetByUserID(ctx, tx, game.UserID)
		if err != nil {
			return err
		}
		if rec == nil {
			rec = &models.UserRecord{UserID: game.UserID, UserName: game.UserName}
		}
		rec.AddResult(won)
		return s.records.Upsert(ctx, tx, rec)
	})
}
