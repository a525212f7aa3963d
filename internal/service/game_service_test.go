package service

import (
	"context"
	"path/filepath"
	"testing"

	"wordgallows/internal/apperr"
	"wordgallows/internal/config"
	"wordgallows/internal/database"
	"wordgallows/internal/repository"
)

type testEnv struct {
	db      *database.DB
	games   *GameService
	users   *UserService
	queries *QueryService
}

func newTestEnv(t *testing.T, rules config.Rules) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := db.RunMigrations(ctx, "../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	recordRepo := repository.NewRecordRepository(db)

	email, err := NewEmailService(ctx, "", "", "", "")
	if err != nil {
		t.Fatalf("Failed to create email service: %v", err)
	}

	return &testEnv{
		db:      db,
		games:   NewGameService(db, userRepo, gameRepo, scoreRepo, recordRepo, rules),
		users:   NewUserService(userRepo, email),
		queries: NewQueryService(userRepo, gameRepo, scoreRepo, recordRepo),
	}
}

func defaultTestRules() config.Rules {
	return config.Rules{
		GuessLimit:   6,
		PointsPerHit: 2,
		Images:       []string{"img-0", "img-1", "img-2", "img-3", "img-4", "img-5", "img-6"},
	}
}

func TestCreateGameValidation(t *testing.T) {
	env := newTestEnv(t, defaultTestRules())
	ctx := context.Background()

	if _, err := env.users.Create(ctx, "alice", ""); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	tests := []struct {
		name     string
		userName string
		word     string
		wantKind apperr.Kind
		wantErr  bool
	}{
		{"valid word", "alice", "cat", 0, false},
		{"word is upper-cased and trimmed", "alice", "  dog  ", 0, false},
		{"unknown user", "bob", "cat", apperr.KindNotFound, true},
		{"empty word", "alice", "", apperr.KindInvalidInput, true},
		{"blank word", "alice", "   ", apperr.KindInvalidInput, true},
		{"multiple words", "alice", "two words", apperr.KindInvalidInput, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, err := env.games.CreateGame(ctx, tt.userName, tt.word)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !apperr.IsKind(err, tt.wantKind) {
					t.Errorf("Expected kind %v, got %v", tt.wantKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if game.Key == "" {
				t.Error("Expected a game key")
			}
			if game.Word != "CAT" && game.Word != "DOG" {
				t.Errorf("Expected upper-cased word, got %q", game.Word)
			}
			if game.GuessLimit != 6 {
				t.Errorf("Expected guess limit 6, got %d", game.GuessLimit)
			}
			if game.ImageURI != "img-0" {
				t.Errorf("Expected start image, got %q", game.ImageURI)
			}
		})
	}
}

func TestPlayThroughWin(t *testing.T) {
	env := newTestEnv(t, defaultTestRules())
	ctx := context.Background()

	if _, err := env.users.Create(ctx, "alice", ""); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	game, err := env.games.CreateGame(ctx, "alice", "cat")
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	moves := []struct {
		guess   string
		wantMsg string
	}{
		{"c", MsgHit},
		{"z", MsgMiss},
		{"a", MsgHit},
		{"t", MsgWin},
	}

	for _, m := range moves {
		updated, msg, err := env.games.ApplyMove(ctx, game.Key, m.guess)
		if err != nil {
			t.Fatalf("Move %q failed: %v", m.guess, err)
		}
		if msg != m.wantMsg {
			t.Errorf("Move %q: expected message %q, got %q", m.guess, m.wantMsg, msg)
		}
		game = updated
	}

	if !game.GameOver {
		t.Error("Expected game to be over")
	}
	if game.MatchCount != 3 || game.MissCount != 1 {
		t.Errorf("Expected match/miss 3/1, got %d/%d", game.MatchCount, game.MissCount)
	}
	if len(game.History) != 4 {
		t.Fatalf("Expected 4 history entries, got %d", len(game.History))
	}
	if got := game.History[3].Result; got != "win" {
		t.Errorf("Expected final history result win, got %q", got)
	}

	// 3 hits at 2 points each.
	scores, err := env.queries.UserScores(ctx, "alice")
	if err != nil {
		t.Fatalf("Failed to get scores: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("Expected 1 score, got %d", len(scores))
	}
	if !scores[0].Won || scores[0].Points != 6 {
		t.Errorf("Expected won score with 6 points, got won=%v points=%d", scores[0].Won, scores[0].Points)
	}

	rec, err := env.queries.UserRecord(ctx, "alice")
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if rec.Games != 1 || rec.Wins != 1 || rec.Losses != 0 {
		t.Errorf("Expected record 1/1/0, got %d/%d/%d", rec.Games, rec.Wins, rec.Losses)
	}
	if rec.WinPct != 1.0 {
		t.Errorf("Expected win pct 1.0, got %v", rec.WinPct)
	}
}

func TestLossOnGuessLimit(t *testing.T) {
	rules := defaultTestRules()
	rules.GuessLimit = 2
	env := newTestEnv(t, rules)
	ctx := context.Background()

	if _, err := env.users.Create(ctx, "bob", ""); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	game, err := env.games.CreateGame(ctx, "bob", "dog")
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	if _, msg, err := env.games.ApplyMove(ctx, game.Key, "x"); err != nil || msg != MsgMiss {
		t.Fatalf("First miss: msg=%q err=%v", msg, err)
	}
	game, msg, err := env.games.ApplyMove(ctx, game.Key, "y")
	if err != nil {
		t.Fatalf("Second miss failed: %v", err)
	}
	if msg != MsgMiss+MsgGameOver {
		t.Errorf("Expected %q, got %q", MsgMiss+MsgGameOver, msg)
	}
	if !game.GameOver {
		t.Error("Expected game to be over")
	}

	scores, err := env.queries.UserScores(ctx, "bob")
	if err != nil {
		t.Fatalf("Failed to get scores: %v", err)
	}
	if len(scores) != 1 || scores[0].Won || scores[0].Points != 0 {
		t.Errorf("Expected one lost score with 0 points, got %+v", scores)
	}

	rec, err := env.queries.UserRecord(ctx, "bob")
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if rec.Games != 1 || rec.Wins != 0 || rec.Losses != 1 {
		t.Errorf("Expected record 1/0/1, got %d/%d/%d", rec.Games, rec.Wins, rec.Losses)
	}
	if rec.WinPct != 0 {
		t.Errorf("Expected win pct 0, got %v", rec.WinPct)
	}
}

func TestWinOnFinalAllowedMiss(t *testing.T) {
	// A hit that completes the word when misses already sit one below the
	// limit must still be a win, never a loss.
	rules := defaultTestRules()
	rules.GuessLimit = 1
	env := newTestEnv(t, rules)
	ctx := context.Background()

	if _, err := env.users.Create(ctx, "carol", ""); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	game, err := env.games.CreateGame(ctx, "carol", "a")
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	game, msg, err := env.games.ApplyMove(ctx, game.Key, "a")
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if msg != MsgWin {
		t.Errorf("Expected %q, got %q", MsgWin, msg)
	}
	if !game.GameOver {
		t.Error("Expected game to be over")
	}
}

func TestRepeatedLetterCountsEveryOccurrence(t *testing.T) {
	env := newTestEnv(t, defaultTestRules())
	ctx := context.Background()

	if _, err := env.users.Create(ctx, "dave", ""); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	game, err := env.games.CreateGame(ctx, "dave", "moon")
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	game, _, err = env.games.ApplyMove(ctx, game.Key, "o")
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if game.MatchCount != 2 {
		t.Errorf("Expected match count 2 for double letter, got %d", game.MatchCount)
	}

	for _, g := range []string{"m", "n"} {
		game, _, err = env.games.ApplyMove(ctx, game.Key, g)
		if err != nil {
			t.Fatalf("Move %q failed: %v", g, err)
		}
	}
	if !game.GameOver {
		t.Error("Expected win after covering all letters")
	}

	// 3 hit letters at 2 points each, double letters count once.
	scores, err := env.queries.UserScores(ctx, "dave")
	if err != nil {
		t.Fatalf("Failed to get scores: %v", err)
	}
	if len(scores) != 1 || scores[0].Points != 6 {
		t.Errorf("Expected 6 points, got %+v", scores)
	}
}

func TestWinWithMultiByteWord(t *testing.T) {
	env := newTestEnv(t, defaultTestRules())
	ctx := context.Background()

	if _, err := env.users.Create(ctx, "june", ""); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	game, err := env.games.CreateGame(ctx, "june", "café")
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	if game.Word != "CAFÉ" {
		t.Fatalf("Expected upper-cased word CAFÉ, got %q", game.Word)
	}

	var msg string
	for _, g := range []string{"c", "a", "f", "é"} {
		game, msg, err = env.games.ApplyMove(ctx, game.Key, g)
		if err != nil {
			t.Fatalf("Move %q failed: %v", g, err)
		}
	}
	if msg != MsgWin {
		t.Errorf("Expected %q after guessing every letter, got %q", MsgWin, msg)
	}
	if !game.GameOver {
		t.Error("Expected game to be over")
	}
	if game.MatchCount != 4 {
		t.Errorf("Expected match count 4, got %d", game.MatchCount)
	}
}

func TestMoveValidation(t *testing.T) {
	env := newTestEnv(t, defaultTestRules())
	ctx := context.Background()

	if _, err := env.users.Create(ctx, "erin", ""); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	game, err := env.games.CreateGame(ctx, "erin", "cat")
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	if _, _, err := env.games.ApplyMove(ctx, game.Key, "c"); err != nil {
		t.Fatalf("Setup move failed: %v", err)
	}

	tests := []struct {
		name     string
		key      string
		guess    string
		wantKind apperr.Kind
	}{
		{"unknown game", "no-such-key", "a", apperr.KindNotFound},
		{"empty guess", game.Key, "", apperr.KindInvalidInput},
		{"blank guess", game.Key, "   ", apperr.KindInvalidInput},
		{"multi-character guess", game.Key, "ab", apperr.KindInvalidInput},
		{"repeated guess", game.Key, "c", apperr.KindConflict},
		{"repeated guess different case", game.Key, "C", apperr.KindConflict},
	}

	before, err := env.queries.GetGame(ctx, game.Key)
	if err != nil {
		t.Fatalf("Failed to fetch game: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.games.ApplyMove(ctx, tt.key, tt.guess)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !apperr.IsKind(err, tt.wantKind) {
				t.Errorf("Expected kind %v, got %v", tt.wantKind, err)
			}

			// A rejected move must leave the game untouched.
			after, err := env.queries.GetGame(ctx, game.Key)
			if err != nil {
				t.Fatalf("Failed to re-fetch game: %v", err)
			}
			if len(after.Hits) != len(before.Hits) || len(after.Misses) != len(before.Misses) {
				t.Errorf("Guesses changed: hits %v misses %v", after.Hits, after.Misses)
			}
			if after.MatchCount != before.MatchCount || after.MissCount != before.MissCount {
				t.Errorf("Counters changed: match %d miss %d", after.MatchCount, after.MissCount)
			}
			if len(after.History) != len(before.History) {
				t.Errorf("History changed: %d entries, want %d", len(after.History), len(before.History))
			}
			if after.GameOver || after.Cancelled {
				t.Error("Game flags changed")
			}
		})
	}
}

func TestMoveAgainstFinishedGameIsNoOp(t *testing.T) {
	rules := defaultTestRules()
	rules.GuessLimit = 1
	env := newTestEnv(t, rules)
	ctx := context.Background()

	if _, err := env.users.Create(ctx, "fred", ""); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	game, err := env.games.CreateGame(ctx, "fred", "cat")
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	game, _, err = env.games.ApplyMove(ctx, game.Key, "z")
	if err != nil {
		t.Fatalf("Losing move failed: %v", err)
	}
	if !game.GameOver {
		t.Fatal("Expected game over")
	}

	after, msg, err := env.games.ApplyMove(ctx, game.Key, "c")
	if err != nil {
		t.Fatalf("Move against finished game errored: %v", err)
	}
	if msg != MsgAlreadyOver {
		t.Errorf("Expected %q, got %q", MsgAlreadyOver, msg)
	}
	if len(after.History) != len(game.History) {
		t.Error("Expected history unchanged")
	}

	// Still exactly one score.
	scores, err := env.queries.UserScores(ctx, "fred")
	if err != nil {
		t.Fatalf("Failed to get scores: %v", err)
	}
	if len(scores) != 1 {
		t.Errorf("Expected 1 score, got %d", len(scores))
	}
}

func TestCancelGame(t *testing.T) {
	env := newTestEnv(t, defaultTestRules())
	ctx := context.Background()

	if _, err := env.users.Create(ctx, "gail", ""); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	game, err := env.games.CreateGame(ctx, "gail", "cat")
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	cancelled, err := env.games.CancelGame(ctx, game.Key)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if !cancelled.Cancelled {
		t.Error("Expected cancelled flag set")
	}
	if cancelled.GameOver {
		t.Error("Cancel must not mark the game as completed")
	}

	// Moves against a cancelled game are a no-op.
	_, msg, err := env.games.ApplyMove(ctx, game.Key, "c")
	if err != nil {
		t.Fatalf("Move against cancelled game errored: %v", err)
	}
	if msg != MsgAlreadyOver {
		t.Errorf("Expected %q, got %q", MsgAlreadyOver, msg)
	}

	// Cancelling never produces a score or touches the record.
	scores, err := env.queries.UserScores(ctx, "gail")
	if err != nil {
		t.Fatalf("Failed to get scores: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("Expected no scores, got %d", len(scores))
	}
	rec, err := env.queries.UserRecord(ctx, "gail")
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if rec.Games != 0 {
		t.Errorf("Expected empty record, got %+v", rec)
	}
}

func TestCancelFinishedGameRejected(t *testing.T) {
	rules := defaultTestRules()
	rules.GuessLimit = 1
	env := newTestEnv(t, rules)
	ctx := context.Background()

	if _, err := env.users.Create(ctx, "hank", ""); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	game, err := env.games.CreateGame(ctx, "hank", "a")
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	if _, _, err := env.games.ApplyMove(ctx, game.Key, "a"); err != nil {
		t.Fatalf("Winning move failed: %v", err)
	}

	_, err = env.games.CancelGame(ctx, game.Key)
	if err == nil {
		t.Fatal("Expected error cancelling a finished game")
	}
	if !apperr.IsKind(err, apperr.KindInvalidOperation) {
		t.Errorf("Expected invalid operation, got %v", err)
	}
}

func TestMissAdvancesIllustration(t *testing.T) {
	env := newTestEnv(t, defaultTestRules())
	ctx := context.Background()

	if _, err := env.users.Create(ctx, "iris", ""); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	game, err := env.games.CreateGame(ctx, "iris", "cat")
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	game, _, err = env.games.ApplyMove(ctx, game.Key, "z")
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if game.ImageURI != "img-1" {
		t.Errorf("Expected img-1 after first miss, got %q", game.ImageURI)
	}

	// Hits leave the illustration alone.
	game, _, err = env.games.ApplyMove(ctx, game.Key, "c")
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if game.ImageURI != "img-1" {
		t.Errorf("Expected illustration unchanged on hit, got %q", game.ImageURI)
	}
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t, defaultTestRules())
	ctx := context.Background()

	if _, err := env.users.Create(ctx, "alice", "alice@example.com"); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	tests := []struct {
		name     string
		userName string
		wantKind apperr.Kind
	}{
		{"empty name", "", apperr.KindInvalidInput},
		{"blank name", "   ", apperr.KindInvalidInput},
		{"duplicate name", "alice", apperr.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Create(ctx, tt.userName, "")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !apperr.IsKind(err, tt.wantKind) {
				t.Errorf("Expected kind %v, got %v", tt.wantKind, err)
			}
		})
	}
}
