package models

import "time"

// Score is the immutable record of one completed game. Exactly one Score
// exists per finished game; cancelled games never produce one.
type Score struct {
	ID       int64
	UserID   int64
	UserName string
	GameID   int64
	GameKey  string
	Word     string
	Won      bool
	Points   int
	PlayedOn time.Time
}
