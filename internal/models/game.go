package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MoveResult describes the outcome of one accepted move.
type MoveResult string

const (
	MoveHit  MoveResult = "hit"
	MoveMiss MoveResult = "miss"
	MoveWin  MoveResult = "win"
	MoveLoss MoveResult = "loss"
)

// MoveRecord is one entry of a game's move history.
type MoveRecord struct {
	Guess  string     `json:"guess"`
	Result MoveResult `json:"result"`
}

// Game is one word-guessing session. The word is stored upper-cased.
// Hits and Misses hold single upper-case letters; a letter appears in at
// most one of the two. MatchCount is the total number of letter
// occurrences in the word covered by Hits, MissCount equals len(Misses).
type Game struct {
	ID         int64
	Key        string
	UserID     int64
	UserName   string
	Word       string
	Hits       []string
	Misses     []string
	MissCount  int
	MatchCount int
	GuessLimit int
	ImageURI   string
	GameOver   bool
	Cancelled  bool
	History    []MoveRecord
	CreatedAt  time.Time
}

// HasGuessed reports whether letter was already played, as a hit or a miss.
func (g *Game) HasGuessed(letter string) bool {
	for _, l := range g.Hits {
		if l == letter {
			return true
		}
	}
	for _, l := range g.Misses {
		if l == letter {
			return true
		}
	}
	return false
}

// Solved reports whether every letter occurrence of the word is matched.
// The word length is counted in runes, not bytes, so words with accented
// letters can be won.
func (g *Game) Solved() bool {
	return g.MatchCount == utf8.RuneCountInString(g.Word)
}

// Terminal reports whether the game accepts no further moves. A cancelled
// game is terminal for move purposes even when GameOver is still false.
func (g *Game) Terminal() bool {
	return g.GameOver || g.Cancelled
}

// Revealed renders the word with unguessed letters masked, e.g. "C_T".
func (g *Game) Revealed() string {
	var b strings.Builder
	for _, r := range g.Word {
		letter := string(r)
		hit := false
		for _, l := range g.Hits {
			if l == letter {
				hit = true
				break
			}
		}
		if hit {
			b.WriteString(letter)
		} else {
			b.WriteString("_")
		}
	}
	return b.String()
}
