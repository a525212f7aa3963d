package models

import "math"

// UserRecord is the per-user win/loss aggregate. At most one exists per
// user; it is created on the user's first completed game and updated on
// every completion after that.
type UserRecord struct {
	UserID   int64
	UserName string
	Games    int
	Wins     int
	Losses   int
	WinPct   float64
}

// AddResult folds one completed game into the aggregate and recomputes
// the win percentage.
func (r *UserRecord) AddResult(won bool) {
	r.Games++
	if won {
		r.Wins++
	} else {
		r.Losses++
	}
	r.WinPct = RoundWinPct(r.Wins, r.Games)
}

// RoundWinPct computes wins/games rounded to 3 decimal places.
// Games of zero yields 0.
func RoundWinPct(wins, games int) float64 {
	if games == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(games)*1000) / 1000
}
