package handlers

import (
	"net/http"
	"strconv"
	"time"

	"wordgallows/internal/apperr"
	"wordgallows/internal/models"
	"wordgallows/internal/service"
)

// ScoreHandler exposes the score board and the ranking table.
type ScoreHandler struct {
	queries *service.QueryService
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(queries *service.QueryService) *ScoreHandler {
	return &ScoreHandler{queries: queries}
}

type scoreResponse struct {
	UserName string    `json:"user_name"`
	GameKey  string    `json:"game_key"`
	Word     string    `json:"word"`
	Won      bool      `json:"won"`
	Points   int       `json:"points"`
	PlayedOn time.Time `json:"played_on"`
}

func toScoreResponses(scores []models.Score) []scoreResponse {
	out := make([]scoreResponse, 0, len(scores))
	for _, s := range scores {
		out = append(out, scoreResponse{
			UserName: s.UserName,
			GameKey:  s.GameKey,
			Word:     s.Word,
			Won:      s.Won,
			Points:   s.Points,
			PlayedOn: s.PlayedOn,
		})
	}
	return out
}

// All handles GET /api/scores.
func (h *ScoreHandler) All(w http.ResponseWriter, r *http.Request) {
	scores, err := h.queries.Scores(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScoreResponses(scores))
}

// Leaderboard handles GET /api/leaderboard?limit=N. Scores come back
// ordered by points descending; limit is optional.
func (h *ScoreHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, apperr.InvalidInput("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	scores, err := h.queries.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScoreResponses(scores))
}

// Rankings handles GET /api/rankings.
func (h *ScoreHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	records, err := h.queries.Rankings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]recordResponse, 0, len(records))
	for i := range records {
		out = append(out, toRecordResponse(&records[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
