package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"wordgallows/internal/apperr"
	"wordgallows/internal/models"
	"wordgallows/internal/service"
)

// UserHandler exposes user registration and the per-user projections.
type UserHandler struct {
	users   *service.UserService
	queries *service.QueryService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.UserService, queries *service.QueryService) *UserHandler {
	return &UserHandler{users: users, queries: queries}
}

type createUserRequest struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

type userResponse struct {
	Name    string    `json:"name"`
	Email   string    `json:"email,omitempty"`
	Created time.Time `json:"created"`
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidInput("invalid request body"))
		return
	}

	user, err := h.users.Create(r.Context(), req.UserName, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{
		Name:    user.Name,
		Email:   user.Email,
		Created: user.CreatedAt,
	})
}

// ActiveGames handles GET /api/users/{name}/games.
func (h *UserHandler) ActiveGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.queries.ListActiveGames(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]gameResponse, 0, len(games))
	for i := range games {
		out = append(out, toGameResponse(&games[i], ""))
	}
	writeJSON(w, http.StatusOK, out)
}

// Scores handles GET /api/users/{name}/scores.
func (h *UserHandler) Scores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.queries.UserScores(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScoreResponses(scores))
}

// Record handles GET /api/users/{name}/record.
func (h *UserHandler) Record(w http.ResponseWriter, r *http.Request) {
	rec, err := h.queries.UserRecord(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

type recordResponse struct {
	UserName string  `json:"user_name"`
	Games    int     `json:"games"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	WinPct   float64 `json:"win_pct"`
}

func toRecordResponse(rec *models.UserRecord) recordResponse {
	return recordResponse{
		UserName: rec.UserName,
		Games:    rec.Games,
		Wins:     rec.Wins,
		Losses:   rec.Losses,
		WinPct:   rec.WinPct,
	}
}
