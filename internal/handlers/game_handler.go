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

// GameHandler exposes game creation and play over HTTP.
type GameHandler struct {
	games   *service.GameService
	queries *service.QueryService
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *service.GameService, queries *service.QueryService) *GameHandler {
	return &GameHandler{games: games, queries: queries}
}

type createGameRequest struct {
	UserName string `json:"user_name"`
	Word     string `json:"word"`
}

type moveRequest struct {
	Guess string `json:"guess"`
}

type gameResponse struct {
	Key        string              `json:"key"`
	UserName   string              `json:"user_name"`
	Word       string              `json:"word"`
	Revealed   string              `json:"revealed"`
	Hits       []string            `json:"hits"`
	Misses     []string            `json:"misses"`
	MissCount  int                 `json:"miss_count"`
	MatchCount int                 `json:"match_count"`
	GuessLimit int                 `json:"guess_limit"`
	ImageURI   string              `json:"image_uri"`
	GameOver   bool                `json:"game_over"`
	Cancelled  bool                `json:"cancelled"`
	Created    time.Time           `json:"created"`
	Message    string              `json:"message,omitempty"`
	History    []models.MoveRecord `json:"history,omitempty"`
}

func toGameResponse(g *models.Game, message string) gameResponse {
	return gameResponse{
		Key:        g.Key,
		UserName:   g.UserName,
		Word:       g.Word,
		Revealed:   g.Revealed(),
		Hits:       g.Hits,
		Misses:     g.Misses,
		MissCount:  g.MissCount,
		MatchCount: g.MatchCount,
		GuessLimit: g.GuessLimit,
		ImageURI:   g.ImageURI,
		GameOver:   g.GameOver,
		Cancelled:  g.Cancelled,
		Created:    g.CreatedAt,
		Message:    message,
	}
}

// Create handles POST /api/games.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidInput("invalid request body"))
		return
	}

	game, err := h.games.CreateGame(r.Context(), req.UserName, req.Word)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGameResponse(game, service.MsgNewGame))
}

// Get handles GET /api/games/{key}.
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.queries.GetGame(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Time to make a move!"
	if game.Terminal() {
		message = service.MsgAlreadyOver
	}
	writeJSON(w, http.StatusOK, toGameResponse(game, message))
}

// Move handles PUT /api/games/{key}/move.
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidInput("invalid request body"))
		return
	}

	game, message, err := h.games.ApplyMove(r.Context(), chi.URLParam(r, "key"), req.Guess)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGameResponse(game, message))
}

// Cancel handles POST /api/games/{key}/cancel.
func (h *GameHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.CancelGame(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGameResponse(game, "Game cancelled."))
}

// History handles GET /api/games/{key}/history.
func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	_, history, err := h.queries.GameHistory(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
