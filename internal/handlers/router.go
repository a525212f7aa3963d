package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"wordgallows/internal/security"
	"wordgallows/internal/service"
)

// NewRouter wires every API route. Mutating endpoints sit behind a
// per-IP rate limiter.
func NewRouter(games *service.GameService, users *service.UserService,
	queries *service.QueryService) http.Handler {

	gameHandler := NewGameHandler(games, queries)
	userHandler := NewUserHandler(users, queries)
	scoreHandler := NewScoreHandler(queries)
	limiter := security.NewRateLimiter(30, time.Minute)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(limiter))
			r.Post("/users", userHandler.Create)
			r.Post("/games", gameHandler.Create)
			r.Put("/games/{key}/move", gameHandler.Move)
			r.Post("/games/{key}/cancel", gameHandler.Cancel)
		})

		r.Get("/games/{key}", gameHandler.Get)
		r.Get("/games/{key}/history", gameHandler.History)
		r.Get("/users/{name}/games", userHandler.ActiveGames)
		r.Get("/users/{name}/scores", userHandler.Scores)
		r.Get("/users/{name}/record", userHandler.Record)
		r.Get("/scores", scoreHandler.All)
		r.Get("/leaderboard", scoreHandler.Leaderboard)
		r.Get("/rankings", scoreHandler.Rankings)
	})

	return r
}
