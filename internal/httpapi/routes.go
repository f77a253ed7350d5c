package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DoyleJ11/lol-randomizer/internal/ws"
)

func SetupRoutes(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/game-modes", GameModes)

	r.Route("/lobbies", func(r chi.Router) {
		r.Post("/", s.CreateLobby)
		r.Post("/{code}/randomize", s.Randomize)
		r.Post("/{code}/reroll", s.Reroll)
	})

	r.Route("/players", func(r chi.Router) {
		r.Get("/", s.ListPlayers)
		r.Post("/", s.RegisterPlayer)
		r.Delete("/{id}", s.UnregisterPlayer)
		r.Post("/{id}/riot", s.LinkRiot)
	})

	r.Get("/ws", ws.Handler(s.hub, s.logger))
	return r
}
