package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Gintoki006/Sportify-sub001/handlers"
	"github.com/Gintoki006/Sportify-sub001/middleware"
)

type Handlers struct {
	Tournaments *handlers.TournamentHandler
	Matches     *handlers.MatchHandler
	Scoring     *handlers.ScoringHandler
	WebSocket   *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, jwtSecret string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/tournaments", func(r chi.Router) {
		// Public read-only routes for spectators.
		r.Get("/", h.Tournaments.ListByClub)
		r.Get("/{tournamentID}", h.Tournaments.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Post("/", h.Tournaments.Create)
			r.Put("/{tournamentID}", h.Tournaments.Rename)
			r.Delete("/{tournamentID}", h.Tournaments.Delete)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Matches.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Post("/", h.Matches.CreateStandalone)
			r.Delete("/{matchID}", h.Matches.Delete)

			r.Post("/{matchID}/score", h.Scoring.SubmitScore)
			r.Delete("/{matchID}/score", h.Scoring.ResetScore)

			r.Post("/{matchID}/cricket/innings", h.Scoring.StartInnings)
			r.Post("/{matchID}/cricket/deliveries", h.Scoring.ApplyDelivery)
			r.Delete("/{matchID}/cricket/deliveries/latest", h.Scoring.UndoDelivery)

			r.Post("/{matchID}/football/setup", h.Scoring.SetupFootball)
			r.Post("/{matchID}/football/events", h.Scoring.RecordFootballEvent)
			r.Delete("/{matchID}/football/events/latest", h.Scoring.UndoFootballEvent)
			r.Put("/{matchID}/football/status", h.Scoring.ChangeFootballStatus)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeTournament)
	router.Get("/ws/matches/{matchID}", h.WebSocket.ServeMatch)

	return router
}
