package routes

import (
	"net/http"

	"github.com/Dosada05/fixture-engine/handlers"
	"github.com/Dosada05/fixture-engine/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	registry *prometheus.Registry,
	fixtureHandler *handlers.FixtureHandler,
	matchHandler *handlers.MatchHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	router.Route("/tournaments/{tournamentID}", func(r chi.Router) {
		r.Get("/matches", matchHandler.ListHandler)
		r.Get("/availability", availabilityHandler.GetHandler)

		// Fixture generation and round advancement are organizer-only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize("organizer"))

			r.Post("/fixtures", fixtureHandler.GenerateHandler)
			r.Post("/rounds/advance", fixtureHandler.AdvanceHandler)
		})
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		// Result entry is gated by the one-time match code, not a login.
		r.Post("/start", matchHandler.StartHandler)
		r.Post("/result", matchHandler.ResultHandler)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
