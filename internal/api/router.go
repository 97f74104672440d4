package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mesobgames/crash-backend/internal/api/handlers"
	"github.com/mesobgames/crash-backend/internal/config"
	"github.com/mesobgames/crash-backend/internal/metrics"
	"github.com/mesobgames/crash-backend/internal/middleware"
)

func NewRouter(cfg config.Config, authH *handlers.AuthHandler, gameH *handlers.GameHandler, authMW *middleware.AuthMiddleware) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.TMAOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/tma/auth", authH.Auth)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)
			r.Post("/game/wager", gameH.PlaceWager)
			r.Post("/game/cashout", gameH.CashOut)
			r.Post("/game/crash", gameH.Crash)
			r.Get("/game/wagers", gameH.ListWagers)
			r.Get("/wallet", gameH.Wallet)
		})
	})

	return r
}
