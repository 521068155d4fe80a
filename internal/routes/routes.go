package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/tsukuroi/kintsugi-backend/internal/config"
	"github.com/tsukuroi/kintsugi-backend/internal/handlers"
	"github.com/tsukuroi/kintsugi-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux, cfg *config.Config) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Get("/api/auth/me", handlers.GetMe)

	// Vessel profile routes
	r.Get("/api/profile", handlers.GetProfile)
	r.Post("/api/profile/visit", handlers.RecordVisit)
	r.Post("/api/profile/sync", handlers.SyncProfile)
	r.Get("/api/profile/vessel", handlers.GetVessel)

	// Module routes. POSTs that record an activity pass the freemium quota
	// gate; logging an anxiety opens a crack and is always free.
	r.Post("/api/garden/anxiety", handlers.LogAnxiety)
	r.Group(func(g chi.Router) {
		g.Use(middleware.RequireQuota(cfg))
		g.Post("/api/garden/action", handlers.CompleteGardenAction)
		g.Post("/api/study/reflection", handlers.SaveReflection)
		g.Post("/api/tatami/session", handlers.CompleteBreathSession)
	})
	r.Get("/api/study/reflections", handlers.ListReflections)

	// Subscription routes (freemium bookkeeping; payment capture is external)
	r.Get("/api/subscription", handlers.GetSubscription)
	r.Post("/api/subscription/upgrade", handlers.UpgradeSubscription)
	r.Post("/api/subscription/cancel", handlers.CancelSubscription)

	// Activity history
	r.Get("/api/history", handlers.GetHistory)

	// WebSocket breathing pacer for the tatami room
	r.Get("/ws/tatami", handlers.BreathingPacer)
}
