package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/go-chi/chi/v5"
	"github.com/tsukuroi/kintsugi-backend/internal/config"
	"github.com/tsukuroi/kintsugi-backend/internal/database"
	"github.com/tsukuroi/kintsugi-backend/internal/handlers"
	"github.com/tsukuroi/kintsugi-backend/internal/middleware"
	"github.com/tsukuroi/kintsugi-backend/internal/routes"
	"github.com/tsukuroi/kintsugi-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// Connect to PostgreSQL (accounts, subscriptions, activity mirror)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (sessions, rate limits, vessel snapshots, quotas)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (anxiety notes, reflections, breath session logs)
	log.Printf("Connecting to MongoDB...")
	if err := database.ConnectMongo(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.DisconnectMongo()

	// Ensure MongoDB indexes for the module collections
	if err := services.EnsureEntryIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB entry indexes: %v", err)
	} else {
		log.Println("✅ MongoDB entry indexes ensured")
	}

	// Wire the vessel profile model to Redis and the paywall to config
	handlers.InitVesselModel()
	handlers.InitSubscriptionHandlers(cfg)
	log.Printf("✅ Vessel model ready (free plan: %d activities/day)", cfg.FreeDailyActivityLimit)

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → HostCheck → GlobalRateLimit → LoginRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, host check, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r, cfg)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/auth/signup")
	log.Println("  POST /api/auth/signin")
	log.Println("  POST /api/auth/signout")
	log.Println("  GET  /api/auth/me")
	log.Println("  GET  /api/profile")
	log.Println("  POST /api/profile/visit")
	log.Println("  POST /api/profile/sync")
	log.Println("  GET  /api/profile/vessel")
	log.Println("  POST /api/garden/anxiety")
	log.Println("  POST /api/garden/action")
	log.Println("  POST /api/study/reflection")
	log.Println("  GET  /api/study/reflections")
	log.Println("  POST /api/tatami/session")
	log.Println("  GET  /api/subscription")
	log.Println("  POST /api/subscription/upgrade")
	log.Println("  POST /api/subscription/cancel")
	log.Println("  GET  /api/history")
	log.Println("  GET  /ws/tatami")

	log.Printf("🚀 Kintsugi backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
