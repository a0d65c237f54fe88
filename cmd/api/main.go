// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evalarena/arena-backend/internal/api/handlers"
	"github.com/evalarena/arena-backend/internal/api/middleware"
	"github.com/evalarena/arena-backend/internal/config"
	"github.com/evalarena/arena-backend/internal/cron"
	"github.com/evalarena/arena-backend/internal/db"
	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/seed"
	"github.com/evalarena/arena-backend/internal/service"
	"github.com/evalarena/arena-backend/internal/socket"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()

	// ============================================
	// Set Gin mode
	// ============================================
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Println("🔄 Running database migrations...")
	migrationsPath := "./internal/db/migrations"
	if err := db.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// ============================================
	// Initialize PostgreSQL
	// ============================================
	postgres, err := db.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to PostgreSQL: %v", err)
	}
	defer postgres.Close()

	// ============================================
	// Initialize Repositories
	// ============================================
	repos := repository.NewRepositories(postgres.Pool)
	log.Println("📦 Repositories initialized")

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (continuing without cache)", err)
		} else {
			defer redisDB.Close()
			log.Println("⚡ Redis cache enabled")
		}
	}

	// ============================================
	// Initialize WebSocket Hub
	// ============================================
	hub := socket.NewHub()
	go hub.Run()
	broadcaster := socket.NewBroadcaster(hub)

	// WebSocket handler with JWT secret for self-authentication
	wsHandler := socket.NewHandler(hub, cfg.JWTSecret)
	log.Println("🔌 WebSocket hub initialized")

	// ============================================
	// Seed Data (for development)
	// ============================================
	if cfg.Environment != "production" {
		log.Println("🌱 Seeding development data...")
		seed.SeedData(repos)
	}

	// ============================================
	// Initialize All Services
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config:      cfg,
		Repos:       repos,
		Cache:       redisDB,
		Broadcaster: broadcaster,
	})
	log.Println("✨ All services initialized")

	// ============================================
	// Initialize Handlers
	// ============================================
	h := handlers.NewHandlers(services)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	cronScheduler := cron.NewScheduler(repos.Challenge, repos.User, redisDB, broadcaster)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.Default()
	r.Use(middleware.RequestLogger())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"database":   "connected",
			"cache":      getCacheStatus(redisDB),
			"websocket":  "active",
			"ws_clients": hub.GetConnectedClientsCount(),
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// ============================================
		// Public routes (no auth required)
		// ============================================
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// WebSocket route
		api.GET("/ws", wsHandler.HandleWebSocket)

		// ============================================
		// Public challenge reads (auth optional, hosts see more)
		// ============================================
		public := api.Group("")
		public.Use(middleware.OptionalAuthMiddleware(services.Auth))
		{
			public.GET("/challenges", h.Challenge.ListByFilter)
			public.GET("/challenges/time/:time_segment", h.Challenge.ListByTime)
			public.GET("/challenges/splits", h.Phase.ListSplits)

			challenge := public.Group("/challenges/challenge/:challenge_id")
			{
				challenge.GET("", h.Challenge.Get)
				challenge.GET("/participant_teams", h.Challenge.ListParticipantTeams)
				challenge.GET("/phases", h.Phase.List)
				challenge.GET("/phases/:phase_id", h.Phase.Get)
				challenge.GET("/phases/:phase_id/splits", h.Phase.ListPhaseSplits)
			}
		}

		// ============================================
		// Protected routes (require auth middleware)
		// ============================================
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(services.Auth))
		{
			// Host team routes
			hosts := protected.Group("/hosts")
			{
				hosts.GET("", h.HostTeam.List)
				hosts.POST("", h.HostTeam.Create)
				hosts.GET("/:team_id", h.HostTeam.Get)
				hosts.PUT("/:team_id", h.HostTeam.Update)
				hosts.DELETE("/:team_id", h.HostTeam.Delete)

				hosts.GET("/:team_id/hosts", h.HostTeam.ListHosts)
				hosts.POST("/:team_id/hosts", h.HostTeam.AddHost)
				hosts.PUT("/:team_id/hosts/:user_id", h.HostTeam.UpdateHost)
				hosts.DELETE("/:team_id/hosts/:user_id", h.HostTeam.RemoveHost)
			}

			// Participant team routes
			participants := protected.Group("/participants")
			{
				participants.GET("", h.ParticipantTeam.List)
				participants.POST("", h.ParticipantTeam.Create)
				participants.GET("/:team_id", h.ParticipantTeam.Get)
				participants.PUT("/:team_id", h.ParticipantTeam.Update)
				participants.DELETE("/:team_id", h.ParticipantTeam.Delete)

				participants.GET("/:team_id/members", h.ParticipantTeam.ListMembers)
				participants.POST("/:team_id/members", h.ParticipantTeam.AddMember)
				participants.DELETE("/:team_id/members/:user_id", h.ParticipantTeam.RemoveMember)
			}

			// Host-scoped challenge routes; the URL team must own the challenge
			scoped := protected.Group("/challenges/challenge_host_team/:team_id/challenge")
			{
				scoped.GET("", h.Challenge.ListByHostTeam)
				scoped.POST("", h.Challenge.Create)
				scoped.GET("/:challenge_id", h.Challenge.GetScoped)
				scoped.PUT("/:challenge_id", h.Challenge.Update)
				scoped.PATCH("/:challenge_id", h.Challenge.Patch)
				scoped.DELETE("/:challenge_id", h.Challenge.Delete)
			}

			// Challenge-level mutations
			challenge := protected.Group("/challenges/challenge/:challenge_id")
			{
				challenge.POST("/disable", h.Challenge.Disable)
				challenge.POST("/participant_team/:team_id/join", h.Challenge.Join)

				challenge.POST("/phases", h.Phase.Create)
				challenge.PUT("/phases/:phase_id", h.Phase.Update)
				challenge.PATCH("/phases/:phase_id", h.Phase.Update)
				challenge.DELETE("/phases/:phase_id", h.Phase.Delete)
				challenge.POST("/phases/:phase_id/splits", h.Phase.CreatePhaseSplit)
			}

			// Dataset splits and leaderboards
			protected.POST("/challenges/splits", h.Phase.CreateSplit)
			protected.POST("/challenges/leaderboards", h.Phase.CreateLeaderboard)
		}
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func getCacheStatus(redisDB *db.RedisDB) string {
	if redisDB != nil {
		return "connected"
	}
	return "disabled"
}
