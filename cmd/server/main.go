package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"joyland-backend/internal/config"
	"joyland-backend/internal/database"
	"joyland-backend/internal/handlers"
	"joyland-backend/internal/middleware"
	"joyland-backend/internal/repository"
	"joyland-backend/internal/router"
	"joyland-backend/internal/services"
	"joyland-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting Joyland Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	announcementRepo := repository.NewAnnouncementRepo(pool)
	eventRepo := repository.NewEventRepo(pool)
	registrationRepo := repository.NewRegistrationRepo(pool)
	presenceRepo := repository.NewPresenceRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	geminiClient, err := services.NewGeminiClient(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiClient.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	authService := services.NewAuthService(userRepo, redisClient, jwtAuth)
	aiCache := services.NewAICache(redisClient, time.Duration(cfg.AICacheTTLHours)*time.Hour, cfg.AICacheEnabled)
	educationService := services.NewEducationService(geminiClient, aiCache)
	presenceService := services.NewPresenceService(presenceRepo, time.Duration(cfg.PresenceWindowMinutes)*time.Minute)
	registrationService := services.NewRegistrationService(registrationRepo, userRepo, educationService, authService, emailService, cfg.AdminEmail)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	landingHandler := handlers.NewLandingHandler(announcementRepo, eventRepo, presenceService, redisClient)
	announcementHandler := handlers.NewAnnouncementHandler(announcementRepo, educationService)
	presenceHandler := handlers.NewPresenceHandler(presenceService)
	teacherHandler := handlers.NewTeacherHandler(educationService)
	adminHandler := handlers.NewAdminHandler(userRepo, emailService)

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(presenceService, 10*time.Second)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	go wsHub.Run(hubCtx)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	presenceTracker := middleware.NewPresenceTracker(presenceService, jwtAuth)
	r := router.New(
		jwtAuth,
		presenceTracker,
		authHandler,
		registrationHandler,
		landingHandler,
		announcementHandler,
		presenceHandler,
		teacherHandler,
		adminHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		wsHub.Stop()
		hubCancel()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Joyland Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/presence/live", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
