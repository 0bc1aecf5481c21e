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

	"github.com/Irshadp556/movie-review-analysis/internal/api"
	"github.com/Irshadp556/movie-review-analysis/internal/auth"
	"github.com/Irshadp556/movie-review-analysis/internal/config"
	"github.com/Irshadp556/movie-review-analysis/internal/database"
	"github.com/Irshadp556/movie-review-analysis/internal/logger"
	"github.com/Irshadp556/movie-review-analysis/internal/monitoring"
	"github.com/Irshadp556/movie-review-analysis/internal/sentiment"
	"github.com/Irshadp556/movie-review-analysis/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.AppEnv)

	// Set up database
	db, err := database.New(cfg.DatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up services
	userService := services.NewUserService(db)
	reviewService := services.NewReviewService(db)
	classifier := sentiment.NewClient(cfg.GroqAPIKey, cfg.GroqModel)

	// Set up sessions and the Google OAuth client
	store := auth.NewStore(cfg.SessionTTL, cfg.AppEnv == "production")
	oauth := auth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.RedirectURI, cfg.SessionSecret)

	// Set up and run the background session sweeper
	sweeper, err := monitoring.NewSessionSweeper(store, cfg.SessionSweep)
	if err != nil {
		log.Fatalf("Invalid SESSION_SWEEP_SCHEDULE: %v", err)
	}
	go sweeper.Run()

	// Set up router
	router := api.NewRouter(db, store, oauth, userService, reviewService, classifier)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
