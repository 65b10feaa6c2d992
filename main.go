package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/yoga-collections-be/internal/api"
	"github.com/isdelr/yoga-collections-be/internal/auth"
	"github.com/isdelr/yoga-collections-be/internal/catalog"
	"github.com/isdelr/yoga-collections-be/internal/config"
	"github.com/isdelr/yoga-collections-be/internal/database"
	"github.com/isdelr/yoga-collections-be/internal/logger"
	"github.com/isdelr/yoga-collections-be/internal/maintenance"
	"github.com/isdelr/yoga-collections-be/internal/services"
	"github.com/isdelr/yoga-collections-be/internal/store"
	"github.com/isdelr/yoga-collections-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)

	// Set up database
	ctx := context.Background()
	db, err := database.New(ctx, cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(store.NewUserStore(db), services.NewBcryptHasher(cfg.Auth.BcryptCost))
	eventService := services.NewEventService(store.NewEventStore(db), hub)
	collectionService := services.NewCollectionService(store.NewCollectionStore(db), store.NewItemStore(db), eventService)

	// Set up the store maintenance scheduler
	scheduler, err := maintenance.NewScheduler(db, cfg.Maintenance.Schedule, maintenance.DefaultTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure store maintenance")
	}
	scheduler.Start()

	deps := api.Dependencies{
		Hub:          hub,
		Users:        userService,
		Collections:  collectionService,
		Events:       eventService,
		Tokens:       auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		DB:           db,
		RequireOwner: cfg.Auth.RequireOwner,
		CORSOrigins:  cfg.Server.CORSOrigins,
	}
	if cfg.Catalog.BaseURL != "" {
		deps.Catalog = catalog.New(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	}

	// Set up server
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}
