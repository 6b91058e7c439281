package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/db"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet/schema"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/push"

	_ "github.com/bharatlytics/visitorManagementSystem-sub002/docs"
)

// @title           Device Fleet API
// @version         1.0
// @description     Command and telemetry service for visitor check-in kiosks

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

func main() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/fleet/fleet.db)")
	flag.Parse()

	ctx := context.Background()

	// Open database
	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Info().Str("path", database.Path()).Msg("Database opened")

	// Run migrations
	if err := database.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Bootstrap if needed (first run)
	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check bootstrap status")
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping database...")
		if err := database.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap database")
		}
		log.Info().Msg("Database bootstrapped successfully")
	}

	// Load configuration
	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("api_address", cfg.Address()).
		Str("activation_url", cfg.ActivationBaseURL).
		Msg("Configuration loaded")

	// Push is a best-effort channel; without a server key devices
	// still get everything through the command queue.
	var pusher fleet.Pusher
	if cfg.FCMServerKey != "" {
		pusher = push.NewFCMClient(cfg.FCMServerKey)
	} else {
		log.Warn().Msg("No FCM server key configured, push notifications disabled")
		pusher = push.NewNullPusher()
	}

	registry := fleet.NewRegistry(database.Devices(), database.Codes(), cfg.ActivationBaseURL)
	dispatcher := fleet.NewDispatcher(database.Commands(), registry, schema.NewValidator(), pusher)

	// Create and start API router
	router := api.NewRouter(database, registry, dispatcher)

	// Handle shutdown gracefully
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
		os.Exit(0)
	}()

	// Start server
	addr := cfg.Address()
	log.Info().Str("address", addr).Msg("Starting API server")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
