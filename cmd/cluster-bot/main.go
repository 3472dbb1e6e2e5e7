package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/okorolenko/news-cluster-bot/internal/app"
	"github.com/okorolenko/news-cluster-bot/internal/platform/config"
	db "github.com/okorolenko/news-cluster-bot/internal/storage"
)

func main() {
	mode := flag.String("mode", "bot", "Service mode (bot, digest)")
	topic := flag.String("topic", "", "Search topic (digest mode)")
	location := flag.String("location", "", "Region code (digest mode)")
	language := flag.String("language", "", "Language code (digest mode)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolOpts := db.PoolOptions{
		MaxConns:        cfg.DBMaxConnections,
		MinConns:        cfg.DBMinConnections,
		MaxConnLifetime: cfg.DBConnLifetime,
	}

	database, err := db.New(ctx, cfg.PostgresDSN, poolOpts, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	application := app.New(cfg, database, &logger)

	go func() {
		if err := application.StartHealthServer(ctx); err != nil {
			logger.Error().Err(err).Msg("health check server error")
		}
	}()

	if err := runMode(ctx, application, *mode, *topic, *location, *language); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runMode(ctx context.Context, application *app.App, mode, topic, location, language string) error {
	switch mode {
	case "bot":
		return application.RunBot(ctx)
	case "digest":
		if topic == "" {
			log.Fatalf("Usage: %s --mode=digest --topic=<query> [--location=US] [--language=en]", os.Args[0])
		}

		return application.RunDigest(ctx, topic, location, language)
	default:
		log.Fatalf("Usage: %s --mode=[bot|digest]", os.Args[0])

		return nil
	}
}
