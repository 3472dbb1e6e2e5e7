// Package app provides the application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// the operational modes:
//
//   - Bot mode: interactive Telegram bot plus the daily update scheduler
//   - Digest mode: one-shot pipeline run printed to stdout, for smoke tests
//
// Each mode can be run independently based on deployment needs.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/okorolenko/news-cluster-bot/internal/bot"
	"github.com/okorolenko/news-cluster-bot/internal/core/embeddings"
	"github.com/okorolenko/news-cluster-bot/internal/digest"
	"github.com/okorolenko/news-cluster-bot/internal/fetch"
	"github.com/okorolenko/news-cluster-bot/internal/output/render"
	"github.com/okorolenko/news-cluster-bot/internal/platform/config"
	"github.com/okorolenko/news-cluster-bot/internal/platform/observability"
	"github.com/okorolenko/news-cluster-bot/internal/platform/worker"
	"github.com/okorolenko/news-cluster-bot/internal/process/cluster"
	"github.com/okorolenko/news-cluster-bot/internal/process/recency"
	"github.com/okorolenko/news-cluster-bot/internal/process/similarity"
	db "github.com/okorolenko/news-cluster-bot/internal/storage"
)

// App holds the application dependencies and provides methods to run
// different modes.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// StartHealthServer starts the health check and metrics server.
func (a *App) StartHealthServer(ctx context.Context) error {
	srv := observability.NewServer(a.database, a.cfg.HealthPort, a.logger)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("health server start: %w", err)
	}

	return nil
}

// RunBot runs the interactive bot together with the daily update scheduler.
func (a *App) RunBot(ctx context.Context) error {
	a.logger.Info().Msg("starting bot mode")

	pipeline := a.newPipeline()

	telegramBot, err := bot.New(a.cfg.BotToken, a.database, pipeline, a.logger)
	if err != nil {
		return fmt.Errorf("bot initialization failed: %w", err)
	}

	daily := worker.NewDaily(
		telegramBot,
		a.cfg.DailyUpdateHour,
		a.cfg.DailyUpdateMinute,
		a.cfg.ScheduleLocation(),
		a.logger,
	)

	go func() {
		if err := daily.Run(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error().Err(err).Msg("daily scheduler stopped")
		}
	}()

	return telegramBot.Run(ctx)
}

// RunDigest runs a single pipeline pass for the given query and writes the
// rendered pages to stdout. Used for smoke testing without Telegram.
func (a *App) RunDigest(ctx context.Context, topic, location, language string) error {
	a.logger.Info().Str("topic", topic).Msg("starting digest mode")

	if location == "" {
		location = a.cfg.DefaultLocation
	}

	if language == "" {
		language = a.cfg.DefaultLanguage
	}

	result, err := a.newPipeline().Run(ctx, topic, location, language)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	for i, page := range result.Pages {
		fmt.Fprintf(os.Stdout, "--- page %d/%d ---\n%s\n", i+1, len(result.Pages), page)
	}

	return nil
}

// newPipeline assembles the fetch → filter → cluster → format chain from
// configuration.
func (a *App) newPipeline() *digest.Pipeline {
	fetcher := fetch.New(
		a.cfg.FeedBaseURL,
		a.cfg.DefaultLocation,
		a.cfg.DefaultLanguage,
		a.cfg.FeedTimeout,
		a.logger,
	)

	filter := recency.New(a.cfg.RecencyWindow)

	encoder := embeddings.New(embeddings.Config{
		APIKey:     a.cfg.OpenAIAPIKey,
		Model:      a.cfg.EmbeddingModel,
		Dimensions: a.cfg.EmbeddingDimensions,
		RateLimit:  a.cfg.EmbeddingRateLimit,
	})

	engine := similarity.Select(encoder, a.logger)
	clusterer := cluster.New(engine)
	formatter := render.New(a.cfg.MessageBudget, a.cfg.MaxArticlesPerGroup, a.cfg.MaxSingletons)

	return digest.New(
		fetcher,
		filter,
		clusterer,
		formatter,
		a.cfg.SimilarityThreshold,
		a.cfg.MaxClusters,
		a.logger,
	)
}
