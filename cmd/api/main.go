package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opportunity-scout/internal/infra/adapter/persistence/postgres"
	"opportunity-scout/internal/infra/db"
	"opportunity-scout/internal/infra/extractor"
	"opportunity-scout/internal/infra/fetcher"
	"opportunity-scout/internal/observability/logging"
	"opportunity-scout/internal/pkg/config"

	crawlUC "opportunity-scout/internal/usecase/crawl"
	draftUC "opportunity-scout/internal/usecase/draft"
	schedUC "opportunity-scout/internal/usecase/schedule"
	srcUC "opportunity-scout/internal/usecase/source"

	hhttp "opportunity-scout/internal/handler/http"
	hcrawl "opportunity-scout/internal/handler/http/crawl"
	hdraft "opportunity-scout/internal/handler/http/draft"
	"opportunity-scout/internal/handler/http/requestid"
	hsrc "opportunity-scout/internal/handler/http/source"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pipeline := buildPipeline(logger, database)
	pipeline.Start(ctx)

	go db.ReportPoolStats(ctx, database, 15*time.Second)

	handler := buildHandler(logger, database, pipeline)
	runServer(ctx, cancel, logger, handler, pipeline)
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// buildPipeline assembles the crawl pipeline: page fetcher, AI extractor,
// and the Postgres-backed stages behind it.
func buildPipeline(logger *slog.Logger, database *sql.DB) *crawlUC.Pipeline {
	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load page fetch configuration", slog.Any("error", err))
		os.Exit(1)
	}

	extractorCfg := extractor.LoadConfig()
	if err := extractorCfg.Validate(); err != nil {
		logger.Error("invalid extractor configuration", slog.Any("error", err))
		os.Exit(1)
	}

	return crawlUC.NewPipeline(
		fetcher.NewHTTPPageFetcher(fetchCfg),
		newExtractor(logger, extractorCfg),
		postgres.NewSourceRepo(database),
		postgres.NewCrawlLogRepo(database),
		postgres.NewOpportunityRepo(database),
		postgres.NewDraftRepo(database),
		loadPipelineConfig(logger),
	)
}

// newExtractor selects the extractor implementation from EXTRACTOR_TYPE.
// Missing API keys are a startup error rather than a per-crawl one.
func newExtractor(logger *slog.Logger, cfg extractor.Config) crawlUC.Extractor {
	switch cfg.Type {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Error("ANTHROPIC_API_KEY must be set when EXTRACTOR_TYPE=claude")
			os.Exit(1)
		}
		return extractor.NewClaude(apiKey, cfg)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY must be set when EXTRACTOR_TYPE=openai")
			os.Exit(1)
		}
		return extractor.NewOpenAI(apiKey, cfg)
	default:
		logger.Warn("extraction disabled, crawls will stage nothing",
			slog.String("extractor_type", cfg.Type))
		return extractor.NewNoop()
	}
}

// loadPipelineConfig reads pipeline sizing from environment with fail-open
// fallback to the defaults.
func loadPipelineConfig(logger *slog.Logger) crawlUC.PipelineConfig {
	cfg := crawlUC.DefaultPipelineConfig()

	load := func(envKey string, target *int) {
		result := config.LoadEnvInt(envKey, *target, func(v int) error {
			return config.ValidateIntRange(v, 1, 64)
		})
		for _, w := range result.Warnings {
			logger.Warn(w, slog.String("field", envKey))
		}
		*target = result.Value.(int)
	}

	load("PIPELINE_QUEUE_SIZE", &cfg.QueueSize)
	load("PIPELINE_FETCH_WORKERS", &cfg.FetchWorkers)
	load("PIPELINE_EXTRACT_WORKERS", &cfg.ExtractWorkers)
	load("PIPELINE_PERSIST_WORKERS", &cfg.PersistWorkers)
	load("PIPELINE_PERSIST_PARALLELISM", &cfg.PersistParallelism)

	return cfg
}

// buildHandler registers all routes and wraps them in the middleware chain.
func buildHandler(logger *slog.Logger, database *sql.DB, pipeline *crawlUC.Pipeline) http.Handler {
	sourceRepo := postgres.NewSourceRepo(database)
	logRepo := postgres.NewCrawlLogRepo(database)

	srcSvc := srcUC.NewService(sourceRepo, logRepo)
	schedSvc := schedUC.NewService(sourceRepo)
	crawlSvc := crawlUC.NewService(sourceRepo, logRepo, pipeline)
	draftSvc := draftUC.NewService(postgres.NewDraftRepo(database))

	mux := http.NewServeMux()
	hsrc.Register(mux, srcSvc, schedSvc)
	hcrawl.Register(mux, crawlSvc)
	hdraft.Register(mux, draftSvc)

	mux.Handle("GET /healthz", hhttp.HealthHandler{DB: database, Pipeline: pipeline, Version: getVersion()})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	rateLimit := config.LoadEnvInt("API_RATE_LIMIT", 120, func(v int) error {
		return config.ValidateIntRange(v, 1, 100000)
	})
	for _, w := range rateLimit.Warnings {
		logger.Warn(w, slog.String("field", "API_RATE_LIMIT"))
	}
	limiter := hhttp.NewRateLimiter(rateLimit.Value.(int), time.Minute)

	// Apply in reverse order (innermost to outermost).
	var handler http.Handler = mux
	handler = limiter.Limit(handler)
	handler = hhttp.InputValidation()(handler)
	handler = hhttp.Timeout(60 * time.Second)(handler)
	handler = hhttp.MetricsMiddleware(handler)
	handler = hhttp.Logging(logger)(handler)
	handler = hhttp.Recover(logger)(handler)
	handler = requestid.Middleware(handler)

	return handler
}

// runServer starts the HTTP server and handles graceful shutdown, draining
// the crawl pipeline before exit.
func runServer(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, handler http.Handler, pipeline *crawlUC.Pipeline) {
	addr := config.LoadEnvString("HTTP_ADDR", ":8080")

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	// Stop accepting crawls and drain queued work before the DB closes.
	if err := pipeline.Stop(shutdownCtx); err != nil {
		logger.Error("pipeline drain failed", slog.Any("error", err))
	}
	cancel()

	logger.Info("server stopped")
}
