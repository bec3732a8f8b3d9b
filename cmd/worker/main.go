package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	"opportunity-scout/internal/handler/http/respond"
	"opportunity-scout/internal/infra/adapter/persistence/postgres"
	"opportunity-scout/internal/infra/db"
	"opportunity-scout/internal/infra/extractor"
	"opportunity-scout/internal/infra/fetcher"
	workerPkg "opportunity-scout/internal/infra/worker"
	"opportunity-scout/internal/observability/logging"
	crawlUC "opportunity-scout/internal/usecase/crawl"
	schedUC "opportunity-scout/internal/usecase/schedule"
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

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("scan_schedule", workerConfig.ScanSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("scan_timeout", workerConfig.ScanTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	startMetricsServer(ctx, logger)
	go db.ReportPoolStats(ctx, database, 15*time.Second)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	pipeline := buildPipeline(logger, database)
	pipeline.Start(ctx)

	scanner := buildScanner(logger, database, pipeline, workerMetrics)

	runCronWorker(ctx, logger, scanner, workerConfig, healthServer)

	// Stop accepting crawls and drain queued work before the DB closes.
	drainCtx, drainCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer drainCancel()
	if err := pipeline.Stop(drainCtx); err != nil {
		logger.Error("pipeline drain failed", slog.Any("error", err))
	}
	cancel()
	logger.Info("worker stopped")
}

// initDatabase opens the database connection and waits for migrations to
// complete. The API binary owns the schema; the worker only probes for it.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	waitForMigrations(logger, database)
	return database
}

func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM crawl_sources LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

// buildPipeline assembles the crawl pipeline the scanner submits into.
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
		crawlUC.DefaultPipelineConfig(),
	)
}

// newExtractor selects the extractor implementation from EXTRACTOR_TYPE.
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

// buildScanner wires the due-source scanner onto the shared pipeline.
func buildScanner(logger *slog.Logger, database *sql.DB, pipeline *crawlUC.Pipeline, metrics *workerPkg.WorkerMetrics) *workerPkg.Scanner {
	sourceRepo := postgres.NewSourceRepo(database)
	logRepo := postgres.NewCrawlLogRepo(database)

	schedSvc := schedUC.NewService(sourceRepo)
	crawlSvc := crawlUC.NewService(sourceRepo, logRepo, pipeline)

	return workerPkg.NewScanner(&schedSvc, &crawlSvc, metrics, logger)
}

// runCronWorker runs due-source scans on the configured cron schedule until
// SIGINT or SIGTERM arrives.
func runCronWorker(ctx context.Context, logger *slog.Logger, scanner *workerPkg.Scanner, cfg *workerPkg.WorkerConfig, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.ScanSchedule, func() {
		runScanJob(ctx, logger, scanner, cfg)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.ScanSchedule),
		slog.String("timezone", cfg.Timezone))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down worker...")

	cronCtx := c.Stop()
	<-cronCtx.Done()
}

// runScanJob executes a single due-source scan with timeout.
func runScanJob(ctx context.Context, logger *slog.Logger, scanner *workerPkg.Scanner, cfg *workerPkg.WorkerConfig) {
	scanCtx, cancel := context.WithTimeout(ctx, cfg.ScanTimeout)
	defer cancel()

	if _, err := scanner.Scan(scanCtx); err != nil {
		logger.Error("scan failed", slog.String("error", respond.SanitizeError(err)))
	}
}
