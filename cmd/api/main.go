package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dyleth/fraudshield/internal/api/rest"
	"github.com/dyleth/fraudshield/internal/domain/report"
	"github.com/dyleth/fraudshield/internal/infrastructure/auth"
	"github.com/dyleth/fraudshield/internal/infrastructure/cache"
	"github.com/dyleth/fraudshield/internal/infrastructure/config"
	"github.com/dyleth/fraudshield/internal/infrastructure/database"
	"github.com/dyleth/fraudshield/internal/infrastructure/embedding"
	"github.com/dyleth/fraudshield/internal/infrastructure/vector"
	"github.com/dyleth/fraudshield/internal/service/analytics"
	"github.com/dyleth/fraudshield/internal/service/classifier"
	"github.com/dyleth/fraudshield/internal/service/detection"
	"github.com/dyleth/fraudshield/internal/service/reporting"
	"github.com/dyleth/fraudshield/internal/telemetry"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := telemetry.NewLogger(cfg.Log.Level, cfg.Log.Environment)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("fatal error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := database.NewPool(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := cache.NewRedisClient(&cfg.Redis, logger)
	if err != nil {
		return err
	}
	redisCache := cache.NewRedisCache(redisClient, logger)
	defer redisCache.Close()
	limiter := cache.NewRedisRateLimiter(redisClient, logger)

	// The similarity layer is optional; failures here degrade detection to
	// the classifier path instead of blocking startup.
	index, err := vector.NewIndex(ctx, &cfg.Qdrant, logger)
	if err != nil {
		logger.Warn("similarity index unavailable, corroboration disabled", zap.Error(err))
		index = vector.Disabled()
	}
	defer index.Close()

	embedder := embedding.NewClient(&cfg.Embedding, logger)

	registryRepo := database.NewRegistryRepository(pool)
	reportRepo := database.NewReportRepository(pool)
	logRepo := database.NewDetectionLogRepository(pool)
	analyticsRepo := database.NewAnalyticsRepository(pool)

	detectionSvc := detection.NewService(
		cache.NewVerdictCache(redisCache),
		registryRepo,
		classifier.NewRuleBased(),
		embedder,
		index,
		logRepo,
		logger,
	)
	reportingSvc := reporting.NewService(reportRepo, registryRepo, embedder, index, logger)
	analyticsSvc := analytics.NewService(analyticsRepo, logger)

	tokens := auth.NewJWTService(cfg.Security.JWTSecret, cfg.Security.TokenExpiry)

	router := rest.NewRouter(rest.RouterDeps{
		Detection: detectionSvc,
		Reporting: reportingSvc,
		Analytics: analyticsSvc,
		Tokens:    tokens,
		Limiter:   limiter,
		Cache:     redisCache,
		DB:        pool,
		Security:  &cfg.Security,
		CORS:      cfg.Server.CORSOrigins,
		Version:   version,
		Logger:    logger,
	})

	server := rest.NewServer(&cfg.Server, router, logger)

	go runRetention(ctx, logRepo, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// runRetention deletes expired detection logs once a day.
func runRetention(ctx context.Context, logs *database.DetectionLogRepository, logger *zap.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-report.RetentionPeriod)
			deleted, err := logs.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				logger.Error("detection log retention failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				logger.Info("detection log retention completed", zap.Int64("deleted", deleted))
			}
		}
	}
}
