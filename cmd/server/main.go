package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/do0han/tubespyv1/internal/cache"
	"github.com/do0han/tubespyv1/internal/config"
	"github.com/do0han/tubespyv1/internal/db"
	"github.com/do0han/tubespyv1/internal/handler"
	"github.com/do0han/tubespyv1/internal/middleware"
	"github.com/do0han/tubespyv1/internal/repository"
	"github.com/do0han/tubespyv1/internal/router"
	"github.com/do0han/tubespyv1/internal/service"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "tubespy")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// In-memory search cache with a background sweeper for the process lifetime.
	searchCache := cache.New(cfg.SearchCacheTTL)
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go searchCache.StartSweeper(sweepCtx, cache.SweepInterval)

	handler.InitMetrics(pool, func() int { return searchCache.Stats().Size })

	reportCache := service.NewCacheService(
		cfg.RedisURL,
		cfg.ReportCacheTTL,
		handler.Metrics.ReportCacheHits,
		handler.Metrics.ReportCacheMisses,
	)
	defer reportCache.Close()

	channelRepo := repository.NewChannelRepo(pool)
	videoRepo := repository.NewVideoRepo(pool)

	syncSvc := service.NewSyncService(channelRepo, videoRepo, reportCache, cfg.SyncItemDelay)
	reportSvc := service.NewReportService(channelRepo, videoRepo, reportCache)
	adminSvc := service.NewAdminService(channelRepo, videoRepo, reportCache)

	handlers := &router.Handlers{
		Sync:   handler.NewSyncHandler(syncSvc),
		Report: handler.NewReportHandler(reportSvc),
		Admin:  handler.NewAdminHandler(adminSvc),
		Cache:  handler.NewCacheHandler(searchCache),
		Health: handler.NewHealthHandler(pool, reportCache.Client()),
	}

	app := fiber.New(fiber.Config{
		AppName:      "TubeSpy API",
		ServerHeader: "TubeSpy",
	})

	router.Setup(app, handlers, cfg.CORSOrigins)

	log.Printf("TubeSpy backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	log.Fatal(app.Listen(":" + cfg.Port))
}
