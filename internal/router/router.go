package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/do0han/tubespyv1/internal/handler"
	"github.com/do0han/tubespyv1/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Sync   *handler.SyncHandler
	Report *handler.ReportHandler
	Admin  *handler.AdminHandler
	Cache  *handler.CacheHandler
	Health *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics (outside the API group, no owner header needed)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api")

	syncLimit := middleware.NewSyncRateLimiter()
	reportLimit := middleware.NewReportRateLimiter()
	adminLimit := middleware.NewAdminRateLimiter()

	// Ingestion
	api.Post("/sync", h.Sync.Sync, syncLimit.Handler())

	// Reports
	api.Get("/reports/channels", h.Report.Channels, reportLimit.Handler())
	api.Get("/reports/videos", h.Report.Videos, reportLimit.Handler())

	// Data administration
	api.Delete("/data/:kind/:id", h.Admin.Delete, adminLimit.Handler())
	api.Post("/data/bulk-delete", h.Admin.BulkDelete, adminLimit.Handler())

	// Search cache introspection
	api.Get("/cache/stats", h.Cache.Stats)
	api.Delete("/cache", h.Cache.Clear)
}
