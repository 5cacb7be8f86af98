package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/do0han/tubespyv1/internal/middleware"
	"github.com/do0han/tubespyv1/internal/service"
)

const maxReportLimit = 200

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Channels handles GET /api/reports/channels
func (h *ReportHandler) Channels(c fiber.Ctx) error {
	owner, errMsg := middleware.Owner(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_OWNER", errMsg)
	}

	report, err := h.svc.SummarizeChannels(c.Context(), owner)
	if err != nil {
		return serviceError(c, err, "Failed to build channels report")
	}

	return c.JSON(report)
}

// Videos handles GET /api/reports/videos?channelId=X&sortBy=Y&order=Z&limit=N
func (h *ReportHandler) Videos(c fiber.Ctx) error {
	owner, errMsg := middleware.Owner(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_OWNER", errMsg)
	}

	opts := service.VideoReportOptions{
		ChannelID: fiber.Query[string](c, "channelId"),
		SortField: fiber.Query[string](c, "sortBy"),
		SortOrder: fiber.Query[string](c, "order"),
		Limit:     fiber.Query[int](c, "limit"),
	}

	if opts.ChannelID != "" {
		id, errMsg := middleware.ValidateRowID(opts.ChannelID)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		opts.ChannelID = id
	}
	if opts.SortOrder != "" && opts.SortOrder != "asc" && opts.SortOrder != "desc" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", "order must be \"asc\" or \"desc\"")
	}
	if opts.Limit < 0 || opts.Limit > maxReportLimit {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", "limit must be between 0 and 200")
	}

	report, err := h.svc.SummarizeVideos(c.Context(), owner, opts)
	if err != nil {
		return serviceError(c, err, "Failed to build videos report")
	}

	return c.JSON(report)
}
