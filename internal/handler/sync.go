package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/do0han/tubespyv1/internal/middleware"
	"github.com/do0han/tubespyv1/internal/model"
	"github.com/do0han/tubespyv1/internal/service"
)

const maxBatchItems = 500

type SyncHandler struct {
	svc *service.SyncService
}

func NewSyncHandler(svc *service.SyncService) *SyncHandler {
	return &SyncHandler{svc: svc}
}

type syncRequest struct {
	Mode  model.SyncMode  `json:"mode"`
	Items []model.RawItem `json:"items"`
}

// Sync handles POST /api/sync
func (h *SyncHandler) Sync(c fiber.Ctx) error {
	owner, errMsg := middleware.Owner(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_OWNER", errMsg)
	}

	var req syncRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if !req.Mode.Valid() {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_MODE", "mode must be \"video\" or \"channel\"")
	}
	if len(req.Items) > maxBatchItems {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "BATCH_TOO_LARGE", "Batch exceeds 500 items")
	}

	outcome, err := h.svc.SyncBatch(c.Context(), owner, req.Items, req.Mode)
	if err != nil {
		return serviceError(c, err, "Sync failed")
	}

	Metrics.SyncBatchesTotal.WithLabelValues(string(req.Mode)).Inc()
	Metrics.SyncItemsTotal.WithLabelValues("success").Add(float64(outcome.SuccessCount))
	Metrics.SyncItemsTotal.WithLabelValues("failure").Add(float64(outcome.FailureCount))

	return c.JSON(outcome)
}
