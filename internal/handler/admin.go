package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/do0han/tubespyv1/internal/middleware"
	"github.com/do0han/tubespyv1/internal/service"
)

type AdminHandler struct {
	svc *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Delete handles DELETE /api/data/:kind/:id
func (h *AdminHandler) Delete(c fiber.Ctx) error {
	owner, errMsg := middleware.Owner(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_OWNER", errMsg)
	}

	kind := c.Params("kind")
	if kind != service.KindChannel && kind != service.KindVideo {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_KIND", "kind must be \"channel\" or \"video\"")
	}

	id, errMsg := middleware.ValidateRowID(c.Params("id"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	result, err := h.svc.DeleteByID(c.Context(), owner, kind, id)
	if err != nil {
		return serviceError(c, err, "Failed to delete")
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"deletedChannels": result.DeletedChannels,
		"deletedVideos":   result.DeletedVideos,
	})
}

type bulkDeleteRequest struct {
	Kind string   `json:"kind"`
	IDs  []string `json:"ids"`
}

// BulkDelete handles POST /api/data/bulk-delete
func (h *AdminHandler) BulkDelete(c fiber.Ctx) error {
	owner, errMsg := middleware.Owner(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_OWNER", errMsg)
	}

	var req bulkDeleteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if req.Kind != service.KindChannel && req.Kind != service.KindVideo {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_KIND", "kind must be \"channel\" or \"video\"")
	}

	ids, errMsg := middleware.ValidateBulkIDs(req.IDs)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	result, err := h.svc.BulkDelete(c.Context(), owner, req.Kind, ids)
	if err != nil {
		return serviceError(c, err, "Failed to bulk delete")
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"deletedChannels": result.DeletedChannels,
		"deletedVideos":   result.DeletedVideos,
	})
}
