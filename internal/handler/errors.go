package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/do0han/tubespyv1/internal/middleware"
	"github.com/do0han/tubespyv1/internal/model"
)

// serviceError translates typed service errors into HTTP responses.
// fallback is used for errors outside the known taxonomy.
func serviceError(c fiber.Ctx, err error, fallback string) error {
	var (
		validation *model.ValidationError
		notFound   *model.NotFoundError
		conflict   *model.ConflictError
		authz      *model.AuthorizationError
		upstream   *model.UpstreamError
	)

	switch {
	case errors.As(err, &validation):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", validation.Error())
	case errors.As(err, &notFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", notFound.Error())
	case errors.As(err, &conflict):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "CONFLICT", conflict.Error())
	case errors.As(err, &authz):
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", authz.Error())
	case errors.As(err, &upstream):
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "UPSTREAM_ERROR", "Backing store unavailable")
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
