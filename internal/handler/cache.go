package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/do0han/tubespyv1/internal/cache"
)

type CacheHandler struct {
	store *cache.Store
}

func NewCacheHandler(store *cache.Store) *CacheHandler {
	return &CacheHandler{store: store}
}

// Stats handles GET /api/cache/stats
func (h *CacheHandler) Stats(c fiber.Ctx) error {
	return c.JSON(h.store.Stats())
}

// Clear handles DELETE /api/cache
func (h *CacheHandler) Clear(c fiber.Ctx) error {
	h.store.Clear()
	return c.JSON(fiber.Map{"success": true})
}
