package images

import (
	"errors"

	imagesvc "dreamstay-backend/internal/application/images"
	"dreamstay-backend/internal/domain"
	"dreamstay-backend/internal/infrastructure/imagestore"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const cacheControl = "public, max-age=604800"

type Handlers struct {
	Store imagesvc.Store
}

// GET /img/:file: raw PNG bytes, or 404 "Not found"
func (h *Handlers) Serve(c *fiber.Ctx) error {
	key := c.Params("file")
	if !imagestore.ValidKey(key) {
		return c.Status(fiber.StatusNotFound).SendString("Not found")
	}
	data, err := h.Store.Get(c.UserContext(), key)
	if err != nil {
		if !errors.Is(err, domain.ErrImageNotFound) {
			log.Error().Err(err).Str("key", key).Msg("image read failed")
		}
		return c.Status(fiber.StatusNotFound).SendString("Not found")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, cacheControl)
	return c.Send(data)
}
