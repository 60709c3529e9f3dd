package listings

import (
	"errors"

	lesvc "dreamstay-backend/internal/application/listingevents"
	listsvc "dreamstay-backend/internal/application/listings"
	"dreamstay-backend/internal/domain"
	"dreamstay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *listsvc.Service
	Events  *lesvc.Service
}

// POST /api/listings/generate: 200 with the new listing, imageStatus and optional imageError
func (h *Handlers) Generate(c *fiber.Ctx) error {
	result, err := h.Service.Generate(c.UserContext())
	if err != nil {
		return generateError(c, err)
	}
	return c.JSON(result)
}

func generateError(c *fiber.Ctx, err error) error {
	var pe *domain.PersistenceError
	if errors.As(err, &pe) {
		return response.Error(c, "Error inserting listing", fiber.StatusInternalServerError, fiber.Map{"reason": err.Error()})
	}
	if domain.IsGenerationError(err) {
		details := fiber.Map{"reason": err.Error()}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			details["field"] = ve.Field
		}
		return response.Error(c, "Failed to generate listing", fiber.StatusBadGateway, details)
	}
	return err
}

// GET /api/listings: JSON array, oldest first
func (h *Handlers) List(c *fiber.Ctx) error {
	listings, err := h.Service.List(c.UserContext())
	if err != nil {
		return response.Error(c, "Error fetching listings", fiber.StatusInternalServerError, fiber.Map{"reason": err.Error()})
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	return c.JSON(listings)
}

// GET /api/listings/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	listing, err := h.Service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return response.NotFound(c, "Listing not found")
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return c.JSON(listing)
}

// GET /api/listings/:id/events
func (h *Handlers) ListEvents(c *fiber.Ctx) error {
	if h.Events == nil {
		return response.NotFound(c, "Listing events are not enabled")
	}
	id := c.Params("id")
	if _, err := h.Service.Get(c.UserContext(), id); err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return response.NotFound(c, "Listing not found")
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	events, err := h.Events.ForListing(c.UserContext(), id)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Listing events fetched successfully", events, nil)
}
