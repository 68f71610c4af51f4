package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopcore/internal/services"
	"shopcore/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return respond(c, fiber.StatusBadRequest, "missing or invalid productId", nil)
	}

	avail, err := h.Inv.CheckAvailability(productID)
	if err != nil {
		return respondErr(c, "availability.fail", err)
	}
	return respond(c, fiber.StatusOK, "", avail)
}
