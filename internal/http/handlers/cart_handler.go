package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopcore/internal/log"
	"shopcore/internal/services"
	"shopcore/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartItemReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid request body", nil)
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return respond(c, fiber.StatusBadRequest, "invalid productId", nil)
	}

	item, err := h.Cart.Add(ownerID(c), pid, req.Quantity)
	if err != nil {
		return respondErr(c, "cart.add.fail", err)
	}
	applog.Audit(c, "cart.add", map[string]any{"product_id": pid, "quantity": req.Quantity})
	return respond(c, fiber.StatusOK, "Product added to cart successfully.", item)
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid request body", nil)
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return respond(c, fiber.StatusBadRequest, "invalid productId", nil)
	}

	item, err := h.Cart.Update(ownerID(c), pid, req.Quantity)
	if err != nil {
		return respondErr(c, "cart.update.fail", err)
	}
	applog.Audit(c, "cart.update", map[string]any{"product_id": pid, "quantity": req.Quantity})
	return respond(c, fiber.StatusOK, "Product quantity updated successfully.", item)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return respond(c, fiber.StatusBadRequest, "invalid productId", nil)
	}

	if err := h.Cart.Remove(ownerID(c), pid); err != nil {
		return respondErr(c, "cart.remove.fail", err)
	}
	applog.Audit(c, "cart.remove", map[string]any{"product_id": pid})
	return respond(c, fiber.StatusOK, "Product removed from cart successfully.", nil)
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(ownerID(c))
	if err != nil {
		return respondErr(c, "cart.view.fail", err)
	}
	return respond(c, fiber.StatusOK, "", cv)
}
