package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "shopcore/internal/log"
	"shopcore/internal/services"
)

type OrderHandler struct {
	Checkout *services.CheckoutService
}

func (h *OrderHandler) Purchase(c *fiber.Ctx) error {
	order, err := h.Checkout.Purchase(ownerID(c))
	if err != nil {
		applog.Security(c, "order.purchase.fail", map[string]any{"error": err.Error()})
		return respondErr(c, "order.purchase.fail", err)
	}
	applog.Audit(c, "order.purchase", map[string]any{
		"order_id": order.ID,
		"cart_id":  order.CartID,
		"total":    order.Total.String(),
	})
	return respond(c, fiber.StatusOK, "Cart purchased successfully.", order)
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	detail, err := h.Checkout.Order(ownerID(c), c.Params("id"))
	if errors.Is(err, sql.ErrNoRows) {
		return respond(c, fiber.StatusNotFound, "order not found", nil)
	}
	if err != nil {
		return respondErr(c, "order.view.fail", err)
	}
	return respond(c, fiber.StatusOK, "", detail)
}

func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Checkout.History(ownerID(c))
	if err != nil {
		return respondErr(c, "order.history.fail", err)
	}
	return respond(c, fiber.StatusOK, "", orders)
}
