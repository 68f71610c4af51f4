package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopcore/internal/domain"
	applog "shopcore/internal/log"
	"shopcore/internal/services"
)

// Every response is {status, message, data}-shaped.
func respond(c *fiber.Ctx, code int, message string, data any) error {
	status := "success"
	if code >= 500 {
		status = "error"
	} else if code >= 400 {
		status = "fail"
	}
	body := fiber.Map{"status": status, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.Status(code).JSON(body)
}

// respondErr translates domain error kinds to protocol status codes. Unknown
// errors become an opaque 500 after logging.
func respondErr(c *fiber.Ctx, action string, err error) error {
	var stockErr *domain.StockError
	switch {
	case errors.As(err, &stockErr):
		return respond(c, fiber.StatusConflict, stockErr.Error(), fiber.Map{"available": stockErr.Available})
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrProductInactive),
		errors.Is(err, domain.ErrLineItemNotFound),
		errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, services.ErrCategoryNotFound):
		return respond(c, fiber.StatusNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyCart):
		return respond(c, fiber.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrAlreadyInCart),
		errors.Is(err, domain.ErrCartAlreadyPurchased),
		errors.Is(err, domain.ErrConcurrencyConflict):
		return respond(c, fiber.StatusConflict, err.Error(), nil)
	case errors.Is(err, services.ErrBadCreds):
		return respond(c, fiber.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, services.ErrEmailInUse):
		return respond(c, fiber.StatusConflict, err.Error(), nil)
	}
	applog.Error(c, action, err, nil)
	return respond(c, fiber.StatusInternalServerError, "Something went wrong. Please try again.", nil)
}
