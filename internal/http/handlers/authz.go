package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "shopcore/internal/log"
	"shopcore/internal/services"
)

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// RequireUser resolves the session token into the owner identity every cart
// and checkout call takes as a parameter.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return respond(c, fiber.StatusUnauthorized, "authentication required", nil)
		}
		u, err := auth.CurrentUser(tok)
		if err != nil || u == nil {
			applog.Security(c, "access.denied", nil)
			return respond(c, fiber.StatusUnauthorized, "invalid or expired session", nil)
		}
		c.Locals("user", u)
		c.Locals("ownerID", u.ID)
		return c.Next()
	}
}

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return respond(c, fiber.StatusUnauthorized, "authentication required", nil)
		}
		u, err := auth.CurrentUser(tok)
		if err != nil || u == nil || u.Role != "ADMIN" {
			applog.Security(c, "access.denied.admin", nil)
			return respond(c, fiber.StatusForbidden, "access denied", nil)
		}
		c.Locals("user", u)
		c.Locals("ownerID", u.ID)
		return c.Next()
	}
}

func ownerID(c *fiber.Ctx) string {
	oid, _ := c.Locals("ownerID").(string)
	return oid
}
