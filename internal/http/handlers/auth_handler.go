package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopcore/internal/log"
	"shopcore/internal/services"
	"shopcore/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credentialsReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req credentialsReq
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid request body", nil)
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return respond(c, fiber.StatusBadRequest, "invalid email", nil)
	}
	username, ok := validate.Name(req.Username)
	if !ok {
		return respond(c, fiber.StatusBadRequest, "username must be 1-50 characters", nil)
	}
	if !validate.Password(req.Password) {
		return respond(c, fiber.StatusBadRequest, "password must be 8-64 characters and mix cases, digits and symbols", nil)
	}

	u, err := h.Auth.Register(email, username, req.Password)
	if err != nil {
		return respondErr(c, "auth.register.fail", err)
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.ID})
	return respond(c, fiber.StatusCreated, "User registered successfully.", u)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsReq
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid request body", nil)
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return respond(c, fiber.StatusUnauthorized, "invalid email or password", nil)
	}

	u, token, err := h.Auth.Login(email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return respondErr(c, "auth.login.fail", err)
	}
	applog.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})
	return respond(c, fiber.StatusOK, "Logged in successfully.", fiber.Map{"token": token, "user": u})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if tok := bearerToken(c); tok != "" {
		_ = h.Auth.Logout(tok)
	}
	applog.Audit(c, "auth.logout", nil)
	return respond(c, fiber.StatusOK, "Logged out.", nil)
}

// CheckToken lets clients verify a stored token is still valid.
func (h *AuthHandler) CheckToken(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, "", fiber.Map{"user": c.Locals("user")})
}
