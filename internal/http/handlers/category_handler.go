package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopcore/internal/log"
	"shopcore/internal/services"
	"shopcore/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

type categoryReq struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories()
	if err != nil {
		return respondErr(c, "category.list.fail", err)
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{"categories": cats})
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req categoryReq
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid request body", nil)
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return respond(c, fiber.StatusBadRequest, "name must be 1-50 characters", nil)
	}
	cat, err := h.Catalog.CreateCategory(name)
	if err != nil {
		return respondErr(c, "category.create.fail", err)
	}
	applog.Audit(c, "category.create", map[string]any{"category_id": cat.ID})
	return respond(c, fiber.StatusCreated, "Category created successfully.", cat)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return respond(c, fiber.StatusBadRequest, "invalid category id", nil)
	}
	var req categoryReq
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid request body", nil)
	}
	name, okN := validate.Name(req.Name)
	if !okN {
		return respond(c, fiber.StatusBadRequest, "name must be 1-50 characters", nil)
	}
	if err := h.Catalog.RenameCategory(id, name); err != nil {
		return respondErr(c, "category.update.fail", err)
	}
	applog.Audit(c, "category.update", map[string]any{"category_id": id})
	return respond(c, fiber.StatusOK, "Category updated successfully.", nil)
}
