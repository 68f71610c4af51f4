package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "shopcore/internal/log"
	"shopcore/internal/services"
	"shopcore/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

type productReq struct {
	CategoryID  string `json:"categoryId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	products, err := h.Catalog.Products(c.Query("categoryId"), limit, offset)
	if err != nil {
		return respondErr(c, "product.list.fail", err)
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{"results": len(products), "products": products})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return respond(c, fiber.StatusBadRequest, "invalid product id", nil)
	}
	p, err := h.Catalog.Product(id)
	if err != nil {
		return respondErr(c, "product.detail.fail", err)
	}
	return respond(c, fiber.StatusOK, "", p)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productReq
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid request body", nil)
	}
	title, ok := validate.Name(req.Title)
	if !ok {
		return respond(c, fiber.StatusBadRequest, "title must be 1-50 characters", nil)
	}
	price, ok := validate.Price(req.Price)
	if !ok {
		return respond(c, fiber.StatusBadRequest, "price must be a positive decimal", nil)
	}

	p, err := h.Catalog.CreateProduct(ownerID(c), req.CategoryID, title, req.Description, price, req.Quantity)
	if err != nil {
		return respondErr(c, "product.create.fail", err)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID})
	return respond(c, fiber.StatusCreated, "Product created successfully.", p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return respond(c, fiber.StatusBadRequest, "invalid product id", nil)
	}
	var req productReq
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid request body", nil)
	}
	title, okT := validate.Name(req.Title)
	price, okP := validate.Price(req.Price)
	if !okT || !okP {
		return respond(c, fiber.StatusBadRequest, "invalid title or price", nil)
	}

	p, err := h.Catalog.UpdateProduct(ownerID(c), id, title, req.Description, price, req.Quantity)
	if err != nil {
		return respondErr(c, "product.update.fail", err)
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id})
	return respond(c, fiber.StatusOK, "Product successfully updated.", p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return respond(c, fiber.StatusBadRequest, "invalid product id", nil)
	}
	if err := h.Catalog.RemoveProduct(ownerID(c), id); err != nil {
		return respondErr(c, "product.delete.fail", err)
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return respond(c, fiber.StatusOK, "Product successfully deleted.", nil)
}
