package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"shopcore/internal/config"
	"shopcore/internal/http/handlers"
	applog "shopcore/internal/log"
	"shopcore/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and hide internals from the response
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.limit.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status":  "fail",
				"message": "Too many requests from this IP",
			})
		},
	}))

	deps := handlers.NewDeps(db)
	api := app.Group("/api/v1")

	// Users (login throttled)
	users := api.Group("/users")
	users.Post("/", deps.AuthHandler.Register)
	users.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status":  "fail",
				"message": "Too many attempts. Please try again later.",
			})
		},
	}), deps.AuthHandler.Login)
	users.Post("/logout", deps.AuthHandler.Logout)
	users.Get("/check-token", handlers.RequireUser(deps.Auth), deps.AuthHandler.CheckToken)

	// Catalog. /products/categories must register before /products/:id.
	products := api.Group("/products")
	products.Get("/", deps.ProductHandler.List)
	products.Get("/categories", deps.CategoryHandler.List)
	products.Post("/categories", handlers.RequireAdmin(deps.Auth), deps.CategoryHandler.Create)
	products.Patch("/categories/:id", handlers.RequireAdmin(deps.Auth), deps.CategoryHandler.Update)
	products.Get("/:id", deps.ProductHandler.Detail)
	products.Post("/", handlers.RequireUser(deps.Auth), deps.ProductHandler.Create)
	products.Patch("/:id", handlers.RequireUser(deps.Auth), deps.ProductHandler.Update)
	products.Delete("/:id", handlers.RequireUser(deps.Auth), deps.ProductHandler.Delete)

	// Availability
	api.Get("/availability", deps.InventoryHandler.Check)

	// Cart & checkout
	cart := api.Group("/cart", handlers.RequireUser(deps.Auth))
	cart.Get("/", deps.CartHandler.View)
	cart.Post("/add-product", deps.CartHandler.Add)
	cart.Patch("/update-cart", deps.CartHandler.Update)
	cart.Post("/purchase", deps.OrderHandler.Purchase)
	cart.Delete("/:productId", deps.CartHandler.Remove)

	// Orders
	orders := api.Group("/orders", handlers.RequireUser(deps.Auth))
	orders.Get("/", deps.OrderHandler.History)
	orders.Get("/:id", deps.OrderHandler.View)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "fail",
			"message": "Route not found",
		})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
