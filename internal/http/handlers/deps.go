package handlers

import (
	"github.com/jmoiron/sqlx"

	"shopcore/internal/repos"
	"shopcore/internal/services"
)

type Deps struct {
	AuthHandler      *AuthHandler
	CategoryHandler  *CategoryHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler

	Auth *services.AuthService
}

func NewDeps(db *sqlx.DB) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	// Cart and checkout share the per-owner locks so a checkout cannot
	// interleave with a cart mutation for the same owner.
	locks := services.NewOwnerLocks()

	authSvc := &services.AuthService{Users: userRepo}
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	invSvc := services.NewInventoryService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo, locks)
	checkoutSvc := services.NewCheckoutService(cartRepo, orderRepo, locks)

	return &Deps{
		AuthHandler:      &AuthHandler{Auth: authSvc},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		OrderHandler:     &OrderHandler{Checkout: checkoutSvc},
		Auth:             authSvc,
	}
}
