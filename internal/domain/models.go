package domain

import "github.com/shopspring/decimal"

// Product statuses
const (
	ProductActive  = "active"
	ProductRemoved = "removed"
)

// Cart statuses
const (
	CartActive    = "active"
	CartPurchased = "purchased"
)

// Line item statuses. "removed" and "purchased" are terminal.
const (
	ItemActive    = "active"
	ItemRemoved   = "removed"
	ItemPurchased = "purchased"
)

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Status    string `db:"status" json:"status"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`
}

type Product struct {
	ID          string          `db:"id" json:"id"`
	CategoryID  string          `db:"category_id" json:"categoryId"`
	OwnerID     string          `db:"owner_id" json:"ownerId"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Status      string          `db:"status" json:"status"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
	UpdatedAt   string          `db:"updated_at" json:"updatedAt,omitempty"`
}

type Cart struct {
	ID        string `db:"id" json:"id"`
	OwnerID   string `db:"owner_id" json:"ownerId"`
	Status    string `db:"status" json:"status"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`
}

// LineItem records one product's quantity within one cart. Items are never
// deleted; status transitions are the history.
type LineItem struct {
	ID        string `db:"id" json:"id"`
	CartID    string `db:"cart_id" json:"cartId"`
	ProductID string `db:"product_id" json:"productId"`
	Quantity  int    `db:"quantity" json:"quantity"`
	Status    string `db:"status" json:"status"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`
}

// Order is the immutable result of a successful checkout, one per cart.
type Order struct {
	ID        string          `db:"id" json:"id"`
	OwnerID   string          `db:"owner_id" json:"ownerId"`
	CartID    string          `db:"cart_id" json:"cartId"`
	Total     decimal.Decimal `db:"total" json:"totalPrice"`
	CreatedAt string          `db:"created_at" json:"createdAt"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}

type User struct {
	ID       string `db:"id" json:"id"`
	Email    string `db:"email" json:"email"`
	Username string `db:"username" json:"username"`
	Hash     string `db:"password_hash" json:"-"`
	Role     string `db:"role" json:"role"`
	Status   string `db:"status" json:"status"`
}
