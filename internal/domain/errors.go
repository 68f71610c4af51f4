package domain

import (
	"errors"
	"fmt"
)

// Error kinds returned by cart, checkout and ledger operations. All are
// recoverable by the caller; the transport layer maps them to status codes.
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductInactive      = errors.New("product is no longer available")
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrAlreadyInCart        = errors.New("product is already in the cart")
	ErrLineItemNotFound     = errors.New("product not found in cart")
	ErrCartNotFound         = errors.New("cart not found")
	ErrEmptyCart            = errors.New("cart has no active items")
	ErrCartAlreadyPurchased = errors.New("cart has already been purchased")
	ErrConcurrencyConflict  = errors.New("operation conflicted with a concurrent change, retry")
)

// StockError reports a failed reservation together with the quantity that
// was actually available at the time.
type StockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}
