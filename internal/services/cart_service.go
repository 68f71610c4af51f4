package services

import (
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
	"shopcore/internal/repos"
)

// CartService owns the cart and line-item lifecycle. Every mutation couples
// the line-item change with the matching stock reservation in one
// transaction: they commit together or not at all.
type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
	Locks *OwnerLocks
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo, locks *OwnerLocks) *CartService {
	return &CartService{Carts: carts, Prods: prods, Locks: locks}
}

// Add reserves qty units of the product and creates (or reactivates) the
// active line item for it in the owner's active cart, creating the cart on
// first use. Adding a product that is already active in the cart is rejected
// with ErrAlreadyInCart; callers must use Update instead.
func (s *CartService) Add(ownerID, productID string, qty int) (domain.LineItem, error) {
	if qty <= 0 {
		return domain.LineItem{}, domain.ErrInvalidQuantity
	}

	unlock := s.Locks.Lock(ownerID)
	defer unlock()

	tx, err := s.Carts.Begin()
	if err != nil {
		return domain.LineItem{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cart, err := s.Carts.ActiveCart(tx, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		cart, err = s.Carts.CreateCart(tx, ownerID)
	}
	if err != nil {
		return domain.LineItem{}, err
	}

	item, err := s.Carts.ItemForProduct(tx, cart.ID, productID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := s.Prods.Reserve(tx, productID, qty); err != nil {
			return domain.LineItem{}, err
		}
		if item, err = s.Carts.InsertItem(tx, cart.ID, productID, qty); err != nil {
			return domain.LineItem{}, err
		}
	case err != nil:
		return domain.LineItem{}, err
	case item.Status == domain.ItemActive:
		return domain.LineItem{}, domain.ErrAlreadyInCart
	default:
		// A previously removed item: fresh reservation, reactivate.
		if err := s.Prods.Reserve(tx, productID, qty); err != nil {
			return domain.LineItem{}, err
		}
		if err := s.Carts.ReactivateItem(tx, item.ID, qty); err != nil {
			return domain.LineItem{}, err
		}
		item.Status = domain.ItemActive
		item.Quantity = qty
	}

	if err := tx.Commit(); err != nil {
		return domain.LineItem{}, err
	}
	return item, nil
}

// Update sets the active line item's quantity, reserving or releasing the
// difference. A newQty of zero removes the item and releases its full
// reservation.
func (s *CartService) Update(ownerID, productID string, newQty int) (domain.LineItem, error) {
	if newQty < 0 {
		return domain.LineItem{}, domain.ErrInvalidQuantity
	}

	unlock := s.Locks.Lock(ownerID)
	defer unlock()

	tx, err := s.Carts.Begin()
	if err != nil {
		return domain.LineItem{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cart, err := s.Carts.ActiveCart(tx, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LineItem{}, domain.ErrCartNotFound
	}
	if err != nil {
		return domain.LineItem{}, err
	}

	item, err := s.Carts.ActiveItem(tx, cart.ID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LineItem{}, domain.ErrLineItemNotFound
	}
	if err != nil {
		return domain.LineItem{}, err
	}

	if newQty == 0 {
		if err := s.Prods.Release(tx, productID, item.Quantity); err != nil {
			return domain.LineItem{}, err
		}
		if err := s.Carts.MarkItemRemoved(tx, item.ID); err != nil {
			return domain.LineItem{}, err
		}
		item.Status = domain.ItemRemoved
		item.Quantity = 0
	} else {
		delta := newQty - item.Quantity
		switch {
		case delta > 0:
			if err := s.Prods.Reserve(tx, productID, delta); err != nil {
				return domain.LineItem{}, err
			}
		case delta < 0:
			if err := s.Prods.Release(tx, productID, -delta); err != nil {
				return domain.LineItem{}, err
			}
		}
		if err := s.Carts.SetItemQuantity(tx, item.ID, newQty); err != nil {
			return domain.LineItem{}, err
		}
		item.Quantity = newQty
	}

	if err := tx.Commit(); err != nil {
		return domain.LineItem{}, err
	}
	return item, nil
}

// Remove releases the item's full reservation and marks it removed. Removing
// an already-removed item is a no-op so client retries stay safe.
func (s *CartService) Remove(ownerID, productID string) error {
	unlock := s.Locks.Lock(ownerID)
	defer unlock()

	tx, err := s.Carts.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	cart, err := s.Carts.ActiveCart(tx, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCartNotFound
	}
	if err != nil {
		return err
	}

	item, err := s.Carts.ItemForProduct(tx, cart.ID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrLineItemNotFound
	}
	if err != nil {
		return err
	}
	if item.Status == domain.ItemRemoved {
		return tx.Commit()
	}

	if err := s.Prods.Release(tx, item.ProductID, item.Quantity); err != nil {
		return err
	}
	if err := s.Carts.MarkItemRemoved(tx, item.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// CartView is the owner's active cart with its active lines and a running
// total at current catalog prices.
type CartView struct {
	Cart  domain.Cart      `json:"cart"`
	Items []repos.CartLine `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

// View returns the owner's active cart. ErrCartNotFound if there is none;
// a cart only exists once something was added.
func (s *CartService) View(ownerID string) (CartView, error) {
	tx, err := s.Carts.Begin()
	if err != nil {
		return CartView{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cart, err := s.Carts.ActiveCart(tx, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return CartView{}, domain.ErrCartNotFound
	}
	if err != nil {
		return CartView{}, err
	}
	lines, err := s.Carts.ActiveLines(tx, cart.ID)
	if err != nil {
		return CartView{}, err
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return CartView{Cart: cart, Items: lines, Total: total}, tx.Commit()
}
