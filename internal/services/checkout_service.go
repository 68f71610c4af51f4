package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
	"shopcore/internal/repos"
)

// CheckoutService converts an owner's active cart into an immutable order.
// The stock reserved at add/update time is the final commitment, so purchase
// never touches product quantities.
type CheckoutService struct {
	Carts  *repos.CartRepo
	Orders *repos.OrderRepo
	Locks  *OwnerLocks
}

func NewCheckoutService(carts *repos.CartRepo, orders *repos.OrderRepo, locks *OwnerLocks) *CheckoutService {
	return &CheckoutService{Carts: carts, Orders: orders, Locks: locks}
}

// Purchase finalizes every active line item, closes the cart and writes the
// order, all in one transaction. Totals use the catalog price at purchase
// time. On any failure the transaction rolls back and nothing is observable.
func (s *CheckoutService) Purchase(ownerID string) (domain.Order, error) {
	unlock := s.Locks.Lock(ownerID)
	defer unlock()

	tx, err := s.Carts.Begin()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cart, err := s.Carts.ActiveCart(tx, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		// Distinguish "never had a cart" from a double purchase.
		latest, lerr := s.Carts.LatestCart(tx, ownerID)
		if lerr == nil && latest.Status == domain.CartPurchased {
			return domain.Order{}, domain.ErrCartAlreadyPurchased
		}
		return domain.Order{}, domain.ErrCartNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	lines, err := s.Carts.ActiveLines(tx, cart.ID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(lines) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	finalized, err := s.Carts.FinalizeItems(tx, cart.ID)
	if err != nil {
		return domain.Order{}, err
	}
	if finalized != len(lines) {
		return domain.Order{}, domain.ErrConcurrencyConflict
	}
	if err := s.Carts.MarkCartPurchased(tx, cart.ID); err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		CartID:  cart.ID,
		Total:   total,
	}
	if err := s.Orders.Create(tx, order); err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// OrderDetail pairs an order with the purchased line items behind it.
type OrderDetail struct {
	Order domain.Order      `json:"order"`
	Items []domain.LineItem `json:"items"`
}

// Order returns an order the owner is allowed to see.
func (s *CheckoutService) Order(ownerID, orderID string) (OrderDetail, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	if o.OwnerID != ownerID {
		return OrderDetail{}, sql.ErrNoRows
	}
	items, err := s.Carts.ItemsByStatus(s.Carts.DB(), o.CartID, domain.ItemPurchased)
	if err != nil {
		return OrderDetail{}, err
	}
	return OrderDetail{Order: o, Items: items}, nil
}

// History lists the owner's purchase history, newest first.
func (s *CheckoutService) History(ownerID string) ([]domain.Order, error) {
	return s.Orders.ListByOwner(ownerID)
}
