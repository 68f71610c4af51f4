package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shopcore/internal/domain"
)

func TestPurchaseWithoutCart(t *testing.T) {
	e := newEngine(t)

	_, err := e.checkout.Purchase("u-alice")
	require.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestPurchaseEmptyCart(t *testing.T) {
	e := newEngine(t)
	e.seedProduct(t, "p-1", "5", 10)
	owner := "u-alice"

	_, err := e.cart.Add(owner, "p-1", 2)
	require.NoError(t, err)
	require.NoError(t, e.cart.Remove(owner, "p-1"))

	// the cart exists but every line is removed
	_, err = e.checkout.Purchase(owner)
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	// nothing changed: cart still active, stock untouched
	cart, err := e.carts.ActiveCart(e.db, owner)
	require.NoError(t, err)
	require.Equal(t, domain.CartActive, cart.Status)
	require.Equal(t, 10, e.stock(t, "p-1"))
}

func TestPurchaseIsExactlyOncePerCart(t *testing.T) {
	e := newEngine(t)
	e.seedProduct(t, "p-1", "5", 10)
	owner := "u-alice"

	_, err := e.cart.Add(owner, "p-1", 2)
	require.NoError(t, err)

	first, err := e.checkout.Purchase(owner)
	require.NoError(t, err)

	_, err = e.checkout.Purchase(owner)
	require.ErrorIs(t, err, domain.ErrCartAlreadyPurchased)

	// still exactly one order
	orders, err := e.orders.ListByOwner(owner)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, first.ID, orders[0].ID)
}

func TestPurchaseTotalsUsePriceAtPurchaseTime(t *testing.T) {
	e := newEngine(t)
	e.seedProduct(t, "p-1", "5", 10)
	owner := "u-alice"

	_, err := e.cart.Add(owner, "p-1", 2)
	require.NoError(t, err)

	// price rises between add and purchase; the order pays the new price
	_, err = e.db.Exec(`UPDATE products SET price = 7 WHERE id = 'p-1'`)
	require.NoError(t, err)

	order, err := e.checkout.Purchase(owner)
	require.NoError(t, err)
	require.Equal(t, "14", order.Total.String())
}

func TestPurchaseMultiLineTotal(t *testing.T) {
	e := newEngine(t)
	e.seedProduct(t, "p-1", "5", 10)
	e.seedProduct(t, "p-2", "2.50", 8)
	owner := "u-alice"

	_, err := e.cart.Add(owner, "p-1", 1)
	require.NoError(t, err)
	_, err = e.cart.Add(owner, "p-2", 2)
	require.NoError(t, err)

	order, err := e.checkout.Purchase(owner)
	require.NoError(t, err)
	require.Equal(t, "10", order.Total.String())

	detail, err := e.checkout.Order(owner, order.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 2)

	// a new add after purchase starts a fresh cart
	_, err = e.cart.Add(owner, "p-1", 1)
	require.NoError(t, err)
	cart, err := e.carts.ActiveCart(e.db, owner)
	require.NoError(t, err)
	require.NotEqual(t, order.CartID, cart.ID)
}

func TestOrderIsScopedToOwner(t *testing.T) {
	e := newEngine(t)
	e.seedProduct(t, "p-1", "5", 10)

	_, err := e.cart.Add("u-alice", "p-1", 1)
	require.NoError(t, err)
	order, err := e.checkout.Purchase("u-alice")
	require.NoError(t, err)

	_, err = e.checkout.Order("u-bob", order.ID)
	require.Error(t, err)
}
