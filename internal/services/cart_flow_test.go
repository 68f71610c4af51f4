package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"shopcore/internal/domain"
	"shopcore/internal/repos"
	"shopcore/internal/services"
)

type engine struct {
	db       *sqlx.DB
	prods    *repos.ProductRepo
	carts    *repos.CartRepo
	orders   *repos.OrderRepo
	cart     *services.CartService
	checkout *services.CheckoutService
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	prods := repos.NewProductRepo(db)
	carts := repos.NewCartRepo(db)
	orders := repos.NewOrderRepo(db)
	locks := services.NewOwnerLocks()

	return &engine{
		db:       db,
		prods:    prods,
		carts:    carts,
		orders:   orders,
		cart:     services.NewCartService(carts, prods, locks),
		checkout: services.NewCheckoutService(carts, orders, locks),
	}
}

func (e *engine) seedProduct(t *testing.T, id, price string, qty int) {
	t.Helper()
	_, err := e.db.Exec(`
	  INSERT INTO products(id,category_id,owner_id,title,description,price,quantity,status)
	  VALUES(?,?,?,?,?,?,?,'active')
	`, id, "audio", "u-admin", "Test Product "+id, "", price, qty)
	if err != nil {
		t.Fatal(err)
	}
}

func (e *engine) stock(t *testing.T, id string) int {
	t.Helper()
	qty, err := e.prods.Qty(id)
	if err != nil {
		t.Fatal(err)
	}
	return qty
}

// Full add -> update -> remove -> re-add -> purchase walk, checking the
// stock ledger after every step.
func TestCartFlowEndToEnd(t *testing.T) {
	e := newEngine(t)
	e.seedProduct(t, "p-1", "5", 10)
	owner := "u-alice"

	item, err := e.cart.Add(owner, "p-1", 3)
	if err != nil {
		t.Fatal(err)
	}
	if item.Quantity != 3 || item.Status != domain.ItemActive {
		t.Fatalf("bad item after add: %+v", item)
	}
	if got := e.stock(t, "p-1"); got != 7 {
		t.Fatalf("after add want stock=7, got %d", got)
	}

	item, err = e.cart.Update(owner, "p-1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if item.Quantity != 5 {
		t.Fatalf("want quantity=5, got %d", item.Quantity)
	}
	if got := e.stock(t, "p-1"); got != 5 {
		t.Fatalf("after update want stock=5, got %d", got)
	}

	if err := e.cart.Remove(owner, "p-1"); err != nil {
		t.Fatal(err)
	}
	if got := e.stock(t, "p-1"); got != 10 {
		t.Fatalf("after remove want stock=10, got %d", got)
	}

	// re-add reactivates the removed line with a fresh reservation
	item, err = e.cart.Add(owner, "p-1", 4)
	if err != nil {
		t.Fatal(err)
	}
	if item.Quantity != 4 || item.Status != domain.ItemActive {
		t.Fatalf("bad item after re-add: %+v", item)
	}
	if got := e.stock(t, "p-1"); got != 6 {
		t.Fatalf("after re-add want stock=6, got %d", got)
	}

	order, err := e.checkout.Purchase(owner)
	if err != nil {
		t.Fatal(err)
	}
	if order.Total.String() != "20" {
		t.Fatalf("want totalPrice=20, got %s", order.Total)
	}
	// purchase commits the reservation, it does not decrement again
	if got := e.stock(t, "p-1"); got != 6 {
		t.Fatalf("purchase touched stock: want 6, got %d", got)
	}

	cart, err := e.carts.LatestCart(e.db, owner)
	if err != nil {
		t.Fatal(err)
	}
	if cart.Status != domain.CartPurchased {
		t.Fatalf("cart not purchased: %+v", cart)
	}
	items, err := e.carts.ItemsByStatus(e.db, cart.ID, domain.ItemPurchased)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Quantity != 4 {
		t.Fatalf("bad purchased items: %+v", items)
	}
}

func TestAddRejectsBadQuantity(t *testing.T) {
	e := newEngine(t)
	e.seedProduct(t, "p-1", "5", 10)

	for _, qty := range []int{0, -3} {
		if _, err := e.cart.Add("u-alice", "p-1", qty); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("qty=%d: want ErrInvalidQuantity, got %v", qty, err)
		}
	}
	if got := e.stock(t, "p-1"); got != 10 {
		t.Fatalf("stock changed on rejected add: %d", got)
	}
}

func TestAddTwiceIsConflict(t *testing.T) {
	e := newEngine(t)
	e.seedProduct(t, "p-1", "5", 10)
	owner := "u-alice"

	if _, err := e.cart.Add(owner, "p-1", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := e.cart.Add(owner, "p-1", 3); !errors.Is(err, domain.ErrAlreadyInCart) {
		t.Fatalf("want ErrAlreadyInCart, got %v", err)
	}
	// no double reservation
	if got := e.stock(t, "p-1"); got != 8 {
		t.Fatalf("want stock=8, got %d", got)
	}
}

func TestAddInsufficientStock(t *testing.T) {
	e := newEngine(t)
	e.seedProduct(t, "p-1", "5", 2)
	owner := "u-alice"

	_, err := e.cart.Add(owner, "p-1", 3)
	var se *domain.StockError
	if !errors.As(err, &se) {
		t.Fatalf("want StockError, got %v", err)
	}
	if se.Available != 2 {
		t.Fatalf("want available=2, got %d", se.Available)
	}
	// the failed add must not leave a cart line behind
	if _, err := e.cart.View(owner); !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("failed add left state behind: %v", err)
	}
}

func TestUpdateQuantitySemantics(t *testing.T) {
	e := newEngine(t)
	e.seedProduct(t, "p-1", "5", 10)
	owner := "u-alice"

	if _, err := e.cart.Update(owner, "p-1", 2); !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("want ErrCartNotFound, got %v", err)
	}

	if _, err := e.cart.Add(owner, "p-1", 4); err != nil {
		t.Fatal(err)
	}

	if _, err := e.cart.Update(owner, "p-1", -1); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity, got %v", err)
	}
	if _, err := e.cart.Update(owner, "missing", 2); !errors.Is(err, domain.ErrLineItemNotFound) {
		t.Fatalf("want ErrLineItemNotFound, got %v", err)
	}

	// shrink releases the difference
	if _, err := e.cart.Update(owner, "p-1", 1); err != nil {
		t.Fatal(err)
	}
	if got := e.stock(t, "p-1"); got != 9 {
		t.Fatalf("want stock=9, got %d", got)
	}

	// growth beyond stock fails and changes nothing
	_, err := e.cart.Update(owner, "p-1", 100)
	var se *domain.StockError
	if !errors.As(err, &se) {
		t.Fatalf("want StockError, got %v", err)
	}
	if got := e.stock(t, "p-1"); got != 9 {
		t.Fatalf("failed update moved stock: %d", got)
	}
	cv, err := e.cart.View(owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || cv.Items[0].Quantity != 1 {
		t.Fatalf("failed update moved the line item: %+v", cv.Items)
	}

	// zero means removal
	item, err := e.cart.Update(owner, "p-1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if item.Status != domain.ItemRemoved {
		t.Fatalf("want removed, got %+v", item)
	}
	if got := e.stock(t, "p-1"); got != 10 {
		t.Fatalf("want stock back at 10, got %d", got)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	e := newEngine(t)
	e.seedProduct(t, "p-1", "5", 10)
	owner := "u-alice"

	if err := e.cart.Remove(owner, "p-1"); !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("want ErrCartNotFound, got %v", err)
	}

	if _, err := e.cart.Add(owner, "p-1", 2); err != nil {
		t.Fatal(err)
	}
	if err := e.cart.Remove(owner, "never-added"); !errors.Is(err, domain.ErrLineItemNotFound) {
		t.Fatalf("want ErrLineItemNotFound, got %v", err)
	}

	if err := e.cart.Remove(owner, "p-1"); err != nil {
		t.Fatal(err)
	}
	if got := e.stock(t, "p-1"); got != 10 {
		t.Fatalf("want stock=10, got %d", got)
	}
	// removing again is a no-op, not an error, and does not move stock
	if err := e.cart.Remove(owner, "p-1"); err != nil {
		t.Fatal(err)
	}
	if got := e.stock(t, "p-1"); got != 10 {
		t.Fatalf("idempotent remove moved stock: %d", got)
	}
}

func TestViewReturnsActiveLinesWithTotals(t *testing.T) {
	e := newEngine(t)
	e.seedProduct(t, "p-1", "5", 10)
	e.seedProduct(t, "p-2", "2.50", 4)
	owner := "u-alice"

	if _, err := e.cart.Add(owner, "p-1", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := e.cart.Add(owner, "p-2", 3); err != nil {
		t.Fatal(err)
	}

	cv, err := e.cart.View(owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 2 {
		t.Fatalf("want 2 lines, got %+v", cv.Items)
	}
	if cv.Total.String() != "17.5" {
		t.Fatalf("want total=17.5, got %s", cv.Total)
	}
}
