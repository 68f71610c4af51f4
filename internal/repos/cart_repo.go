package repos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// Begin starts the transaction a cart or checkout operation runs inside.
func (r *CartRepo) Begin() (*sqlx.Tx, error) { return r.db.Beginx() }

// DB exposes the pool for read paths that need no transaction.
func (r *CartRepo) DB() *sqlx.DB { return r.db }

const cartCols = `id, owner_id, status, created_at, COALESCE(updated_at,'') AS updated_at`

// ActiveCart returns the owner's single active cart, or sql.ErrNoRows.
func (r *CartRepo) ActiveCart(ext sqlx.Ext, ownerID string) (domain.Cart, error) {
	var c domain.Cart
	err := sqlx.Get(ext, &c, `SELECT `+cartCols+` FROM carts WHERE owner_id = ? AND status = 'active'`, ownerID)
	return c, err
}

// LatestCart returns the owner's most recent cart regardless of status.
func (r *CartRepo) LatestCart(ext sqlx.Ext, ownerID string) (domain.Cart, error) {
	var c domain.Cart
	err := sqlx.Get(ext, &c, `
	  SELECT `+cartCols+` FROM carts WHERE owner_id = ?
	  ORDER BY rowid DESC LIMIT 1`, ownerID)
	return c, err
}

// CreateCart inserts a new active cart. The partial unique index on
// (owner_id) WHERE status='active' rejects a second active cart for the
// same owner.
func (r *CartRepo) CreateCart(ext sqlx.Ext, ownerID string) (domain.Cart, error) {
	c := domain.Cart{ID: uuid.NewString(), OwnerID: ownerID, Status: domain.CartActive}
	_, err := ext.Exec(`INSERT INTO carts(id, owner_id, status) VALUES(?,?,'active')`, c.ID, c.OwnerID)
	return c, err
}

// MarkCartPurchased closes the cart. Zero affected rows means the cart was
// concurrently closed after we read it as active.
func (r *CartRepo) MarkCartPurchased(ext sqlx.Ext, cartID string) error {
	res, err := ext.Exec(`
	  UPDATE carts SET status = 'purchased', updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'active'
	`, cartID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

const itemCols = `id, cart_id, product_id, quantity, status, created_at, COALESCE(updated_at,'') AS updated_at`

// ItemForProduct returns the line item tracking productID in the cart: the
// active one if present, otherwise the most recently removed one, otherwise
// sql.ErrNoRows.
func (r *CartRepo) ItemForProduct(ext sqlx.Ext, cartID, productID string) (domain.LineItem, error) {
	var it domain.LineItem
	err := sqlx.Get(ext, &it, `
	  SELECT `+itemCols+` FROM line_items
	  WHERE cart_id = ? AND product_id = ?
	  ORDER BY (status = 'active') DESC, rowid DESC
	  LIMIT 1`, cartID, productID)
	return it, err
}

func (r *CartRepo) ActiveItem(ext sqlx.Ext, cartID, productID string) (domain.LineItem, error) {
	var it domain.LineItem
	err := sqlx.Get(ext, &it, `
	  SELECT `+itemCols+` FROM line_items
	  WHERE cart_id = ? AND product_id = ? AND status = 'active'`, cartID, productID)
	return it, err
}

func (r *CartRepo) InsertItem(ext sqlx.Ext, cartID, productID string, qty int) (domain.LineItem, error) {
	it := domain.LineItem{ID: uuid.NewString(), CartID: cartID, ProductID: productID, Quantity: qty, Status: domain.ItemActive}
	_, err := ext.Exec(`
	  INSERT INTO line_items(id, cart_id, product_id, quantity, status)
	  VALUES(?,?,?,?,'active')
	`, it.ID, it.CartID, it.ProductID, it.Quantity)
	return it, err
}

// ReactivateItem flips a removed item back to active with a fresh quantity.
func (r *CartRepo) ReactivateItem(ext sqlx.Ext, itemID string, qty int) error {
	res, err := ext.Exec(`
	  UPDATE line_items SET status = 'active', quantity = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'removed'
	`, qty, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

func (r *CartRepo) SetItemQuantity(ext sqlx.Ext, itemID string, qty int) error {
	res, err := ext.Exec(`
	  UPDATE line_items SET quantity = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'active'
	`, qty, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

func (r *CartRepo) MarkItemRemoved(ext sqlx.Ext, itemID string) error {
	res, err := ext.Exec(`
	  UPDATE line_items SET status = 'removed', updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'active'
	`, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

// FinalizeItems transitions every active item in the cart to purchased and
// reports how many it touched.
func (r *CartRepo) FinalizeItems(ext sqlx.Ext, cartID string) (int, error) {
	res, err := ext.Exec(`
	  UPDATE line_items SET status = 'purchased', updated_at = CURRENT_TIMESTAMP
	  WHERE cart_id = ? AND status = 'active'
	`, cartID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// CartLine is an active line item joined with its product snapshot.
type CartLine struct {
	ItemID        string          `db:"item_id" json:"itemId"`
	ProductID     string          `db:"product_id" json:"productId"`
	Title         string          `db:"title" json:"title"`
	Price         decimal.Decimal `db:"price" json:"price"`
	ProductStatus string          `db:"product_status" json:"productStatus"`
	Quantity      int             `db:"quantity" json:"quantity"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
}

func (r *CartRepo) ActiveLines(ext sqlx.Ext, cartID string) ([]CartLine, error) {
	lines := []CartLine{}
	err := sqlx.Select(ext, &lines, `
	  SELECT li.id AS item_id, li.product_id, p.title, p.price, p.status AS product_status,
	         li.quantity, (li.quantity * p.price) AS subtotal
	  FROM line_items li JOIN products p ON p.id = li.product_id
	  WHERE li.cart_id = ? AND li.status = 'active'
	  ORDER BY li.created_at, li.rowid`, cartID)
	return lines, err
}

// ItemsByStatus lists a cart's line items with the given status, mostly for
// order detail views and tests.
func (r *CartRepo) ItemsByStatus(ext sqlx.Ext, cartID, status string) ([]domain.LineItem, error) {
	items := []domain.LineItem{}
	err := sqlx.Select(ext, &items, `
	  SELECT `+itemCols+` FROM line_items
	  WHERE cart_id = ? AND status = ?
	  ORDER BY created_at, rowid`, cartID, status)
	return items, err
}

// ActiveReserved sums the quantities of all active line items for a product
// across all carts. Used by the conservation checks.
func (r *CartRepo) ActiveReserved(ext sqlx.Ext, productID string) (int, error) {
	var n sql.NullInt64
	err := sqlx.Get(ext, &n, `
	  SELECT SUM(quantity) FROM line_items
	  WHERE product_id = ? AND status = 'active'`, productID)
	if err != nil {
		return 0, err
	}
	return int(n.Int64), nil
}
