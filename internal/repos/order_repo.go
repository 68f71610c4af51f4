package repos

import (
	"github.com/jmoiron/sqlx"

	"shopcore/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create appends the order row inside the checkout transaction. The UNIQUE
// constraint on cart_id makes a second order for the same cart impossible.
func (r *OrderRepo) Create(ext sqlx.Ext, o domain.Order) error {
	_, err := ext.Exec(`
	  INSERT INTO orders(id, owner_id, cart_id, total)
	  VALUES(?,?,?,?)
	`, o.ID, o.OwnerID, o.CartID, o.Total)
	return err
}

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
	  SELECT id, owner_id, cart_id, total, created_at
	  FROM orders WHERE id = ?`, orderID)
	return o, err
}

func (r *OrderRepo) GetByCart(cartID string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
	  SELECT id, owner_id, cart_id, total, created_at
	  FROM orders WHERE cart_id = ?`, cartID)
	return o, err
}

func (r *OrderRepo) ListByOwner(ownerID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `
	  SELECT id, owner_id, cart_id, total, created_at
	  FROM orders WHERE owner_id = ?
	  ORDER BY datetime(created_at) DESC, rowid DESC`, ownerID)
	return out, err
}
