package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, category_id, owner_id, title, description, price, quantity, status,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return p, domain.ErrProductNotFound
	}
	return p, err
}

func (r *ProductRepo) ListActive(categoryID string, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	where := `status = 'active'`
	args := []any{}
	if categoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, categoryID)
	}
	args = append(args, limit, offset)

	out := []domain.Product{}
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, category_id, owner_id, title, description, price, quantity, status)
	  VALUES(?,?,?,?,?,?,?,'active')
	`, p.ID, p.CategoryID, p.OwnerID, p.Title, p.Description, p.Price, p.Quantity)
	return err
}

func (r *ProductRepo) Update(id, title, description string, price decimal.Decimal, quantity int) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET title = ?, description = ?, price = ?, quantity = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'active'
	`, title, description, price, quantity, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Deactivate soft-deletes a product; existing line items keep referencing it.
func (r *ProductRepo) Deactivate(id string) error {
	res, err := r.db.Exec(`
	  UPDATE products SET status = 'removed', updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'active'
	`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Qty returns the currently available (unreserved) stock.
func (r *ProductRepo) Qty(id string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT quantity FROM products WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return 0, domain.ErrProductNotFound
	}
	return qty, err
}

// Reserve atomically subtracts amount from the available quantity. The
// conditional UPDATE is the serialization point: a reservation only commits
// if enough stock remains after every concurrently committed reservation,
// so quantity can never go negative.
func (r *ProductRepo) Reserve(ext sqlx.Ext, productID string, amount int) error {
	res, err := ext.Exec(`
	  UPDATE products
	  SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'active' AND quantity >= ?
	`, amount, productID, amount)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	// Zero rows: tell the caller why.
	var p struct {
		Quantity int    `db:"quantity"`
		Status   string `db:"status"`
	}
	err = sqlx.Get(ext, &p, `SELECT quantity, status FROM products WHERE id = ?`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProductNotFound
	}
	if err != nil {
		return err
	}
	if p.Status != domain.ProductActive {
		return domain.ErrProductInactive
	}
	return &domain.StockError{ProductID: productID, Requested: amount, Available: p.Quantity}
}

// Release returns amount units to the available quantity. It never fails for
// a valid product id, active or not.
func (r *ProductRepo) Release(ext sqlx.Ext, productID string, amount int) error {
	res, err := ext.Exec(`
	  UPDATE products
	  SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, amount, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
