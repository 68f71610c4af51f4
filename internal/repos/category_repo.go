package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"shopcore/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `id, name, status, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *CategoryRepo) ListActive() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `SELECT `+categoryCols+` FROM categories WHERE status = 'active' ORDER BY name`)
	return out, err
}

func (r *CategoryRepo) Get(id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT `+categoryCols+` FROM categories WHERE id = ? AND status = 'active'`, id)
	return c, err
}

func (r *CategoryRepo) Create(c domain.Category) error {
	_, err := r.db.Exec(`INSERT INTO categories(id, name, status) VALUES(?,?,'active')`, c.ID, c.Name)
	return err
}

func (r *CategoryRepo) Rename(id, name string) error {
	res, err := r.db.Exec(`
	  UPDATE categories SET name = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'active'
	`, name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
