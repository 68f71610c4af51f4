package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
	"shopcore/internal/repos"
)

var ErrCategoryNotFound = errors.New("category not found")

// CatalogService is the product/category collaborator: owner-driven CRUD
// outside the ledger's reserve/release path.
type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) Categories() ([]domain.Category, error) {
	return s.Cats.ListActive()
}

func (s *CatalogService) CreateCategory(name string) (domain.Category, error) {
	c := domain.Category{ID: uuid.NewString(), Name: name, Status: "active"}
	if err := s.Cats.Create(c); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (s *CatalogService) RenameCategory(id, name string) error {
	err := s.Cats.Rename(id, name)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCategoryNotFound
	}
	return err
}

func (s *CatalogService) Products(categoryID string, limit, offset int) ([]domain.Product, error) {
	return s.Prods.ListActive(categoryID, limit, offset)
}

func (s *CatalogService) Product(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	if p.Status != domain.ProductActive {
		return domain.Product{}, domain.ErrProductInactive
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ownerID, categoryID, title, description string, price decimal.Decimal, quantity int) (domain.Product, error) {
	if !price.IsPositive() {
		return domain.Product{}, domain.ErrInvalidQuantity
	}
	if quantity < 0 {
		return domain.Product{}, domain.ErrInvalidQuantity
	}
	if _, err := s.Cats.Get(categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, ErrCategoryNotFound
		}
		return domain.Product{}, err
	}

	p := domain.Product{
		ID:          uuid.NewString(),
		CategoryID:  categoryID,
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Price:       price,
		Quantity:    quantity,
		Status:      domain.ProductActive,
	}
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// UpdateProduct is restricted to the product's owner.
func (s *CatalogService) UpdateProduct(ownerID, id, title, description string, price decimal.Decimal, quantity int) (domain.Product, error) {
	if !price.IsPositive() || quantity < 0 {
		return domain.Product{}, domain.ErrInvalidQuantity
	}
	p, err := s.Prods.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	if p.Status != domain.ProductActive {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if p.OwnerID != ownerID {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err := s.Prods.Update(id, title, description, price, quantity); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(id)
}

// RemoveProduct soft-deletes; the ledger refuses new reservations afterwards
// but releases for existing line items still work.
func (s *CatalogService) RemoveProduct(ownerID, id string) error {
	p, err := s.Prods.Get(id)
	if err != nil {
		return err
	}
	if p.Status != domain.ProductActive || p.OwnerID != ownerID {
		return domain.ErrProductNotFound
	}
	return s.Prods.Deactivate(id)
}
