package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/errs"
)

// ProductService owns the catalog: CRUD with unique names plus the stock
// decrement used by order placement.
type ProductService struct {
	repo product.Repository
}

func NewProductService(repo product.Repository) *ProductService {
	return &ProductService{repo: repo}
}

// Create rejects duplicate names.
func (s *ProductService) Create(ctx context.Context, p *product.Product) error {
	if p.Name == "" {
		return errs.Invalidf("product name is required")
	}
	if p.Price.IsNegative() {
		return errs.Invalidf("product price cannot be negative")
	}
	if p.StockQuantity < 0 {
		return errs.Invalidf("stock quantity cannot be negative")
	}
	exists, err := s.repo.ExistsByName(ctx, p.Name)
	if err != nil {
		return err
	}
	if exists {
		return errs.Conflictf("a product with the name %q already exists", p.Name)
	}
	return s.repo.Create(ctx, p)
}

// GetByID fetches a product.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("no product found with the id %d", id)
		}
		return nil, err
	}
	return p, nil
}

// GetByName fetches a product by its unique name.
func (s *ProductService) GetByName(ctx context.Context, name string) (*product.Product, error) {
	p, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("no product found with the name %q", name)
		}
		return nil, err
	}
	return p, nil
}

// ListAll returns the whole catalog.
func (s *ProductService) ListAll(ctx context.Context) ([]*product.Product, error) {
	return s.repo.ListAll(ctx)
}

// Update replaces every field with the submitted values. PUT semantics: the
// request carries the whole product, omitted fields land as their zero value.
// The duplicate-name check excludes the product itself.
func (s *ProductService) Update(ctx context.Context, id int64, upd *product.Product) (*product.Product, error) {
	if upd.Name == "" {
		return nil, errs.Invalidf("product name is required")
	}
	if upd.Price.IsNegative() {
		return nil, errs.Invalidf("product price cannot be negative")
	}
	if upd.StockQuantity < 0 {
		return nil, errs.Invalidf("stock quantity cannot be negative")
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != existing.Name {
		dup, err := s.repo.ExistsByNameExcluding(ctx, upd.Name, id)
		if err != nil {
			return nil, err
		}
		if dup {
			return nil, errs.Conflictf("a product with the name %q already exists", upd.Name)
		}
	}
	existing.Name = upd.Name
	existing.Description = upd.Description
	existing.Price = upd.Price
	existing.StockQuantity = upd.StockQuantity
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// DecrementStock atomically subtracts qty from the product's stock. When the
// conditional update matches no row it reports not-found for a missing
// product and a stock conflict otherwise.
func (s *ProductService) DecrementStock(ctx context.Context, id, qty int64) error {
	if qty <= 0 {
		return errs.Invalidf("quantity must be greater than zero")
	}
	ok, err := s.repo.DecrementStock(ctx, id, qty)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return errs.Conflictf("requested quantity is not available anymore for product %q", p.Name)
}
