package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/productcategory"
	"github.com/example/goshop/internal/errs"
)

// ProductCategoryService manages the product↔category assignments.
type ProductCategoryService struct {
	repo       productcategory.Repository
	products   *ProductService
	categories *CategoryService
}

func NewProductCategoryService(repo productcategory.Repository, products *ProductService, categories *CategoryService) *ProductCategoryService {
	return &ProductCategoryService{repo: repo, products: products, categories: categories}
}

func (s *ProductCategoryService) validatePair(ctx context.Context, productID, categoryID int64) error {
	exists, err := s.repo.ExistsByPair(ctx, productID, categoryID)
	if err != nil {
		return err
	}
	if exists {
		return errs.Conflictf("the product is already registered to this category")
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return err
	}
	return nil
}

// Create registers a product under a category.
func (s *ProductCategoryService) Create(ctx context.Context, productID, categoryID int64) (*productcategory.ProductCategory, error) {
	if err := s.validatePair(ctx, productID, categoryID); err != nil {
		return nil, err
	}
	pc := &productcategory.ProductCategory{ProductID: productID, CategoryID: categoryID}
	if err := s.repo.Create(ctx, pc); err != nil {
		return nil, err
	}
	return pc, nil
}

// GetByID fetches one assignment.
func (s *ProductCategoryService) GetByID(ctx context.Context, id int64) (*productcategory.ProductCategory, error) {
	pc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("no product category found with the id %d", id)
		}
		return nil, err
	}
	return pc, nil
}

// ListAll returns every assignment.
func (s *ProductCategoryService) ListAll(ctx context.Context) ([]*productcategory.ProductCategory, error) {
	return s.repo.ListAll(ctx)
}

// ListByCategory returns all assignments under one category.
func (s *ProductCategoryService) ListByCategory(ctx context.Context, categoryID int64) ([]*productcategory.ProductCategory, error) {
	return s.repo.ListByCategory(ctx, categoryID)
}

// Update repoints an assignment to a new product/category pair.
func (s *ProductCategoryService) Update(ctx context.Context, id, productID, categoryID int64) (*productcategory.ProductCategory, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validatePair(ctx, productID, categoryID); err != nil {
		return nil, err
	}
	existing.ProductID = productID
	existing.CategoryID = categoryID
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes an assignment.
func (s *ProductCategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
