package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/productcategory"
)

type productCategoryRepo struct {
	db *gorm.DB
}

// NewProductCategoryRepository builds the product-category repository.
func NewProductCategoryRepository(db *gorm.DB) productcategory.Repository {
	return &productCategoryRepo{db: db}
}

func (r *productCategoryRepo) GetByID(ctx context.Context, id int64) (*productcategory.ProductCategory, error) {
	var pc productcategory.ProductCategory
	if err := r.db.WithContext(ctx).First(&pc, id).Error; err != nil {
		return nil, err
	}
	return &pc, nil
}

func (r *productCategoryRepo) ExistsByPair(ctx context.Context, productID, categoryID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&productcategory.ProductCategory{}).
		Where("product_id = ? AND category_id = ?", productID, categoryID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productCategoryRepo) ListAll(ctx context.Context) ([]*productcategory.ProductCategory, error) {
	var list []*productcategory.ProductCategory
	if err := r.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productCategoryRepo) ListByCategory(ctx context.Context, categoryID int64) ([]*productcategory.ProductCategory, error) {
	var list []*productcategory.ProductCategory
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productCategoryRepo) Create(ctx context.Context, pc *productcategory.ProductCategory) error {
	return r.db.WithContext(ctx).Create(pc).Error
}

func (r *productCategoryRepo) Update(ctx context.Context, pc *productcategory.ProductCategory) error {
	return r.db.WithContext(ctx).Save(pc).Error
}

func (r *productCategoryRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&productcategory.ProductCategory{}, id).Error
}
