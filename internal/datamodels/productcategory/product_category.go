package productcategory

import (
	"context"
	"time"
)

// ProductCategory links a product to a category. The pair is unique.
type ProductCategory struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	ProductID  int64     `gorm:"uniqueIndex:idx_product_category;not null" json:"productId"`
	CategoryID int64     `gorm:"uniqueIndex:idx_product_category;not null" json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Repository product-category persistence.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*ProductCategory, error)
	ExistsByPair(ctx context.Context, productID, categoryID int64) (bool, error)
	ListAll(ctx context.Context) ([]*ProductCategory, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*ProductCategory, error)
	Create(ctx context.Context, pc *ProductCategory) error
	Update(ctx context.Context, pc *ProductCategory) error
	Delete(ctx context.Context, id int64) error
}
