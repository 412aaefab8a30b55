package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product catalog entry. Price uses exact decimal arithmetic, stock is the
// live available quantity debited by order placement.
type Product struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Description   string          `gorm:"size:512" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	StockQuantity int64           `gorm:"not null" json:"stockQuantity"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Repository product persistence.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByName(ctx context.Context, name string) (*Product, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByNameExcluding(ctx context.Context, name string, id int64) (bool, error)
	ListAll(ctx context.Context) ([]*Product, error)
	// DecrementStock subtracts qty from the product's stock in a single
	// conditional statement. It reports false when no row matched, either
	// because the product is missing or its stock is below qty.
	DecrementStock(ctx context.Context, id, qty int64) (bool, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}
