package cart

import (
	"context"
	"time"
)

// Cart is a per-user container for pending line items. Exactly one per user,
// created lazily on first add and only ever emptied, never deleted.
type Cart struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"uniqueIndex;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Item is one (product, quantity) pairing awaiting order conversion.
type Item struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CartID    int64     `gorm:"uniqueIndex:idx_cart_product;not null" json:"cartId"`
	ProductID int64     `gorm:"uniqueIndex:idx_cart_product;not null" json:"productId"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName keeps cart lines apart from order lines.
func (Item) TableName() string { return "cart_items" }

// Repository cart persistence.
type Repository interface {
	GetByUser(ctx context.Context, userID int64) (*Cart, error)
	Create(ctx context.Context, c *Cart) error

	GetItem(ctx context.Context, itemID int64) (*Item, error)
	FindItem(ctx context.Context, cartID, productID int64) (*Item, error)
	ListItemsByUser(ctx context.Context, userID int64) ([]*Item, error)
	SaveItem(ctx context.Context, it *Item) error
	DeleteItem(ctx context.Context, itemID int64) error
	DeleteItemsByCart(ctx context.Context, cartID int64) error
}
