package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/cart"
)

type cartRepo struct {
	db *gorm.DB
}

// NewCartRepository builds the cart repository.
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepo{db: db}
}

func (r *cartRepo) GetByUser(ctx context.Context, userID int64) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cartRepo) Create(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cartRepo) GetItem(ctx context.Context, itemID int64) (*cart.Item, error) {
	var it cart.Item
	if err := r.db.WithContext(ctx).First(&it, itemID).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *cartRepo) FindItem(ctx context.Context, cartID, productID int64) (*cart.Item, error) {
	var it cart.Item
	if err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *cartRepo) ListItemsByUser(ctx context.Context, userID int64) ([]*cart.Item, error) {
	var list []*cart.Item
	if err := r.db.WithContext(ctx).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Order("cart_items.id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *cartRepo) SaveItem(ctx context.Context, it *cart.Item) error {
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *cartRepo) DeleteItem(ctx context.Context, itemID int64) error {
	return r.db.WithContext(ctx).Delete(&cart.Item{}, itemID).Error
}

func (r *cartRepo) DeleteItemsByCart(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&cart.Item{}).Error
}
