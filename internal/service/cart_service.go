package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/cart"
	"github.com/example/goshop/internal/errs"
)

// CartService manages per-user carts. Carts are created lazily on the first
// add and only ever emptied, never deleted.
type CartService struct {
	repo     cart.Repository
	products *ProductService
}

func NewCartService(repo cart.Repository, products *ProductService) *CartService {
	return &CartService{repo: repo, products: products}
}

func (s *CartService) findOrCreate(ctx context.Context, userID int64) (*cart.Cart, error) {
	c, err := s.repo.GetByUser(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	c = &cart.Cart{UserID: userID}
	if err := s.repo.Create(ctx, c); err != nil {
		// A concurrent first add may have won the unique user_id index.
		if existing, gerr := s.repo.GetByUser(ctx, userID); gerr == nil {
			return existing, nil
		}
		return nil, err
	}
	return c, nil
}

// AddItem merges quantity into the caller's cart line for the product. The
// cumulative quantity for the product must not exceed the current stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID, quantity int64) (*cart.Item, error) {
	if quantity <= 0 {
		return nil, errs.Invalidf("quantity must be greater than zero")
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	c, err := s.findOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindItem(ctx, c.ID, productID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		item = &cart.Item{CartID: c.ID, ProductID: productID}
	}
	newTotal := item.Quantity + quantity
	if p.StockQuantity < newTotal {
		return nil, errs.Conflictf("requested quantity exceeds available stock for product %q", p.Name)
	}
	item.Quantity = newTotal
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Items lists the caller's cart lines in cart-iteration order.
func (s *CartService) Items(ctx context.Context, userID int64) ([]*cart.Item, error) {
	return s.repo.ListItemsByUser(ctx, userID)
}

// RemoveItem deletes one line from the caller's own cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFoundf("no cart item found with the id %d", itemID)
		}
		return err
	}
	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil || c.ID != item.CartID {
		return errs.Forbiddenf("cart item %d does not belong to your cart", itemID)
	}
	return s.repo.DeleteItem(ctx, itemID)
}

// Clear empties the caller's cart. Clearing an absent or already empty cart
// is a no-op, which keeps the operation idempotent.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.repo.DeleteItemsByCart(ctx, c.ID)
}
