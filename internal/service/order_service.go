package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/cart"
	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/errs"
	"github.com/example/goshop/internal/repository/mysql"
)

// OrderService converts carts into immutable order snapshots and answers
// order queries. Placement runs as one all-or-nothing transaction: stock
// debit, order persistence and cart clearing either all happen or none do.
type OrderService struct {
	db   *gorm.DB
	repo order.Repository
}

func NewOrderService(db *gorm.DB, repo order.Repository) *OrderService {
	return &OrderService{db: db, repo: repo}
}

// CreateFromCart places an order from the caller's current cart contents.
func (s *OrderService) CreateFromCart(ctx context.Context, userID int64) (*order.Order, error) {
	GetMonitor().RecordOrderRequest()

	var created *order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) The caller's cart. No cart yet means nothing was ever added.
		var c cart.Cart
		if err := tx.Where("user_id = ?", userID).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Conflictf("cart is empty")
			}
			return err
		}

		var items []cart.Item
		if err := tx.Where("cart_id = ?", c.ID).Order("id").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return errs.Conflictf("cart is empty")
		}

		// 2) Snapshot every line and debit stock. The conditional decrement
		// makes the pre-check race-free: a concurrent order that drained the
		// stock after our read simply fails the UPDATE and rolls us back.
		total := decimal.Zero
		lines := make([]order.Item, 0, len(items))
		for _, it := range items {
			var p product.Product
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errs.NotFoundf("no product found with the id %d", it.ProductID)
				}
				return err
			}
			if p.StockQuantity < it.Quantity {
				return errs.Conflictf("requested quantity is not available anymore for product %q", p.Name)
			}

			lines = append(lines, order.Item{
				ProductID:   p.ID,
				ProductName: p.Name,
				UnitPrice:   p.Price,
				Quantity:    it.Quantity,
			})
			total = total.Add(p.Price.Mul(decimal.NewFromInt(it.Quantity)))

			ok, err := mysql.DecrementProductStock(ctx, tx, p.ID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return errs.Conflictf("requested quantity is not available anymore for product %q", p.Name)
			}
		}

		// 3) Persist the snapshot, then clear the cart. Both inside this
		// transaction, so a failure leaves stock, cart and orders untouched.
		o := &order.Order{
			UserID:      userID,
			Status:      order.StatusPending,
			TotalAmount: total,
			Items:       lines,
		}
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.Item{}).Error; err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		if errs.KindOf(err) == errs.KindInternal {
			GetMonitor().RecordDBError()
		}
		return nil, err
	}
	GetMonitor().RecordOrderCreated()
	return created, nil
}

// ListByUser returns the caller's orders, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]*order.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetByID fetches one order with its lines.
func (s *OrderService) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("no order found with the id %d", id)
		}
		return nil, err
	}
	return o, nil
}

// ToggleStatus overwrites the order status unconditionally. There is no
// transition table: any known status can replace any other.
func (s *OrderService) ToggleStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	if !status.Valid() {
		return nil, errs.Invalidf("invalid order status %q", status)
	}
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Status = status
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
