package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/payment"
	"github.com/example/goshop/internal/errs"
)

// PaymentService settles orders. Each order accepts exactly one payment; the
// completed payment is announced on the event bus and a background consumer
// links it back onto the order.
type PaymentService struct {
	repo   payment.Repository
	orders *OrderService
	bus    EventBus
}

func NewPaymentService(repo payment.Repository, orders *OrderService, bus EventBus) *PaymentService {
	return &PaymentService{repo: repo, orders: orders, bus: bus}
}

// Create settles an order. The amount must cover the order total; overpaying
// is accepted as-is.
func (s *PaymentService) Create(ctx context.Context, orderID int64, method payment.Method, amount decimal.Decimal) (*payment.Payment, error) {
	GetMonitor().RecordPaymentRequest()

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.Conflictf("payment already done for this order")
	}
	if !method.Valid() {
		return nil, errs.Invalidf("invalid payment method %q", method)
	}
	if amount.LessThan(o.TotalAmount) {
		return nil, errs.Conflictf("payment amount %s is insufficient for the order total %s", amount.StringFixed(2), o.TotalAmount.StringFixed(2))
	}

	p := &payment.Payment{
		OrderID:              orderID,
		Amount:               amount,
		Method:               method,
		Status:               payment.StatusPending,
		TransactionReference: uuid.NewString(),
		PaidAt:               time.Now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		GetMonitor().RecordDBError()
		return nil, err
	}
	GetMonitor().RecordPaymentCreated()

	// The payment stands even when the announcement fails; the order is then
	// left unlinked until the event is replayed.
	e := PaymentCompletedEvent{OrderID: orderID, PaymentID: p.ID}
	if err := s.bus.PublishPaymentCompleted(ctx, e); err != nil {
		GetMonitor().RecordMQError()
		zap.L().Error("publish payment completed event failed",
			zap.Int64("order_id", orderID),
			zap.Int64("payment_id", p.ID),
			zap.Error(err))
	}
	return p, nil
}

// GetByID fetches one payment.
func (s *PaymentService) GetByID(ctx context.Context, id int64) (*payment.Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("no payment found with the id %d", id)
		}
		return nil, err
	}
	return p, nil
}

// ListAll returns every payment.
func (s *PaymentService) ListAll(ctx context.Context) ([]*payment.Payment, error) {
	return s.repo.ListAll(ctx)
}

// ToggleStatus overwrites the payment status unconditionally.
func (s *PaymentService) ToggleStatus(ctx context.Context, id int64, status payment.Status) (*payment.Payment, error) {
	if !status.Valid() {
		return nil, errs.Invalidf("invalid payment status %q", status)
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Status = status
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a payment record.
func (s *PaymentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
