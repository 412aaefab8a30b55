package service

import "context"

// PaymentCompletedQueue is the durable queue carrying settlement notifications.
const PaymentCompletedQueue = "payment_completed"

// PaymentCompletedEvent is published after a payment record is persisted and
// consumed asynchronously to link the payment back to its order.
type PaymentCompletedEvent struct {
	OrderID   int64 `json:"order_id"`
	PaymentID int64 `json:"payment_id"`
}

// EventBus publishes settlement notifications.
type EventBus interface {
	PublishPaymentCompleted(ctx context.Context, e PaymentCompletedEvent) error
}
