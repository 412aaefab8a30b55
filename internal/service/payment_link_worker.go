package service

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/datamodels/payment"
)

// PaymentLinkWorker consumes PaymentCompletedEvent messages and stamps the
// payment id onto the settled order. Linking is best-effort: a message whose
// order or payment cannot be resolved is dropped without requeueing.
type PaymentLinkWorker struct {
	conn     *amqp.Connection
	orders   order.Repository
	payments payment.Repository
}

func NewPaymentLinkWorker(conn *amqp.Connection, orders order.Repository, payments payment.Repository) *PaymentLinkWorker {
	return &PaymentLinkWorker{conn: conn, orders: orders, payments: payments}
}

// Run consumes the queue until the context is cancelled or the channel dies.
func (w *PaymentLinkWorker) Run(ctx context.Context) error {
	ch, err := w.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(PaymentCompletedQueue, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}
	deliveries, err := ch.Consume(PaymentCompletedQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	zap.L().Info("payment link worker started", zap.String("queue", PaymentCompletedQueue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("payment link worker: delivery channel closed")
			}
			if err := w.handle(ctx, d.Body); err != nil {
				GetMonitor().RecordLinkFailed()
				zap.L().Error("payment link failed", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			GetMonitor().RecordLinked()
			_ = d.Ack(false)
		}
	}
}

// handle links one settlement message. Split out so tests can exercise it
// without a broker.
func (w *PaymentLinkWorker) handle(ctx context.Context, body []byte) error {
	var e PaymentCompletedEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return err
	}

	o, err := w.orders.GetByID(ctx, e.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("payment link: order not found")
		}
		return err
	}
	p, err := w.payments.GetByID(ctx, e.PaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("payment link: payment not found")
		}
		return err
	}

	o.PaymentID = &p.ID
	if err := w.orders.Update(ctx, o); err != nil {
		return err
	}
	zap.L().Info("payment linked to order",
		zap.Int64("order_id", o.ID),
		zap.Int64("payment_id", p.ID))
	return nil
}
