package mq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/example/goshop/internal/service"
)

// Publisher sends settlement events over RabbitMQ. It satisfies
// service.EventBus.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher opens a channel and declares the durable settlement queue.
func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if _, err := ch.QueueDeclare(service.PaymentCompletedQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, err
	}
	return &Publisher{ch: ch}, nil
}

// PublishPaymentCompleted enqueues one settlement event as persistent JSON.
func (p *Publisher) PublishPaymentCompleted(ctx context.Context, e service.PaymentCompletedEvent) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, "", service.PaymentCompletedQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Close releases the channel.
func (p *Publisher) Close() error {
	return p.ch.Close()
}
