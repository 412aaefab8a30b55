package mq

import (
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/example/goshop/internal/config"
)

var (
	conn *amqp.Connection
	once sync.Once
)

// Init opens the global RabbitMQ connection.
func Init(cfg *config.RabbitMQConfig) *amqp.Connection {
	once.Do(func() {
		c, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Fatalf("failed to connect rabbitmq: %v", err)
		}
		conn = c
	})
	return conn
}

// Conn returns the global connection.
func Conn() *amqp.Connection {
	return conn
}
