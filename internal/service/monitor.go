package service

import (
	"sync"
	"time"
)

// Monitor keeps in-process counters for the order and payment paths.
type Monitor struct {
	mu sync.RWMutex

	OrderRequests   int64
	OrdersCreated   int64
	PaymentRequests int64
	PaymentsCreated int64

	DBErrors   int64
	MQErrors   int64
	LinkedOK   int64
	LinkFailed int64

	LastOrderTime time.Time
	LastLinkTime  time.Time
	LastDBError   time.Time
	LastMQError   time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor returns the global monitor instance.
func GetMonitor() *Monitor {
	return globalMonitor
}

func (m *Monitor) RecordOrderRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderRequests++
	m.LastOrderTime = time.Now()
}

func (m *Monitor) RecordOrderCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersCreated++
}

func (m *Monitor) RecordPaymentRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PaymentRequests++
}

func (m *Monitor) RecordPaymentCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PaymentsCreated++
}

func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.LastDBError = time.Now()
}

func (m *Monitor) RecordMQError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MQErrors++
	m.LastMQError = time.Now()
}

func (m *Monitor) RecordLinked() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkedOK++
	m.LastLinkTime = time.Now()
}

func (m *Monitor) RecordLinkFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkFailed++
	m.LastLinkTime = time.Now()
}

// MonitorSnapshot is a point-in-time copy for the metrics endpoint.
type MonitorSnapshot struct {
	OrderRequests   int64 `json:"order_requests"`
	OrdersCreated   int64 `json:"orders_created"`
	PaymentRequests int64 `json:"payment_requests"`
	PaymentsCreated int64 `json:"payments_created"`
	DBErrors        int64 `json:"db_errors"`
	MQErrors        int64 `json:"mq_errors"`
	LinkedOK        int64 `json:"payments_linked"`
	LinkFailed      int64 `json:"payment_link_failures"`

	LastOrderTime time.Time `json:"last_order_time"`
	LastLinkTime  time.Time `json:"last_link_time"`
	LastDBError   time.Time `json:"last_db_error"`
	LastMQError   time.Time `json:"last_mq_error"`
}

// Snapshot copies the counters under the read lock.
func (m *Monitor) Snapshot() MonitorSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MonitorSnapshot{
		OrderRequests:   m.OrderRequests,
		OrdersCreated:   m.OrdersCreated,
		PaymentRequests: m.PaymentRequests,
		PaymentsCreated: m.PaymentsCreated,
		DBErrors:        m.DBErrors,
		MQErrors:        m.MQErrors,
		LinkedOK:        m.LinkedOK,
		LinkFailed:      m.LinkFailed,
		LastOrderTime:   m.LastOrderTime,
		LastLinkTime:    m.LastLinkTime,
		LastDBError:     m.LastDBError,
		LastMQError:     m.LastMQError,
	}
}
