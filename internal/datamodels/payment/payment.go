package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status of a payment record.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

// Method of a payment.
type Method string

const (
	MethodCreditCard Method = "CREDIT_CARD"
	MethodDebitCard  Method = "DEBIT_CARD"
	MethodPix        Method = "PIX"
	MethodBoleto     Method = "BOLETO"
)

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPix, MethodBoleto:
		return true
	}
	return false
}

// Payment settles exactly one order; the unique index on OrderID enforces
// at most one payment per order.
type Payment struct {
	ID                   int64           `gorm:"primaryKey" json:"id"`
	OrderID              int64           `gorm:"uniqueIndex;not null" json:"orderId"`
	Amount               decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method               Method          `gorm:"size:16;not null" json:"method"`
	Status               Status          `gorm:"size:16;index;not null" json:"status"`
	TransactionReference string          `gorm:"size:64;uniqueIndex;not null" json:"transactionReference"`
	PaidAt               time.Time       `json:"paidAt"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// Repository payment persistence.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id int64) (*Payment, error)
	ExistsByOrder(ctx context.Context, orderID int64) (bool, error)
	Update(ctx context.Context, p *Payment) error
	ListAll(ctx context.Context) ([]*Payment, error)
	Delete(ctx context.Context, id int64) error
}
