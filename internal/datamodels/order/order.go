package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status of an order. Transitions are admin-triggered and unguarded.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is an immutable snapshot of a cart at placement time. TotalAmount is
// computed once at creation and never recomputed. PaymentID is linked
// asynchronously after payment settlement.
type Order struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	UserID      int64           `gorm:"index;not null" json:"userId"`
	Status      Status          `gorm:"size:16;index;not null" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	PaymentID   *int64          `gorm:"index" json:"paymentId"`
	Items       []Item          `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Item captures product id, name, unit price and quantity at order time,
// decoupled from later catalog mutation.
type Item struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	OrderID     int64           `gorm:"index;not null" json:"orderId"`
	ProductID   int64           `gorm:"index;not null" json:"productId"`
	ProductName string          `gorm:"size:128;not null" json:"productName"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TableName keeps order lines apart from cart lines.
func (Item) TableName() string { return "order_items" }

// Repository order persistence.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	Update(ctx context.Context, o *Order) error
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
}
