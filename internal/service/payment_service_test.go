package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/datamodels/payment"
	"github.com/example/goshop/internal/errs"
)

func placeOrder(t *testing.T, f *fixture, userID int64) *order.Order {
	t.Helper()
	ctx := context.Background()
	p := f.seedProduct(t, "Keyboard-"+t.Name(), "100.00", 10)
	_, err := f.carts.AddItem(ctx, userID, p.ID, 2)
	require.NoError(t, err)
	o, err := f.orders.CreateFromCart(ctx, userID)
	require.NoError(t, err)
	return o
}

func TestCreatePayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := placeOrder(t, f, 1)

	p, err := f.payments.Create(ctx, o.ID, payment.MethodPix, decimal.RequireFromString("200.00"))
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, p.Status)
	assert.NotEmpty(t, p.TransactionReference)
	assert.False(t, p.PaidAt.IsZero())

	require.Len(t, f.bus.events, 1)
	assert.Equal(t, o.ID, f.bus.events[0].OrderID)
	assert.Equal(t, p.ID, f.bus.events[0].PaymentID)
}

func TestCreatePaymentInsufficientAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := placeOrder(t, f, 1)

	_, err := f.payments.Create(ctx, o.ID, payment.MethodCreditCard, decimal.RequireFromString("199.99"))
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	assert.Empty(t, f.bus.events)
}

func TestCreatePaymentDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := placeOrder(t, f, 1)

	_, err := f.payments.Create(ctx, o.ID, payment.MethodPix, decimal.RequireFromString("200.00"))
	require.NoError(t, err)
	_, err = f.payments.Create(ctx, o.ID, payment.MethodPix, decimal.RequireFromString("200.00"))
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestCreatePaymentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := placeOrder(t, f, 1)

	_, err := f.payments.Create(ctx, 999, payment.MethodPix, decimal.RequireFromString("200.00"))
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	_, err = f.payments.Create(ctx, o.ID, "CASH", decimal.RequireFromString("200.00"))
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))
}

func TestCreatePaymentSurvivesPublishFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := placeOrder(t, f, 1)

	f.bus.err = assert.AnError
	p, err := f.payments.Create(ctx, o.ID, payment.MethodBoleto, decimal.RequireFromString("200.00"))
	require.NoError(t, err)

	// The payment record stands, only the linkage is pending.
	got, err := f.payments.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.OrderID)
}

func TestPaymentLinkWorkerHandle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := placeOrder(t, f, 1)

	p, err := f.payments.Create(ctx, o.ID, payment.MethodPix, decimal.RequireFromString("200.00"))
	require.NoError(t, err)

	body, err := json.Marshal(PaymentCompletedEvent{OrderID: o.ID, PaymentID: p.ID})
	require.NoError(t, err)
	require.NoError(t, f.worker.handle(ctx, body))

	got, err := f.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PaymentID)
	assert.Equal(t, p.ID, *got.PaymentID)
}

func TestPaymentLinkWorkerHandleBadMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.Error(t, f.worker.handle(ctx, []byte("{not json")))

	body, err := json.Marshal(PaymentCompletedEvent{OrderID: 123, PaymentID: 456})
	require.NoError(t, err)
	require.Error(t, f.worker.handle(ctx, body))
}

func TestTogglePaymentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := placeOrder(t, f, 1)
	p, err := f.payments.Create(ctx, o.ID, payment.MethodPix, decimal.RequireFromString("200.00"))
	require.NoError(t, err)

	got, err := f.payments.ToggleStatus(ctx, p.ID, payment.StatusSuccess)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSuccess, got.Status)

	_, err = f.payments.ToggleStatus(ctx, p.ID, "REFUNDED")
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))
}
