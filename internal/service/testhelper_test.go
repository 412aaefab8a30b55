package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/repository/mysql"
)

// fakeBus records published settlement events in memory.
type fakeBus struct {
	events []PaymentCompletedEvent
	err    error
}

func (f *fakeBus) PublishPaymentCompleted(_ context.Context, e PaymentCompletedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

type fixture struct {
	db       *gorm.DB
	bus      *fakeBus
	users    *UserService
	products *ProductService
	cats     *CategoryService
	pcs      *ProductCategoryService
	carts    *CartService
	orders   *OrderService
	payments *PaymentService
	worker   *PaymentLinkWorker
}

// newFixture spins up an isolated in-memory database and wires the full
// service layer against it.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, mysql.AutoMigrate(db))

	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	pcRepo := mysql.NewProductCategoryRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	paymentRepo := mysql.NewPaymentRepository(db)

	bus := &fakeBus{}
	jwt := &config.JWTConfig{Secret: "test-secret"}
	productSvc := NewProductService(productRepo)
	categorySvc := NewCategoryService(categoryRepo)
	orderSvc := NewOrderService(db, orderRepo)

	return &fixture{
		db:       db,
		bus:      bus,
		users:    NewUserService(userRepo, jwt),
		products: productSvc,
		cats:     categorySvc,
		pcs:      NewProductCategoryService(pcRepo, productSvc, categorySvc),
		carts:    NewCartService(cartRepo, productSvc),
		orders:   orderSvc,
		payments: NewPaymentService(paymentRepo, orderSvc, bus),
		worker:   NewPaymentLinkWorker(nil, orderRepo, paymentRepo),
	}
}

// seedProduct inserts one catalog entry and returns it.
func (f *fixture) seedProduct(t *testing.T, name string, price string, stock int64) *product.Product {
	t.Helper()
	p := &product.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}
