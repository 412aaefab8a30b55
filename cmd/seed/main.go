package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/datamodels/category"
	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/datamodels/user"
	"github.com/example/goshop/internal/logger"
	"github.com/example/goshop/internal/repository/mysql"
	"github.com/example/goshop/internal/service"
)

// Seeds an admin account and a small demo catalog. Safe to run repeatedly:
// duplicate names and emails are skipped.
func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Init(true); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	db := mysql.Init(&cfg.MySQL)
	ctx := context.Background()

	users := service.NewUserService(mysql.NewUserRepository(db), &cfg.JWT)
	if _, err := users.Register(ctx, "admin@goshop.local", "admin123", user.RoleAdmin); err != nil {
		zap.L().Warn("admin account not created", zap.Error(err))
	} else {
		zap.L().Info("admin account created", zap.String("email", "admin@goshop.local"))
	}

	products := service.NewProductService(mysql.NewProductRepository(db))
	catalog := []*product.Product{
		{Name: "Mechanical Keyboard", Description: "87-key hot-swappable", Price: decimal.NewFromFloat(129.90), StockQuantity: 50},
		{Name: "Wireless Mouse", Description: "2.4GHz, 6 buttons", Price: decimal.NewFromFloat(39.90), StockQuantity: 120},
		{Name: "USB-C Hub", Description: "7-in-1 with HDMI", Price: decimal.NewFromFloat(59.00), StockQuantity: 80},
		{Name: "27in Monitor", Description: "1440p 144Hz IPS", Price: decimal.NewFromFloat(329.00), StockQuantity: 25},
	}
	for _, p := range catalog {
		if err := products.Create(ctx, p); err != nil {
			zap.L().Warn("product not created", zap.String("name", p.Name), zap.Error(err))
			continue
		}
		zap.L().Info("product created", zap.String("name", p.Name), zap.Int64("id", p.ID))
	}

	categories := service.NewCategoryService(mysql.NewCategoryRepository(db))
	parent := &category.Category{Name: "Electronics", Description: "Electronics and peripherals"}
	if err := categories.Create(ctx, parent); err != nil {
		zap.L().Warn("category not created", zap.String("name", parent.Name), zap.Error(err))
	}
	if parent.ID != 0 {
		child := &category.Category{Name: "Peripherals", Description: "Keyboards, mice and hubs", ParentID: &parent.ID}
		if err := categories.Create(ctx, child); err != nil {
			zap.L().Warn("category not created", zap.String("name", child.Name), zap.Error(err))
		}
	}

	zap.L().Info("seed finished")
}
