package server

import (
	"time"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"

	"github.com/example/goshop/internal/auth"
	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/datamodels/category"
	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/datamodels/payment"
	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/datamodels/user"
	"github.com/example/goshop/internal/infra/mq"
	"github.com/example/goshop/internal/infra/redis"
	"github.com/example/goshop/internal/middleware"
	"github.com/example/goshop/internal/repository/mysql"
	"github.com/example/goshop/internal/service"
)

// Services bundles everything the HTTP layer needs. BuildServices wires the
// infrastructure once; RegisterRoutes attaches the handlers.
type Services struct {
	Users             *service.UserService
	Products          *service.ProductService
	Categories        *service.CategoryService
	ProductCategories *service.ProductCategoryService
	Carts             *service.CartService
	Orders            *service.OrderService
	Payments          *service.PaymentService
	LinkWorker        *service.PaymentLinkWorker
	TokenCache        *auth.TokenCache
}

// BuildServices connects to mysql, redis and rabbitmq and assembles the
// service layer.
func BuildServices(cfg *config.Config) (*Services, error) {
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)

	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	pcRepo := mysql.NewProductCategoryRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	paymentRepo := mysql.NewPaymentRepository(db)

	bus, err := mq.NewPublisher(mqConn)
	if err != nil {
		return nil, err
	}

	productSvc := service.NewProductService(productRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	orderSvc := service.NewOrderService(db, orderRepo)

	return &Services{
		Users:             service.NewUserService(userRepo, &cfg.JWT),
		Products:          productSvc,
		Categories:        categorySvc,
		ProductCategories: service.NewProductCategoryService(pcRepo, productSvc, categorySvc),
		Carts:             service.NewCartService(cartRepo, productSvc),
		Orders:            orderSvc,
		Payments:          service.NewPaymentService(paymentRepo, orderSvc, bus),
		LinkWorker:        service.NewPaymentLinkWorker(mqConn, orderRepo, paymentRepo),
		TokenCache:        auth.NewTokenCache(redisClient, time.Duration(cfg.JWT.TokenCacheTTLSeconds)*time.Second),
	}, nil
}

// RegisterRoutes attaches every endpoint under /api.
func RegisterRoutes(app *iris.Application, cfg *config.Config, svcs *Services) {
	api := app.Party("/api")

	api.Get("/health", func(ctx iris.Context) {
		respond(ctx, iris.StatusOK, iris.Map{"status": "up"}, "")
	})

	registerAuthRoutes(api, svcs)

	authed := api.Party("/", Authenticated(&cfg.JWT, svcs.TokenCache))
	admin := RequireRole(user.RoleAdmin)

	registerUserRoutes(authed, admin, svcs)
	registerProductRoutes(authed, admin, svcs)
	registerCategoryRoutes(authed, admin, svcs)
	registerProductCategoryRoutes(authed, admin, svcs)
	registerCartRoutes(authed, admin, svcs)
	registerOrderRoutes(authed, admin, svcs)
	registerPaymentRoutes(authed, admin, svcs)

	authed.Get("/metrics", admin, func(ctx iris.Context) {
		respond(ctx, iris.StatusOK, service.GetMonitor().Snapshot(), "")
	})
}

func registerAuthRoutes(api iris.Party, svcs *Services) {
	grp := api.Party("/auth", middleware.LoginRateLimit())

	grp.Post("/register", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		u, err := svcs.Users.Register(ctx.Request().Context(), req.Email, req.Password, user.RoleCustomer)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusCreated, u, "user registered successfully")
	})

	grp.Post("/login", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		token, err := svcs.Users.Login(ctx.Request().Context(), req.Email, req.Password)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, iris.Map{"token": token}, "login successful")
	})
}

func registerUserRoutes(authed iris.Party, admin iris.Handler, svcs *Services) {
	grp := authed.Party("/user")

	grp.Get("/me", func(ctx iris.Context) {
		u, err := svcs.Users.GetByID(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, u, "")
	})

	grp.Get("/", admin, func(ctx iris.Context) {
		list, err := svcs.Users.ListAll(ctx.Request().Context())
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, list, "")
	})

	grp.Patch("/{id:int64}/toggleLock", admin, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		u, err := svcs.Users.ToggleLock(ctx.Request().Context(), id)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, u, "user lock toggled")
	})

	grp.Put("/password", func(ctx iris.Context) {
		var req struct {
			UserID         int64  `json:"userId"`
			ActualPassword string `json:"actualPassword"`
			NewPassword    string `json:"newPassword"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		role := user.Role(ctx.Values().GetString("role"))
		if err := svcs.Users.UpdatePassword(ctx.Request().Context(), currentUserID(ctx), role, req.UserID, req.ActualPassword, req.NewPassword); err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, nil, "user password updated")
	})

	grp.Put("/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req struct {
			Email    string    `json:"email"`
			Password string    `json:"password"`
			Role     user.Role `json:"role"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		role := user.Role(ctx.Values().GetString("role"))
		u, err := svcs.Users.UpdateAccount(ctx.Request().Context(), currentUserID(ctx), role, id, req.Email, req.Password, req.Role)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, u, "user updated successfully")
	})
}

type productRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stockQuantity"`
}

func registerProductRoutes(authed iris.Party, admin iris.Handler, svcs *Services) {
	grp := authed.Party("/products")

	grp.Post("/", admin, func(ctx iris.Context) {
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		p := &product.Product{
			Name:          req.Name,
			Description:   req.Description,
			Price:         req.Price,
			StockQuantity: req.StockQuantity,
		}
		if err := svcs.Products.Create(ctx.Request().Context(), p); err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusCreated, p, "product created successfully")
	})

	grp.Get("/", func(ctx iris.Context) {
		list, err := svcs.Products.ListAll(ctx.Request().Context())
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, list, "")
	})

	grp.Get("/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		p, err := svcs.Products.GetByID(ctx.Request().Context(), id)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, p, "")
	})

	grp.Get("/name/{name}", func(ctx iris.Context) {
		p, err := svcs.Products.GetByName(ctx.Request().Context(), ctx.Params().Get("name"))
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, p, "")
	})

	grp.Put("/{id:int64}", admin, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		p, err := svcs.Products.Update(ctx.Request().Context(), id, &product.Product{
			Name:          req.Name,
			Description:   req.Description,
			Price:         req.Price,
			StockQuantity: req.StockQuantity,
		})
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, p, "product updated successfully")
	})

	grp.Delete("/{id:int64}", admin, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := svcs.Products.Delete(ctx.Request().Context(), id); err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, nil, "product deleted successfully")
	})
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parentId"`
}

func registerCategoryRoutes(authed iris.Party, admin iris.Handler, svcs *Services) {
	grp := authed.Party("/category")

	grp.Post("/", admin, func(ctx iris.Context) {
		var req categoryRequest
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		c := &category.Category{Name: req.Name, Description: req.Description, ParentID: req.ParentID}
		if err := svcs.Categories.Create(ctx.Request().Context(), c); err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusCreated, c, "category created successfully")
	})

	grp.Get("/", func(ctx iris.Context) {
		list, err := svcs.Categories.ListAll(ctx.Request().Context())
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, list, "")
	})

	grp.Get("/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		c, err := svcs.Categories.GetByID(ctx.Request().Context(), id)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, c, "")
	})

	grp.Put("/{id:int64}", admin, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req categoryRequest
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		c, err := svcs.Categories.Update(ctx.Request().Context(), id, &category.Category{
			Name:        req.Name,
			Description: req.Description,
			ParentID:    req.ParentID,
		})
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, c, "category updated successfully")
	})

	grp.Delete("/{id:int64}", admin, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := svcs.Categories.Delete(ctx.Request().Context(), id); err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, nil, "category deleted successfully")
	})
}

type productCategoryRequest struct {
	ProductID  int64 `json:"productId"`
	CategoryID int64 `json:"categoryId"`
}

func registerProductCategoryRoutes(authed iris.Party, admin iris.Handler, svcs *Services) {
	grp := authed.Party("/productsCategories")

	grp.Post("/", admin, func(ctx iris.Context) {
		var req productCategoryRequest
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		pc, err := svcs.ProductCategories.Create(ctx.Request().Context(), req.ProductID, req.CategoryID)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusCreated, pc, "product registered to category successfully")
	})

	grp.Get("/", func(ctx iris.Context) {
		list, err := svcs.ProductCategories.ListAll(ctx.Request().Context())
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, list, "")
	})

	grp.Get("/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		pc, err := svcs.ProductCategories.GetByID(ctx.Request().Context(), id)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, pc, "")
	})

	grp.Get("/category/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		list, err := svcs.ProductCategories.ListByCategory(ctx.Request().Context(), id)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, list, "")
	})

	grp.Put("/{id:int64}", admin, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req productCategoryRequest
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		pc, err := svcs.ProductCategories.Update(ctx.Request().Context(), id, req.ProductID, req.CategoryID)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, pc, "product category updated successfully")
	})

	grp.Delete("/{id:int64}", admin, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := svcs.ProductCategories.Delete(ctx.Request().Context(), id); err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, nil, "product category deleted successfully")
	})
}

func registerCartRoutes(authed iris.Party, admin iris.Handler, svcs *Services) {
	grp := authed.Party("/cart")

	grp.Get("/getUserCart/{id:int64}", admin, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		items, err := svcs.Carts.Items(ctx.Request().Context(), id)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, items, "")
	})

	grp.Delete("/cleanUserCart/{id:int64}", admin, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := svcs.Carts.Clear(ctx.Request().Context(), id); err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, nil, "cart cleaned")
	})

	grp.Post("/items", func(ctx iris.Context) {
		var req struct {
			ProductID int64 `json:"productId"`
			Quantity  int64 `json:"quantity"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		item, err := svcs.Carts.AddItem(ctx.Request().Context(), currentUserID(ctx), req.ProductID, req.Quantity)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusCreated, item, "item added to cart")
	})

	grp.Get("/items", func(ctx iris.Context) {
		items, err := svcs.Carts.Items(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, items, "")
	})

	grp.Delete("/items/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := svcs.Carts.RemoveItem(ctx.Request().Context(), currentUserID(ctx), id); err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, nil, "item removed from cart")
	})

	grp.Delete("/items", func(ctx iris.Context) {
		if err := svcs.Carts.Clear(ctx.Request().Context(), currentUserID(ctx)); err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, nil, "cart cleared")
	})
}

func registerOrderRoutes(authed iris.Party, admin iris.Handler, svcs *Services) {
	grp := authed.Party("/order")

	grp.Post("/", func(ctx iris.Context) {
		o, err := svcs.Orders.CreateFromCart(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusCreated, o, "order created successfully")
	})

	grp.Get("/", func(ctx iris.Context) {
		list, err := svcs.Orders.ListByUser(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, list, "")
	})

	grp.Patch("/toggleStatus", admin, func(ctx iris.Context) {
		var req struct {
			OrderID int64        `json:"orderId"`
			Status  order.Status `json:"status"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		o, err := svcs.Orders.ToggleStatus(ctx.Request().Context(), req.OrderID, req.Status)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, o, "order status updated")
	})
}

func registerPaymentRoutes(authed iris.Party, admin iris.Handler, svcs *Services) {
	grp := authed.Party("/payment")

	grp.Post("/", func(ctx iris.Context) {
		var req struct {
			OrderID int64           `json:"orderId"`
			Method  payment.Method  `json:"paymentMethod"`
			Amount  decimal.Decimal `json:"amount"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		p, err := svcs.Payments.Create(ctx.Request().Context(), req.OrderID, req.Method, req.Amount)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusCreated, p, "payment created successfully")
	})

	grp.Get("/", admin, func(ctx iris.Context) {
		list, err := svcs.Payments.ListAll(ctx.Request().Context())
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, list, "")
	})

	grp.Get("/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		p, err := svcs.Payments.GetByID(ctx.Request().Context(), id)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, p, "")
	})

	grp.Patch("/statusUpdate", admin, func(ctx iris.Context) {
		var req struct {
			PaymentID int64          `json:"paymentId"`
			Status    payment.Status `json:"status"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			failInvalid(ctx, "invalid request body: %v", err)
			return
		}
		p, err := svcs.Payments.ToggleStatus(ctx.Request().Context(), req.PaymentID, req.Status)
		if err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, p, "payment status updated")
	})

	grp.Delete("/{id:int64}", admin, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := svcs.Payments.Delete(ctx.Request().Context(), id); err != nil {
			fail(ctx, err)
			return
		}
		respond(ctx, iris.StatusOK, nil, "payment deleted successfully")
	})
}
