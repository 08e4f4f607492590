package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"techmart/internal/config"
	"techmart/internal/events"
	"techmart/internal/http/handlers"
	applog "techmart/internal/log"
	"techmart/internal/repos"
	"techmart/internal/services"
	"techmart/internal/storage"
)

func main() {
	cfg := config.Load()
	applog.Init(cfg.LogLevel)

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := repos.SeedCatalogIfEmpty(db); err != nil {
		log.Fatal(err)
	}
	if err := repos.SeedUsers(db); err != nil {
		log.Fatal(err)
	}

	catalog, err := services.NewCatalogService(repos.NewSqliteCatalog(db), repos.NewSqliteCatalog(db))
	if err != nil {
		log.Fatal(err)
	}

	// Carts persist to redis when configured, sqlite otherwise. Either
	// way a fresh cart service per session re-reads the backing store.
	var cartStorage func(sid string) storage.CartStorage
	if cfg.RedisURL != "" {
		client, err := repos.OpenRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		cartStorage = func(sid string) storage.CartStorage { return repos.NewRedisCart(client, sid) }
	} else {
		cartStorage = func(sid string) storage.CartStorage { return repos.NewSqliteCart(db, sid) }
	}
	carts := handlers.CartFactory(func(sid string) (*services.CartService, error) {
		return services.NewCartService(cartStorage(sid), catalog)
	})

	publisher := events.NewPublisher()
	defer func() { _ = publisher.Close() }()

	payment := services.NewSimulatedPayment(cfg.PaymentFailRate, time.Now().UnixNano())
	orderSvc := services.NewOrderService(catalog, repos.NewSqliteOrders(db), payment, publisher)
	reportSvc := services.NewReportService()
	authSvc := &services.AuthService{Users: repos.NewSqliteUsers(db)}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20

	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(catalog, carts, orderSvc, reportSvc, authSvc)

	api := app.Group("/api/v1")
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/featured", deps.ProductHandler.Featured)
	api.Get("/products/slug/:slug", deps.ProductHandler.BySlug)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/categories/:id", deps.CategoryHandler.Detail)

	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart", deps.CartHandler.Add)
	api.Post("/cart/quantity", deps.CartHandler.Update)
	api.Post("/cart/remove", deps.CartHandler.Remove)
	api.Post("/cart/clear", deps.CartHandler.Clear)

	api.Post("/checkout", deps.OrderHandler.Checkout)
	api.Get("/orders/:id", deps.OrderHandler.Detail)

	api.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts"})
		},
	}), deps.AuthHandler.Login)
	api.Post("/logout", deps.AuthHandler.Logout)
	api.Get("/me", deps.AuthHandler.Me)

	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Patch("/products/:id", deps.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", deps.AdminHandler.DeleteProduct)
	admin.Post("/categories", deps.AdminHandler.CreateCategory)
	admin.Patch("/categories/:id", deps.AdminHandler.UpdateCategory)
	admin.Delete("/categories/:id", deps.AdminHandler.DeleteCategory)
	admin.Get("/orders", deps.AdminHandler.ListOrders)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Get("/report", deps.AdminHandler.SalesReport)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	log.Fatal(app.Listen(":" + cfg.Port))
}
