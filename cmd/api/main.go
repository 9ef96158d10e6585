package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-dashboard/internal/app"
	"inventory-dashboard/internal/config"
	"inventory-dashboard/internal/handler"
	"inventory-dashboard/internal/middleware"
	"inventory-dashboard/internal/service"
	"inventory-dashboard/internal/session"
	"inventory-dashboard/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := config.NewLogger(cfg)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Catalog and description assist
	productRepo, categories, err := app.Catalog(cfg, log)
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	describer := app.Describer(ctx, cfg, log)

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	invService := service.NewInventoryService(productRepo, categories, wsHub)
	dashService := service.NewDashboardService(productRepo)

	invHandler := handler.NewInventoryHandler(invService, describer, cfg.DefaultPageSize)
	dashHandler := handler.NewDashboardHandler(dashService)
	sessionHandler := handler.NewSessionHandler(invService, describer, wsHub, session.Options{
		PageSize:   cfg.DefaultPageSize,
		Debounce:   cfg.SearchDebounce,
		ConfirmTTL: cfg.DeleteConfirmTTL,
	}, log)

	// 5. Setup Fiber
	server := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	// Middleware
	server.Use(logger.New())  // Logging request
	server.Use(recover.New()) // Panic recovery
	server.Use(cors.New())    // CORS
	server.Use(middleware.SecureHeaders(false))

	// 6. Routes
	api := server.Group("/api/v1")

	api.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	api.Get("/categories", invHandler.GetCategories)

	api.Get("/products", invHandler.GetProducts)
	api.Post("/products/describe", middleware.RateLimit(cfg.DescribeRateLimit, time.Minute), invHandler.DescribeProduct)
	api.Get("/products/:id", invHandler.GetProduct)
	api.Post("/products", invHandler.CreateProduct)
	api.Put("/products/:id", invHandler.UpdateProduct)
	api.Delete("/products/:id", invHandler.DeleteProduct)

	// WebSocket Route, one live dashboard per connection
	server.Use("/ws", middleware.RequireUpgrade)
	server.Get("/ws", websocket.New(sessionHandler.Serve))

	// 7. Graceful Shutdown
	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down server...")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
