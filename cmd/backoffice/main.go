package main

import (
	"context"
	"log"
	"net/http"

	"github.com/affiway/backoffice/config"
	"github.com/affiway/backoffice/internal/auth"
	"github.com/affiway/backoffice/internal/carrier"
	"github.com/affiway/backoffice/internal/gateway"
	handler "github.com/affiway/backoffice/internal/handler/http"
	"github.com/affiway/backoffice/internal/logger"
	"github.com/affiway/backoffice/internal/middleware"
	"github.com/affiway/backoffice/internal/notify"
	"github.com/affiway/backoffice/internal/redisx"
	"github.com/affiway/backoffice/internal/repository"
	"github.com/affiway/backoffice/internal/repository/postgres"
	"github.com/affiway/backoffice/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// warehouse sender block for carrier bookings
var warehouseSender = carrier.Address{
	Name:        "Affiway Logistics",
	Street:      "Via dei Mille",
	HouseNumber: "24",
	City:        "Milano",
	Province:    "MI",
	PostalCode:  "20121",
	Phone:       "+39 02 0000000",
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	// redis fast-path caches
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	if cfg.StaffTokenKey == "" {
		logger.Log.Fatal("Missing staff token key")
	}
	token := auth.NewTokenService([]byte(cfg.StaffTokenKey))

	// outbound side channels
	notifier := notify.New(cfg.WebhookURL)
	go notifier.Run(ctx)

	gatewayClient := gateway.NewClient(cfg.GatewayAddr, cfg.GatewayAPIKey)
	carrierClient := carrier.NewClient(cfg.CarrierAddr, cfg.CarrierAPIKey, "")

	// dependency injection
	// order
	orderRepo := repository.NewOrderRepository(db)
	orderService := service.NewOrderService(orderRepo, notifier)
	orderHandler := handler.NewOrderHandler(orderService)

	// payment ingestion
	paymentRepo := repository.NewPaymentRepository(db)
	productRepo := repository.NewProductRepository(db)
	paymentService := service.NewPaymentService(paymentRepo, productRepo,
		redisx.NewPaymentCache(rdb), notifier, cfg.BaseCurrency)
	webhookHandler := handler.NewWebhookHandler(gatewayClient, paymentService)

	// order financials
	breakdownService := service.NewBreakdownService(orderRepo, productRepo)
	breakdownHandler := handler.NewBreakdownHandler(breakdownService)

	// staff channel
	messageRepo := repository.NewMessageRepository(db)
	chatService := service.NewChatService(messageRepo, redisx.NewUnreadCache(rdb))
	chatHandler := handler.NewChatHandler(chatService)

	// stock-hold reassignment
	reassignService := service.NewReassignService(orderRepo, messageRepo)
	reassignHandler := handler.NewReassignHandler(reassignService)

	// shipments
	shipmentService := service.NewShipmentService(orderService, carrierClient, warehouseSender)
	shipmentHandler := handler.NewShipmentHandler(shipmentService)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))
	router.Use(middleware.Metrics())

	router.Handle("/metrics", promhttp.Handler())
	router.Post("/api/webhook/payment", webhookHandler.PaymentWebhook())

	// routes that require a staff token
	router.Group(func(group chi.Router) {
		group.Use(middleware.Auth(token))
		group.Get("/api/orders", orderHandler.ListOrders())
		group.Post("/api/orders", orderHandler.CreateOrder())
		group.Get("/api/orders/{id}", orderHandler.GetOrder())
		group.Patch("/api/orders/{id}", orderHandler.UpdateOrder())
		group.Get("/api/orders/{id}/breakdown", breakdownHandler.GetBreakdown())
		group.Get("/api/orders/{id}/messages", chatHandler.ListMessages())
		group.Post("/api/orders/{id}/messages", chatHandler.PostMessage())
		group.Post("/api/orders/{id}/messages/read", chatHandler.MarkRead())
		group.Get("/api/orders/{id}/messages/unread", chatHandler.UnreadCount())
		group.Get("/api/orders/{id}/reassignment/candidates", reassignHandler.Candidates())
		group.Post("/api/orders/{id}/reassignment/propose", reassignHandler.Propose())
		group.Post("/api/orders/{id}/shipment", shipmentHandler.CreateShipment())
	})

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
