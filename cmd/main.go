package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"forms-service/internal/config"
	"forms-service/internal/events"
	"forms-service/internal/handlers"
	"forms-service/internal/jobs"
	"forms-service/internal/middleware"
	"forms-service/internal/models"
	"forms-service/internal/repository"
	"forms-service/internal/seeders"
	"forms-service/internal/services"
)

// @title Forms API
// @version 1.0.0
// @description Document approval and cancellation workflow service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.example.com/support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8099
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Branch{},
		&models.Warehouse{},
		&models.ChartOfAccountType{},
		&models.ChartOfAccount{},
		&models.Item{},
		&models.Customer{},
		&models.Allocation{},
		&models.Form{},
		&models.FormAuditLog{},
		&models.StockCorrection{},
		&models.StockCorrectionItem{},
		&models.SalesInvoice{},
		&models.SalesInvoiceItem{},
		&models.SettingJournal{},
		&models.JournalEntry{},
		&models.JournalLine{},
		&models.InventoryMovement{},
	); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations completed")

	// Seed default journal mappings for the configured tenant
	if cfg.SeedTenant != "" {
		if err := seeders.SeedSettingJournals(db, cfg.SeedTenant); err != nil {
			logger.Warnf("Failed to seed setting journals: %v", err)
		}
	}

	// Initialize repository
	formsRepo := repository.NewFormsRepository(db)

	// Initialize event publisher (optional - service works without NATS)
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.Warnf("Failed to initialize event publisher: %v. Events will not be published.", err)
		} else {
			logger.Info("Event publisher initialized")
			defer publisher.Close()
		}
	} else {
		logger.Info("NATS_URL not configured, event publishing disabled")
	}

	// Initialize services
	effects := services.NewSideEffectDispatcher()
	stockCorrectionService := services.NewStockCorrectionService(formsRepo, effects, publisher, logger)
	salesInvoiceService := services.NewSalesInvoiceService(formsRepo, effects, publisher, logger)

	// Initialize handlers
	stockCorrectionHandler := handlers.NewStockCorrectionHandler(stockCorrectionService)
	salesInvoiceHandler := handlers.NewSalesInvoiceHandler(salesInvoiceService)
	historyHandler := handlers.NewFormHistoryHandler(formsRepo)
	healthHandler := handlers.NewHealthHandler(db)

	// Start done reconciliation job
	doneJob := jobs.NewDoneReconciliationJob(formsRepo, logger)
	jobCtx, jobCancel := context.WithCancel(context.Background())
	go doneJob.Start(jobCtx)
	logger.Info("Done reconciliation job started")

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)

	// Protected API routes
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(middleware.AuthConfig{
		Secret:    []byte(cfg.JWTSecret),
		SkipPaths: []string{"/health", "/ready", "/swagger"},
	}))
	api.Use(middleware.TenantMiddleware())

	// Stock correction endpoints
	{
		api.GET("/stock-corrections/:id", stockCorrectionHandler.GetOne)
		api.POST("/stock-corrections/:id/approve", stockCorrectionHandler.Approve)
		api.POST("/stock-corrections/:id/reject", stockCorrectionHandler.Reject)
		api.POST("/stock-corrections/:id/cancellation-request", stockCorrectionHandler.RequestCancellation)
		api.POST("/stock-corrections/:id/cancellation-approve", stockCorrectionHandler.ApproveCancellation)
		api.POST("/stock-corrections/:id/cancellation-reject", stockCorrectionHandler.RejectCancellation)
	}

	// Sales invoice endpoints
	{
		api.GET("/sales-invoices/:id", salesInvoiceHandler.GetOne)
		api.POST("/sales-invoices/:id/approve", salesInvoiceHandler.Approve)
		api.POST("/sales-invoices/:id/reject", salesInvoiceHandler.Reject)
		api.POST("/sales-invoices/:id/cancellation-request", salesInvoiceHandler.RequestCancellation)
		api.POST("/sales-invoices/:id/cancellation-approve", salesInvoiceHandler.ApproveCancellation)
		api.POST("/sales-invoices/:id/cancellation-reject", salesInvoiceHandler.RejectCancellation)
	}

	// Form audit trail
	api.GET("/forms/:kind/:id/history", historyHandler.GetHistory)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8099"
	}

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Infof("Forms service starting on port %s", port)
		if err := router.Run(":" + port); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	logger.Info("Shutting down server...")

	// Stop done reconciliation job
	jobCancel()
	doneJob.Stop()
	logger.Info("Done reconciliation job stopped")

	logger.Info("Server shutdown complete")
}
