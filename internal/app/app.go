package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"achatavis_backend/database"
	"achatavis_backend/internal/auth"
	"achatavis_backend/internal/config"
	"achatavis_backend/internal/handlers"
	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/middleware"
	"achatavis_backend/internal/repositories"
	"achatavis_backend/internal/routes"
	"achatavis_backend/internal/services"
	"achatavis_backend/internal/validator"
	"achatavis_backend/internal/workers"
	"achatavis_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	apperrors.Debug = cfg.Server.Env != "production"
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	auth.Init(cfg.JWT.Secret)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := prepareDatabase(gormDB, cfg); err != nil {
		logger.Fatal("Failed to prepare database", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container := NewServiceContainer(cfg, buildCollaborators(ctx, cfg))

	workers.NewPaymentWorker(gormDB, container.PaymentService, cfg.Workers.PaymentSweepInterval).Start(ctx)
	workers.NewTrustWorker(gormDB, container.GmailAccountService,
		cfg.Workers.TrustRefreshInterval, cfg.Workers.TrustMaxAge, cfg.Workers.TrustBatchSize).Start(ctx)

	ginRouter := SetupRouter(cfg, gormDB, container)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{Addr: address, Handler: ginRouter}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
}

// prepareDatabase - миграции, справочники и первый админ
func prepareDatabase(db *gorm.DB, cfg *config.Config) error {
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
	}
	if cfg.Database.Seed {
		if err := database.Seed(db); err != nil {
			return err
		}
	}
	return database.SeedFirstAdmin(db, cfg.FirstAdminEmail, cfg.FirstAdminPassword)
}

// NewServiceContainer собирает репозитории и сервисы поверх внешних зависимостей
func NewServiceContainer(cfg *config.Config, deps Collaborators) *services.ServiceContainer {
	policy := cfg.Policy

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	gmailRepo := repositories.NewGmailAccountRepository()
	ruleRepo := repositories.NewRuleRepository()
	sectorRepo := repositories.NewSectorRepository()
	orderRepo := repositories.NewOrderRepository()
	proposalRepo := repositories.NewProposalRepository()
	submissionRepo := repositories.NewSubmissionRepository()
	paymentRepo := repositories.NewPaymentRepository()
	certRepo := repositories.NewCertificationRepository()

	// --- Сервисы ---
	catalogService := services.NewCatalogService(ruleRepo, sectorRepo, policy)
	gmailAccountService := services.NewGmailAccountService(gmailRepo, submissionRepo, deps.Scraper, policy, cfg.Scraper.Timeout)
	complianceService := services.NewComplianceService(ruleRepo, submissionRepo, certRepo, userRepo, policy)
	missionService := services.NewMissionService(orderRepo, proposalRepo, gmailRepo, policy)
	orderService := services.NewOrderService(orderRepo, proposalRepo, submissionRepo, sectorRepo, paymentRepo, policy)
	proposalService := services.NewProposalService(orderRepo, proposalRepo, deps.Generator, cfg.TextGen.Timeout)
	submissionService := services.NewSubmissionService(orderRepo, proposalRepo, submissionRepo, gmailRepo, userRepo, paymentRepo,
		complianceService, deps.Notifier, policy)
	paymentService := services.NewPaymentService(paymentRepo, userRepo, orderService, deps.Payments, deps.Invoices,
		services.PaymentOptions{
			Plans:      cfg.Payment.Plans,
			Currency:   cfg.Payment.Currency,
			Timeout:    cfg.Payment.Timeout,
			SessionTTL: cfg.Payment.SessionTTL,
		})

	return &services.ServiceContainer{
		CatalogService:      catalogService,
		GmailAccountService: gmailAccountService,
		ComplianceService:   complianceService,
		MissionService:      missionService,
		OrderService:        orderService,
		ProposalService:     proposalService,
		SubmissionService:   submissionService,
		PaymentService:      paymentService,
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, container *services.ServiceContainer) *gin.Engine {
	appHandlers := initializeHandlers(container)
	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, gormDB)
	return ginRouter
}

func initializeHandlers(c *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		CatalogHandler:      handlers.NewCatalogHandler(baseHandler, c.CatalogService),
		GmailAccountHandler: handlers.NewGmailAccountHandler(baseHandler, c.GmailAccountService),
		OrderHandler:        handlers.NewOrderHandler(baseHandler, c.OrderService),
		ProposalHandler:     handlers.NewProposalHandler(baseHandler, c.ProposalService),
		MissionHandler:      handlers.NewMissionHandler(baseHandler, c.MissionService, c.SubmissionService),
		SubmissionHandler:   handlers.NewSubmissionHandler(baseHandler, c.SubmissionService),
		ComplianceHandler:   handlers.NewComplianceHandler(baseHandler, c.ComplianceService),
		PaymentHandler:      handlers.NewPaymentHandler(baseHandler, c.PaymentService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}
