package main

import (
	"log"

	"github.com/freelio/freelio-api/internal/application/service"
	"github.com/freelio/freelio-api/internal/config"
	"github.com/freelio/freelio-api/internal/infrastructure/database"
	"github.com/freelio/freelio-api/internal/infrastructure/repository"
	"github.com/freelio/freelio-api/internal/presentation/http/handler"
	"github.com/freelio/freelio-api/internal/presentation/http/routes"
	"github.com/freelio/freelio-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	txManager := database.NewTxManager(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	clientService := service.NewClientService(clientRepo, userRepo)
	projectService := service.NewProjectService(projectRepo, clientRepo)
	budgetService := service.NewBudgetService(budgetRepo, invoiceRepo, projectRepo, txManager)
	invoiceService := service.NewInvoiceService(invoiceRepo, txManager)
	dashboardService := service.NewDashboardService(invoiceRepo, userRepo)

	// Initialize handlers
	h := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Client:    handler.NewClientHandler(clientService),
		Project:   handler.NewProjectHandler(projectService),
		Budget:    handler.NewBudgetHandler(budgetService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	// Setup router
	router := routes.Setup(h, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	// Start server
	addr := ":" + cfg.App.Port
	log.Printf("Starting %s on %s (env: %s)", cfg.App.Name, addr, cfg.App.Env)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
