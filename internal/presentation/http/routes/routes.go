package routes

import (
	"time"

	"github.com/freelio/freelio-api/internal/config"
	"github.com/freelio/freelio-api/internal/presentation/http/handler"
	"github.com/freelio/freelio-api/internal/presentation/http/middleware"
	"github.com/freelio/freelio-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Client    *handler.ClientHandler
	Project   *handler.ProjectHandler
	Budget    *handler.BudgetHandler
	Invoice   *handler.InvoiceHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Profile routes
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/auth/me", h.Auth.UpdateProfile)
	protected.POST("/auth/change-password", h.Auth.ChangePassword)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.Summary)

	// Writes are restricted to freelancer accounts; client logins keep the
	// read routes so they can check their own documents.
	freelancer := protected.Group("")
	freelancer.Use(middleware.RequireFreelancer())

	// Clients
	clients := protected.Group("/clients")
	{
		clients.GET("", h.Client.List)
		clients.GET("/:id", h.Client.Get)
	}
	clientWrites := freelancer.Group("/clients")
	{
		clientWrites.POST("", h.Client.Create)
		clientWrites.PUT("/:id", h.Client.Update)
		clientWrites.DELETE("/:id", h.Client.Delete)
	}

	// Projects
	projects := protected.Group("/projects")
	{
		projects.GET("", h.Project.List)
		projects.GET("/:id", h.Project.Get)
	}
	projectWrites := freelancer.Group("/projects")
	{
		projectWrites.POST("", h.Project.Create)
		projectWrites.PUT("/:id", h.Project.Update)
		projectWrites.DELETE("/:id", h.Project.Delete)
	}

	// Budgets
	budgets := protected.Group("/budgets")
	{
		budgets.GET("", h.Budget.List)
		budgets.GET("/:id", h.Budget.Get)
	}
	budgetWrites := freelancer.Group("/budgets")
	{
		budgetWrites.POST("", h.Budget.Create)
		budgetWrites.PUT("/:id", h.Budget.Update)
		budgetWrites.DELETE("/:id", h.Budget.Delete)
		budgetWrites.POST("/:id/send", h.Budget.Send)
		budgetWrites.POST("/:id/accept", h.Budget.Accept)
		budgetWrites.POST("/:id/convert", h.Budget.Convert)
	}

	// Invoices
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
	}
	invoiceWrites := freelancer.Group("/invoices")
	{
		invoiceWrites.POST("/:id/payments", h.Invoice.RegisterPayment)
		invoiceWrites.POST("/:id/void", h.Invoice.Void)
	}
}
