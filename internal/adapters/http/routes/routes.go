package routes

import (
	"daf-fencereg/internal/adapters/http/handlers"
	"daf-fencereg/internal/adapters/http/middleware"
	"daf-fencereg/internal/adapters/persistence/repositories"
	"daf-fencereg/internal/config"
	"daf-fencereg/internal/core/services"
	"daf-fencereg/internal/pkg/fedid"
	"daf-fencereg/internal/pkg/gateway"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.PaymentService {
	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	feeRepo := repositories.NewFeeRepository(db)
	districtRepo := repositories.NewDistrictRepository(db)

	// Payment gateway client
	gw := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.AppID, cfg.Gateway.SecretKey)

	// Initialize services
	authService := services.NewAuthService(accountRepo, refreshTokenRepo, districtRepo, cfg)
	accountService := services.NewAccountService(accountRepo, refreshTokenRepo)
	applicationService := services.NewApplicationService(applicationRepo, accountRepo, districtRepo, fedid.NewCounterGenerator())
	paymentService := services.NewPaymentService(paymentRepo, feeRepo, accountRepo, applicationRepo, districtRepo, gw, gateway.DefaultRetryPolicy())
	feeService := services.NewFeeService(feeRepo)
	districtService := services.NewDistrictService(districtRepo, accountRepo)
	dashboardService := services.NewDashboardService(applicationRepo, paymentRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	accountHandler := handlers.NewAccountHandler(accountService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	feeHandler := handlers.NewFeeHandler(feeService)
	districtHandler := handlers.NewDistrictHandler(districtService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// District directory (public listing, super admin management)
	districtRoutes := apiV1.Group("/districts")
	setupDistrictRoutes(districtRoutes, districtHandler, cfg)

	// Fee schedule (public reads, super admin writes)
	feeRoutes := apiV1.Group("/fees")
	setupFeeRoutes(feeRoutes, feeHandler, cfg)

	// Payment-gated registration (public: the applicant has no account yet)
	paymentRoutes := apiV1.Group("/payments")
	setupPaymentRoutes(paymentRoutes, paymentHandler, cfg)

	// Applications (authenticated)
	applicationRoutes := apiV1.Group("/applications")
	applicationRoutes.Use(middleware.AuthMiddleware(cfg))
	setupApplicationRoutes(applicationRoutes, applicationHandler)

	// Accounts (authenticated; roster is super admin only)
	accountRoutes := apiV1.Group("/accounts")
	accountRoutes.Use(middleware.AuthMiddleware(cfg))
	setupAccountRoutes(accountRoutes, accountHandler)

	// Dashboard (admins)
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Use(middleware.AdminOnly())
	dashboardRoutes.Get("/stats", dashboardHandler.Stats)

	return paymentService
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (5 req/min/IP)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupDistrictRoutes configures district directory routes
func setupDistrictRoutes(router fiber.Router, handler *handlers.DistrictHandler, cfg *config.Config) {
	// Public: applicants need the directory to fill the form
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)

	// Super admin management
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.SuperAdminOnly())
	adminRoutes.Post("/", handler.Create)
	adminRoutes.Put("/:id", handler.Update)
	adminRoutes.Delete("/:id", handler.Delete)
}

// setupFeeRoutes configures fee schedule routes
func setupFeeRoutes(router fiber.Router, handler *handlers.FeeHandler, cfg *config.Config) {
	// Public: the checkout page shows the fee before payment
	router.Get("/", handler.List)
	router.Get("/:userType", handler.Get)

	// Super admin management
	router.Put("/", middleware.AuthMiddleware(cfg), middleware.SuperAdminOnly(), handler.Update)
}

// setupPaymentRoutes configures payment routes
func setupPaymentRoutes(router fiber.Router, handler *handlers.PaymentHandler, cfg *config.Config) {
	// Public checkout flow (3 req/min/IP on session creation)
	router.Post("/session", middleware.StrictRateLimiter(), handler.CreateSession)
	router.Post("/:orderID/verify", middleware.AuthRateLimiter(), handler.Verify)
	router.Post("/:orderID/confirm", middleware.AuthRateLimiter(), handler.Confirm)

	// Super admin order listing
	router.Get("/", middleware.AuthMiddleware(cfg), middleware.SuperAdminOnly(), handler.ListOrders)
}

// setupApplicationRoutes configures application routes
func setupApplicationRoutes(router fiber.Router, handler *handlers.ApplicationHandler) {
	// Applicant routes
	router.Post("/", handler.Submit)
	router.Get("/me", handler.GetOwn)
	router.Post("/:id/resubmit", handler.Resubmit)

	// Review routes (scope is enforced in the service)
	router.Get("/", middleware.AdminOnly(), handler.List)
	router.Get("/:id", middleware.AdminOnly(), handler.Get)
	router.Post("/:id/approve", middleware.AdminOnly(), handler.Approve)
	router.Post("/:id/reject", middleware.AdminOnly(), handler.Reject)
}

// setupAccountRoutes configures account routes
func setupAccountRoutes(router fiber.Router, handler *handlers.AccountHandler) {
	// Self-service
	router.Put("/password", handler.ChangePassword)

	// Super admin roster
	router.Get("/", middleware.SuperAdminOnly(), handler.List)
	router.Get("/:id", middleware.SuperAdminOnly(), handler.Get)
	router.Post("/:id/deactivate", middleware.SuperAdminOnly(), handler.Deactivate)
}
