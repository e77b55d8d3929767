package main

import (
	"context"
	"fmt"

	catalogapp "github.com/crm/backend/internal/application/catalog"
	identityapp "github.com/crm/backend/internal/application/identity"
	partnerapp "github.com/crm/backend/internal/application/partner"
	reportapp "github.com/crm/backend/internal/application/report"
	tradeapp "github.com/crm/backend/internal/application/trade"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// loginPath is the only API route reachable without a token
const loginPath = router.DefaultBasePath + "/account/login"

// newEngine wires repositories, services and handlers onto a gin engine.
// redisClient may be nil, in which case the report cache and the rate
// limiters keep their state in process memory. A nil or disabled
// meterProvider turns the HTTP and business metrics off.
func newEngine(
	ctx context.Context,
	cfg *config.Config,
	db *gorm.DB,
	health handler.Pinger,
	redisClient *redis.Client,
	meterProvider *telemetry.MeterProvider,
	log *zap.Logger,
) (*gin.Engine, error) {
	// Report cache, cleared by every committed write
	reportCache := cache.NewReportCache(redisClient, log)
	if err := cache.RegisterInvalidation(db, reportCache, log); err != nil {
		return nil, err
	}

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db)
	contactRepo := persistence.NewGormContactEventRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	lineItemRepo := persistence.NewGormOrderLineItemRepository(db)
	statusEventRepo := persistence.NewGormOrderStatusEventRepository(db)
	serviceRepo := persistence.NewGormServiceRepository(db)
	ratingRepo := persistence.NewGormServiceRatingRepository(db)
	accountRepo := persistence.NewGormAccountRepository(db)
	reportRepo := persistence.NewGormReportRepository(db)

	// Application services
	customerService := partnerapp.NewCustomerService(customerRepo, log)
	importService := partnerapp.NewCustomerImportService(customerRepo, log)
	contactService := partnerapp.NewContactService(contactRepo, customerRepo, log)
	tierService := partnerapp.NewTierService(customerRepo, orderRepo, log)
	orderService := tradeapp.NewOrderService(orderRepo, customerRepo, tierService, log)
	lineItemService := tradeapp.NewLineItemService(lineItemRepo, orderRepo)
	statusEventService := tradeapp.NewStatusEventService(statusEventRepo, orderRepo)
	serviceService := catalogapp.NewServiceService(serviceRepo, log)
	ratingService := catalogapp.NewRatingService(ratingRepo, serviceRepo, customerRepo, log)
	reportService := reportapp.NewReportService(reportRepo, reportCache, cfg.Report.CacheTTL, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(accountRepo, jwtService, log)
	accountService := identityapp.NewAccountService(accountRepo, log)

	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:  meterProvider.Meter("crm.business"),
			Logger: log,
		})
		if err != nil {
			return nil, fmt.Errorf("business metrics: %w", err)
		}
		tierService.SetBusinessMetrics(businessMetrics)
		importService.SetBusinessMetrics(businessMetrics)
		orderService.SetBusinessMetrics(businessMetrics)
		authService.SetBusinessMetrics(businessMetrics)
	}

	if _, err := accountService.BootstrapAdmin(ctx, cfg.Auth.BootstrapAdminUsername, cfg.Auth.BootstrapAdminPassword); err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	// HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService, importService, reportService)
	contactHandler := handler.NewContactHandler(contactService, reportService)
	orderHandler := handler.NewOrderHandler(orderService, reportService)
	lineItemHandler := handler.NewLineItemHandler(lineItemService, reportService)
	statusEventHandler := handler.NewStatusEventHandler(statusEventService, reportService)
	serviceHandler := handler.NewServiceHandler(serviceService, reportService)
	ratingHandler := handler.NewRatingHandler(ratingService, reportService)
	ratingStatsHandler := handler.NewRatingStatisticsHandler(reportService)
	accountHandler := handler.NewAccountHandler(authService, accountService, reportService)
	healthHandler := handler.NewHealthHandler(health)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Tracing - Start the server span
	// 4. Metrics - Count and time requests per route
	// 5. Profiling - Label CPU samples with the route
	// 6. Logger - Log requests with the trace ID
	// 7. Security - Add security headers
	// 8. CORS - Handle cross-origin requests
	// 9. BodyLimit - Limit request body size
	// 10. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(meterProvider))
	profilingConfig := middleware.DefaultProfilingConfig()
	profilingConfig.Enabled = cfg.Telemetry.ProfilingEnabled
	engine.Use(middleware.ProfilingWithConfig(profilingConfig))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter, err := middleware.NewRateLimiterWithRate(limiter.Rate{
			Period: cfg.HTTP.RateLimitWindow,
			Limit:  int64(cfg.HTTP.RateLimitRequests),
		}, "crm_http", redisClient)
		if err != nil {
			return nil, err
		}
		engine.Use(middleware.RateLimit(rateLimiter, log))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside the API prefix)
	engine.GET("/health", healthHandler.Check)

	// Swagger documentation endpoint, optionally behind the same token check as the API
	swaggerAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Logger:     log,
	})
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, swaggerAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	loginLimiter, err := middleware.NewRateLimiter(cfg.Auth.LoginRateLimit, "crm_login", redisClient)
	if err != nil {
		return nil, fmt.Errorf("login rate limit: %w", err)
	}

	// API routes, all behind JWT except login
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  []string{loginPath},
		Logger:     log,
	}
	r := router.NewRouter(engine, router.WithMiddleware(
		middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		middleware.TracingAttributeInjector(),
	))

	// Customers: fixed paths first so they are not taken for an :id
	customerRoutes := router.NewDomainGroup("customer", "/customer")
	customerRoutes.GET("/dropdown", customerHandler.Dropdown)
	customerRoutes.GET("/count-vip", customerHandler.CountVIP)
	customerRoutes.GET("/available-years", customerHandler.AvailableYears)
	customerRoutes.GET("/monthly-growth/:year", customerHandler.MonthlyGrowth)
	customerRoutes.GET("/download-template", customerHandler.DownloadTemplate)
	customerRoutes.GET("/export-excel", customerHandler.ExportExcel)
	customerRoutes.POST("/import-preview", customerHandler.ImportPreview)
	customerRoutes.POST("/import", customerHandler.Import)
	customerRoutes.POST("/check-duplicate", customerHandler.CheckDuplicate)
	customerRoutes.CRUD(customerHandler)

	contactRoutes := router.NewDomainGroup("contact", "/contact")
	contactRoutes.GET("/thongke-ketqua", contactHandler.Outcomes)
	contactRoutes.CRUD(contactHandler)

	orderRoutes := router.NewDomainGroup("order", "/order")
	orderRoutes.GET("/dropdown", orderHandler.Dropdown)
	orderRoutes.CRUD(orderHandler)

	lineItemRoutes := router.NewDomainGroup("order-line-item", "/order-line-item").CRUD(lineItemHandler)
	statusEventRoutes := router.NewDomainGroup("order-status-event", "/order-status-event").CRUD(statusEventHandler)

	serviceRoutes := router.NewDomainGroup("service", "/service")
	serviceRoutes.GET("/dropdown", serviceHandler.Dropdown)
	serviceRoutes.CRUD(serviceHandler)

	ratingRoutes := router.NewDomainGroup("service-rating", "/service-rating").CRUD(ratingHandler)

	ratingStatsRoutes := router.NewDomainGroup("rating-statistics", "/rating-statistics")
	ratingStatsRoutes.GET("/phan-tram", ratingStatsHandler.Percentages)
	ratingStatsRoutes.GET("/thongke-danhgia-dichvu-nhanvien", ratingStatsHandler.Breakdown)

	// Accounts: only admins may change them
	accountRoutes := router.NewDomainGroup("account", "/account")
	accountRoutes.POST("/login", middleware.RateLimit(loginLimiter, log), accountHandler.Login)
	accountRoutes.GET("/me", accountHandler.Me)
	accountRoutes.CRUD(accountHandler, middleware.RequireRole(identity.RoleAdmin))

	r.Register(customerRoutes).
		Register(contactRoutes).
		Register(orderRoutes).
		Register(lineItemRoutes).
		Register(statusEventRoutes).
		Register(serviceRoutes).
		Register(ratingRoutes).
		Register(ratingStatsRoutes).
		Register(accountRoutes)

	r.Setup()

	return engine, nil
}
