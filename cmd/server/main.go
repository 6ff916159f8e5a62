package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/dentalhr/backend/internal/application/billing"
	identityapp "github.com/dentalhr/backend/internal/application/identity"
	manualapp "github.com/dentalhr/backend/internal/application/manual"
	"github.com/dentalhr/backend/internal/application/validators"
	"github.com/dentalhr/backend/internal/infrastructure/auth"
	"github.com/dentalhr/backend/internal/infrastructure/billing"
	"github.com/dentalhr/backend/internal/infrastructure/cache"
	"github.com/dentalhr/backend/internal/infrastructure/config"
	"github.com/dentalhr/backend/internal/infrastructure/external"
	"github.com/dentalhr/backend/internal/infrastructure/logger"
	"github.com/dentalhr/backend/internal/infrastructure/persistence"
	"github.com/dentalhr/backend/internal/infrastructure/telemetry"
	"github.com/dentalhr/backend/internal/interfaces/http/handler"
	"github.com/dentalhr/backend/internal/interfaces/http/middleware"
	"github.com/dentalhr/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	shutdownTimeout    = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting DentalHR backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry first so the database plugin and services pick up the global providers
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meterProvider.Meter("dentalhr"),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), slowQueryThreshold)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      !cfg.App.IsProduction(),
		SlowQueryThresh: slowQueryThreshold,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("Database tracing not installed", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Shared store: Redis when reachable, in-memory otherwise
	store, redisClient, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create cache store", zap.Error(err))
	}
	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		defer func() { _ = redisClient.Close() }()
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	registrationRepo := persistence.NewGormRegistrationRepository(db.DB)
	articleRepo := persistence.NewGormArticleRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	ackRepo := persistence.NewGormAcknowledgmentRepository(db.DB)
	checklistRepo := persistence.NewGormChecklistRepository(db.DB)
	executionRepo := persistence.NewGormExecutionRepository(db.DB)

	// Billing is optional: without a Stripe key no customer is created and the webhook is not mounted
	var (
		customers      identityapp.CustomerCreator
		webhookHandler *handler.StripeWebhookHandler
	)
	if cfg.Stripe.Enabled() {
		stripeAdapter := billing.NewStripeAdapter(cfg.Stripe, log)
		customers = stripeAdapter
		webhookService := billingapp.NewStripeWebhookService(billingapp.StripeWebhookServiceConfig{
			Verifier:    stripeAdapter,
			TenantRepo:  tenantRepo,
			Idempotency: store,
			Logger:      log,
		})
		webhookService.SetBusinessMetrics(businessMetrics)
		webhookHandler = handler.NewStripeWebhookHandler(webhookService)
		log.Info("Stripe billing enabled")
	} else {
		log.Warn("Stripe billing disabled: no secret key configured")
	}

	// Application services
	authService := identityapp.NewAuthService(identityapp.AuthServiceConfig{
		UserRepo:         userRepo,
		TenantRepo:       tenantRepo,
		RegistrationRepo: registrationRepo,
		JWTService:       jwtService,
		Blacklist:        blacklist,
		Customers:        customers,
		Logger:           log,
	})
	employeeService := identityapp.NewEmployeeService(identityapp.EmployeeServiceConfig{
		EmployeeRepo:     employeeRepo,
		UserRepo:         userRepo,
		RegistrationRepo: registrationRepo,
		Blacklist:        blacklist,
		SessionTTL:       cfg.JWT.RefreshTokenExpiration,
		Logger:           log,
	})
	tenantResolver := identityapp.NewTenantResolver(membershipRepo, tenantRepo, employeeRepo)

	articleService := manualapp.NewArticleService(articleRepo, categoryRepo, log)
	articleService.SetBusinessMetrics(businessMetrics)
	categoryService := manualapp.NewCategoryService(categoryRepo, articleRepo)
	ackService := manualapp.NewAcknowledgmentService(articleRepo, ackRepo, employeeRepo, log)
	ackService.SetBusinessMetrics(businessMetrics)
	checklistService := manualapp.NewChecklistService(checklistRepo, executionRepo, categoryRepo, log)
	checklistService.SetBusinessMetrics(businessMetrics)

	validatorService := validators.NewService(
		external.NewRatesClient(cfg.External, store, log),
		external.NewHolidaysClient(cfg.External, store, log),
		external.NewEmailValidator(nil, cfg.External.Timeout, log),
	)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID so every log line and span can carry it
	// 2. Tracing opens the server span the rest of the chain runs in
	// 3. Recovery and access log
	// 4. Security headers, CORS, body limit, global rate limit
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tracerProvider.IsEnabled()))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure(cfg.App.IsProduction()))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var limiters []*middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		globalLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limiters = append(limiters, globalLimiter)
		engine.Use(middleware.RateLimit(globalLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	limiters = append(limiters, authLimiter)

	router.Mount(engine, router.Handlers{
		System:    handler.NewSystemHandler(db),
		Auth:      handler.NewAuthHandler(authService),
		Article:   handler.NewArticleHandler(articleService, ackService),
		Category:  handler.NewCategoryHandler(categoryService),
		Checklist: handler.NewChecklistHandler(checklistService),
		Employee:  handler.NewEmployeeHandler(employeeService),
		External:  handler.NewExternalHandler(validatorService),
		Webhook:   webhookHandler,
	}, router.Guards{
		JWT: middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			Blacklist:  blacklist,
			Logger:     log,
		}),
		Tenant: middleware.Tenant(middleware.TenantMiddlewareConfig{
			Resolver: tenantResolver,
			Logger:   log,
		}),
		AuthRateLimit: middleware.RateLimit(authLimiter),
	}, router.WithAPIVersion("v1"))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	for _, l := range limiters {
		l.Stop()
	}
	_ = store.Close()
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush logs", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
