package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/sickfits/backend/internal/application/cart"
	catalogapp "github.com/sickfits/backend/internal/application/catalog"
	identityapp "github.com/sickfits/backend/internal/application/identity"
	orderapp "github.com/sickfits/backend/internal/application/order"
	"github.com/sickfits/backend/internal/domain/shared/valueobject"
	"github.com/sickfits/backend/internal/infrastructure/auth"
	"github.com/sickfits/backend/internal/infrastructure/billing"
	"github.com/sickfits/backend/internal/infrastructure/cache"
	"github.com/sickfits/backend/internal/infrastructure/config"
	"github.com/sickfits/backend/internal/infrastructure/event"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"github.com/sickfits/backend/internal/infrastructure/mail"
	"github.com/sickfits/backend/internal/infrastructure/migration"
	"github.com/sickfits/backend/internal/infrastructure/persistence"
	"github.com/sickfits/backend/internal/infrastructure/storage"
	"github.com/sickfits/backend/internal/infrastructure/telemetry"
	"github.com/sickfits/backend/internal/interfaces/http/handler"
	"github.com/sickfits/backend/internal/interfaces/http/middleware"
	"github.com/sickfits/backend/internal/interfaces/http/router"
	"github.com/sickfits/backend/migrations"
	"go.uber.org/zap"
)

const gormSlowThreshold = 200 * time.Millisecond

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting sick-fits backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry first so the database plugin and HTTP middleware pick up
	// the global providers
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	// Database
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), gormSlowThreshold)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := migrateSchema(db, log); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:  cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", db.Driver()))

	// Redis-backed stores, in-memory outside production
	stores, err := cache.NewStores(ctx, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	)
	if err != nil {
		log.Fatal("Failed to initialize cache stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache stores", zap.Error(err))
		}
	}()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// External adapters
	gateway, err := billing.NewStripeGateway(cfg.Stripe, log)
	if err != nil {
		log.Fatal("Failed to initialize payment gateway", zap.Error(err))
	}
	mailer, err := mail.New(cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mailer", zap.Error(err))
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch())
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	checkoutMetrics, err := telemetry.NewCheckoutMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create checkout metrics", zap.Error(err))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	currency := valueobject.ParseCurrency(cfg.Stripe.Currency)

	authService := identityapp.NewAuthService(userRepo, jwtService, stores.Blacklist, eventBus, log)
	resetService := identityapp.NewPasswordResetService(userRepo, mailer, jwtService, stores.Blacklist, eventBus,
		identityapp.PasswordResetConfig{TokenTTL: cfg.Reset.TokenTTL, FrontendURL: cfg.CORS.FrontendURL}, log)
	userService := identityapp.NewUserService(userRepo, eventBus, log)

	itemOpts := []catalogapp.ItemServiceOption{catalogapp.WithEventPublisher(eventBus)}
	if cfg.Storage.Enabled {
		images, err := storage.NewS3ImageStorage(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		if err := images.EnsureBucket(ctx); err != nil {
			log.Warn("Image bucket is not ready", zap.String("bucket", images.Bucket()), zap.Error(err))
		}
		itemOpts = append(itemOpts, catalogapp.WithImageStorage(images, cfg.Storage.PresignExpiration))
	}
	itemService := catalogapp.NewItemService(itemRepo, log, itemOpts...)
	cartService := cartapp.NewCartService(cartRepo, itemRepo, currency, log)

	clearer := orderapp.NewCartClearer(cartRepo, cfg.Checkout.CartClearAttempts, cfg.Checkout.CartClearBackoff, checkoutMetrics, log)
	checkoutService := orderapp.NewCheckoutService(cartRepo, orderRepo, gateway, stores.Idempotency, clearer, eventBus, checkoutMetrics,
		orderapp.CheckoutConfig{
			Currency:       currency,
			PaymentTimeout: cfg.Stripe.PaymentTimeout,
			AttemptKeyTTL:  cfg.Checkout.AttemptKeyTTL,
		}, log)
	orderService := orderapp.NewOrderService(orderRepo, clearer, log)

	// Orders whose cart clear failed get one more background attempt
	cartClearHandler := orderapp.NewCartClearPendingHandler(clearer, log)
	eventBus.Subscribe(cartClearHandler)
	log.Info("Event handlers registered",
		zap.Strings("cart_clear_pending_events", cartClearHandler.EventTypes()),
	)

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	cookie := middleware.NewSessionCookie(cfg.Cookie)
	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.IsProduction()

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:      log,
		ServiceName: cfg.Telemetry.ServiceName,
		Tracing:     tracerProvider.IsEnabled(),
		Meter:       meter,
		HTTP:        cfg.HTTP,
		CORS:        cfg.CORS,
		Security:    security,
		Session: middleware.SessionConfig{
			JWT:       jwtService,
			Blacklist: stores.Blacklist,
			Cookie:    cookie,
			Logger:    log,
		},
		Users:  userRepo,
		Health: handler.NewHealthHandler(db),
		Handlers: router.Handlers{
			Auth:   handler.NewAuthHandler(authService, resetService, cookie),
			Users:  handler.NewUserHandler(userService),
			Items:  handler.NewItemHandler(itemService),
			Cart:   handler.NewCartHandler(cartService),
			Orders: handler.NewOrderHandler(checkoutService, orderService),
		},
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// migrateSchema applies the embedded SQL migrations on PostgreSQL and falls
// back to GORM AutoMigrate for SQLite development databases
func migrateSchema(db *persistence.Database, log *zap.Logger) error {
	if db.Driver() == "sqlite" {
		return db.AutoMigrate()
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared *sql.DB
	return m.Up()
}
