package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"vira/internal/adapter/api"
	"vira/internal/adapter/api/handler"
	apimiddleware "vira/internal/adapter/api/middleware"
	"vira/internal/adapter/api/router"
	"vira/internal/adapter/repository"
	"vira/internal/infrastructure/catalog"
	"vira/internal/infrastructure/localstorage"
	"vira/internal/infrastructure/ratelimit"
	"vira/internal/infrastructure/scheduler"
	"vira/internal/infrastructure/telemetry"
	"vira/internal/infrastructure/token"
	"vira/internal/infrastructure/websocket"
	"vira/internal/usecase"
	"vira/pkg/config"
	"vira/pkg/logger"
	"vira/pkg/response"
)

const (
	serviceName    = "vira"
	serviceVersion = "1.0.0"

	authRatePerMinute    = 10
	generalRatePerMinute = 300
	rateLimiterIdle      = 30 * time.Minute
	jobTimeout           = time.Minute
	shutdownTimeout      = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(logger.Options{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracing, err := telemetry.Setup(serviceName, serviceVersion, cfg.TracingEnabled, nil)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	backend, err := localstorage.Open(localstorage.Options{
		Driver:        cfg.StorageDriver,
		BoltPath:      cfg.BoltPath,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	bus := EventBus.New()
	storage := localstorage.NewObserved(backend, bus)
	defer storage.Close()
	logger.Info("Storage ready: driver=%s", cfg.StorageDriver)

	cat, err := catalog.Default()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	locker := localstorage.NewLocker()
	userRepo := repository.NewKVUserRepository(storage)
	orderRepo := repository.NewKVOrderRepository(storage, locker)
	conversationRepo := repository.NewKVConversationRepository(storage, locker)
	favoriteRepo := repository.NewKVFavoriteRepository(storage, locker)
	catalogRepo := repository.NewStaticCatalogRepository(cat)

	tokens := token.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)
	limiter := ratelimit.NewRateLimiter(map[string]ratelimit.Limit{
		apimiddleware.ActionAuth:  {Events: authRatePerMinute, Window: time.Minute},
		usecase.ActionSendMessage: {Events: cfg.MessageRatePerMinute, Window: time.Minute},
	}, ratelimit.Limit{Events: generalRatePerMinute, Window: time.Minute})

	authUseCase := usecase.NewAuthUseCase(userRepo, tokens)
	chatUseCase := usecase.NewChatUseCase(conversationRepo, catalogRepo, limiter)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, catalogRepo, cfg.OrderCancelWindow, cfg.FulfilmentCompleteAfter)

	wsManager := websocket.NewManager()
	if err := wsManager.Subscribe(bus); err != nil {
		log.Fatalf("Failed to subscribe feed: %v", err)
	}
	wsManager.Start(ctx)

	handlers := handler.Setup(handler.UseCases{
		Auth:        authUseCase,
		User:        usecase.NewUserUseCase(userRepo, orderRepo),
		Marketplace: usecase.NewMarketplaceUseCase(catalogRepo, favoriteRepo, conversationRepo),
		Order:       orderUseCase,
		Chat:        chatUseCase,
		Favorite:    usecase.NewFavoriteUseCase(favoriteRepo, catalogRepo),
		Seller:      usecase.NewSellerUseCase(userRepo, orderRepo, catalogRepo, chatUseCase),
	}, storage, wsManager)

	jobs := scheduler.New(jobTimeout)
	if cfg.FulfilmentEnabled {
		if err := jobs.Add("order-fulfilment", cfg.FulfilmentSchedule, func(ctx context.Context) error {
			_, err := orderUseCase.AdvanceFulfilment(ctx)
			return err
		}); err != nil {
			log.Fatalf("Failed to schedule fulfilment: %v", err)
		}
	}
	if err := jobs.Add("token-prune", "@hourly", func(ctx context.Context) error {
		if n := tokens.Prune(time.Now()); n > 0 {
			logger.Debug("Pruned %d revoked tokens", n)
		}
		return nil
	}); err != nil {
		log.Fatalf("Failed to schedule token prune: %v", err)
	}
	if err := jobs.Add("rate-limit-cleanup", "@every 10m", func(ctx context.Context) error {
		if n := limiter.Cleanup(rateLimiterIdle); n > 0 {
			logger.Debug("Dropped %d idle rate limit buckets", n)
		}
		return nil
	}); err != nil {
		log.Fatalf("Failed to schedule rate limit cleanup: %v", err)
	}
	jobs.Start()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, apimiddleware.HeaderDeviceID},
		ExposeHeaders: []string{apimiddleware.HeaderDeviceID, "Retry-After"},
	}))

	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler

	router.Setup(e, handlers, router.Middlewares{
		Device:  apimiddleware.NewDeviceMiddleware(cfg.SessionSecret, !cfg.IsDevelopment()),
		Auth:    apimiddleware.NewAuthMiddleware(authUseCase),
		Limiter: limiter,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           otelhttp.NewHandler(e, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
	jobs.Stop(shutdownCtx)
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		logger.Error("Tracing shutdown failed: %v", err)
	}
}
