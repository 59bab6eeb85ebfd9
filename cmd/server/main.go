package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/contasapp/contas/internal/adapter/http"
	"github.com/contasapp/contas/internal/adapter/http/handler"
	"github.com/contasapp/contas/internal/adapter/http/middleware"
	postgresRepo "github.com/contasapp/contas/internal/adapter/repository/postgres"
	redisRepo "github.com/contasapp/contas/internal/adapter/repository/redis"
	"github.com/contasapp/contas/internal/infrastructure/auth"
	"github.com/contasapp/contas/internal/infrastructure/config"
	"github.com/contasapp/contas/internal/infrastructure/eventpublisher"
	"github.com/contasapp/contas/internal/infrastructure/logger"
	"github.com/contasapp/contas/internal/infrastructure/metrics"
	"github.com/contasapp/contas/internal/infrastructure/postgres"
	"github.com/contasapp/contas/internal/infrastructure/redis"
	"github.com/contasapp/contas/internal/usecase"
)

// redisPinger adapts the redis client's Ping to the health probe.
type redisPinger struct {
	client *goredis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logg := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = logg

	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logg.Fatal().Err(err).Msg("failed to run migrations")
	}
	logg.Info().Msg("migrations applied")

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	logg.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	logg.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	customerRepo := postgresRepo.NewCustomerRepository(pool)
	saleRepo := postgresRepo.NewSaleRepository(pool)
	quoteRepo := postgresRepo.NewQuoteRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	subscriptionRepo := postgresRepo.NewSubscriptionRepository(pool)
	paymentRepo := postgresRepo.NewSubscriptionPaymentRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	m := metrics.New()

	// Use cases
	customerUC := usecase.NewCustomerUseCase(customerRepo, idGen)
	entryUC := usecase.NewEntryUseCase(txManager, entryRepo, idGen)
	saleUC := usecase.NewSaleUseCase(txManager, saleRepo, entryRepo, customerRepo, outboxRepo, auditRepo, idGen, m)
	quoteUC := usecase.NewQuoteUseCase(txManager, quoteRepo, saleRepo, entryRepo, customerRepo, outboxRepo, auditRepo, idGen, m)
	paymentUC := usecase.NewPaymentUseCase(txManager, entryRepo, saleRepo, outboxRepo, auditRepo, idGen, m).
		WithRetrier(retrier)
	subscriptionUC := usecase.NewSubscriptionUseCase(txManager, subscriptionRepo, paymentRepo, entryRepo, customerRepo, outboxRepo, auditRepo, idGen, m)
	reportUC := usecase.NewReportUseCase(entryRepo, subscriptionRepo, paymentRepo, cache)
	backupUC := usecase.NewBackupUseCase(txManager, customerRepo, quoteRepo, saleRepo, subscriptionRepo, entryRepo, paymentRepo, auditRepo, idGen, m)
	userUC := usecase.NewUserUseCase(userRepo, auditRepo, idGen)
	auditUC := usecase.NewAuditUseCase(auditRepo)

	// Outbox publisher
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  redisRepo.NewPublisher(redisClient, "events"),
		BatchSize:  cfg.PublishBatch,
		Interval:   cfg.PublishInterval,
	})
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && publisherCtx.Err() == nil {
			logg.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Auth
	var authMiddleware *middleware.AuthMiddleware
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	if cfg.AuthEnabled {
		if cfg.JWTSecret == "" {
			logg.Fatal().Msg("AUTH_ENABLED requires JWT_SECRET")
		}
		authMiddleware = middleware.NewAuthMiddleware(jwtManager)
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CustomerHandler:     handler.NewCustomerHandler(customerUC),
		SaleHandler:         handler.NewSaleHandler(saleUC),
		QuoteHandler:        handler.NewQuoteHandler(quoteUC),
		EntryHandler:        handler.NewEntryHandler(entryUC, paymentUC),
		SubscriptionHandler: handler.NewSubscriptionHandler(subscriptionUC),
		ReportHandler:       handler.NewReportHandler(reportUC),
		BackupHandler:       handler.NewBackupHandler(backupUC),
		AuditHandler:        handler.NewAuditHandler(auditUC),
		AuthHandler:         handler.NewAuthHandler(userUC, jwtManager),
		UserHandler:         handler.NewUserHandler(userUC),
		HealthHandler:       handler.NewHealthHandler(pool, redisPinger{redisClient}),
		AuthMiddleware:      authMiddleware,
		RateLimiter:         rateLimiter,
		IdempotencyStore:    idempotencyStore,
		IdempotencyTTL:      cfg.IdempotencyTTL,
		Logger:              logg,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		logg.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info().Msg("shutting down server...")
	stopPublisher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logg.Info().Msg("server stopped")
}
