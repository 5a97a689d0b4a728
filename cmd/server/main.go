package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Adapters
	grpcAdapter "github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/grpc"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/handler"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/middleware"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/router"
	natsAdapter "github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/messaging/nats"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/repository/gormdb"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/token"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/mailer"

	// Config
	"github.com/24-30496-max/project-helping-hand-2.0/internal/config"
	// Domain & Usecase
	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/usecase"
	// Platform
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/metrics"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/tracer"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	metricsNamespace = "helping_hand"
	shutdownTimeout  = 10 * time.Second
)

func main() {
	// Load .env file (optional, for local development)
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	// 1. Logger
	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()

	// 2. Configuration
	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Application starting...",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("db_driver", cfg.DBDriver),
		zap.Bool("redis_configured", cfg.RedisAddress != ""),
		zap.Bool("nats_configured", cfg.NATSURL != ""),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
	)

	// 3. Tracer
	tp := tracer.InitTracer(cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	// 4. Database
	db, err := gormdb.Open(cfg.DBDriver, cfg.DBDSN, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		appLogger.Info("Closing database...")
		if err := gormdb.Close(db); err != nil {
			appLogger.Error("Error closing database", zap.Error(err))
		}
	}()
	store := gormdb.NewStore(db)
	dbCheck := func(ctx context.Context) error { return gormdb.Ping(ctx, db) }

	// 5. Token revocation store
	var revocations token.RevocationStore
	if cfg.RedisAddress != "" {
		ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := token.NewRedisClient(ctxPing, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		cancelPing()
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.String("address", cfg.RedisAddress), zap.Error(err))
		}
		defer redisClient.Close()
		revocations = token.NewRedisRevocationStore(redisClient)
		appLogger.Info("Token revocations stored in Redis", zap.String("address", cfg.RedisAddress))
	} else {
		revocations = token.NewMemoryRevocationStore()
		appLogger.Warn("REDIS_ADDRESS not set, token revocations are kept in process memory.")
	}
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL, revocations, appLogger)

	// 6. Event publisher
	var publisher domain.EventPublisher = domain.NopPublisher{}
	if cfg.NATSURL != "" {
		natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
		if err != nil {
			appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	} else {
		appLogger.Info("NATS_URL not set, domain events are not published.")
	}

	// 7. Notification mailer
	var (
		notificationMailer domain.NotificationMailer = domain.NopMailer{}
		mailQueue          *mailer.Queue
	)
	smtpCfg := mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		Sender:   cfg.SMTPSender,
	}
	if smtpCfg.Configured() {
		mailQueue = mailer.NewQueue(mailer.New(smtpCfg, appLogger), cfg.MailQueueSize, appLogger)
		mailQueue.Start(cfg.MailWorkers)
		notificationMailer = mailQueue
		appLogger.Info("Notification e-mails enabled",
			zap.String("smtp_host", cfg.SMTPHost),
			zap.Int("mail_workers", cfg.MailWorkers),
			zap.Int("mail_queue_size", cfg.MailQueueSize))
	} else {
		appLogger.Info("SMTP not fully configured, notifications are not e-mailed.")
	}

	// 8. Metrics
	metricsManager := metrics.NewMetricsManager(metricsNamespace)

	// 9. Usecases
	hasher, err := usecase.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		appLogger.Fatal("Invalid BCRYPT_COST", zap.Error(err))
	}
	notificationUC := usecase.NewNotificationUsecase(store, publisher, notificationMailer, metricsManager, appLogger)
	authUC := usecase.NewAuthUsecase(store, hasher, publisher, metricsManager, appLogger)
	userUC := usecase.NewUserUsecase(store, notificationUC, appLogger)
	listingUC := usecase.NewListingUsecase(store, publisher, metricsManager, appLogger, cfg.SearchCaseInsensitive)
	interestUC := usecase.NewInterestUsecase(store, notificationUC, publisher, metricsManager, appLogger)
	feedbackUC := usecase.NewFeedbackUsecase(store, notificationUC, publisher, metricsManager, appLogger)
	adminUC := usecase.NewAdminUsecase(store, publisher, metricsManager, appLogger)

	admins := make([]usecase.AdminCredential, 0, len(cfg.AdminAccounts))
	for _, a := range cfg.AdminAccounts {
		admins = append(admins, usecase.AdminCredential{Username: a.Username, Password: a.Password})
	}
	ctxProvision, cancelProvision := context.WithTimeout(context.Background(), 30*time.Second)
	err = authUC.ProvisionAdmins(ctxProvision, admins)
	cancelProvision()
	if err != nil {
		appLogger.Fatal("Failed to provision admin accounts", zap.Error(err))
	}

	// 10. HTTP API
	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	authLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, appLogger)
	authLimiter.StartCleanup(rootCtx, 10*time.Minute)

	api := router.NewRouter(router.Handlers{
		Auth:          handler.NewAuthHandler(authUC, userUC, tokens, appLogger),
		Listings:      handler.NewListingHandler(listingUC, appLogger),
		Interactions:  handler.NewInteractionHandler(interestUC, feedbackUC, appLogger),
		Notifications: handler.NewNotificationHandler(notificationUC, appLogger),
		Admin:         handler.NewAdminHandler(adminUC, appLogger),
		Users:         handler.NewUserHandler(userUC, appLogger),
	}, router.Options{
		Authenticator:  middleware.NewAuthenticator(tokens, authUC, appLogger),
		AuthLimiter:    authLimiter,
		TrustedProxies: cfg.TrustedProxies,
		Metrics:        metricsManager,
		Logger:         appLogger,
		HealthCheck:    dbCheck,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		appLogger.Info("HTTP server listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 11. gRPC health
	var healthServer *grpcAdapter.HealthServer
	if cfg.GRPCHealthPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCHealthPort)
		if err != nil {
			appLogger.Fatal("Failed to listen for gRPC health", zap.String("port", cfg.GRPCHealthPort), zap.Error(err))
		}
		healthServer = grpcAdapter.NewHealthServer(cfg.ServiceName, appLogger)
		healthServer.Watch(rootCtx, 15*time.Second, dbCheck)
		go func() {
			if err := healthServer.Serve(lis); err != nil {
				appLogger.Fatal("gRPC health server failed", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("GRPC_HEALTH_PORT not set, gRPC health server will not start.")
	}

	// 12. Prometheus metrics
	if cfg.PrometheusMetricsPort != "" {
		go func() {
			if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("Prometheus metrics server not started (PROMETHEUS_METRICS_PORT not set).")
	}

	// 13. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	stopBackground()
	if healthServer != nil {
		healthServer.Stop()
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if mailQueue != nil {
		if err := mailQueue.Close(ctxShutdown); err != nil {
			appLogger.Warn("Pending notification e-mails dropped", zap.Error(err))
		}
	}
	appLogger.Info("Application shutting down...")
}
