// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis_rate/v10"

	"github.com/carterperez-dev/delivery-admin/internal/admin"
	"github.com/carterperez-dev/delivery-admin/internal/auth"
	"github.com/carterperez-dev/delivery-admin/internal/config"
	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/delivery"
	"github.com/carterperez-dev/delivery-admin/internal/health"
	"github.com/carterperez-dev/delivery-admin/internal/middleware"
	"github.com/carterperez-dev/delivery-admin/internal/notify"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
	"github.com/carterperez-dev/delivery-admin/internal/server"
	"github.com/carterperez-dev/delivery-admin/internal/user"
	"github.com/carterperez-dev/delivery-admin/migrations"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if _, err := os.Stat(configPath); err != nil {
		configPath = ""
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Migrations.Auto {
		if err := core.Migrate(ctx, db, migrations.FS); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	codec, err := auth.NewCookieCodec(cfg.Session)
	if err != nil {
		return err
	}

	var notifier auth.Notifier
	if cfg.Kafka.Enabled {
		kafkaNotifier := notify.NewKafkaNotifier(cfg.Kafka, cfg.App.FrontendURL, logger)
		defer func() {
			if err := kafkaNotifier.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		notifier = kafkaNotifier
		logger.Info("kafka notifier enabled",
			"brokers", cfg.Kafka.Brokers,
			"topic", cfg.Kafka.Topic,
		)
	} else {
		notifier = notify.NewLogNotifier(cfg.App.FrontendURL, logger)
	}

	userRepo := user.NewRepository(db.DB)

	sessions := auth.NewSessionManager(
		auth.NewRedisSessionStore(redis.Client),
		codec,
		auth.NewSerializer(userRepo),
		cfg.Session.TTL,
		logger,
	)

	userSvc := user.NewService(userRepo, sessions, logger)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(userRepo, sessions, notifier, cfg.Tokens.ResetTTL, logger)
	authHandler := auth.NewHandler(authSvc, codec)

	deliverySvc := delivery.NewService(delivery.NewRepository(db.DB), logger)
	deliveryHandler := delivery.NewHandler(deliverySvc)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Users:      userSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen:   true,
			BypassFunc: middleware.BypassProbes,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.Session(sessions, codec.Name()))

	srv.MountMetrics("/metrics")
	healthHandler.RegisterRoutes(router)

	guard := middleware.Guard(rbac.DefaultPolicy())
	sensitive := middleware.Sensitive(redis.Client, redis_rate.Limit{
		Rate:   cfg.RateLimit.AuthRequests,
		Burst:  cfg.RateLimit.AuthRequests,
		Period: cfg.RateLimit.AuthWindow,
	})

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, guard, sensitive)
		userHandler.RegisterRoutes(r, guard)
		deliveryHandler.RegisterRoutes(r, guard)
		adminHandler.RegisterRoutes(r, guard)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	healthHandler.SetReady(false)
	drainDelay := cfg.Server.DrainDelay

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
