package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/parkflow_bot/internal/app"
	"github.com/Freeeeeet/parkflow_bot/internal/backend"
	"github.com/Freeeeeet/parkflow_bot/internal/config"
	"github.com/Freeeeeet/parkflow_bot/internal/controller"
	"github.com/Freeeeeet/parkflow_bot/internal/flow"
	"github.com/Freeeeeet/parkflow_bot/internal/session"
	"github.com/Freeeeeet/parkflow_bot/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Sugar().Infow("Starting parkflow bot",
		"environment", cfg.Environment,
		"api", cfg.APIBaseURL,
		"session_backend", cfg.SessionBackend,
		"token_length", len(cfg.TelegramToken))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open session store", zap.Error(err))
	}
	defer closeStore()

	sessions := session.NewManager(store, logger)

	client := backend.NewClient(cfg.APIBaseURL, logger,
		backend.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)

	engine := flow.NewEngine(client, sessions, logger, flow.WithLocation(cfg.Location()))

	scheduler, err := app.NewScheduler(sessions, cfg.SessionTTL, cfg.SessionSweepInterval, logger)
	if err != nil {
		logger.Fatal("Failed to create scheduler", zap.Error(err))
	}
	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	botController, err := controller.NewBotController(cfg.TelegramToken, engine, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}
	if err := botController.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично для работы
		logger.Warn("Bot commands were not set", zap.Error(err))
	}

	botController.Start(ctx)
	logger.Info("Bot stopped")
}

// openSessionStore выбирает хранилище сессий по SESSION_BACKEND
func openSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case config.SessionBackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		migrator, err := app.NewMigrator(pool, migrations.FS, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		defer migrator.Close()
		if err := migrator.Run(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		logger.Info("✅ Session store: postgres")
		return session.NewPostgresStore(pool), pool.Close, nil

	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, err
		}

		logger.Info("✅ Session store: redis", zap.String("addr", cfg.RedisAddr))
		return session.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }, nil

	default:
		logger.Info("✅ Session store: memory")
		return session.NewMemoryStore(), func() {}, nil
	}
}
