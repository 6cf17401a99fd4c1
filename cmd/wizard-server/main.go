// cmd/wizard-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	awsclients "philfund-wizard/internal/common/aws"
	"philfund-wizard/internal/common/config"
	"philfund-wizard/internal/common/database"
	"philfund-wizard/internal/common/logger"
	"philfund-wizard/internal/draftstore"
	"philfund-wizard/internal/notifier"
	"philfund-wizard/internal/server"
	"philfund-wizard/internal/submissions"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting wizard draft server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Completion notifier (optional) ---
	var sender *notifier.Notifier
	if cfg.Notifications.Enabled {
		clients, err := awsclients.NewClients(ctx, cfg.Notifications.AWSRegion)
		if err != nil {
			zapLog.Fatal("aws client init failed", zap.Error(err))
		}
		sender = notifier.New(cfg.Notifications, clients.SES, clients.SNS, log)
		zapLog.Info("Completion notifier enabled",
			zap.String("region", cfg.Notifications.AWSRegion),
		)
	}

	drafts := draftstore.New(redis, time.Duration(cfg.Wizard.DraftTTLHours)*time.Hour, log)
	repo := submissions.NewRepository(pg.GetDB(), log)

	srv, err := server.New(cfg.Server, drafts, repo, sender, log)
	if err != nil {
		zapLog.Fatal("server init failed", zap.Error(err))
	}

	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during shutdown", zap.Error(err))
	}

	zapLog.Info("Wizard draft server stopped gracefully")
}
