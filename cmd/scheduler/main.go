package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garage_crm_backend/internal/email"
	"garage_crm_backend/internal/events"
	invoicesrepo "garage_crm_backend/internal/invoices/repository"
	invoicesservice "garage_crm_backend/internal/invoices/service"
	"garage_crm_backend/internal/notification"
	"garage_crm_backend/internal/scheduler"
	"garage_crm_backend/platform/config"
	"garage_crm_backend/platform/db"
	"garage_crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	sender := email.NewSender(cfg)

	// Reminder emails go out through the same event path as the API process.
	notificationModule := notification.NewModule(sender, cfg.WorkshopInbox, log)
	notificationModule.RegisterHandlers(eventBus)

	// Worker-side invoice wiring (no HTTP handlers required).
	invoicesService := invoicesservice.New(invoicesrepo.New(pool), log)
	invoicesService.SetEventBus(eventBus)

	worker, err := scheduler.NewWorker(cfg, invoicesService, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("scheduler stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
