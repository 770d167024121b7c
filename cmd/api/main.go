package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garage_crm_backend/internal/adapters"
	"garage_crm_backend/internal/auth"
	"garage_crm_backend/internal/calendar"
	"garage_crm_backend/internal/customers"
	"garage_crm_backend/internal/email"
	"garage_crm_backend/internal/enquiries"
	"garage_crm_backend/internal/events"
	apphttp "garage_crm_backend/internal/http"
	"garage_crm_backend/internal/http/router"
	"garage_crm_backend/internal/invoices"
	"garage_crm_backend/internal/jobs"
	"garage_crm_backend/internal/notification"
	"garage_crm_backend/internal/quotes"
	"garage_crm_backend/internal/scheduler"
	"garage_crm_backend/internal/settings"
	"garage_crm_backend/platform/config"
	"garage_crm_backend/platform/db"
	"garage_crm_backend/platform/logger"
	"garage_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender := email.NewSender(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(sender, cfg.WorkshopInbox, log)
	notificationModule.RegisterHandlers(eventBus)

	// Initialize domain modules
	authModule := auth.NewModule(pool, cfg, val)
	settingsModule := settings.NewModule(pool, val)
	customersModule := customers.NewModule(pool, val)
	jobsModule := jobs.NewModule(pool, val)
	quotesModule := quotes.NewModule(pool, log, val)
	invoicesModule := invoices.NewModule(pool, log, val)
	enquiriesModule := enquiries.NewModule(pool, eventBus, log, val)
	calendarModule := calendar.NewModule(pool, val)

	// Jobs upsert customers by name and read the default VAT rate
	settingsReader := adapters.NewSettingsReader(settingsModule.Service())
	jobsModule.SetCustomerEnsurer(adapters.NewCustomerEnsurer(customersModule.Service()))
	jobsModule.SetSettingsReader(settingsReader)

	// Quotes convert into invoices and flip their source job to quoted
	quotesModule.SetInvoiceWriter(adapters.NewInvoiceWriter(invoicesModule.Service()))
	quotesModule.SetJobMarker(jobsModule.Service())
	quotesModule.SetSettingsReader(settingsReader)
	quotesModule.SetEventBus(eventBus)

	invoicesModule.SetSettingsReader(settingsReader)
	invoicesModule.SetEventBus(eventBus)
	if reminderScheduler != nil {
		invoicesModule.SetReminderScheduler(reminderScheduler)
	}

	// Enquiries convert into jobs with compensating rollback
	enquiriesModule.SetJobWriter(adapters.NewJobWriter(jobsModule.Service()))

	// Calendar merges scheduled jobs into the workshop schedule
	calendarModule.SetJobScheduleReader(adapters.NewJobScheduleReader(jobsModule.Service()))

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			settingsModule,
			customersModule,
			enquiriesModule,
			jobsModule,
			quotesModule,
			invoicesModule,
			calendarModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; invoice reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
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
