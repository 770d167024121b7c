package scheduler

import (
	"context"
	"fmt"

	"garage_crm_backend/platform/config"
	"garage_crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// InvoiceReminderChecker re-reads an invoice when its reminder fires and
// publishes the reminder event if payment is still outstanding.
type InvoiceReminderChecker interface {
	ReminderCheck(ctx context.Context, invoiceID uuid.UUID) error
}

// Worker runs the asynq server that processes scheduled tasks.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	invoices InvoiceReminderChecker
	log      *logger.Logger
}

// NewWorker creates the scheduler worker.
func NewWorker(cfg config.SchedulerConfig, invoices InvoiceReminderChecker, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		invoices: invoices,
		log:      log,
	}

	mux.HandleFunc(TaskInvoiceReminder, w.handleInvoiceReminder)

	return w, nil
}

func (w *Worker) handleInvoiceReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseInvoiceReminderPayload(task)
	if err != nil {
		return err
	}

	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		return err
	}

	w.log.Info("processing invoice reminder", "invoiceId", invoiceID)
	return w.invoices.ReminderCheck(ctx, invoiceID)
}

// Run starts the worker and blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
