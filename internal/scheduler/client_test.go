package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "reminders" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestScheduleReminderEnqueues(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	dueDate := time.Now().Add(24 * time.Hour)
	if err := client.ScheduleReminder(context.Background(), uuid.New(), dueDate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(srv.Keys()) == 0 {
		t.Fatal("expected scheduled task keys in redis")
	}
}

func TestNilClientDropsWork(t *testing.T) {
	var client *Client
	if err := client.ScheduleReminder(context.Background(), uuid.New(), time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInvoiceReminderPayloadRoundTrip(t *testing.T) {
	id := uuid.New()
	task, err := NewInvoiceReminderTask(InvoiceReminderPayload{InvoiceID: id.String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TaskInvoiceReminder {
		t.Fatalf("expected task type %s, got %s", TaskInvoiceReminder, task.Type())
	}
	payload, err := ParseInvoiceReminderPayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.InvoiceID != id.String() {
		t.Fatalf("expected invoice id %s, got %s", id, payload.InvoiceID)
	}
}
