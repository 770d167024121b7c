// Package scheduler provides asynq task definitions, the enqueueing client,
// and the worker that processes due invoice reminders.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskInvoiceReminder = "invoices.reminder"

// InvoiceReminderPayload identifies the invoice a reminder task is for.
type InvoiceReminderPayload struct {
	InvoiceID string `json:"invoiceId"`
}

func NewInvoiceReminderTask(payload InvoiceReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceReminder, data), nil
}

func ParseInvoiceReminderPayload(task *asynq.Task) (InvoiceReminderPayload, error) {
	var payload InvoiceReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return InvoiceReminderPayload{}, err
	}
	return payload, nil
}
