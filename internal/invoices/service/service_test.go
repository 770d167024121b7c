package service

import (
	"context"
	"testing"
	"time"

	"garage_crm_backend/internal/billing"
	"garage_crm_backend/internal/events"
	"garage_crm_backend/internal/invoices/repository"
	"garage_crm_backend/platform/apperr"
	"garage_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	invoices map[uuid.UUID]*repository.Invoice
	seq      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{invoices: make(map[uuid.UUID]*repository.Invoice)}
}

func (s *fakeStore) NextSequence(_ context.Context) (int64, error) {
	s.seq++
	return s.seq, nil
}

func (s *fakeStore) Create(_ context.Context, inv *repository.Invoice) error {
	copied := *inv
	s.invoices[inv.ID] = &copied
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Invoice, error) {
	inv, ok := s.invoices[id]
	if !ok {
		return nil, apperr.NotFound("invoice not found")
	}
	copied := *inv
	return &copied, nil
}

func (s *fakeStore) List(_ context.Context, _, _ string, _ bool) ([]repository.Invoice, error) {
	return nil, nil
}

func (s *fakeStore) Update(_ context.Context, inv *repository.Invoice) error {
	copied := *inv
	s.invoices[inv.ID] = &copied
	return nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, status string, paidDate *time.Time, paymentMethod string) error {
	inv := s.invoices[id]
	inv.Status = status
	inv.PaidDate = paidDate
	inv.PaymentMethod = paymentMethod
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.invoices, id)
	return nil
}

type fakeSettingsReader struct {
	defaults InvoiceDefaults
}

func (r *fakeSettingsReader) InvoiceDefaults(_ context.Context) (InvoiceDefaults, error) {
	return r.defaults, nil
}

type fakeScheduler struct {
	calls   int
	lastID  uuid.UUID
	lastDue time.Time
}

func (f *fakeScheduler) ScheduleReminder(_ context.Context, invoiceID uuid.UUID, dueDate time.Time) error {
	f.calls++
	f.lastID = invoiceID
	f.lastDue = dueDate
	return nil
}

type fakeBus struct {
	published []events.Event
}

func (b *fakeBus) Publish(_ context.Context, e events.Event) {
	b.published = append(b.published, e)
}

func (b *fakeBus) Subscribe(string, events.Handler) {}

func quoteSnapshot() NewInvoiceFromQuote {
	jobID := uuid.New()
	return NewInvoiceFromQuote{
		QuoteID:       uuid.New(),
		JobID:         &jobID,
		CustomerName:  "Dave Smith",
		CustomerEmail: "dave@example.com",
		CustomerPhone: "+447700900123",
		VehicleReg:    "AB12 CDE",
		VehicleMake:   "Ford",
		VehicleModel:  "Focus",
		LabourItems:   []billing.LabourItem{{Description: "Clutch replacement", Hours: 4, Rate: 65}},
		PartsItems:    []billing.PartItem{{Name: "Clutch kit", Quantity: 1, UnitPrice: 180}},
		Discount:      10,
		DiscountType:  billing.DiscountPercentage,
		VATRate:       20,
		Subtotal:      440,
		DiscountAmt:   44,
		VATAmount:     79.2,
		Total:         475.2,
		Notes:         "ready to book in",
	}
}

func TestCreateFromQuoteFreezesFinancials(t *testing.T) {
	store := newFakeStore()
	svc := New(store, logger.New("development"))
	svc.SetSettingsReader(&fakeSettingsReader{defaults: InvoiceDefaults{
		VATRate:          20,
		InvoicePrefix:    "INV-",
		PaymentTermsDays: 14,
	}})

	in := quoteSnapshot()
	// Deliberately inconsistent with the line items: conversion must store
	// the quoted figures untouched rather than repricing.
	in.Subtotal = 999
	in.Total = 1500

	created, err := svc.CreateFromQuote(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateFromQuote returned error: %v", err)
	}

	inv := store.invoices[created.ID]
	if inv == nil {
		t.Fatal("invoice not persisted")
	}
	if inv.Subtotal != 999 || inv.Total != 1500 || inv.DiscountAmt != 44 || inv.VATAmount != 79.2 {
		t.Fatalf("financials were recalculated: %+v", inv)
	}
	if inv.Status != billing.InvoiceUnpaid {
		t.Fatalf("status = %q, want unpaid", inv.Status)
	}
	if inv.QuoteID == nil || *inv.QuoteID != in.QuoteID {
		t.Fatal("invoice does not reference the source quote")
	}
	if inv.JobID == nil || *inv.JobID != *in.JobID {
		t.Fatal("invoice does not carry the job link")
	}

	wantDue := inv.CreatedAt.AddDate(0, 0, 14)
	if !inv.DueDate.Equal(wantDue) {
		t.Fatalf("due date = %v, want created+14d %v", inv.DueDate, wantDue)
	}
	if created.InvoiceNumber != "INV-00001" {
		t.Fatalf("invoice number = %q, want INV-00001", created.InvoiceNumber)
	}
	if !created.DueDate.Equal(inv.DueDate) {
		t.Fatal("result due date does not match the stored invoice")
	}
}

func TestCreateFromQuoteNumbersAdvance(t *testing.T) {
	store := newFakeStore()
	svc := New(store, logger.New("development"))

	first, err := svc.CreateFromQuote(context.Background(), quoteSnapshot())
	if err != nil {
		t.Fatalf("first CreateFromQuote returned error: %v", err)
	}
	second, err := svc.CreateFromQuote(context.Background(), quoteSnapshot())
	if err != nil {
		t.Fatalf("second CreateFromQuote returned error: %v", err)
	}
	if first.InvoiceNumber != "INV-00001" || second.InvoiceNumber != "INV-00002" {
		t.Fatalf("numbers = %q, %q, want INV-00001, INV-00002", first.InvoiceNumber, second.InvoiceNumber)
	}
}

func TestCreateFromQuoteIssuesAndSchedules(t *testing.T) {
	store := newFakeStore()
	svc := New(store, logger.New("development"))
	sched := &fakeScheduler{}
	bus := &fakeBus{}
	svc.SetReminderScheduler(sched)
	svc.SetEventBus(bus)

	created, err := svc.CreateFromQuote(context.Background(), quoteSnapshot())
	if err != nil {
		t.Fatalf("CreateFromQuote returned error: %v", err)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	ev, ok := bus.published[0].(events.InvoiceIssued)
	if !ok {
		t.Fatalf("published event is %T, want InvoiceIssued", bus.published[0])
	}
	if ev.InvoiceID != created.ID || ev.InvoiceNumber != created.InvoiceNumber {
		t.Fatalf("event fields wrong: %+v", ev)
	}

	if sched.calls != 1 || sched.lastID != created.ID || !sched.lastDue.Equal(created.DueDate) {
		t.Fatalf("reminder not scheduled for the new invoice: %+v", sched)
	}
}

func TestReminderCheckSkipsPaidInvoice(t *testing.T) {
	store := newFakeStore()
	svc := New(store, logger.New("development"))
	bus := &fakeBus{}
	svc.SetEventBus(bus)

	paid := time.Now()
	inv := &repository.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "INV-00009",
		Status:        billing.InvoicePaid,
		DueDate:       time.Now().AddDate(0, 0, -5),
		PaidDate:      &paid,
	}
	store.invoices[inv.ID] = inv

	if err := svc.ReminderCheck(context.Background(), inv.ID); err != nil {
		t.Fatalf("ReminderCheck returned error: %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatal("no reminder event for a paid invoice")
	}
}

func TestReminderCheckPublishesForOverdueUnpaid(t *testing.T) {
	store := newFakeStore()
	svc := New(store, logger.New("development"))
	bus := &fakeBus{}
	svc.SetEventBus(bus)

	inv := &repository.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "INV-00010",
		CustomerName:  "Dave Smith",
		CustomerEmail: "dave@example.com",
		Status:        billing.InvoiceUnpaid,
		DueDate:       time.Now().AddDate(0, 0, -5),
	}
	store.invoices[inv.ID] = inv

	if err := svc.ReminderCheck(context.Background(), inv.ID); err != nil {
		t.Fatalf("ReminderCheck returned error: %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	ev, ok := bus.published[0].(events.InvoiceReminderDue)
	if !ok {
		t.Fatalf("published event is %T, want InvoiceReminderDue", bus.published[0])
	}
	if ev.InvoiceID != inv.ID || ev.CustomerEmail != "dave@example.com" {
		t.Fatalf("event fields wrong: %+v", ev)
	}
}

func TestReminderCheckDeletedInvoiceIsNoop(t *testing.T) {
	svc := New(newFakeStore(), logger.New("development"))

	if err := svc.ReminderCheck(context.Background(), uuid.New()); err != nil {
		t.Fatalf("ReminderCheck for a deleted invoice returned error: %v", err)
	}
}
