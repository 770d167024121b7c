package service

import (
	"context"
	"testing"

	"garage_crm_backend/internal/billing"
	"garage_crm_backend/internal/events"
	"garage_crm_backend/internal/quotes/repository"
	"garage_crm_backend/platform/apperr"
	"garage_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	quotes      map[uuid.UUID]*repository.Quote
	markCalls   int
	revertCalls int
	revertedTo  string
}

func newFakeStore(quotes ...*repository.Quote) *fakeStore {
	s := &fakeStore{quotes: make(map[uuid.UUID]*repository.Quote)}
	for _, q := range quotes {
		s.quotes[q.ID] = q
	}
	return s
}

func (s *fakeStore) NextSequence(_ context.Context) (int64, error) {
	return int64(len(s.quotes) + 1), nil
}

func (s *fakeStore) Create(_ context.Context, q *repository.Quote) error {
	s.quotes[q.ID] = q
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Quote, error) {
	q, ok := s.quotes[id]
	if !ok {
		return nil, apperr.NotFound("quote not found")
	}
	copied := *q
	return &copied, nil
}

func (s *fakeStore) List(_ context.Context, _, _ string) ([]repository.Quote, error) {
	return nil, nil
}

func (s *fakeStore) Update(_ context.Context, q *repository.Quote) error {
	s.quotes[q.ID] = q
	return nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	s.quotes[id].Status = status
	return nil
}

func (s *fakeStore) MarkConvertedIf(_ context.Context, id uuid.UUID, allowedFrom []string) (int64, error) {
	s.markCalls++
	q, ok := s.quotes[id]
	if !ok {
		return 0, nil
	}
	for _, from := range allowedFrom {
		if q.Status == from {
			q.Status = billing.QuoteConverted
			return 1, nil
		}
	}
	return 0, nil
}

func (s *fakeStore) RevertConversion(_ context.Context, id uuid.UUID, priorStatus string) error {
	s.revertCalls++
	s.revertedTo = priorStatus
	s.quotes[id].Status = priorStatus
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.quotes, id)
	return nil
}

type fakeInvoiceWriter struct {
	calls  int
	lastIn NewInvoiceParams
	result NewInvoiceResult
	err    error
}

func (w *fakeInvoiceWriter) CreateInvoice(_ context.Context, in NewInvoiceParams) (NewInvoiceResult, error) {
	w.calls++
	w.lastIn = in
	if w.err != nil {
		return NewInvoiceResult{}, w.err
	}
	return w.result, nil
}

type fakeBus struct {
	published []events.Event
}

func (b *fakeBus) Publish(_ context.Context, e events.Event) {
	b.published = append(b.published, e)
}

func (b *fakeBus) Subscribe(string, events.Handler) {}

func acceptedQuote() *repository.Quote {
	jobID := uuid.New()
	return &repository.Quote{
		ID:            uuid.New(),
		QuoteNumber:   "QT-00007",
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
		Status:        billing.QuoteAccepted,
		Notes:         "ready to book in",
	}
}

func convertSetup(quote *repository.Quote) (*Service, *fakeStore, *fakeInvoiceWriter, *fakeBus) {
	store := newFakeStore(quote)
	writer := &fakeInvoiceWriter{result: NewInvoiceResult{ID: uuid.New(), InvoiceNumber: "INV-00001"}}
	bus := &fakeBus{}
	svc := New(store, logger.New("development"))
	svc.SetInvoiceWriter(writer)
	svc.SetEventBus(bus)
	return svc, store, writer, bus
}

func TestConvertCopiesFinancialsVerbatim(t *testing.T) {
	quote := acceptedQuote()
	svc, store, writer, _ := convertSetup(quote)

	resp, err := svc.Convert(context.Background(), quote.ID)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	if writer.calls != 1 {
		t.Fatalf("invoice writer called %d times, want 1", writer.calls)
	}
	in := writer.lastIn
	if in.QuoteID != quote.ID {
		t.Fatalf("invoice carries quote ID %s, want %s", in.QuoteID, quote.ID)
	}
	if in.JobID == nil || *in.JobID != *quote.JobID {
		t.Fatal("job link not carried onto the invoice")
	}
	if in.Subtotal != 440 || in.DiscountAmt != 44 || in.VATAmount != 79.2 || in.Total != 475.2 {
		t.Fatalf("financials not copied verbatim: %+v", in)
	}
	if in.Discount != 10 || in.DiscountType != billing.DiscountPercentage || in.VATRate != 20 {
		t.Fatalf("discount and VAT inputs not copied verbatim: %+v", in)
	}
	if len(in.LabourItems) != 1 || len(in.PartsItems) != 1 {
		t.Fatalf("line items not copied: %d labour, %d parts", len(in.LabourItems), len(in.PartsItems))
	}
	if in.CustomerName != quote.CustomerName || in.CustomerEmail != quote.CustomerEmail || in.Notes != quote.Notes {
		t.Fatalf("customer fields not copied: %+v", in)
	}

	if store.quotes[quote.ID].Status != billing.QuoteConverted {
		t.Fatalf("quote status = %q, want converted", store.quotes[quote.ID].Status)
	}
	if resp.InvoiceID != writer.result.ID || resp.InvoiceNumber != "INV-00001" {
		t.Fatalf("response does not identify the invoice: %+v", resp)
	}
	if resp.Quote.Status != billing.QuoteConverted {
		t.Fatalf("response quote status = %q, want converted", resp.Quote.Status)
	}
}

func TestConvertPublishesQuoteConverted(t *testing.T) {
	quote := acceptedQuote()
	svc, _, writer, bus := convertSetup(quote)

	if _, err := svc.Convert(context.Background(), quote.ID); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	ev, ok := bus.published[0].(events.QuoteConverted)
	if !ok {
		t.Fatalf("published event is %T, want QuoteConverted", bus.published[0])
	}
	if ev.QuoteID != quote.ID || ev.InvoiceID != writer.result.ID || ev.InvoiceNumber != "INV-00001" {
		t.Fatalf("event fields wrong: %+v", ev)
	}
}

func TestConvertSecondAttemptRejected(t *testing.T) {
	quote := acceptedQuote()
	svc, _, writer, _ := convertSetup(quote)

	if _, err := svc.Convert(context.Background(), quote.ID); err != nil {
		t.Fatalf("first Convert returned error: %v", err)
	}
	_, err := svc.Convert(context.Background(), quote.ID)
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("second Convert error = %v, want invalid transition", err)
	}
	if writer.calls != 1 {
		t.Fatalf("invoice writer called %d times, want 1", writer.calls)
	}
}

func TestConvertRejectedQuoteNotConvertible(t *testing.T) {
	quote := acceptedQuote()
	quote.Status = billing.QuoteRejected
	svc, store, writer, _ := convertSetup(quote)

	_, err := svc.Convert(context.Background(), quote.ID)
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("Convert error = %v, want invalid transition", err)
	}
	if writer.calls != 0 {
		t.Fatal("invoice writer must not be called for a rejected quote")
	}
	if store.quotes[quote.ID].Status != billing.QuoteRejected {
		t.Fatalf("quote status = %q, want rejected untouched", store.quotes[quote.ID].Status)
	}
}

func TestConvertRollsBackWhenInvoiceCreationFails(t *testing.T) {
	quote := acceptedQuote()
	svc, store, writer, bus := convertSetup(quote)
	writer.err = apperr.Internal("insert failed")

	_, err := svc.Convert(context.Background(), quote.ID)
	if err == nil {
		t.Fatal("expected Convert to fail")
	}
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("error kind lost through wrapping: %v", err)
	}
	if store.revertCalls != 1 || store.revertedTo != billing.QuoteAccepted {
		t.Fatalf("rollback: %d calls, reverted to %q, want 1 call to accepted", store.revertCalls, store.revertedTo)
	}
	if store.quotes[quote.ID].Status != billing.QuoteAccepted {
		t.Fatalf("quote status = %q, want accepted restored", store.quotes[quote.ID].Status)
	}
	if len(bus.published) != 0 {
		t.Fatal("no event must be published for a failed conversion")
	}
}

func TestConvertWithoutInvoiceWriter(t *testing.T) {
	quote := acceptedQuote()
	svc := New(newFakeStore(quote), logger.New("development"))

	_, err := svc.Convert(context.Background(), quote.ID)
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("Convert error = %v, want internal", err)
	}
}
