package service

import (
	"context"
	"testing"

	"garage_crm_backend/internal/billing"
	"garage_crm_backend/internal/enquiries/repository"
	"garage_crm_backend/internal/events"
	"garage_crm_backend/platform/apperr"
	"garage_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	enquiries   map[uuid.UUID]*repository.Enquiry
	markCalls   int
	revertCalls int
	revertedTo  string
	linkedJobID uuid.UUID
}

func newFakeStore(enquiries ...*repository.Enquiry) *fakeStore {
	s := &fakeStore{enquiries: make(map[uuid.UUID]*repository.Enquiry)}
	for _, e := range enquiries {
		s.enquiries[e.ID] = e
	}
	return s
}

func (s *fakeStore) Create(_ context.Context, e *repository.Enquiry) error {
	s.enquiries[e.ID] = e
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Enquiry, error) {
	e, ok := s.enquiries[id]
	if !ok {
		return nil, apperr.NotFound("enquiry not found")
	}
	copied := *e
	return &copied, nil
}

func (s *fakeStore) List(_ context.Context, _ string) ([]repository.Enquiry, error) {
	return nil, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, status, notes string) error {
	s.enquiries[id].Status = status
	s.enquiries[id].Notes = notes
	return nil
}

func (s *fakeStore) MarkConvertedIf(_ context.Context, id uuid.UUID, allowedFrom []string) (int64, error) {
	s.markCalls++
	e, ok := s.enquiries[id]
	if !ok {
		return 0, nil
	}
	for _, from := range allowedFrom {
		if e.Status == from {
			e.Status = billing.EnquiryConverted
			return 1, nil
		}
	}
	return 0, nil
}

func (s *fakeStore) SetJobLink(_ context.Context, id uuid.UUID, jobID uuid.UUID) error {
	s.linkedJobID = jobID
	e := s.enquiries[id]
	e.JobID = &jobID
	return nil
}

func (s *fakeStore) RevertConversion(_ context.Context, id uuid.UUID, priorStatus string) error {
	s.revertCalls++
	s.revertedTo = priorStatus
	s.enquiries[id].Status = priorStatus
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.enquiries, id)
	return nil
}

type fakeJobWriter struct {
	calls  int
	lastIn NewJobParams
	jobID  uuid.UUID
	err    error
}

func (w *fakeJobWriter) CreateJob(_ context.Context, in NewJobParams) (uuid.UUID, error) {
	w.calls++
	w.lastIn = in
	if w.err != nil {
		return uuid.Nil, w.err
	}
	return w.jobID, nil
}

type fakeBus struct {
	published []events.Event
}

func (b *fakeBus) Publish(_ context.Context, e events.Event) {
	b.published = append(b.published, e)
}

func (b *fakeBus) Subscribe(string, events.Handler) {}

func contactedEnquiry() *repository.Enquiry {
	return &repository.Enquiry{
		ID:           uuid.New(),
		Name:         "Sarah Jones",
		Email:        "sarah@example.com",
		Phone:        "+447700900456",
		VehicleReg:   "XY34 FGH",
		VehicleMake:  "Vauxhall",
		VehicleModel: "Corsa",
		Message:      "Grinding noise from the front brakes when stopping",
		Source:       "website",
		Status:       billing.EnquiryContacted,
	}
}

func convertSetup(enquiry *repository.Enquiry) (*Service, *fakeStore, *fakeJobWriter, *fakeBus) {
	store := newFakeStore(enquiry)
	writer := &fakeJobWriter{jobID: uuid.New()}
	bus := &fakeBus{}
	svc := New(store, logger.New("development"))
	svc.SetJobWriter(writer)
	svc.SetEventBus(bus)
	return svc, store, writer, bus
}

func TestConvertMapsEnquiryOntoJob(t *testing.T) {
	enquiry := contactedEnquiry()
	svc, store, writer, _ := convertSetup(enquiry)

	resp, err := svc.Convert(context.Background(), enquiry.ID)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	if writer.calls != 1 {
		t.Fatalf("job writer called %d times, want 1", writer.calls)
	}
	in := writer.lastIn
	if in.EnquiryID != enquiry.ID {
		t.Fatalf("job carries enquiry ID %s, want %s", in.EnquiryID, enquiry.ID)
	}
	if in.WorkRequired != enquiry.Message {
		t.Fatalf("work required = %q, want the enquiry message", in.WorkRequired)
	}
	if in.CustomerName != enquiry.Name || in.CustomerEmail != enquiry.Email || in.CustomerPhone != enquiry.Phone {
		t.Fatalf("customer fields not mapped: %+v", in)
	}
	if in.VehicleReg != enquiry.VehicleReg || in.VehicleMake != enquiry.VehicleMake || in.VehicleModel != enquiry.VehicleModel {
		t.Fatalf("vehicle fields not mapped: %+v", in)
	}

	if store.enquiries[enquiry.ID].Status != billing.EnquiryConverted {
		t.Fatalf("enquiry status = %q, want converted", store.enquiries[enquiry.ID].Status)
	}
	if store.linkedJobID != writer.jobID {
		t.Fatalf("enquiry linked to job %s, want %s", store.linkedJobID, writer.jobID)
	}
	if resp.JobID != writer.jobID {
		t.Fatalf("response job ID = %s, want %s", resp.JobID, writer.jobID)
	}
	if resp.Enquiry.JobID == nil || *resp.Enquiry.JobID != writer.jobID {
		t.Fatal("response enquiry does not carry the job link")
	}
}

func TestConvertPublishesEnquiryConverted(t *testing.T) {
	enquiry := contactedEnquiry()
	svc, _, writer, bus := convertSetup(enquiry)

	if _, err := svc.Convert(context.Background(), enquiry.ID); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	ev, ok := bus.published[0].(events.EnquiryConverted)
	if !ok {
		t.Fatalf("published event is %T, want EnquiryConverted", bus.published[0])
	}
	if ev.EnquiryID != enquiry.ID || ev.JobID != writer.jobID {
		t.Fatalf("event fields wrong: %+v", ev)
	}
}

func TestConvertSecondAttemptRejected(t *testing.T) {
	enquiry := contactedEnquiry()
	svc, _, writer, _ := convertSetup(enquiry)

	if _, err := svc.Convert(context.Background(), enquiry.ID); err != nil {
		t.Fatalf("first Convert returned error: %v", err)
	}
	_, err := svc.Convert(context.Background(), enquiry.ID)
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("second Convert error = %v, want invalid transition", err)
	}
	if writer.calls != 1 {
		t.Fatalf("job writer called %d times, want 1", writer.calls)
	}
}

func TestConvertClosedEnquiryNotConvertible(t *testing.T) {
	enquiry := contactedEnquiry()
	enquiry.Status = billing.EnquiryClosed
	svc, store, writer, _ := convertSetup(enquiry)

	_, err := svc.Convert(context.Background(), enquiry.ID)
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("Convert error = %v, want invalid transition", err)
	}
	if writer.calls != 0 {
		t.Fatal("job writer must not be called for a closed enquiry")
	}
	if store.enquiries[enquiry.ID].Status != billing.EnquiryClosed {
		t.Fatalf("enquiry status = %q, want closed untouched", store.enquiries[enquiry.ID].Status)
	}
}

func TestConvertRollsBackWhenJobCreationFails(t *testing.T) {
	enquiry := contactedEnquiry()
	svc, store, writer, bus := convertSetup(enquiry)
	writer.err = apperr.Internal("insert failed")

	_, err := svc.Convert(context.Background(), enquiry.ID)
	if err == nil {
		t.Fatal("expected Convert to fail")
	}
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("error kind lost through wrapping: %v", err)
	}
	if store.revertCalls != 1 || store.revertedTo != billing.EnquiryContacted {
		t.Fatalf("rollback: %d calls, reverted to %q, want 1 call to contacted", store.revertCalls, store.revertedTo)
	}
	if store.enquiries[enquiry.ID].Status != billing.EnquiryContacted {
		t.Fatalf("enquiry status = %q, want contacted restored", store.enquiries[enquiry.ID].Status)
	}
	if len(bus.published) != 0 {
		t.Fatal("no event must be published for a failed conversion")
	}
}

func TestConvertWithoutJobWriter(t *testing.T) {
	enquiry := contactedEnquiry()
	svc := New(newFakeStore(enquiry), logger.New("development"))

	_, err := svc.Convert(context.Background(), enquiry.ID)
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("Convert error = %v, want internal", err)
	}
}
