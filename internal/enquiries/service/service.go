// Package service implements enquiry business logic, including the
// enquiry-to-job conversion.
package service

import (
	"context"
	"fmt"
	"time"

	"garage_crm_backend/internal/billing"
	"garage_crm_backend/internal/enquiries/repository"
	"garage_crm_backend/internal/enquiries/transport"
	"garage_crm_backend/internal/events"
	"garage_crm_backend/platform/apperr"
	"garage_crm_backend/platform/logger"
	"garage_crm_backend/platform/phone"

	"github.com/google/uuid"
)

// Store is the persistence surface the service depends on. Satisfied by
// *repository.Repository.
type Store interface {
	Create(ctx context.Context, e *repository.Enquiry) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Enquiry, error)
	List(ctx context.Context, status string) ([]repository.Enquiry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, notes string) error
	MarkConvertedIf(ctx context.Context, id uuid.UUID, allowedFrom []string) (int64, error)
	SetJobLink(ctx context.Context, id uuid.UUID, jobID uuid.UUID) error
	RevertConversion(ctx context.Context, id uuid.UUID, priorStatus string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// JobWriter creates the job that results from converting an enquiry. Wired
// through an adapter to the jobs module.
type JobWriter interface {
	CreateJob(ctx context.Context, in NewJobParams) (uuid.UUID, error)
}

// NewJobParams carries the enquiry fields mapped onto the new job.
type NewJobParams struct {
	EnquiryID     uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	VehicleReg    string
	VehicleMake   string
	VehicleModel  string
	WorkRequired  string
}

// Service provides enquiry business logic.
type Service struct {
	repo      Store
	jobWriter JobWriter
	eventBus  events.Bus
	log       *logger.Logger
}

// New creates a new enquiries service.
func New(repo Store, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetJobWriter injects the job creation adapter.
func (s *Service) SetJobWriter(w JobWriter) {
	s.jobWriter = w
}

// SetEventBus injects the domain event bus.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// Create registers a new enquiry. This is the public website form endpoint.
func (s *Service) Create(ctx context.Context, req transport.CreateEnquiryRequest) (*transport.EnquiryResponse, error) {
	source := req.Source
	if source == "" {
		source = "website"
	}

	now := time.Now()
	enquiry := repository.Enquiry{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        phone.NormalizeE164(req.Phone),
		VehicleReg:   req.VehicleReg,
		VehicleMake:  req.VehicleMake,
		VehicleModel: req.VehicleModel,
		Message:      req.Message,
		Source:       source,
		Status:       billing.EnquiryNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, &enquiry); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.EnquiryReceived{
			BaseEvent:     events.NewBaseEvent(),
			EnquiryID:     enquiry.ID,
			CustomerName:  enquiry.Name,
			CustomerEmail: enquiry.Email,
			Subject:       enquiry.VehicleReg,
			Message:       enquiry.Message,
		})
	}

	return buildResponse(&enquiry), nil
}

// GetByID returns a single enquiry.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.EnquiryResponse, error) {
	enquiry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildResponse(enquiry), nil
}

// List returns enquiries, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string) ([]transport.EnquiryResponse, error) {
	enquiries, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.EnquiryResponse, len(enquiries))
	for i := range enquiries {
		responses[i] = *buildResponse(&enquiries[i])
	}
	return responses, nil
}

// UpdateStatus handles the contact and close transitions. Conversion goes
// through Convert.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status, notes string) (*transport.EnquiryResponse, error) {
	enquiry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus, err := billing.TransitionEnquiry(enquiry.Status, status)
	if err != nil {
		return nil, err
	}
	if notes == "" {
		notes = enquiry.Notes
	}
	if err := s.repo.UpdateStatus(ctx, id, newStatus, notes); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Convert turns an enquiry into a pending job. The enquiry is flipped to
// converted with a conditional update first, so concurrent converters cannot
// both succeed; if job creation then fails the status is rolled back.
func (s *Service) Convert(ctx context.Context, id uuid.UUID) (*transport.ConvertEnquiryResponse, error) {
	if s.jobWriter == nil {
		return nil, apperr.Internal("job writer not configured")
	}

	enquiry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	priorStatus := enquiry.Status

	affected, err := s.repo.MarkConvertedIf(ctx, id, billing.EnquiryConvertibleStatuses)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Re-read to distinguish a lost race from a terminal enquiry
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, apperr.InvalidTransition("enquiry cannot be converted from " + current.Status)
	}

	jobID, err := s.jobWriter.CreateJob(ctx, NewJobParams{
		EnquiryID:     enquiry.ID,
		CustomerName:  enquiry.Name,
		CustomerEmail: enquiry.Email,
		CustomerPhone: enquiry.Phone,
		VehicleReg:    enquiry.VehicleReg,
		VehicleMake:   enquiry.VehicleMake,
		VehicleModel:  enquiry.VehicleModel,
		WorkRequired:  enquiry.Message,
	})
	if err != nil {
		if revertErr := s.repo.RevertConversion(ctx, id, priorStatus); revertErr != nil {
			s.log.Error("failed to roll back enquiry conversion", "enquiryId", id, "error", revertErr)
		}
		s.log.ConversionEvent("enquiry_to_job", id.String(), "", err)
		return nil, fmt.Errorf("create job from enquiry: %w", err)
	}

	if err := s.repo.SetJobLink(ctx, id, jobID); err != nil {
		s.log.Error("failed to link enquiry to job", "enquiryId", id, "jobId", jobID, "error", err)
	}
	s.log.ConversionEvent("enquiry_to_job", id.String(), jobID.String(), nil)

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.EnquiryConverted{
			BaseEvent: events.NewBaseEvent(),
			EnquiryID: enquiry.ID,
			JobID:     jobID,
		})
	}

	converted, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &transport.ConvertEnquiryResponse{Enquiry: *converted, JobID: jobID}, nil
}

// Delete removes an enquiry. Manual deletion only; conversion keeps the row.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func buildResponse(e *repository.Enquiry) *transport.EnquiryResponse {
	return &transport.EnquiryResponse{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Phone:        e.Phone,
		VehicleReg:   e.VehicleReg,
		VehicleMake:  e.VehicleMake,
		VehicleModel: e.VehicleModel,
		Message:      e.Message,
		Source:       e.Source,
		Status:       e.Status,
		Notes:        e.Notes,
		JobID:        e.JobID,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
