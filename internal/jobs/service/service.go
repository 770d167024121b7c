// Package service implements job business logic: CRUD with server-side
// pricing, the job status machine, and creation from converted enquiries.
package service

import (
	"context"
	"fmt"
	"time"

	"garage_crm_backend/internal/billing"
	"garage_crm_backend/internal/jobs/repository"
	"garage_crm_backend/internal/jobs/transport"
	"garage_crm_backend/platform/apperr"
	"garage_crm_backend/platform/phone"

	"github.com/google/uuid"
)

// CustomerEnsurer registers a customer by name when a job is created for a
// customer that does not exist yet. Wired through an adapter to the customers
// module.
type CustomerEnsurer interface {
	EnsureCustomer(ctx context.Context, name, email, phoneNumber string) (uuid.UUID, error)
}

// SettingsReader supplies document defaults. Wired to the settings module.
type SettingsReader interface {
	DefaultVATRate(ctx context.Context) (float64, error)
}

// Service provides job business logic.
type Service struct {
	repo            *repository.Repository
	customerEnsurer CustomerEnsurer
	settingsReader  SettingsReader
}

// New creates a new jobs service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// SetCustomerEnsurer injects the customer upsert adapter.
func (s *Service) SetCustomerEnsurer(e CustomerEnsurer) {
	s.customerEnsurer = e
}

// SetSettingsReader injects the settings defaults adapter.
func (s *Service) SetSettingsReader(r SettingsReader) {
	s.settingsReader = r
}

func (s *Service) resolveVATRate(ctx context.Context, requested *float64) float64 {
	if requested != nil {
		return *requested
	}
	if s.settingsReader != nil {
		if rate, err := s.settingsReader.DefaultVATRate(ctx); err == nil {
			return rate
		}
	}
	return 20
}

// Create registers a new job, recalculating totals from the line items. When
// no customerId is supplied the customer is upserted by name.
func (s *Service) Create(ctx context.Context, req transport.CreateJobRequest) (*transport.JobResponse, error) {
	vatRate := s.resolveVATRate(ctx, req.VATRate)
	totals, err := billing.Calculate(billing.PricingInput{
		Labour:       req.LabourItems,
		Parts:        req.PartsItems,
		Discount:     req.Discount,
		DiscountType: req.DiscountType,
		VATRate:      vatRate,
	})
	if err != nil {
		return nil, err
	}

	customerID := req.CustomerID
	if customerID == nil && s.customerEnsurer != nil {
		id, err := s.customerEnsurer.EnsureCustomer(ctx, req.CustomerName, req.CustomerEmail, req.CustomerPhone)
		if err != nil {
			return nil, fmt.Errorf("ensure customer: %w", err)
		}
		customerID = &id
	}

	now := time.Now()
	job := repository.Job{
		ID:            uuid.New(),
		CustomerID:    customerID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: phone.NormalizeE164(req.CustomerPhone),
		VehicleReg:    req.Vehicle.Registration,
		VehicleMake:   req.Vehicle.Make,
		VehicleModel:  req.Vehicle.Model,
		VehicleYear:   req.Vehicle.Year,
		VehicleMile:   req.Vehicle.Mileage,
		VehicleColor:  req.Vehicle.Color,
		VehicleVIN:    req.Vehicle.VIN,
		WorkRequired:  req.WorkRequired,
		Notes:         req.Notes,
		Status:        billing.JobPending,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		LabourItems:   req.LabourItems,
		PartsItems:    req.PartsItems,
		Discount:      req.Discount,
		DiscountType:  req.DiscountType,
		VATRate:       vatRate,
		Subtotal:      totals.Subtotal,
		DiscountAmt:   totals.DiscountAmount,
		VATAmount:     totals.VATAmount,
		Total:         totals.Total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, &job); err != nil {
		return nil, err
	}
	return buildResponse(&job), nil
}

// GetByID returns a single job.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.JobResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildResponse(job), nil
}

// List returns jobs filtered by status and search term.
func (s *Service) List(ctx context.Context, status, search string) ([]transport.JobResponse, error) {
	jobs, err := s.repo.List(ctx, repository.ListParams{Status: status, Search: search})
	if err != nil {
		return nil, err
	}
	responses := make([]transport.JobResponse, len(jobs))
	for i := range jobs {
		responses[i] = *buildResponse(&jobs[i])
	}
	return responses, nil
}

// Update rewrites a job and recalculates its totals. Status is not updated
// here; use UpdateStatus so the transition table applies.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateJobRequest) (*transport.JobResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vatRate := s.resolveVATRate(ctx, req.VATRate)
	totals, err := billing.Calculate(billing.PricingInput{
		Labour:       req.LabourItems,
		Parts:        req.PartsItems,
		Discount:     req.Discount,
		DiscountType: req.DiscountType,
		VATRate:      vatRate,
	})
	if err != nil {
		return nil, err
	}

	job.CustomerName = req.CustomerName
	job.CustomerEmail = req.CustomerEmail
	job.CustomerPhone = phone.NormalizeE164(req.CustomerPhone)
	job.VehicleReg = req.Vehicle.Registration
	job.VehicleMake = req.Vehicle.Make
	job.VehicleModel = req.Vehicle.Model
	job.VehicleYear = req.Vehicle.Year
	job.VehicleMile = req.Vehicle.Mileage
	job.VehicleColor = req.Vehicle.Color
	job.VehicleVIN = req.Vehicle.VIN
	job.WorkRequired = req.WorkRequired
	job.Notes = req.Notes
	job.ScheduledDate = req.ScheduledDate
	job.ScheduledTime = req.ScheduledTime
	job.LabourItems = req.LabourItems
	job.PartsItems = req.PartsItems
	job.Discount = req.Discount
	job.DiscountType = req.DiscountType
	job.VATRate = vatRate
	job.Subtotal = totals.Subtotal
	job.DiscountAmt = totals.DiscountAmount
	job.VATAmount = totals.VATAmount
	job.Total = totals.Total

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// UpdateStatus moves a job through its status machine. Disallowed transitions
// return InvalidTransition without mutating the row.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*transport.JobResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus, err := billing.TransitionJob(job.Status, status)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// MarkQuoted moves a pending job to quoted when a quote is saved from it.
// Uses a conditional update so a racing status change cannot be overwritten.
func (s *Service) MarkQuoted(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.UpdateStatusIf(ctx, id, billing.JobQuoted, []string{billing.JobPending})
	if err != nil {
		return err
	}
	if affected == 0 {
		job, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return apperr.InvalidTransition("job cannot move from " + job.Status + " to " + billing.JobQuoted)
	}
	return nil
}

// Delete removes a job.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// NewJobFromEnquiry is the payload for enquiry conversion.
type NewJobFromEnquiry struct {
	EnquiryID     uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	VehicleReg    string
	VehicleMake   string
	VehicleModel  string
	WorkRequired  string
}

// CreateFromEnquiry creates the pending job that results from converting an
// enquiry. Returns the new job's id.
func (s *Service) CreateFromEnquiry(ctx context.Context, in NewJobFromEnquiry) (uuid.UUID, error) {
	now := time.Now()
	job := repository.Job{
		ID:            uuid.New(),
		EnquiryID:     &in.EnquiryID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		VehicleReg:    in.VehicleReg,
		VehicleMake:   in.VehicleMake,
		VehicleModel:  in.VehicleModel,
		WorkRequired:  in.WorkRequired,
		Status:        billing.JobPending,
		LabourItems:   []billing.LabourItem{},
		PartsItems:    []billing.PartItem{},
		DiscountType:  billing.DiscountFixed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, &job); err != nil {
		return uuid.Nil, err
	}
	return job.ID, nil
}

// ScheduledJob is the slim view the calendar's merged schedule uses.
type ScheduledJob struct {
	ID            uuid.UUID
	CustomerName  string
	CustomerPhone string
	VehicleReg    string
	WorkRequired  string
	Status        string
	ScheduledDate time.Time
	ScheduledTime string
}

// ListScheduled returns jobs scheduled inside [start, end].
func (s *Service) ListScheduled(ctx context.Context, start, end time.Time) ([]ScheduledJob, error) {
	jobs, err := s.repo.ListScheduledBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	scheduled := make([]ScheduledJob, 0, len(jobs))
	for _, j := range jobs {
		if j.ScheduledDate == nil {
			continue
		}
		scheduled = append(scheduled, ScheduledJob{
			ID:            j.ID,
			CustomerName:  j.CustomerName,
			CustomerPhone: j.CustomerPhone,
			VehicleReg:    j.VehicleReg,
			WorkRequired:  j.WorkRequired,
			Status:        j.Status,
			ScheduledDate: *j.ScheduledDate,
			ScheduledTime: j.ScheduledTime,
		})
	}
	return scheduled, nil
}

func buildResponse(j *repository.Job) *transport.JobResponse {
	labour := j.LabourItems
	if labour == nil {
		labour = []billing.LabourItem{}
	}
	parts := j.PartsItems
	if parts == nil {
		parts = []billing.PartItem{}
	}

	totals := billing.Totals{
		Subtotal:       j.Subtotal,
		DiscountAmount: j.DiscountAmt,
		VATAmount:      j.VATAmount,
		Total:          j.Total,
	}
	for _, item := range labour {
		totals.LabourTotal += item.Hours * item.Rate
	}
	for _, item := range parts {
		totals.PartsTotal += float64(item.Quantity) * item.UnitPrice
	}

	return &transport.JobResponse{
		ID:            j.ID,
		CustomerID:    j.CustomerID,
		EnquiryID:     j.EnquiryID,
		CustomerName:  j.CustomerName,
		CustomerEmail: j.CustomerEmail,
		CustomerPhone: j.CustomerPhone,
		Vehicle: transport.VehicleSnapshot{
			Registration: j.VehicleReg,
			Make:         j.VehicleMake,
			Model:        j.VehicleModel,
			Year:         j.VehicleYear,
			Mileage:      j.VehicleMile,
			Color:        j.VehicleColor,
			VIN:          j.VehicleVIN,
		},
		WorkRequired:  j.WorkRequired,
		Notes:         j.Notes,
		Status:        j.Status,
		ScheduledDate: j.ScheduledDate,
		ScheduledTime: j.ScheduledTime,
		LabourItems:   labour,
		PartsItems:    parts,
		Discount:      j.Discount,
		DiscountType:  j.DiscountType,
		VATRate:       j.VATRate,
		Totals:        totals.Rounded(),
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}
