// Package service implements quote business logic: CRUD with server-side
// pricing, the quote status machine, the pricing preview, and conversion to
// invoices.
package service

import (
	"context"
	"fmt"
	"time"

	"garage_crm_backend/internal/billing"
	"garage_crm_backend/internal/events"
	"garage_crm_backend/internal/quotes/repository"
	"garage_crm_backend/internal/quotes/transport"
	"garage_crm_backend/platform/apperr"
	"garage_crm_backend/platform/logger"
	"garage_crm_backend/platform/phone"

	"github.com/google/uuid"
)

const defaultValidDays = 30

// Store is the persistence surface the service depends on. Satisfied by
// *repository.Repository.
type Store interface {
	NextSequence(ctx context.Context) (int64, error)
	Create(ctx context.Context, q *repository.Quote) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Quote, error)
	List(ctx context.Context, status, search string) ([]repository.Quote, error)
	Update(ctx context.Context, q *repository.Quote) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	MarkConvertedIf(ctx context.Context, id uuid.UUID, allowedFrom []string) (int64, error)
	RevertConversion(ctx context.Context, id uuid.UUID, priorStatus string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvoiceWriter creates the invoice that results from converting a quote.
// Wired through an adapter to the invoices module.
type InvoiceWriter interface {
	CreateInvoice(ctx context.Context, in NewInvoiceParams) (NewInvoiceResult, error)
}

// NewInvoiceParams carries the quote fields copied verbatim onto the invoice.
// The financial fields are contractually frozen; the invoices side must not
// recalculate them.
type NewInvoiceParams struct {
	QuoteID       uuid.UUID
	JobID         *uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	VehicleReg    string
	VehicleMake   string
	VehicleModel  string
	LabourItems   []billing.LabourItem
	PartsItems    []billing.PartItem
	Discount      float64
	DiscountType  string
	VATRate       float64
	Subtotal      float64
	DiscountAmt   float64
	VATAmount     float64
	Total         float64
	Notes         string
}

// NewInvoiceResult identifies the created invoice.
type NewInvoiceResult struct {
	ID            uuid.UUID
	InvoiceNumber string
	DueDate       time.Time
}

// JobMarker flips a job to quoted when a quote is created from it. Wired
// through an adapter to the jobs module.
type JobMarker interface {
	MarkQuoted(ctx context.Context, jobID uuid.UUID) error
}

// SettingsReader supplies quote defaults from the settings module.
type SettingsReader interface {
	QuoteDefaults(ctx context.Context) (QuoteDefaults, error)
}

// QuoteDefaults are the settings-derived defaults applied at creation.
type QuoteDefaults struct {
	VATRate     float64
	QuotePrefix string
	Notes       string
}

// Service provides quote business logic.
type Service struct {
	repo           Store
	invoiceWriter  InvoiceWriter
	jobMarker      JobMarker
	settingsReader SettingsReader
	eventBus       events.Bus
	log            *logger.Logger
}

// New creates a new quotes service.
func New(repo Store, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetInvoiceWriter injects the invoice creation adapter.
func (s *Service) SetInvoiceWriter(w InvoiceWriter) {
	s.invoiceWriter = w
}

// SetJobMarker injects the job status adapter.
func (s *Service) SetJobMarker(m JobMarker) {
	s.jobMarker = m
}

// SetSettingsReader injects the settings defaults adapter.
func (s *Service) SetSettingsReader(r SettingsReader) {
	s.settingsReader = r
}

// SetEventBus injects the domain event bus.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

func (s *Service) resolveDefaults(ctx context.Context) QuoteDefaults {
	defaults := QuoteDefaults{VATRate: 20, QuotePrefix: "QT-"}
	if s.settingsReader != nil {
		if d, err := s.settingsReader.QuoteDefaults(ctx); err == nil {
			defaults = d
		}
	}
	return defaults
}

// Calculate is the pure pricing preview. Nothing is persisted.
func (s *Service) Calculate(req transport.CalculationRequest) (billing.Totals, error) {
	totals, err := billing.Calculate(billing.PricingInput{
		Labour:       req.LabourItems,
		Parts:        req.PartsItems,
		Discount:     req.Discount,
		DiscountType: req.DiscountType,
		VATRate:      req.VATRate,
	})
	if err != nil {
		return billing.Totals{}, err
	}
	return totals.Rounded(), nil
}

// Create drafts a new quote. The quote number comes from the monotonic
// counter; creating from a job marks the job quoted.
func (s *Service) Create(ctx context.Context, req transport.CreateQuoteRequest) (*transport.QuoteResponse, error) {
	defaults := s.resolveDefaults(ctx)

	vatRate := defaults.VATRate
	if req.VATRate != nil {
		vatRate = *req.VATRate
	}

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

	seq, err := s.repo.NextSequence(ctx)
	if err != nil {
		return nil, err
	}
	quoteNumber := billing.NextSequenceNumber(defaults.QuotePrefix, seq-1)

	notes := req.Notes
	if notes == "" {
		notes = defaults.Notes
	}

	now := time.Now()
	validUntil := req.ValidUntil
	if validUntil == nil {
		exp := now.AddDate(0, 0, defaultValidDays)
		validUntil = &exp
	}

	quote := repository.Quote{
		ID:            uuid.New(),
		QuoteNumber:   quoteNumber,
		JobID:         req.JobID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: phone.NormalizeE164(req.CustomerPhone),
		VehicleReg:    req.VehicleReg,
		VehicleMake:   req.VehicleMake,
		VehicleModel:  req.VehicleModel,
		LabourItems:   req.LabourItems,
		PartsItems:    req.PartsItems,
		Discount:      req.Discount,
		DiscountType:  req.DiscountType,
		VATRate:       vatRate,
		Subtotal:      totals.Subtotal,
		DiscountAmt:   totals.DiscountAmount,
		VATAmount:     totals.VATAmount,
		Total:         totals.Total,
		Status:        billing.QuotePending,
		Notes:         notes,
		ValidUntil:    validUntil,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, &quote); err != nil {
		return nil, err
	}

	if req.JobID != nil && s.jobMarker != nil {
		// Best effort: the quote exists either way, and a job already past
		// pending is not an error worth failing the quote for.
		if err := s.jobMarker.MarkQuoted(ctx, *req.JobID); err != nil && !apperr.Is(err, apperr.KindInvalidTransition) {
			s.log.Error("failed to mark job quoted", "jobId", *req.JobID, "quoteId", quote.ID, "error", err)
		}
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.QuoteCreated{
			BaseEvent:    events.NewBaseEvent(),
			QuoteID:      quote.ID,
			QuoteNumber:  quote.QuoteNumber,
			CustomerName: quote.CustomerName,
			Total:        billing.Round2(quote.Total),
		})
	}

	return buildResponse(&quote), nil
}

// GetByID returns a single quote.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildResponse(quote), nil
}

// List returns quotes filtered by status and search term.
func (s *Service) List(ctx context.Context, status, search string) ([]transport.QuoteResponse, error) {
	quotes, err := s.repo.List(ctx, status, search)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.QuoteResponse, len(quotes))
	for i := range quotes {
		responses[i] = *buildResponse(&quotes[i])
	}
	return responses, nil
}

// Update rewrites a quote and recalculates its totals. Converted quotes are
// frozen: their financials back an issued invoice.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateQuoteRequest) (*transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status == billing.QuoteConverted {
		return nil, apperr.InvalidTransition("converted quotes cannot be edited")
	}

	vatRate := quote.VATRate
	if req.VATRate != nil {
		vatRate = *req.VATRate
	}

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

	quote.CustomerName = req.CustomerName
	quote.CustomerEmail = req.CustomerEmail
	quote.CustomerPhone = phone.NormalizeE164(req.CustomerPhone)
	quote.VehicleReg = req.VehicleReg
	quote.VehicleMake = req.VehicleMake
	quote.VehicleModel = req.VehicleModel
	quote.LabourItems = req.LabourItems
	quote.PartsItems = req.PartsItems
	quote.Discount = req.Discount
	quote.DiscountType = req.DiscountType
	quote.VATRate = vatRate
	quote.Subtotal = totals.Subtotal
	quote.DiscountAmt = totals.DiscountAmount
	quote.VATAmount = totals.VATAmount
	quote.Total = totals.Total
	quote.Notes = req.Notes
	quote.ValidUntil = req.ValidUntil

	if err := s.repo.Update(ctx, quote); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// UpdateStatus handles accept, reject and expire. Conversion goes through
// Convert.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus, err := billing.TransitionQuote(quote.Status, status)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Convert turns a pending or accepted quote into an unpaid invoice. The
// quoted financials are copied verbatim; nothing is recalculated. The quote
// is flipped to converted with a conditional update first, so concurrent
// converters cannot both succeed; if invoice creation then fails the status
// is rolled back.
func (s *Service) Convert(ctx context.Context, id uuid.UUID) (*transport.ConvertQuoteResponse, error) {
	if s.invoiceWriter == nil {
		return nil, apperr.Internal("invoice writer not configured")
	}

	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	priorStatus := quote.Status

	affected, err := s.repo.MarkConvertedIf(ctx, id, billing.QuoteConvertibleStatuses)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Re-read to distinguish a lost race from a terminal quote
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, apperr.InvalidTransition("quote cannot be converted from " + current.Status)
	}

	result, err := s.invoiceWriter.CreateInvoice(ctx, NewInvoiceParams{
		QuoteID:       quote.ID,
		JobID:         quote.JobID,
		CustomerName:  quote.CustomerName,
		CustomerEmail: quote.CustomerEmail,
		CustomerPhone: quote.CustomerPhone,
		VehicleReg:    quote.VehicleReg,
		VehicleMake:   quote.VehicleMake,
		VehicleModel:  quote.VehicleModel,
		LabourItems:   quote.LabourItems,
		PartsItems:    quote.PartsItems,
		Discount:      quote.Discount,
		DiscountType:  quote.DiscountType,
		VATRate:       quote.VATRate,
		Subtotal:      quote.Subtotal,
		DiscountAmt:   quote.DiscountAmt,
		VATAmount:     quote.VATAmount,
		Total:         quote.Total,
		Notes:         quote.Notes,
	})
	if err != nil {
		if revertErr := s.repo.RevertConversion(ctx, id, priorStatus); revertErr != nil {
			s.log.Error("failed to roll back quote conversion", "quoteId", id, "error", revertErr)
		}
		s.log.ConversionEvent("quote_to_invoice", id.String(), "", err)
		return nil, fmt.Errorf("create invoice from quote: %w", err)
	}
	s.log.ConversionEvent("quote_to_invoice", id.String(), result.ID.String(), nil)

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.QuoteConverted{
			BaseEvent:     events.NewBaseEvent(),
			QuoteID:       quote.ID,
			InvoiceID:     result.ID,
			InvoiceNumber: result.InvoiceNumber,
			Total:         billing.Round2(quote.Total),
		})
	}

	converted, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &transport.ConvertQuoteResponse{
		Quote:         *converted,
		InvoiceID:     result.ID,
		InvoiceNumber: result.InvoiceNumber,
	}, nil
}

// Delete removes a quote.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func buildResponse(q *repository.Quote) *transport.QuoteResponse {
	labour := q.LabourItems
	if labour == nil {
		labour = []billing.LabourItem{}
	}
	parts := q.PartsItems
	if parts == nil {
		parts = []billing.PartItem{}
	}

	totals := billing.Totals{
		Subtotal:       q.Subtotal,
		DiscountAmount: q.DiscountAmt,
		VATAmount:      q.VATAmount,
		Total:          q.Total,
	}
	for _, item := range labour {
		totals.LabourTotal += item.Hours * item.Rate
	}
	for _, item := range parts {
		totals.PartsTotal += float64(item.Quantity) * item.UnitPrice
	}

	return &transport.QuoteResponse{
		ID:            q.ID,
		QuoteNumber:   q.QuoteNumber,
		JobID:         q.JobID,
		CustomerName:  q.CustomerName,
		CustomerEmail: q.CustomerEmail,
		CustomerPhone: q.CustomerPhone,
		VehicleReg:    q.VehicleReg,
		VehicleMake:   q.VehicleMake,
		VehicleModel:  q.VehicleModel,
		LabourItems:   labour,
		PartsItems:    parts,
		Discount:      q.Discount,
		DiscountType:  q.DiscountType,
		VATRate:       q.VATRate,
		Totals:        totals.Rounded(),
		Status:        q.Status,
		Notes:         q.Notes,
		ValidUntil:    q.ValidUntil,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}
