// Package service implements invoice business logic: CRUD with server-side
// pricing, payment status tracking, derived overdue, payment QR codes, and
// invoice creation from converted quotes.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"garage_crm_backend/internal/billing"
	"garage_crm_backend/internal/events"
	"garage_crm_backend/internal/invoices/repository"
	"garage_crm_backend/internal/invoices/transport"
	"garage_crm_backend/platform/apperr"
	"garage_crm_backend/platform/logger"
	"garage_crm_backend/platform/phone"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// Store is the persistence surface the service depends on. Satisfied by
// *repository.Repository.
type Store interface {
	NextSequence(ctx context.Context) (int64, error)
	Create(ctx context.Context, inv *repository.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Invoice, error)
	List(ctx context.Context, status, search string, overdueOnly bool) ([]repository.Invoice, error)
	Update(ctx context.Context, inv *repository.Invoice) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, paidDate *time.Time, paymentMethod string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingsReader supplies invoice defaults and the bank details rendered
// into payment QR codes.
type SettingsReader interface {
	InvoiceDefaults(ctx context.Context) (InvoiceDefaults, error)
}

// InvoiceDefaults are the settings-derived defaults applied at creation.
type InvoiceDefaults struct {
	VATRate          float64
	InvoicePrefix    string
	PaymentTermsDays int
	Notes            string
	BusinessName     string
	BankName         string
	AccountNumber    string
	SortCode         string
}

// ReminderScheduler enqueues a due-date reminder for an invoice. Wired
// through an adapter to the task scheduler.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, invoiceID uuid.UUID, dueDate time.Time) error
}

// NewInvoiceFromQuote carries the financial snapshot of a converted quote.
// All monetary fields are copied onto the invoice as-is; conversion never
// reprices.
type NewInvoiceFromQuote struct {
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

// CreatedInvoice identifies an invoice created from a quote.
type CreatedInvoice struct {
	ID            uuid.UUID
	InvoiceNumber string
	DueDate       time.Time
}

// Service provides invoice business logic.
type Service struct {
	repo           Store
	settingsReader SettingsReader
	scheduler      ReminderScheduler
	eventBus       events.Bus
	log            *logger.Logger
}

// New creates a new invoices service.
func New(repo Store, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetSettingsReader injects the settings defaults adapter.
func (s *Service) SetSettingsReader(r SettingsReader) {
	s.settingsReader = r
}

// SetReminderScheduler injects the due-date reminder scheduler.
func (s *Service) SetReminderScheduler(rs ReminderScheduler) {
	s.scheduler = rs
}

// SetEventBus injects the event bus for domain events.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

func (s *Service) resolveDefaults(ctx context.Context) InvoiceDefaults {
	defaults := InvoiceDefaults{
		VATRate:          20,
		InvoicePrefix:    "INV-",
		PaymentTermsDays: 30,
	}
	if s.settingsReader == nil {
		return defaults
	}
	resolved, err := s.settingsReader.InvoiceDefaults(ctx)
	if err != nil {
		s.log.Error("failed to load invoice defaults, using fallbacks", "error", err)
		return defaults
	}
	return resolved
}

// Create builds an invoice from the request, recalculating all totals
// server-side and assigning a number from the invoice counter.
func (s *Service) Create(ctx context.Context, req transport.CreateInvoiceRequest) (*transport.InvoiceResponse, error) {
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
	invoiceNumber := billing.NextSequenceNumber(defaults.InvoicePrefix, seq-1)

	notes := req.Notes
	if notes == "" {
		notes = defaults.Notes
	}

	now := time.Now()
	dueDate := now.AddDate(0, 0, defaults.PaymentTermsDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	inv := repository.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: invoiceNumber,
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
		Status:        billing.InvoiceUnpaid,
		DueDate:       dueDate,
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, &inv); err != nil {
		return nil, err
	}

	s.afterIssue(ctx, &inv)
	return s.buildResponse(&inv), nil
}

// CreateFromQuote inserts the invoice produced by converting a quote. The
// financial fields arrive frozen from the quote; only the number, status and
// due date are new.
func (s *Service) CreateFromQuote(ctx context.Context, in NewInvoiceFromQuote) (CreatedInvoice, error) {
	defaults := s.resolveDefaults(ctx)

	seq, err := s.repo.NextSequence(ctx)
	if err != nil {
		return CreatedInvoice{}, err
	}
	invoiceNumber := billing.NextSequenceNumber(defaults.InvoicePrefix, seq-1)

	now := time.Now()
	dueDate := now.AddDate(0, 0, defaults.PaymentTermsDays)

	inv := repository.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: invoiceNumber,
		QuoteID:       &in.QuoteID,
		JobID:         in.JobID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		VehicleReg:    in.VehicleReg,
		VehicleMake:   in.VehicleMake,
		VehicleModel:  in.VehicleModel,
		LabourItems:   in.LabourItems,
		PartsItems:    in.PartsItems,
		Discount:      in.Discount,
		DiscountType:  in.DiscountType,
		VATRate:       in.VATRate,
		Subtotal:      in.Subtotal,
		DiscountAmt:   in.DiscountAmt,
		VATAmount:     in.VATAmount,
		Total:         in.Total,
		Status:        billing.InvoiceUnpaid,
		DueDate:       dueDate,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, &inv); err != nil {
		return CreatedInvoice{}, err
	}

	s.afterIssue(ctx, &inv)
	return CreatedInvoice{ID: inv.ID, InvoiceNumber: inv.InvoiceNumber, DueDate: inv.DueDate}, nil
}

// afterIssue publishes the issued event and schedules the due-date reminder.
// Both are best effort; the invoice row is already committed.
func (s *Service) afterIssue(ctx context.Context, inv *repository.Invoice) {
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.InvoiceIssued{
			BaseEvent:     events.NewBaseEvent(),
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  inv.CustomerName,
			CustomerEmail: inv.CustomerEmail,
			Total:         billing.Round2(inv.Total),
			DueDate:       inv.DueDate,
		})
	}
	if s.scheduler != nil {
		if err := s.scheduler.ScheduleReminder(ctx, inv.ID, inv.DueDate); err != nil {
			s.log.Error("failed to schedule invoice reminder", "invoiceId", inv.ID, "error", err)
		}
	}
}

// GetByID returns a single invoice.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.InvoiceResponse, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(inv), nil
}

// List returns invoices filtered by status, search term, and overdue.
func (s *Service) List(ctx context.Context, status, search string, overdueOnly bool) ([]transport.InvoiceResponse, error) {
	invoices, err := s.repo.List(ctx, status, search, overdueOnly)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, *s.buildResponse(&invoices[i]))
	}
	return responses, nil
}

// Update rewrites an invoice's details, recalculating the totals. Paid and
// cancelled invoices are immutable.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateInvoiceRequest) (*transport.InvoiceResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == billing.InvoicePaid || existing.Status == billing.InvoiceCancelled {
		return nil, apperr.InvalidTransition(existing.Status + " invoices cannot be edited")
	}

	vatRate := existing.VATRate
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

	dueDate := existing.DueDate
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	inv := *existing
	inv.CustomerName = req.CustomerName
	inv.CustomerEmail = req.CustomerEmail
	inv.CustomerPhone = phone.NormalizeE164(req.CustomerPhone)
	inv.VehicleReg = req.VehicleReg
	inv.VehicleMake = req.VehicleMake
	inv.VehicleModel = req.VehicleModel
	inv.LabourItems = req.LabourItems
	inv.PartsItems = req.PartsItems
	inv.Discount = req.Discount
	inv.DiscountType = req.DiscountType
	inv.VATRate = vatRate
	inv.Subtotal = totals.Subtotal
	inv.DiscountAmt = totals.DiscountAmount
	inv.VATAmount = totals.VATAmount
	inv.Total = totals.Total
	inv.Notes = req.Notes
	inv.DueDate = dueDate

	if err := s.repo.Update(ctx, &inv); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// UpdateStatus applies a validated status change. Marking paid records the
// payment date and optional method; any other target clears them.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status, paymentMethod string) (*transport.InvoiceResponse, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus, err := billing.TransitionInvoice(inv.Status, status)
	if err != nil {
		return nil, err
	}

	var paidDate *time.Time
	method := ""
	if newStatus == billing.InvoicePaid {
		now := time.Now()
		paidDate = &now
		method = paymentMethod
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus, paidDate, method); err != nil {
		return nil, err
	}

	if newStatus == billing.InvoicePaid && s.eventBus != nil {
		s.eventBus.Publish(ctx, events.InvoicePaid{
			BaseEvent:     events.NewBaseEvent(),
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Total:         billing.Round2(inv.Total),
		})
	}

	return s.GetByID(ctx, id)
}

// PaymentQR renders the invoice's bank payment details as a PNG QR code.
func (s *Service) PaymentQR(ctx context.Context, id uuid.UUID) ([]byte, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	defaults := s.resolveDefaults(ctx)
	if defaults.AccountNumber == "" {
		return nil, apperr.Conflict("bank details are not configured in settings")
	}

	content := paymentReference(defaults, inv.InvoiceNumber, inv.Total)
	png, err := qrcode.Encode(content, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("encode payment qr: %w", err)
	}
	return png, nil
}

// paymentReference builds the text block a banking app reads from the QR
// code: payee, account, amount, and the invoice number as the reference.
func paymentReference(d InvoiceDefaults, invoiceNumber string, total float64) string {
	lines := []string{
		"PAY " + d.BusinessName,
		"BANK " + d.BankName,
		"SORT " + d.SortCode,
		"ACCT " + d.AccountNumber,
		fmt.Sprintf("AMOUNT %.2f", billing.Round2(total)),
		"REF " + invoiceNumber,
	}
	return strings.Join(lines, "\n")
}

// ReminderCheck runs when a scheduled reminder task fires. It re-reads the
// invoice and publishes a reminder event only when payment is still
// outstanding past the due date; invoices paid or cancelled in the meantime
// are silently skipped.
func (s *Service) ReminderCheck(ctx context.Context, id uuid.UUID) error {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}
	if !billing.InvoiceOverdue(inv.Status, inv.DueDate, time.Now()) {
		return nil
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.InvoiceReminderDue{
			BaseEvent:     events.NewBaseEvent(),
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  inv.CustomerName,
			CustomerEmail: inv.CustomerEmail,
			DueDate:       inv.DueDate,
		})
	}
	return nil
}

// Delete removes an invoice. Its number is never reissued.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) buildResponse(inv *repository.Invoice) *transport.InvoiceResponse {
	labour := inv.LabourItems
	if labour == nil {
		labour = []billing.LabourItem{}
	}
	parts := inv.PartsItems
	if parts == nil {
		parts = []billing.PartItem{}
	}

	totals := billing.Totals{
		Subtotal:       inv.Subtotal,
		DiscountAmount: inv.DiscountAmt,
		VATAmount:      inv.VATAmount,
		Total:          inv.Total,
	}
	for _, item := range labour {
		totals.LabourTotal += item.Hours * item.Rate
	}
	for _, item := range parts {
		totals.PartsTotal += float64(item.Quantity) * item.UnitPrice
	}

	return &transport.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		QuoteID:       inv.QuoteID,
		JobID:         inv.JobID,
		CustomerName:  inv.CustomerName,
		CustomerEmail: inv.CustomerEmail,
		CustomerPhone: inv.CustomerPhone,
		VehicleReg:    inv.VehicleReg,
		VehicleMake:   inv.VehicleMake,
		VehicleModel:  inv.VehicleModel,
		LabourItems:   labour,
		PartsItems:    parts,
		Discount:      inv.Discount,
		DiscountType:  inv.DiscountType,
		VATRate:       inv.VATRate,
		Totals:        totals.Rounded(),
		Status:        inv.Status,
		Overdue:       billing.InvoiceOverdue(inv.Status, inv.DueDate, time.Now()),
		DueDate:       inv.DueDate,
		PaidDate:      inv.PaidDate,
		PaymentMethod: inv.PaymentMethod,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}
