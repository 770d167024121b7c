package settings

import (
	"context"
	"fmt"

	"garage_crm_backend/platform/phone"
)

// Service provides settings business logic.
type Service struct {
	repo *Repository
}

// NewService creates a new settings service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the saved settings, or nil when none exist yet.
func (s *Service) Get(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

// Save persists the settings singleton, creating it on first save.
func (s *Service) Save(ctx context.Context, req SaveSettingsRequest) (*Settings, error) {
	settings := &Settings{
		BusinessName:        req.BusinessName,
		Phone:               phone.NormalizeE164(req.Phone),
		Email:               req.Email,
		Address:             req.Address,
		Website:             req.Website,
		VATNumber:           req.VATNumber,
		CompanyNumber:       req.CompanyNumber,
		DefaultVATRate:      req.DefaultVATRate,
		DefaultPaymentTerms: req.DefaultPaymentTerms,
		InvoicePrefix:       req.InvoicePrefix,
		QuotePrefix:         req.QuotePrefix,
		InvoiceNotes:        req.InvoiceNotes,
		QuoteNotes:          req.QuoteNotes,
		BankName:            req.BankName,
		AccountNumber:       req.AccountNumber,
		SortCode:            req.SortCode,
		WorkingHours:        req.WorkingHours,
		LabourRates:         req.LabourRates,
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return s.repo.Get(ctx)
}

// Defaults resolves the document defaults, falling back to the built-in
// constants when the settings row is absent or a field is unset.
func (s *Service) Defaults(ctx context.Context) (Defaults, error) {
	d := Defaults{
		VATRate:          FallbackVATRate,
		PaymentTermsDays: FallbackPaymentTerms,
		InvoicePrefix:    FallbackInvoicePrefix,
		QuotePrefix:      FallbackQuotePrefix,
	}

	saved, err := s.repo.Get(ctx)
	if err != nil {
		return d, err
	}
	if saved == nil {
		return d, nil
	}

	if saved.DefaultVATRate > 0 {
		d.VATRate = saved.DefaultVATRate
	}
	if saved.DefaultPaymentTerms > 0 {
		d.PaymentTermsDays = saved.DefaultPaymentTerms
	}
	if saved.InvoicePrefix != "" {
		d.InvoicePrefix = saved.InvoicePrefix
	}
	if saved.QuotePrefix != "" {
		d.QuotePrefix = saved.QuotePrefix
	}
	d.InvoiceNotes = saved.InvoiceNotes
	d.QuoteNotes = saved.QuoteNotes
	d.BankName = saved.BankName
	d.AccountNumber = saved.AccountNumber
	d.SortCode = saved.SortCode
	d.BusinessName = saved.BusinessName
	return d, nil
}
