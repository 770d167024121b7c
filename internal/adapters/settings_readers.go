package adapters

import (
	"context"

	invoicessvc "garage_crm_backend/internal/invoices/service"
	quotessvc "garage_crm_backend/internal/quotes/service"
	"garage_crm_backend/internal/settings"
)

// SettingsReader projects the settings defaults onto the narrow views the
// billing modules consume.
type SettingsReader struct {
	settings *settings.Service
}

func NewSettingsReader(svc *settings.Service) *SettingsReader {
	return &SettingsReader{settings: svc}
}

func (a *SettingsReader) DefaultVATRate(ctx context.Context) (float64, error) {
	d, err := a.settings.Defaults(ctx)
	if err != nil {
		return 0, err
	}
	return d.VATRate, nil
}

func (a *SettingsReader) QuoteDefaults(ctx context.Context) (quotessvc.QuoteDefaults, error) {
	d, err := a.settings.Defaults(ctx)
	if err != nil {
		return quotessvc.QuoteDefaults{}, err
	}
	return quotessvc.QuoteDefaults{
		VATRate:     d.VATRate,
		QuotePrefix: d.QuotePrefix,
		Notes:       d.QuoteNotes,
	}, nil
}

func (a *SettingsReader) InvoiceDefaults(ctx context.Context) (invoicessvc.InvoiceDefaults, error) {
	d, err := a.settings.Defaults(ctx)
	if err != nil {
		return invoicessvc.InvoiceDefaults{}, err
	}
	return invoicessvc.InvoiceDefaults{
		VATRate:          d.VATRate,
		InvoicePrefix:    d.InvoicePrefix,
		PaymentTermsDays: d.PaymentTermsDays,
		Notes:            d.InvoiceNotes,
		BusinessName:     d.BusinessName,
		BankName:         d.BankName,
		AccountNumber:    d.AccountNumber,
		SortCode:         d.SortCode,
	}, nil
}
