package adapters

import (
	"context"

	invoicessvc "garage_crm_backend/internal/invoices/service"
	quotessvc "garage_crm_backend/internal/quotes/service"
)

// InvoiceWriter lets the quotes module create the invoice a quote converts
// to. The financial fields pass through untouched.
type InvoiceWriter struct {
	invoices *invoicessvc.Service
}

func NewInvoiceWriter(invoices *invoicessvc.Service) *InvoiceWriter {
	return &InvoiceWriter{invoices: invoices}
}

func (a *InvoiceWriter) CreateInvoice(ctx context.Context, in quotessvc.NewInvoiceParams) (quotessvc.NewInvoiceResult, error) {
	created, err := a.invoices.CreateFromQuote(ctx, invoicessvc.NewInvoiceFromQuote{
		QuoteID:       in.QuoteID,
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
		Notes:         in.Notes,
	})
	if err != nil {
		return quotessvc.NewInvoiceResult{}, err
	}
	return quotessvc.NewInvoiceResult{
		ID:            created.ID,
		InvoiceNumber: created.InvoiceNumber,
		DueDate:       created.DueDate,
	}, nil
}
