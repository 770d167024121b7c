// Package transport defines the request and response DTOs for the invoices module.
package transport

import (
	"time"

	"garage_crm_backend/internal/billing"

	"github.com/google/uuid"
)

// CreateInvoiceRequest is the POST /invoices payload. Totals are recalculated
// server-side; any client-supplied totals are ignored.
type CreateInvoiceRequest struct {
	JobID         *uuid.UUID           `json:"jobId"`
	CustomerName  string               `json:"customerName" validate:"required,max=200"`
	CustomerEmail string               `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone string               `json:"customerPhone" validate:"omitempty,max=50"`
	VehicleReg    string               `json:"vehicleReg" validate:"omitempty,max=20"`
	VehicleMake   string               `json:"vehicleMake" validate:"omitempty,max=100"`
	VehicleModel  string               `json:"vehicleModel" validate:"omitempty,max=100"`
	LabourItems   []billing.LabourItem `json:"labourItems"`
	PartsItems    []billing.PartItem   `json:"partsItems"`
	Discount      float64              `json:"discount" validate:"gte=0"`
	DiscountType  string               `json:"discountType" validate:"omitempty,oneof=fixed percentage"`
	VATRate       *float64             `json:"vatRate" validate:"omitempty,gte=0,lte=100"`
	Notes         string               `json:"notes" validate:"omitempty,max=5000"`
	DueDate       *time.Time           `json:"dueDate"`
}

// UpdateInvoiceRequest is the PUT /invoices/:id payload.
type UpdateInvoiceRequest struct {
	CustomerName  string               `json:"customerName" validate:"required,max=200"`
	CustomerEmail string               `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone string               `json:"customerPhone" validate:"omitempty,max=50"`
	VehicleReg    string               `json:"vehicleReg" validate:"omitempty,max=20"`
	VehicleMake   string               `json:"vehicleMake" validate:"omitempty,max=100"`
	VehicleModel  string               `json:"vehicleModel" validate:"omitempty,max=100"`
	LabourItems   []billing.LabourItem `json:"labourItems"`
	PartsItems    []billing.PartItem   `json:"partsItems"`
	Discount      float64              `json:"discount" validate:"gte=0"`
	DiscountType  string               `json:"discountType" validate:"omitempty,oneof=fixed percentage"`
	VATRate       *float64             `json:"vatRate" validate:"omitempty,gte=0,lte=100"`
	Notes         string               `json:"notes" validate:"omitempty,max=5000"`
	DueDate       *time.Time           `json:"dueDate"`
}

// UpdateInvoiceStatusRequest is the PATCH /invoices/:id/status payload.
// Marking paid records the payment date and optional method.
type UpdateInvoiceStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=paid partial cancelled"`
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,max=50"`
}

// InvoiceResponse is the wire representation of an invoice. Overdue is
// derived at read time, never stored.
type InvoiceResponse struct {
	ID            uuid.UUID            `json:"id"`
	InvoiceNumber string               `json:"invoiceNumber"`
	QuoteID       *uuid.UUID           `json:"quoteId,omitempty"`
	JobID         *uuid.UUID           `json:"jobId,omitempty"`
	CustomerName  string               `json:"customerName"`
	CustomerEmail string               `json:"customerEmail"`
	CustomerPhone string               `json:"customerPhone"`
	VehicleReg    string               `json:"vehicleReg"`
	VehicleMake   string               `json:"vehicleMake"`
	VehicleModel  string               `json:"vehicleModel"`
	LabourItems   []billing.LabourItem `json:"labourItems"`
	PartsItems    []billing.PartItem   `json:"partsItems"`
	Discount      float64              `json:"discount"`
	DiscountType  string               `json:"discountType"`
	VATRate       float64              `json:"vatRate"`
	Totals        billing.Totals       `json:"totals"`
	Status        string               `json:"status"`
	Overdue       bool                 `json:"overdue"`
	DueDate       time.Time            `json:"dueDate"`
	PaidDate      *time.Time           `json:"paidDate,omitempty"`
	PaymentMethod string               `json:"paymentMethod,omitempty"`
	Notes         string               `json:"notes"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}
