// Package transport defines the request and response DTOs for the quotes module.
package transport

import (
	"time"

	"garage_crm_backend/internal/billing"

	"github.com/google/uuid"
)

// CreateQuoteRequest is the POST /quotes payload. Totals are recalculated
// server-side; any client-supplied totals are ignored.
type CreateQuoteRequest struct {
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
	ValidUntil    *time.Time           `json:"validUntil"`
}

// UpdateQuoteRequest is the PUT /quotes/:id payload.
type UpdateQuoteRequest struct {
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
	ValidUntil    *time.Time           `json:"validUntil"`
}

// UpdateQuoteStatusRequest is the PATCH /quotes/:id/status payload.
// Conversion has its own endpoint.
type UpdateQuoteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected expired"`
}

// CalculationRequest is the POST /quotes/calculate payload: a pure pricing
// preview that persists nothing.
type CalculationRequest struct {
	LabourItems  []billing.LabourItem `json:"labourItems"`
	PartsItems   []billing.PartItem   `json:"partsItems"`
	Discount     float64              `json:"discount" validate:"gte=0"`
	DiscountType string               `json:"discountType" validate:"omitempty,oneof=fixed percentage"`
	VATRate      float64              `json:"vatRate" validate:"gte=0,lte=100"`
}

// QuoteResponse is the wire representation of a quote.
type QuoteResponse struct {
	ID            uuid.UUID            `json:"id"`
	QuoteNumber   string               `json:"quoteNumber"`
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
	Notes         string               `json:"notes"`
	ValidUntil    *time.Time           `json:"validUntil,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// ConvertQuoteResponse is returned by POST /quotes/:id/convert.
type ConvertQuoteResponse struct {
	Quote         QuoteResponse `json:"quote"`
	InvoiceID     uuid.UUID     `json:"invoiceId"`
	InvoiceNumber string        `json:"invoiceNumber"`
}
