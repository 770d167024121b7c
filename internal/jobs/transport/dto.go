// Package transport defines the request and response DTOs for the jobs module.
package transport

import (
	"time"

	"garage_crm_backend/internal/billing"

	"github.com/google/uuid"
)

// VehicleSnapshot is the vehicle detail block captured on a job.
type VehicleSnapshot struct {
	Registration string `json:"registration" validate:"omitempty,max=20"`
	Make         string `json:"make" validate:"omitempty,max=100"`
	Model        string `json:"model" validate:"omitempty,max=100"`
	Year         int    `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Mileage      int    `json:"mileage" validate:"omitempty,gte=0"`
	Color        string `json:"color" validate:"omitempty,max=50"`
	VIN          string `json:"vin" validate:"omitempty,max=17"`
}

// CreateJobRequest is the POST /jobs payload. Totals are never accepted from
// the client; they are recalculated server-side from the line items.
type CreateJobRequest struct {
	CustomerID    *uuid.UUID           `json:"customerId"`
	CustomerName  string               `json:"customerName" validate:"required,max=200"`
	CustomerEmail string               `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone string               `json:"customerPhone" validate:"omitempty,max=50"`
	Vehicle       VehicleSnapshot      `json:"vehicle"`
	WorkRequired  string               `json:"workRequired" validate:"omitempty,max=5000"`
	Notes         string               `json:"notes" validate:"omitempty,max=5000"`
	ScheduledDate *time.Time           `json:"scheduledDate"`
	ScheduledTime string               `json:"scheduledTime" validate:"omitempty,max=10"`
	LabourItems   []billing.LabourItem `json:"labourItems"`
	PartsItems    []billing.PartItem   `json:"partsItems"`
	Discount      float64              `json:"discount" validate:"gte=0"`
	DiscountType  string               `json:"discountType" validate:"omitempty,oneof=fixed percentage"`
	VATRate       *float64             `json:"vatRate" validate:"omitempty,gte=0,lte=100"`
}

// UpdateJobRequest is the PUT /jobs/:id payload.
type UpdateJobRequest struct {
	CustomerName  string               `json:"customerName" validate:"required,max=200"`
	CustomerEmail string               `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone string               `json:"customerPhone" validate:"omitempty,max=50"`
	Vehicle       VehicleSnapshot      `json:"vehicle"`
	WorkRequired  string               `json:"workRequired" validate:"omitempty,max=5000"`
	Notes         string               `json:"notes" validate:"omitempty,max=5000"`
	ScheduledDate *time.Time           `json:"scheduledDate"`
	ScheduledTime string               `json:"scheduledTime" validate:"omitempty,max=10"`
	LabourItems   []billing.LabourItem `json:"labourItems"`
	PartsItems    []billing.PartItem   `json:"partsItems"`
	Discount      float64              `json:"discount" validate:"gte=0"`
	DiscountType  string               `json:"discountType" validate:"omitempty,oneof=fixed percentage"`
	VATRate       *float64             `json:"vatRate" validate:"omitempty,gte=0,lte=100"`
}

// UpdateJobStatusRequest is the PATCH /jobs/:id/status payload.
type UpdateJobStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending quoted in-progress completed cancelled"`
}

// JobResponse is the wire representation of a job.
type JobResponse struct {
	ID            uuid.UUID            `json:"id"`
	CustomerID    *uuid.UUID           `json:"customerId,omitempty"`
	EnquiryID     *uuid.UUID           `json:"enquiryId,omitempty"`
	CustomerName  string               `json:"customerName"`
	CustomerEmail string               `json:"customerEmail"`
	CustomerPhone string               `json:"customerPhone"`
	Vehicle       VehicleSnapshot      `json:"vehicle"`
	WorkRequired  string               `json:"workRequired"`
	Notes         string               `json:"notes"`
	Status        string               `json:"status"`
	ScheduledDate *time.Time           `json:"scheduledDate,omitempty"`
	ScheduledTime string               `json:"scheduledTime,omitempty"`
	LabourItems   []billing.LabourItem `json:"labourItems"`
	PartsItems    []billing.PartItem   `json:"partsItems"`
	Discount      float64              `json:"discount"`
	DiscountType  string               `json:"discountType"`
	VATRate       float64              `json:"vatRate"`
	Totals        billing.Totals       `json:"totals"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}
