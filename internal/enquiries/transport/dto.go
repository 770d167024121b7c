// Package transport defines the request and response DTOs for the enquiries module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateEnquiryRequest is the public POST /enquiries payload, typically
// submitted from a website contact form.
type CreateEnquiryRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"omitempty,max=50"`
	VehicleReg   string `json:"vehicleReg" validate:"omitempty,max=20"`
	VehicleMake  string `json:"vehicleMake" validate:"omitempty,max=100"`
	VehicleModel string `json:"vehicleModel" validate:"omitempty,max=100"`
	Message      string `json:"message" validate:"required,max=5000"`
	Source       string `json:"source" validate:"omitempty,max=50"`
}

// UpdateEnquiryStatusRequest is the PATCH /enquiries/:id/status payload.
// Conversion has its own endpoint; only contact and close go through here.
type UpdateEnquiryStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=contacted closed"`
	Notes  string `json:"notes" validate:"omitempty,max=2000"`
}

// EnquiryResponse is the wire representation of an enquiry.
type EnquiryResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	VehicleReg   string     `json:"vehicleReg"`
	VehicleMake  string     `json:"vehicleMake"`
	VehicleModel string     `json:"vehicleModel"`
	Message      string     `json:"message"`
	Source       string     `json:"source"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes"`
	JobID        *uuid.UUID `json:"jobId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ConvertEnquiryResponse is returned by POST /enquiries/:id/convert.
type ConvertEnquiryResponse struct {
	Enquiry EnquiryResponse `json:"enquiry"`
	JobID   uuid.UUID       `json:"jobId"`
}
