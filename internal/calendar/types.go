package calendar

import (
	"time"

	"github.com/google/uuid"
)

// Event types. The "job" type is reserved for schedule entries synthesized
// from jobs; stored events use the others.
const (
	TypeAppointment = "appointment"
	TypeMOT         = "mot"
	TypeService     = "service"
	TypeRepair      = "repair"
	TypeReminder    = "reminder"
	TypeOther       = "other"
	TypeJob         = "job"
)

// Event is a calendar entry. Date is the calendar day; start and end times
// are stored as HH:MM strings the way the booking UI sends them.
type Event struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Date          time.Time  `json:"date"`
	StartTime     string     `json:"startTime"`
	EndTime       string     `json:"endTime"`
	Type          string     `json:"type"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	VehicleReg    string     `json:"vehicleReg"`
	Location      string     `json:"location"`
	Notes         string     `json:"notes"`
	Priority      string     `json:"priority"`
	JobID         *uuid.UUID `json:"jobId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CreateEventRequest is the POST /calendar payload.
type CreateEventRequest struct {
	Title         string     `json:"title" validate:"required,max=200"`
	Date          time.Time  `json:"date" validate:"required"`
	StartTime     string     `json:"startTime" validate:"omitempty,max=5"`
	EndTime       string     `json:"endTime" validate:"omitempty,max=5"`
	Type          string     `json:"type" validate:"omitempty,oneof=appointment mot service repair reminder other"`
	CustomerName  string     `json:"customerName" validate:"omitempty,max=200"`
	CustomerPhone string     `json:"customerPhone" validate:"omitempty,max=50"`
	VehicleReg    string     `json:"vehicleReg" validate:"omitempty,max=20"`
	Location      string     `json:"location" validate:"omitempty,max=200"`
	Notes         string     `json:"notes" validate:"omitempty,max=2000"`
	Priority      string     `json:"priority" validate:"omitempty,oneof=low normal high"`
	JobID         *uuid.UUID `json:"jobId"`
}

// UpdateEventRequest is the PUT /calendar/:id payload.
type UpdateEventRequest struct {
	Title         string     `json:"title" validate:"required,max=200"`
	Date          time.Time  `json:"date" validate:"required"`
	StartTime     string     `json:"startTime" validate:"omitempty,max=5"`
	EndTime       string     `json:"endTime" validate:"omitempty,max=5"`
	Type          string     `json:"type" validate:"omitempty,oneof=appointment mot service repair reminder other"`
	CustomerName  string     `json:"customerName" validate:"omitempty,max=200"`
	CustomerPhone string     `json:"customerPhone" validate:"omitempty,max=50"`
	VehicleReg    string     `json:"vehicleReg" validate:"omitempty,max=20"`
	Location      string     `json:"location" validate:"omitempty,max=200"`
	Notes         string     `json:"notes" validate:"omitempty,max=2000"`
	Priority      string     `json:"priority" validate:"omitempty,oneof=low normal high"`
	JobID         *uuid.UUID `json:"jobId"`
}

// ScheduleEntry is one row of the merged schedule: either a stored calendar
// event or a job with a scheduled date. Job entries are synthesized at read
// time and are not backed by an event row.
type ScheduleEntry struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Date          time.Time  `json:"date"`
	StartTime     string     `json:"startTime,omitempty"`
	EndTime       string     `json:"endTime,omitempty"`
	Type          string     `json:"type"`
	CustomerName  string     `json:"customerName,omitempty"`
	CustomerPhone string     `json:"customerPhone,omitempty"`
	VehicleReg    string     `json:"vehicleReg,omitempty"`
	Location      string     `json:"location,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Priority      string     `json:"priority,omitempty"`
	JobID         *uuid.UUID `json:"jobId,omitempty"`
	JobStatus     string     `json:"jobStatus,omitempty"`
}
