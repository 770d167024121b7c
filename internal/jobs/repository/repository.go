package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"garage_crm_backend/internal/billing"
	"garage_crm_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Job is the database model for a workshop job. Customer and vehicle fields
// are snapshots; line items live in JSONB columns.
type Job struct {
	ID            uuid.UUID
	CustomerID    *uuid.UUID
	EnquiryID     *uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	VehicleReg    string
	VehicleMake   string
	VehicleModel  string
	VehicleYear   int
	VehicleMile   int
	VehicleColor  string
	VehicleVIN    string
	WorkRequired  string
	Notes         string
	Status        string
	ScheduledDate *time.Time
	ScheduledTime string
	LabourItems   []billing.LabourItem
	PartsItems    []billing.PartItem
	Discount      float64
	DiscountType  string
	VATRate       float64
	Subtotal      float64
	DiscountAmt   float64
	VATAmount     float64
	Total         float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListParams filters job listing.
type ListParams struct {
	Status string
	Search string
}

const jobNotFoundMsg = "job not found"

// Repository provides database operations for jobs.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new jobs repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const jobColumns = `
	id, customer_id, enquiry_id, customer_name, customer_email, customer_phone,
	vehicle_reg, vehicle_make, vehicle_model, vehicle_year, vehicle_mileage, vehicle_color, vehicle_vin,
	work_required, notes, status, scheduled_date, scheduled_time,
	labour_items, parts_items, discount, discount_type, vat_rate,
	subtotal, discount_amount, vat_amount, total, created_at, updated_at`

func (r *Repository) scanJob(row pgx.Row) (*Job, error) {
	var (
		j         Job
		labourRaw []byte
		partsRaw  []byte
	)
	err := row.Scan(
		&j.ID, &j.CustomerID, &j.EnquiryID, &j.CustomerName, &j.CustomerEmail, &j.CustomerPhone,
		&j.VehicleReg, &j.VehicleMake, &j.VehicleModel, &j.VehicleYear, &j.VehicleMile, &j.VehicleColor, &j.VehicleVIN,
		&j.WorkRequired, &j.Notes, &j.Status, &j.ScheduledDate, &j.ScheduledTime,
		&labourRaw, &partsRaw, &j.Discount, &j.DiscountType, &j.VATRate,
		&j.Subtotal, &j.DiscountAmt, &j.VATAmount, &j.Total, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(jobNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}
	if err := decodeItems(labourRaw, partsRaw, &j.LabourItems, &j.PartsItems); err != nil {
		return nil, err
	}
	return &j, nil
}

func decodeItems(labourRaw, partsRaw []byte, labour *[]billing.LabourItem, parts *[]billing.PartItem) error {
	if len(labourRaw) > 0 {
		if err := json.Unmarshal(labourRaw, labour); err != nil {
			return fmt.Errorf("failed to decode labour items: %w", err)
		}
	}
	if len(partsRaw) > 0 {
		if err := json.Unmarshal(partsRaw, parts); err != nil {
			return fmt.Errorf("failed to decode parts items: %w", err)
		}
	}
	return nil
}

func encodeItems(labour []billing.LabourItem, parts []billing.PartItem) ([]byte, []byte, error) {
	if labour == nil {
		labour = []billing.LabourItem{}
	}
	if parts == nil {
		parts = []billing.PartItem{}
	}
	labourRaw, err := json.Marshal(labour)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode labour items: %w", err)
	}
	partsRaw, err := json.Marshal(parts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode parts items: %w", err)
	}
	return labourRaw, partsRaw, nil
}

// Create inserts a new job.
func (r *Repository) Create(ctx context.Context, j *Job) error {
	labourRaw, partsRaw, err := encodeItems(j.LabourItems, j.PartsItems)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO jobs (
			id, customer_id, enquiry_id, customer_name, customer_email, customer_phone,
			vehicle_reg, vehicle_make, vehicle_model, vehicle_year, vehicle_mileage, vehicle_color, vehicle_vin,
			work_required, notes, status, scheduled_date, scheduled_time,
			labour_items, parts_items, discount, discount_type, vat_rate,
			subtotal, discount_amount, vat_amount, total, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)`

	if _, err := r.pool.Exec(ctx, query,
		j.ID, j.CustomerID, j.EnquiryID, j.CustomerName, j.CustomerEmail, j.CustomerPhone,
		j.VehicleReg, j.VehicleMake, j.VehicleModel, j.VehicleYear, j.VehicleMile, j.VehicleColor, j.VehicleVIN,
		j.WorkRequired, j.Notes, j.Status, j.ScheduledDate, j.ScheduledTime,
		labourRaw, partsRaw, j.Discount, j.DiscountType, j.VATRate,
		j.Subtotal, j.DiscountAmt, j.VATAmount, j.Total, j.CreatedAt, j.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// GetByID retrieves a job by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return r.scanJob(r.pool.QueryRow(ctx, query, id))
}

// List retrieves jobs, newest first, optionally filtered by status and search.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Job, error) {
	var statusParam interface{}
	if params.Status != "" {
		statusParam = params.Status
	}
	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}

	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE ($1::text IS NULL OR status = $1)
			AND ($2::text IS NULL OR customer_name ILIKE $2 OR vehicle_reg ILIKE $2 OR work_required ILIKE $2)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, statusParam, searchParam)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()
	return r.collectJobs(rows)
}

// ListScheduledBetween returns jobs with a scheduled date inside [start, end].
// The calendar module merges these with its own events for the schedule view.
func (r *Repository) ListScheduledBetween(ctx context.Context, start, end time.Time) ([]Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE scheduled_date IS NOT NULL AND scheduled_date >= $1 AND scheduled_date <= $2
		ORDER BY scheduled_date ASC, scheduled_time ASC`

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled jobs: %w", err)
	}
	defer rows.Close()
	return r.collectJobs(rows)
}

func (r *Repository) collectJobs(rows pgx.Rows) ([]Job, error) {
	jobs := make([]Job, 0)
	for rows.Next() {
		j, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// Update rewrites a job's editable fields and recalculated totals.
func (r *Repository) Update(ctx context.Context, j *Job) error {
	labourRaw, partsRaw, err := encodeItems(j.LabourItems, j.PartsItems)
	if err != nil {
		return err
	}

	query := `
		UPDATE jobs SET
			customer_name = $2, customer_email = $3, customer_phone = $4,
			vehicle_reg = $5, vehicle_make = $6, vehicle_model = $7, vehicle_year = $8,
			vehicle_mileage = $9, vehicle_color = $10, vehicle_vin = $11,
			work_required = $12, notes = $13, scheduled_date = $14, scheduled_time = $15,
			labour_items = $16, parts_items = $17, discount = $18, discount_type = $19, vat_rate = $20,
			subtotal = $21, discount_amount = $22, vat_amount = $23, total = $24, updated_at = $25
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		j.ID, j.CustomerName, j.CustomerEmail, j.CustomerPhone,
		j.VehicleReg, j.VehicleMake, j.VehicleModel, j.VehicleYear,
		j.VehicleMile, j.VehicleColor, j.VehicleVIN,
		j.WorkRequired, j.Notes, j.ScheduledDate, j.ScheduledTime,
		labourRaw, partsRaw, j.Discount, j.DiscountType, j.VATRate,
		j.Subtotal, j.DiscountAmt, j.VATAmount, j.Total, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(jobNotFoundMsg)
	}
	return nil
}

// UpdateStatus sets a job's status unconditionally. The service validates the
// transition before calling this.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE jobs SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(jobNotFoundMsg)
	}
	return nil
}

// UpdateStatusIf sets a job's status only when the current status is in the
// allowed set. Returns the number of rows changed so callers can tell a lost
// race from a missing row.
func (r *Repository) UpdateStatusIf(ctx context.Context, id uuid.UUID, status string, allowedFrom []string) (int64, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE jobs SET status = $2, updated_at = $3 WHERE id = $1 AND status = ANY($4)`,
		id, status, time.Now(), allowedFrom)
	if err != nil {
		return 0, fmt.Errorf("failed to update job status: %w", err)
	}
	return result.RowsAffected(), nil
}

// Delete removes a job.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(jobNotFoundMsg)
	}
	return nil
}
