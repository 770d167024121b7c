package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garage_crm_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Enquiry is the database model for a workshop enquiry. Converted enquiries
// are kept as an audit trail, never deleted by the conversion.
type Enquiry struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Phone        string
	VehicleReg   string
	VehicleMake  string
	VehicleModel string
	Message      string
	Source       string
	Status       string
	Notes        string
	JobID        *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const enquiryNotFoundMsg = "enquiry not found"

// Repository provides database operations for enquiries.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new enquiries repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const enquiryColumns = `
	id, name, email, phone, vehicle_reg, vehicle_make, vehicle_model,
	message, source, status, notes, job_id, created_at, updated_at`

func scanEnquiry(row pgx.Row) (*Enquiry, error) {
	var e Enquiry
	err := row.Scan(
		&e.ID, &e.Name, &e.Email, &e.Phone, &e.VehicleReg, &e.VehicleMake, &e.VehicleModel,
		&e.Message, &e.Source, &e.Status, &e.Notes, &e.JobID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(enquiryNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to scan enquiry: %w", err)
	}
	return &e, nil
}

// Create inserts a new enquiry.
func (r *Repository) Create(ctx context.Context, e *Enquiry) error {
	query := `
		INSERT INTO enquiries (
			id, name, email, phone, vehicle_reg, vehicle_make, vehicle_model,
			message, source, status, notes, job_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	if _, err := r.pool.Exec(ctx, query,
		e.ID, e.Name, e.Email, e.Phone, e.VehicleReg, e.VehicleMake, e.VehicleModel,
		e.Message, e.Source, e.Status, e.Notes, e.JobID, e.CreatedAt, e.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert enquiry: %w", err)
	}
	return nil
}

// GetByID retrieves an enquiry by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Enquiry, error) {
	query := `SELECT ` + enquiryColumns + ` FROM enquiries WHERE id = $1`
	return scanEnquiry(r.pool.QueryRow(ctx, query, id))
}

// List retrieves enquiries, newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status string) ([]Enquiry, error) {
	var statusParam interface{}
	if status != "" {
		statusParam = status
	}

	query := `
		SELECT ` + enquiryColumns + `
		FROM enquiries
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, statusParam)
	if err != nil {
		return nil, fmt.Errorf("failed to list enquiries: %w", err)
	}
	defer rows.Close()

	enquiries := make([]Enquiry, 0)
	for rows.Next() {
		e, err := scanEnquiry(rows)
		if err != nil {
			return nil, err
		}
		enquiries = append(enquiries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate enquiries: %w", err)
	}
	return enquiries, nil
}

// UpdateStatus sets status and notes unconditionally. The service validates
// the transition before calling this.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status, notes string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE enquiries SET status = $2, notes = $3, updated_at = $4 WHERE id = $1`,
		id, status, notes, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update enquiry status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(enquiryNotFoundMsg)
	}
	return nil
}

// MarkConvertedIf flips the enquiry to converted, but only when the current
// status is in the allowed set. Exactly one of two racing converters wins;
// the loser sees zero rows affected.
func (r *Repository) MarkConvertedIf(ctx context.Context, id uuid.UUID, allowedFrom []string) (int64, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE enquiries SET status = 'converted', updated_at = $2 WHERE id = $1 AND status = ANY($3)`,
		id, time.Now(), allowedFrom)
	if err != nil {
		return 0, fmt.Errorf("failed to mark enquiry converted: %w", err)
	}
	return result.RowsAffected(), nil
}

// SetJobLink records the id of the job created from this enquiry.
func (r *Repository) SetJobLink(ctx context.Context, id uuid.UUID, jobID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE enquiries SET job_id = $2, updated_at = $3 WHERE id = $1`,
		id, jobID, time.Now()); err != nil {
		return fmt.Errorf("failed to link enquiry to job: %w", err)
	}
	return nil
}

// RevertConversion is the compensating rollback when job creation fails after
// the enquiry was already flipped to converted.
func (r *Repository) RevertConversion(ctx context.Context, id uuid.UUID, priorStatus string) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE enquiries SET status = $2, job_id = NULL, updated_at = $3 WHERE id = $1`,
		id, priorStatus, time.Now()); err != nil {
		return fmt.Errorf("failed to revert enquiry conversion: %w", err)
	}
	return nil
}

// Delete removes an enquiry.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM enquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete enquiry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(enquiryNotFoundMsg)
	}
	return nil
}
