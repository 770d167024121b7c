package calendar

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

const eventNotFoundMsg = "calendar event not found"

// Repository provides database operations for calendar events.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new calendar repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventColumns = `
	id, title, date, start_time, end_time, type, customer_name, customer_phone,
	vehicle_reg, location, notes, priority, job_id, created_at, updated_at`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Date, &e.StartTime, &e.EndTime, &e.Type, &e.CustomerName, &e.CustomerPhone,
		&e.VehicleReg, &e.Location, &e.Notes, &e.Priority, &e.JobID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(eventNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to scan calendar event: %w", err)
	}
	return &e, nil
}

// Create inserts a new calendar event.
func (r *Repository) Create(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO calendar_events (
			id, title, date, start_time, end_time, type, customer_name, customer_phone,
			vehicle_reg, location, notes, priority, job_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	if _, err := r.pool.Exec(ctx, query,
		e.ID, e.Title, e.Date, e.StartTime, e.EndTime, e.Type, e.CustomerName, e.CustomerPhone,
		e.VehicleReg, e.Location, e.Notes, e.Priority, e.JobID, e.CreatedAt, e.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert calendar event: %w", err)
	}
	return nil
}

// GetByID retrieves a calendar event by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE id = $1`
	return scanEvent(r.pool.QueryRow(ctx, query, id))
}

// List retrieves all calendar events, soonest first.
func (r *Repository) List(ctx context.Context) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events ORDER BY date, start_time`
	return r.queryEvents(ctx, query)
}

// ListBetween retrieves events whose date falls inside [start, end].
func (r *Repository) ListBetween(ctx context.Context, start, end time.Time) ([]Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM calendar_events
		WHERE date >= $1 AND date <= $2
		ORDER BY date, start_time`
	return r.queryEvents(ctx, query, start, end)
}

func (r *Repository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calendar events: %w", err)
	}
	return events, nil
}

// Update rewrites a calendar event.
func (r *Repository) Update(ctx context.Context, e *Event) error {
	query := `
		UPDATE calendar_events SET
			title = $2, date = $3, start_time = $4, end_time = $5, type = $6,
			customer_name = $7, customer_phone = $8, vehicle_reg = $9,
			location = $10, notes = $11, priority = $12, job_id = $13, updated_at = $14
		WHERE id = $1`
	result, err := r.pool.Exec(ctx, query,
		e.ID, e.Title, e.Date, e.StartTime, e.EndTime, e.Type,
		e.CustomerName, e.CustomerPhone, e.VehicleReg,
		e.Location, e.Notes, e.Priority, e.JobID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update calendar event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(eventNotFoundMsg)
	}
	return nil
}

// Delete removes a calendar event.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(eventNotFoundMsg)
	}
	return nil
}
