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

// Quote is the database model for a quote. Customer and vehicle fields are
// snapshots; line items live in JSONB columns.
type Quote struct {
	ID            uuid.UUID
	QuoteNumber   string
	JobID         *uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	VehicleReg    string
	VehicleMake   string
	VehicleModel  string
	LabourItems   []billing.LabourItem
	PartsItems    []billing.PartItem
	Discount      float64
	DiscountType  string
	VATRate       float64
	Subtotal      float64
	DiscountAmt   float64
	VATAmount     float64
	Total         float64
	Status        string
	Notes         string
	ValidUntil    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const quoteNotFoundMsg = "quote not found"

// Repository provides database operations for quotes.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new quotes repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NextSequence atomically advances the quote counter and returns the new
// count. Deleted quotes never release their number, so numbers are never
// reissued.
func (r *Repository) NextSequence(ctx context.Context) (int64, error) {
	var current int64
	query := `
		INSERT INTO counters (name, last_number)
		VALUES ('quotes', 1)
		ON CONFLICT (name) DO UPDATE SET last_number = counters.last_number + 1
		RETURNING last_number`
	if err := r.pool.QueryRow(ctx, query).Scan(&current); err != nil {
		return 0, fmt.Errorf("failed to advance quote counter: %w", err)
	}
	return current, nil
}

const quoteColumns = `
	id, quote_number, job_id, customer_name, customer_email, customer_phone,
	vehicle_reg, vehicle_make, vehicle_model, labour_items, parts_items,
	discount, discount_type, vat_rate, subtotal, discount_amount, vat_amount, total,
	status, notes, valid_until, created_at, updated_at`

func scanQuote(row pgx.Row) (*Quote, error) {
	var (
		q         Quote
		labourRaw []byte
		partsRaw  []byte
	)
	err := row.Scan(
		&q.ID, &q.QuoteNumber, &q.JobID, &q.CustomerName, &q.CustomerEmail, &q.CustomerPhone,
		&q.VehicleReg, &q.VehicleMake, &q.VehicleModel, &labourRaw, &partsRaw,
		&q.Discount, &q.DiscountType, &q.VATRate, &q.Subtotal, &q.DiscountAmt, &q.VATAmount, &q.Total,
		&q.Status, &q.Notes, &q.ValidUntil, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quoteNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to scan quote: %w", err)
	}
	if len(labourRaw) > 0 {
		if err := json.Unmarshal(labourRaw, &q.LabourItems); err != nil {
			return nil, fmt.Errorf("failed to decode labour items: %w", err)
		}
	}
	if len(partsRaw) > 0 {
		if err := json.Unmarshal(partsRaw, &q.PartsItems); err != nil {
			return nil, fmt.Errorf("failed to decode parts items: %w", err)
		}
	}
	return &q, nil
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

// Create inserts a new quote.
func (r *Repository) Create(ctx context.Context, q *Quote) error {
	labourRaw, partsRaw, err := encodeItems(q.LabourItems, q.PartsItems)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO quotes (
			id, quote_number, job_id, customer_name, customer_email, customer_phone,
			vehicle_reg, vehicle_make, vehicle_model, labour_items, parts_items,
			discount, discount_type, vat_rate, subtotal, discount_amount, vat_amount, total,
			status, notes, valid_until, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	if _, err := r.pool.Exec(ctx, query,
		q.ID, q.QuoteNumber, q.JobID, q.CustomerName, q.CustomerEmail, q.CustomerPhone,
		q.VehicleReg, q.VehicleMake, q.VehicleModel, labourRaw, partsRaw,
		q.Discount, q.DiscountType, q.VATRate, q.Subtotal, q.DiscountAmt, q.VATAmount, q.Total,
		q.Status, q.Notes, q.ValidUntil, q.CreatedAt, q.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

// GetByID retrieves a quote by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`
	return scanQuote(r.pool.QueryRow(ctx, query, id))
}

// List retrieves quotes, newest first, optionally filtered by status and search.
func (r *Repository) List(ctx context.Context, status, search string) ([]Quote, error) {
	var statusParam interface{}
	if status != "" {
		statusParam = status
	}
	var searchParam interface{}
	if search != "" {
		searchParam = "%" + search + "%"
	}

	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE ($1::text IS NULL OR status = $1)
			AND ($2::text IS NULL OR quote_number ILIKE $2 OR customer_name ILIKE $2 OR vehicle_reg ILIKE $2)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, statusParam, searchParam)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotes: %w", err)
	}
	return quotes, nil
}

// Update rewrites a quote's editable fields and recalculated totals.
func (r *Repository) Update(ctx context.Context, q *Quote) error {
	labourRaw, partsRaw, err := encodeItems(q.LabourItems, q.PartsItems)
	if err != nil {
		return err
	}

	query := `
		UPDATE quotes SET
			customer_name = $2, customer_email = $3, customer_phone = $4,
			vehicle_reg = $5, vehicle_make = $6, vehicle_model = $7,
			labour_items = $8, parts_items = $9,
			discount = $10, discount_type = $11, vat_rate = $12,
			subtotal = $13, discount_amount = $14, vat_amount = $15, total = $16,
			notes = $17, valid_until = $18, updated_at = $19
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		q.ID, q.CustomerName, q.CustomerEmail, q.CustomerPhone,
		q.VehicleReg, q.VehicleMake, q.VehicleModel,
		labourRaw, partsRaw,
		q.Discount, q.DiscountType, q.VATRate,
		q.Subtotal, q.DiscountAmt, q.VATAmount, q.Total,
		q.Notes, q.ValidUntil, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update quote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// UpdateStatus sets a quote's status unconditionally. The service validates
// the transition before calling this.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE quotes SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update quote status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// MarkConvertedIf flips the quote to converted, but only when the current
// status is in the allowed set. Exactly one of two racing converters wins;
// the loser sees zero rows affected.
func (r *Repository) MarkConvertedIf(ctx context.Context, id uuid.UUID, allowedFrom []string) (int64, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE quotes SET status = 'converted', updated_at = $2 WHERE id = $1 AND status = ANY($3)`,
		id, time.Now(), allowedFrom)
	if err != nil {
		return 0, fmt.Errorf("failed to mark quote converted: %w", err)
	}
	return result.RowsAffected(), nil
}

// RevertConversion is the compensating rollback when invoice creation fails
// after the quote was already flipped to converted.
func (r *Repository) RevertConversion(ctx context.Context, id uuid.UUID, priorStatus string) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE quotes SET status = $2, updated_at = $3 WHERE id = $1`,
		id, priorStatus, time.Now()); err != nil {
		return fmt.Errorf("failed to revert quote conversion: %w", err)
	}
	return nil
}

// Delete removes a quote. The quote counter is never decremented.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}
