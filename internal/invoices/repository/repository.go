// Package repository provides PostgreSQL persistence for invoices.
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

// Invoice is the database model for an invoice. Customer and vehicle fields
// are snapshots; line items live in JSONB columns.
type Invoice struct {
	ID            uuid.UUID
	InvoiceNumber string
	QuoteID       *uuid.UUID
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
	DueDate       time.Time
	PaidDate      *time.Time
	PaymentMethod string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const invoiceNotFoundMsg = "invoice not found"

// Repository provides database operations for invoices.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new invoices repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NextSequence atomically advances the invoice counter and returns the new
// count. Numbers are never reissued, even after deletions.
func (r *Repository) NextSequence(ctx context.Context) (int64, error) {
	var current int64
	query := `
		INSERT INTO counters (name, last_number)
		VALUES ('invoices', 1)
		ON CONFLICT (name) DO UPDATE SET last_number = counters.last_number + 1
		RETURNING last_number`
	if err := r.pool.QueryRow(ctx, query).Scan(&current); err != nil {
		return 0, fmt.Errorf("failed to advance invoice counter: %w", err)
	}
	return current, nil
}

const invoiceColumns = `
	id, invoice_number, quote_id, job_id, customer_name, customer_email, customer_phone,
	vehicle_reg, vehicle_make, vehicle_model, labour_items, parts_items,
	discount, discount_type, vat_rate, subtotal, discount_amount, vat_amount, total,
	status, due_date, paid_date, payment_method, notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var (
		inv       Invoice
		labourRaw []byte
		partsRaw  []byte
	)
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.QuoteID, &inv.JobID, &inv.CustomerName, &inv.CustomerEmail, &inv.CustomerPhone,
		&inv.VehicleReg, &inv.VehicleMake, &inv.VehicleModel, &labourRaw, &partsRaw,
		&inv.Discount, &inv.DiscountType, &inv.VATRate, &inv.Subtotal, &inv.DiscountAmt, &inv.VATAmount, &inv.Total,
		&inv.Status, &inv.DueDate, &inv.PaidDate, &inv.PaymentMethod, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(invoiceNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}
	if len(labourRaw) > 0 {
		if err := json.Unmarshal(labourRaw, &inv.LabourItems); err != nil {
			return nil, fmt.Errorf("failed to decode labour items: %w", err)
		}
	}
	if len(partsRaw) > 0 {
		if err := json.Unmarshal(partsRaw, &inv.PartsItems); err != nil {
			return nil, fmt.Errorf("failed to decode parts items: %w", err)
		}
	}
	return &inv, nil
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

// Create inserts a new invoice.
func (r *Repository) Create(ctx context.Context, inv *Invoice) error {
	labourRaw, partsRaw, err := encodeItems(inv.LabourItems, inv.PartsItems)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO invoices (
			id, invoice_number, quote_id, job_id, customer_name, customer_email, customer_phone,
			vehicle_reg, vehicle_make, vehicle_model, labour_items, parts_items,
			discount, discount_type, vat_rate, subtotal, discount_amount, vat_amount, total,
			status, due_date, paid_date, payment_method, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26)`

	if _, err := r.pool.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.QuoteID, inv.JobID, inv.CustomerName, inv.CustomerEmail, inv.CustomerPhone,
		inv.VehicleReg, inv.VehicleMake, inv.VehicleModel, labourRaw, partsRaw,
		inv.Discount, inv.DiscountType, inv.VATRate, inv.Subtotal, inv.DiscountAmt, inv.VATAmount, inv.Total,
		inv.Status, inv.DueDate, inv.PaidDate, inv.PaymentMethod, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

// GetByID retrieves an invoice by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.pool.QueryRow(ctx, query, id))
}

// List retrieves invoices, newest first, optionally filtered by status,
// search term, or the derived overdue predicate.
func (r *Repository) List(ctx context.Context, status, search string, overdueOnly bool) ([]Invoice, error) {
	var statusParam interface{}
	if status != "" {
		statusParam = status
	}
	var searchParam interface{}
	if search != "" {
		searchParam = "%" + search + "%"
	}

	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE ($1::text IS NULL OR status = $1)
			AND ($2::text IS NULL OR invoice_number ILIKE $2 OR customer_name ILIKE $2 OR vehicle_reg ILIKE $2)
			AND (NOT $3::boolean OR (status NOT IN ('paid', 'cancelled') AND due_date < now()))
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, statusParam, searchParam, overdueOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}
	return invoices, nil
}

// Update rewrites an invoice's editable fields and recalculated totals.
func (r *Repository) Update(ctx context.Context, inv *Invoice) error {
	labourRaw, partsRaw, err := encodeItems(inv.LabourItems, inv.PartsItems)
	if err != nil {
		return err
	}

	query := `
		UPDATE invoices SET
			customer_name = $2, customer_email = $3, customer_phone = $4,
			vehicle_reg = $5, vehicle_make = $6, vehicle_model = $7,
			labour_items = $8, parts_items = $9,
			discount = $10, discount_type = $11, vat_rate = $12,
			subtotal = $13, discount_amount = $14, vat_amount = $15, total = $16,
			notes = $17, due_date = $18, updated_at = $19
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		inv.ID, inv.CustomerName, inv.CustomerEmail, inv.CustomerPhone,
		inv.VehicleReg, inv.VehicleMake, inv.VehicleModel,
		labourRaw, partsRaw,
		inv.Discount, inv.DiscountType, inv.VATRate,
		inv.Subtotal, inv.DiscountAmt, inv.VATAmount, inv.Total,
		inv.Notes, inv.DueDate, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(invoiceNotFoundMsg)
	}
	return nil
}

// UpdateStatus records a status change. Paid date and payment method are
// cleared unless the new status is paid.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, paidDate *time.Time, paymentMethod string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status = $2, paid_date = $3, payment_method = $4, updated_at = $5 WHERE id = $1`,
		id, status, paidDate, paymentMethod, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(invoiceNotFoundMsg)
	}
	return nil
}

// Delete removes an invoice. The counter is never decremented.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(invoiceNotFoundMsg)
	}
	return nil
}
