package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database operations for the settings singleton.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new settings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the settings row, or nil when none has been saved yet.
func (r *Repository) Get(ctx context.Context) (*Settings, error) {
	var (
		s               Settings
		workingHoursRaw []byte
		labourRatesRaw  []byte
	)
	query := `
		SELECT business_name, phone, email, address, website, vat_number, company_number,
			default_vat_rate, default_payment_terms, invoice_prefix, quote_prefix,
			invoice_notes, quote_notes, bank_name, account_number, sort_code,
			working_hours, labour_rates, created_at, updated_at
		FROM settings LIMIT 1`

	err := r.pool.QueryRow(ctx, query).Scan(
		&s.BusinessName, &s.Phone, &s.Email, &s.Address, &s.Website, &s.VATNumber, &s.CompanyNumber,
		&s.DefaultVATRate, &s.DefaultPaymentTerms, &s.InvoicePrefix, &s.QuotePrefix,
		&s.InvoiceNotes, &s.QuoteNotes, &s.BankName, &s.AccountNumber, &s.SortCode,
		&workingHoursRaw, &labourRatesRaw, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if len(workingHoursRaw) > 0 {
		if err := json.Unmarshal(workingHoursRaw, &s.WorkingHours); err != nil {
			return nil, fmt.Errorf("failed to decode working hours: %w", err)
		}
	}
	if len(labourRatesRaw) > 0 {
		if err := json.Unmarshal(labourRatesRaw, &s.LabourRates); err != nil {
			return nil, fmt.Errorf("failed to decode labour rates: %w", err)
		}
	}
	return &s, nil
}

// Save inserts the settings row on first save and updates it in place after.
// The singleton id keeps the table at a single row.
func (r *Repository) Save(ctx context.Context, s *Settings) error {
	workingHoursRaw, err := json.Marshal(s.WorkingHours)
	if err != nil {
		return fmt.Errorf("failed to encode working hours: %w", err)
	}
	labourRatesRaw, err := json.Marshal(s.LabourRates)
	if err != nil {
		return fmt.Errorf("failed to encode labour rates: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO settings (
			id, business_name, phone, email, address, website, vat_number, company_number,
			default_vat_rate, default_payment_terms, invoice_prefix, quote_prefix,
			invoice_notes, quote_notes, bank_name, account_number, sort_code,
			working_hours, labour_rates, created_at, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $19)
		ON CONFLICT (id) DO UPDATE SET
			business_name = $1, phone = $2, email = $3, address = $4, website = $5,
			vat_number = $6, company_number = $7, default_vat_rate = $8, default_payment_terms = $9,
			invoice_prefix = $10, quote_prefix = $11, invoice_notes = $12, quote_notes = $13,
			bank_name = $14, account_number = $15, sort_code = $16,
			working_hours = $17, labour_rates = $18, updated_at = $19`

	if _, err := r.pool.Exec(ctx, query,
		s.BusinessName, s.Phone, s.Email, s.Address, s.Website, s.VATNumber, s.CompanyNumber,
		s.DefaultVATRate, s.DefaultPaymentTerms, s.InvoicePrefix, s.QuotePrefix,
		s.InvoiceNotes, s.QuoteNotes, s.BankName, s.AccountNumber, s.SortCode,
		workingHoursRaw, labourRatesRaw, now,
	); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
