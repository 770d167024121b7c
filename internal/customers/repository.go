package customers

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

const customerNotFoundMsg = "customer not found"

// Repository provides database operations for customers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new customers repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const customerColumns = `id, name, email, phone, address, notes, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(customerNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}
	return &c, nil
}

// Create inserts a new customer.
func (r *Repository) Create(ctx context.Context, c *Customer) error {
	query := `
		INSERT INTO customers (id, name, email, phone, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.Notes, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

// GetByID retrieves a customer by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.pool.QueryRow(ctx, query, id))
}

// FindByName retrieves a customer by exact name match, nil when absent.
// Used by job creation to upsert customers by name.
func (r *Repository) FindByName(ctx context.Context, name string) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE name = $1 LIMIT 1`
	c, err := scanCustomer(r.pool.QueryRow(ctx, query, name))
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, nil
	}
	return c, err
}

// List retrieves all customers, newest first, optionally filtered by a search
// term matched against name, email and phone.
func (r *Repository) List(ctx context.Context, search string) ([]Customer, error) {
	var searchParam interface{}
	if search != "" {
		searchParam = "%" + search + "%"
	}

	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE ($1::text IS NULL OR name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, searchParam)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]Customer, 0)
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}
	return customers, nil
}

// Update rewrites a customer's editable fields.
func (r *Repository) Update(ctx context.Context, c *Customer) error {
	query := `
		UPDATE customers SET name = $2, email = $3, phone = $4, address = $5, notes = $6, updated_at = $7
		WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Address, c.Notes, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(customerNotFoundMsg)
	}
	return nil
}

// Delete removes a customer. Documents keep their snapshots; only the live
// record goes away.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(customerNotFoundMsg)
	}
	return nil
}
