package customers

import (
	"context"
	"time"

	"garage_crm_backend/platform/phone"

	"github.com/google/uuid"
)

// Service provides customer business logic.
type Service struct {
	repo *Repository
}

// NewService creates a new customers service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a new customer record.
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	now := time.Now()
	customer := &Customer{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     phone.NormalizeE164(req.Phone),
		Address:   req.Address,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetByID returns a single customer.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns customers, optionally filtered by a search term.
func (s *Service) List(ctx context.Context, search string) ([]Customer, error) {
	return s.repo.List(ctx, search)
}

// Update rewrites a customer's fields. Past documents keep their snapshots.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = phone.NormalizeE164(req.Phone)
	customer.Address = req.Address
	customer.Notes = req.Notes

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes a customer record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// EnsureByName finds a customer by exact name, creating one when absent.
// Job creation uses this so that typing a new customer name on a job form
// also registers the customer.
func (s *Service) EnsureByName(ctx context.Context, name, email, phoneNumber string) (*Customer, error) {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return s.Create(ctx, CreateCustomerRequest{Name: name, Email: email, Phone: phoneNumber})
}
