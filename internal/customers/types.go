package customers

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a workshop customer record. Documents snapshot these fields at
// creation time; editing a customer never rewrites past documents.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateCustomerRequest is the POST /customers payload.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Address string `json:"address" validate:"omitempty,max=500"`
	Notes   string `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateCustomerRequest is the PUT /customers/:id payload.
type UpdateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Address string `json:"address" validate:"omitempty,max=500"`
	Notes   string `json:"notes" validate:"omitempty,max=2000"`
}
