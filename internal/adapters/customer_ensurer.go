// Package adapters contains the thin glue types that wire modules together
// without letting them import each other directly. Each adapter implements a
// narrow interface declared by the consuming module.
package adapters

import (
	"context"

	"garage_crm_backend/internal/customers"

	"github.com/google/uuid"
)

// CustomerEnsurer lets the jobs module register customers by name.
type CustomerEnsurer struct {
	svc *customers.Service
}

func NewCustomerEnsurer(svc *customers.Service) *CustomerEnsurer {
	return &CustomerEnsurer{svc: svc}
}

func (a *CustomerEnsurer) EnsureCustomer(ctx context.Context, name, email, phoneNumber string) (uuid.UUID, error) {
	customer, err := a.svc.EnsureByName(ctx, name, email, phoneNumber)
	if err != nil {
		return uuid.Nil, err
	}
	return customer.ID, nil
}
