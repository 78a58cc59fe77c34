package customer

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrEmailTaken = errors.New("email already registered to another customer")

	ErrCPFTaken = errors.New("cpf already registered to another customer")
)

type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindByEmail(ctx context.Context, email string) (*Customer, error)

	FindByCPF(ctx context.Context, cpf string) (*Customer, error)

	FindAll(ctx context.Context) ([]*Customer, error)

	// Delete removes the customer. Owned credits go with it, the credits
	// table carries ON DELETE CASCADE on the customer foreign key.
	Delete(ctx context.Context, customerID int64) error
}
