package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"credit-origination/internal/domain/customer"

	"github.com/shopspring/decimal"
)

type CreateCustomerRequest struct {
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	CPF       string          `json:"cpf"`
	Email     string          `json:"email"`
	Income    decimal.Decimal `json:"income"`
	Password  string          `json:"password"`
	ZipCode   string          `json:"zipCode"`
	Street    string          `json:"street"`
}

func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return fmt.Errorf("firstName cannot be empty")
	}
	if strings.TrimSpace(r.LastName) == "" {
		return fmt.Errorf("lastName cannot be empty")
	}
	if strings.TrimSpace(r.CPF) == "" {
		return fmt.Errorf("cpf cannot be empty")
	}
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if strings.TrimSpace(r.Password) == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if strings.TrimSpace(r.ZipCode) == "" {
		return fmt.Errorf("zipCode cannot be empty")
	}
	if strings.TrimSpace(r.Street) == "" {
		return fmt.Errorf("street cannot be empty")
	}
	if r.Income.IsNegative() {
		return fmt.Errorf("income cannot be negative")
	}
	return nil
}

func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	return customer.NewCustomer(
		strings.TrimSpace(r.FirstName),
		strings.TrimSpace(r.LastName),
		strings.TrimSpace(r.CPF),
		strings.TrimSpace(r.Email),
		r.Password,
		r.Income,
		customer.Address{ZipCode: strings.TrimSpace(r.ZipCode), Street: strings.TrimSpace(r.Street)},
	)
}

// UpdateCustomerRequest carries the mutable subset only. Email, cpf and
// password are not accepted here at all.
type UpdateCustomerRequest struct {
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Income    decimal.Decimal `json:"income"`
	ZipCode   string          `json:"zipCode"`
	Street    string          `json:"street"`
}

func (r *UpdateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return fmt.Errorf("firstName cannot be empty")
	}
	if strings.TrimSpace(r.LastName) == "" {
		return fmt.Errorf("lastName cannot be empty")
	}
	if strings.TrimSpace(r.ZipCode) == "" {
		return fmt.Errorf("zipCode cannot be empty")
	}
	if strings.TrimSpace(r.Street) == "" {
		return fmt.Errorf("street cannot be empty")
	}
	if r.Income.IsNegative() {
		return fmt.Errorf("income cannot be negative")
	}
	return nil
}

func (r *UpdateCustomerRequest) ToPatch() customer.UpdatePatch {
	return customer.UpdatePatch{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Income:    r.Income,
		ZipCode:   strings.TrimSpace(r.ZipCode),
		Street:    strings.TrimSpace(r.Street),
	}
}

type CustomerResponse struct {
	CustomerID string    `json:"customerId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	CPF        string    `json:"cpf"`
	Email      string    `json:"email"`
	Income     string    `json:"income"`
	ZipCode    string    `json:"zipCode"`
	Street     string    `json:"street"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewCustomerResponse projects a customer for the boundary. The password
// never travels on this shape.
func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {

		return CustomerResponse{}
	}

	return CustomerResponse{
		CustomerID: strconv.FormatInt(cust.CustomerID, 10),
		FirstName:  cust.FirstName,
		LastName:   cust.LastName,
		CPF:        cust.CPF,
		Email:      cust.Email,
		Income:     cust.Income.StringFixed(2),
		ZipCode:    cust.Address.ZipCode,
		Street:     cust.Address.Street,
		CreatedAt:  cust.CreatedAt,
		UpdatedAt:  cust.UpdatedAt,
	}
}
