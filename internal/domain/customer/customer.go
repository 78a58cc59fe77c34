package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

type Address struct {
	ZipCode string `json:"zipCode"`
	Street  string `json:"street"`
}

type Customer struct {
	CustomerID int64           `json:"customerId"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	CPF        string          `json:"cpf"`
	Email      string          `json:"email"`
	Password   string          `json:"-"`
	Income     decimal.Decimal `json:"income"`
	Address    Address         `json:"address"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func NewCustomer(firstName, lastName, cpf, email, password string, income decimal.Decimal, address Address) *Customer {
	now := time.Now()
	return &Customer{
		FirstName: firstName,
		LastName:  lastName,
		CPF:       cpf,
		Email:     email,
		Password:  password,
		Income:    income,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ApplyUpdate writes the mutable subset of fields. Email, CPF and password
// are not reachable through this path.
func (c *Customer) ApplyUpdate(firstName, lastName string, income decimal.Decimal, address Address) {
	c.FirstName = firstName
	c.LastName = lastName
	c.Income = income
	c.Address = address
	c.UpdatedAt = time.Now()
}
