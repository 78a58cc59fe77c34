package dto

import (
	"fmt"
	"strconv"
	"time"

	"credit-origination/internal/domain/credit"

	"github.com/shopspring/decimal"
)

type CreateCreditRequest struct {
	CreditValue          decimal.Decimal `json:"creditValue"`
	FirstInstallmentDate string          `json:"firstInstallmentDate"`
	NumberOfInstallments int             `json:"numberOfInstallments"`
	CustomerID           int64           `json:"customerId"`
}

func (r *CreateCreditRequest) Validate() error {
	if !r.CreditValue.IsPositive() {
		return fmt.Errorf("creditValue must be greater than zero")
	}
	if r.NumberOfInstallments < credit.MinInstallments || r.NumberOfInstallments > credit.MaxInstallments {
		return fmt.Errorf("numberOfInstallments must be between %d and %d", credit.MinInstallments, credit.MaxInstallments)
	}
	if r.CustomerID <= 0 {
		return fmt.Errorf("customerId must be a positive number")
	}
	date, err := time.Parse(time.RFC3339[:10], r.FirstInstallmentDate)
	if err != nil || r.FirstInstallmentDate == "" {
		return fmt.Errorf("invalid firstInstallmentDate format (use YYYY-MM-DD): %w", err)
	}
	if !date.After(time.Now()) {
		return fmt.Errorf("firstInstallmentDate must be a future date")
	}
	return nil
}

func (r *CreateCreditRequest) ToEntity() (*credit.Credit, error) {
	date, err := time.Parse(time.RFC3339[:10], r.FirstInstallmentDate)
	if err != nil {
		return nil, fmt.Errorf("invalid firstInstallmentDate: %w", err)
	}
	return credit.NewCredit(r.CreditValue, date, r.NumberOfInstallments, r.CustomerID)
}

type CreditResponse struct {
	ID                   string    `json:"id"`
	CreditCode           string    `json:"creditCode"`
	CreditValue          string    `json:"creditValue"`
	FirstInstallmentDate string    `json:"firstInstallmentDate"`
	NumberOfInstallments int       `json:"numberOfInstallments"`
	Status               string    `json:"status"`
	CustomerID           string    `json:"customerId"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

func NewCreditResponse(domainCredit *credit.Credit) CreditResponse {
	return CreditResponse{
		ID:                   strconv.FormatInt(domainCredit.ID, 10),
		CreditCode:           domainCredit.CreditCode.String(),
		CreditValue:          domainCredit.CreditValue.StringFixed(2),
		FirstInstallmentDate: domainCredit.FirstInstallmentDate.Format(time.RFC3339[:10]),
		NumberOfInstallments: domainCredit.NumberOfInstallments,
		Status:               string(domainCredit.Status),
		CustomerID:           strconv.FormatInt(domainCredit.CustomerID, 10),
		CreatedAt:            domainCredit.CreatedAt,
		UpdatedAt:            domainCredit.UpdatedAt,
	}
}

func NewCreditListResponse(credits []*credit.Credit) []CreditResponse {
	out := make([]CreditResponse, 0, len(credits))
	for _, c := range credits {
		out = append(out, NewCreditResponse(c))
	}
	return out
}
