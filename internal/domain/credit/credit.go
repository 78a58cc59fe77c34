package credit

import (
	"fmt"
	"time"

	"credit-origination/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinInstallments = 1
	MaxInstallments = 48

	// MaxFirstInstallmentMonths bounds how far out the first installment
	// may be scheduled. A date at exactly this many calendar months from
	// now is already too late.
	MaxFirstInstallmentMonths = 3
)

type CreditStatus string

const (
	StatusInProgress CreditStatus = "IN_PROGRESS"
	StatusApproved   CreditStatus = "APPROVED"
	StatusRejected   CreditStatus = "REJECTED"
)

type Credit struct {
	ID                   int64
	CreditCode           uuid.UUID
	CreditValue          decimal.Decimal
	FirstInstallmentDate time.Time
	NumberOfInstallments int
	Status               CreditStatus
	CustomerID           int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func NewCredit(creditValue decimal.Decimal, firstInstallmentDate time.Time, numberOfInstallments int, customerID int64) (*Credit, error) {
	if !creditValue.IsPositive() {
		return nil, fmt.Errorf("%w: credit value must be greater than zero", apperrors.ErrInvalidArgument)
	}
	if numberOfInstallments < MinInstallments || numberOfInstallments > MaxInstallments {
		return nil, fmt.Errorf("%w: number of installments must be between %d and %d",
			apperrors.ErrInvalidArgument, MinInstallments, MaxInstallments)
	}
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer ID must be positive", apperrors.ErrInvalidArgument)
	}

	return &Credit{
		CreditCode:           uuid.New(),
		CreditValue:          creditValue,
		FirstInstallmentDate: firstInstallmentDate,
		NumberOfInstallments: numberOfInstallments,
		Status:               StatusInProgress,
		CustomerID:           customerID,
	}, nil
}

// ValidateFirstInstallmentDate enforces the scheduling window relative to
// now. Dates at or past today plus three calendar months fail, anything
// earlier passes. The rule compares calendar dates only; the wall-clock
// time of either side plays no part. The "must be in the future" lower
// bound is the request boundary's job, not this one's.
func (c *Credit) ValidateFirstInstallmentDate(now time.Time) error {
	limit := dateOnly(now).AddDate(0, MaxFirstInstallmentMonths, 0)
	if !dateOnly(c.FirstInstallmentDate).Before(limit) {
		return fmt.Errorf("%w: first installment date must be before %s",
			apperrors.ErrBusinessRule, limit.Format(time.RFC3339[:10]))
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsExpired reports whether a still-pending request outlived its own first
// installment date.
func (c *Credit) IsExpired(now time.Time) bool {
	return c.Status == StatusInProgress && c.FirstInstallmentDate.Before(now)
}
