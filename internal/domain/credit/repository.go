package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, credit *Credit) (*Credit, error)

	FindByCreditCode(ctx context.Context, creditCode uuid.UUID) (*Credit, error)

	FindAllByCustomerID(ctx context.Context, customerID int64) ([]*Credit, error)

	// MarkExpired flips IN_PROGRESS credits whose first installment date
	// is already behind now to REJECTED and reports how many changed.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}
