package credit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-origination/internal/domain/customer"
	"credit-origination/internal/infrastructure/monitoring"
	"credit-origination/internal/pkg/apperrors"

	"github.com/google/uuid"
)

type CreditService interface {
	RequestCredit(ctx context.Context, credit *Credit) (*Credit, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]*Credit, error)

	GetByCreditCode(ctx context.Context, customerID int64, creditCode uuid.UUID) (*Credit, error)
}

type creditServiceImpl struct {
	repo            Repository
	customerService customer.CustomerService
	logger          *slog.Logger
	now             func() time.Time
}

func NewCreditService(r Repository, cs customer.CustomerService, logger *slog.Logger) CreditService {
	if r == nil {
		panic("credit repository cannot be nil")
	}
	if cs == nil {
		panic("customer service cannot be nil")
	}
	return &creditServiceImpl{
		repo:            r,
		customerService: cs,
		logger:          logger.With(slog.String("component", "creditService")),
		now:             time.Now,
	}
}

func (s *creditServiceImpl) RequestCredit(ctx context.Context, credit *Credit) (*Credit, error) {
	s.logger.InfoContext(ctx, "Processing new credit request", slog.Int64("customerID", credit.CustomerID))

	if _, err := s.customerService.GetCustomer(ctx, credit.CustomerID); err != nil {
		if errors.Is(err, customer.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Credit requested for unknown customer", slog.Any("error", err))
			monitoring.RecordCreditRequest("rejected_customer")
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Failed to verify customer for credit request", slog.Any("error", err))
		return nil, fmt.Errorf("failed to verify customer %d: %w", credit.CustomerID, err)
	}

	if err := credit.ValidateFirstInstallmentDate(s.now()); err != nil {
		s.logger.WarnContext(ctx, "Credit request rejected by installment date rule", slog.Any("error", err))
		monitoring.RecordCreditRequest("rejected_date")
		return nil, err
	}

	credit.Status = StatusInProgress
	if credit.CreditCode == uuid.Nil {
		credit.CreditCode = uuid.New()
	}

	created, err := s.repo.Create(ctx, credit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save credit", slog.Any("error", err))
		monitoring.RecordCreditRequest("failure_internal")
		return nil, fmt.Errorf("%w: failed to save credit: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordCreditRequest("accepted")
	s.logger.InfoContext(ctx, "Credit request saved",
		slog.Int64("creditID", created.ID),
		slog.String("creditCode", created.CreditCode.String()))
	return created, nil
}

func (s *creditServiceImpl) ListByCustomer(ctx context.Context, customerID int64) ([]*Credit, error) {
	s.logger.InfoContext(ctx, "Listing credits for customer", slog.Int64("customerID", customerID))

	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer ID must be positive, got %d", apperrors.ErrInvalidArgument, customerID)
	}

	credits, err := s.repo.FindAllByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to list credits", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list credits for customer %d: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Credits listed", slog.Int("count", len(credits)))
	return credits, nil
}

func (s *creditServiceImpl) GetByCreditCode(ctx context.Context, customerID int64, creditCode uuid.UUID) (*Credit, error) {
	s.logger.InfoContext(ctx, "Looking up credit by code", slog.String("creditCode", creditCode.String()))

	found, err := s.repo.FindByCreditCode(ctx, creditCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Credit code not found")
			return nil, fmt.Errorf("%w: creditcode %s not found", apperrors.ErrBusinessRule, creditCode)
		}
		s.logger.ErrorContext(ctx, "Repository failed to find credit by code", slog.Any("error", err))
		return nil, fmt.Errorf("failed to find credit %s: %w", creditCode, err)
	}

	// Ownership check, deliberately a different error kind than a miss so
	// the boundary can tell "doesn't exist" apart from "exists but not
	// yours".
	if found.CustomerID != customerID {
		s.logger.WarnContext(ctx, "Credit code lookup with mismatched customer",
			slog.Int64("ownerID", found.CustomerID),
			slog.Int64("claimedID", customerID))
		return nil, fmt.Errorf("%w: contact admin", apperrors.ErrInvalidArgument)
	}

	s.logger.InfoContext(ctx, "Credit found by code", slog.Int64("creditID", found.ID))
	return found, nil
}
