package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"credit-origination/internal/infrastructure/monitoring"
	"credit-origination/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const customerNotFound = "Customer not found by repository"

// UpdatePatch carries the mutable subset of a customer accepted by
// UpdateCustomer. Everything else on the record stays as stored.
type UpdatePatch struct {
	FirstName string
	LastName  string
	Income    decimal.Decimal
	ZipCode   string
	Street    string
}

type CustomerService interface {
	Register(ctx context.Context, cust *Customer) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, customerID int64, patch UpdatePatch) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		repo:   repo,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) Register(ctx context.Context, cust *Customer) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register new customer")

	if cust == nil {
		return nil, fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	cust.Email = strings.TrimSpace(cust.Email)
	cust.CPF = strings.TrimSpace(cust.CPF)

	// Email first, then CPF. A payload colliding on both reports the
	// email conflict.
	if err := s.checkEmailFree(ctx, cust.Email); err != nil {
		return nil, err
	}
	if err := s.checkCPFFree(ctx, cust.CPF); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Uniqueness checks passed, calling repository Save")
	if err := s.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			// Constraint-level backstop fired, a concurrent register
			// won the race between our pre-check and the insert.
			s.logger.WarnContext(ctx, "Unique constraint rejected customer insert", slog.Any("error", err))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository failed to save customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to register customer: %w", err)
	}

	monitoring.RecordCustomerRegistered()
	s.logger.InfoContext(ctx, "Customer registered successfully", slog.Int64("customerID", cust.CustomerID))
	return cust, nil
}

func (s *customerService) checkEmailFree(ctx context.Context, email string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		s.logger.ErrorContext(ctx, "Repository error checking email uniqueness", slog.Any("error", err))
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	s.logger.WarnContext(ctx, "Email already registered", slog.Int64("existingCustomerID", existing.CustomerID))
	return fmt.Errorf("%w: %w", apperrors.ErrAlreadyExists, ErrEmailTaken)
}

func (s *customerService) checkCPFFree(ctx context.Context, cpf string) error {
	existing, err := s.repo.FindByCPF(ctx, cpf)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		s.logger.ErrorContext(ctx, "Repository error checking cpf uniqueness", slog.Any("error", err))
		return fmt.Errorf("failed to check cpf uniqueness: %w", err)
	}
	s.logger.WarnContext(ctx, "CPF already registered", slog.Int64("existingCustomerID", existing.CustomerID))
	return fmt.Errorf("%w: %w", apperrors.ErrAlreadyExists, ErrCPFTaken)
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to get customer", slog.Int64("customerID", customerID))

	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer ID must be positive, got %d", apperrors.ErrInvalidArgument, customerID)
	}

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return nil, fmt.Errorf("%w: Id %d not found", apperrors.ErrNotFound, customerID)
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Customer retrieved successfully")
	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to list customers")

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Customers listed successfully", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, patch UpdatePatch) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to update customer", slog.Int64("customerID", customerID))

	cust, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	cust.ApplyUpdate(patch.FirstName, patch.LastName, patch.Income, Address{
		ZipCode: patch.ZipCode,
		Street:  patch.Street,
	})

	s.logger.InfoContext(ctx, "Calling repository Save to persist update")
	if err := s.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer disappeared before update could complete")
			return nil, fmt.Errorf("%w: Id %d not found", apperrors.ErrNotFound, customerID)
		}
		s.logger.ErrorContext(ctx, "Repository failed to save updated customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update customer %d: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Customer updated successfully")
	return cust, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	s.logger.InfoContext(ctx, "Attempting to delete customer", slog.Int64("customerID", customerID))

	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer disappeared before delete could complete")
			return fmt.Errorf("%w: Id %d not found", apperrors.ErrNotFound, customerID)
		}
		s.logger.ErrorContext(ctx, "Repository failed to delete customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Customer deleted successfully")
	return nil
}
