package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"credit-origination/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

type MockCustomerRepository struct {
	mock.Mock
}

func (_m *MockCustomerRepository) Save(ctx context.Context, cust *Customer) error {
	ret := _m.Called(ctx, cust)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Customer) error); ok {
		r0 = rf(ctx, cust)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64) (*Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *Customer
	if rf, ok := ret.Get(0).(func(context.Context, int64) *Customer); ok {
		r0 = rf(ctx, customerID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Customer)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, customerID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	ret := _m.Called(ctx, email)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindByCPF(ctx context.Context, cpf string) (*Customer, error) {
	ret := _m.Called(ctx, cpf)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindAll(ctx context.Context) ([]*Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) Delete(ctx context.Context, customerID int64) error {
	ret := _m.Called(ctx, customerID)
	return ret.Error(0)
}

func buildCustomer(id int64) *Customer {
	cust := NewCustomer("Cami", "Cavalcante", "28475934625", "camila@email.com", "1234",
		decimal.NewFromInt(1000), Address{ZipCode: "000000", Street: "Rua da Cami, 123"})
	cust.CustomerID = id
	return cust
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Succeeds with unseen email and cpf", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, logger)
		cust := buildCustomer(0)

		mockRepo.On("FindByEmail", ctx, cust.Email).Return(nil, apperrors.ErrNotFound)
		mockRepo.On("FindByCPF", ctx, cust.CPF).Return(nil, apperrors.ErrNotFound)
		mockRepo.On("Save", ctx, cust).Return(nil).Run(func(args mock.Arguments) {
			args.Get(1).(*Customer).CustomerID = 42
		})

		registered, err := service.Register(ctx, cust)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), registered.CustomerID, "Registered customer should carry the assigned id")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Fails with AlreadyExists when email is taken", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, logger)
		cust := buildCustomer(0)

		mockRepo.On("FindByEmail", ctx, cust.Email).Return(buildCustomer(7), nil)

		_, err := service.Register(ctx, cust)

		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		assert.ErrorIs(t, err, ErrEmailTaken)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Fails with AlreadyExists when cpf is taken", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, logger)
		cust := buildCustomer(0)
		cust.Email = "different@email.com"

		mockRepo.On("FindByEmail", ctx, cust.Email).Return(nil, apperrors.ErrNotFound)
		mockRepo.On("FindByCPF", ctx, cust.CPF).Return(buildCustomer(7), nil)

		_, err := service.Register(ctx, cust)

		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		assert.ErrorIs(t, err, ErrCPFTaken)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Email conflict takes precedence over cpf conflict", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, logger)
		cust := buildCustomer(0)

		mockRepo.On("FindByEmail", ctx, cust.Email).Return(buildCustomer(7), nil)

		_, err := service.Register(ctx, cust)

		assert.ErrorIs(t, err, ErrEmailTaken)
		mockRepo.AssertNotCalled(t, "FindByCPF", mock.Anything, mock.Anything)
	})

	t.Run("Propagates constraint violation from the store", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, logger)
		cust := buildCustomer(0)

		mockRepo.On("FindByEmail", ctx, cust.Email).Return(nil, apperrors.ErrNotFound)
		mockRepo.On("FindByCPF", ctx, cust.CPF).Return(nil, apperrors.ErrNotFound)
		mockRepo.On("Save", ctx, cust).Return(fmt.Errorf("%w: customers_email_key", apperrors.ErrAlreadyExists))

		_, err := service.Register(ctx, cust)

		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		mockRepo.AssertExpectations(t)
	})
}

func TestGetCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the customer when found", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, logger)
		expected := buildCustomer(1)

		mockRepo.On("FindByID", ctx, int64(1)).Return(expected, nil)

		cust, err := service.GetCustomer(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, expected, cust)
	})

	t.Run("Fails with NotFound carrying the id in the message", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, logger)

		mockRepo.On("FindByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound)

		_, err := service.GetCustomer(ctx, 99)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Contains(t, err.Error(), "Id 99 not found")
	})

	t.Run("Rejects non-positive ids without hitting the repository", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, logger)

		_, err := service.GetCustomer(ctx, 0)

		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestListCustomers(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, logger)
	expected := []*Customer{buildCustomer(1), buildCustomer(2)}

	mockRepo.On("FindAll", ctx).Return(expected, nil)

	customers, err := service.ListCustomers(ctx)

	assert.NoError(t, err)
	assert.Len(t, customers, 2)
}

func TestUpdateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies only the mutable subset", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, logger)
		stored := buildCustomer(1)

		mockRepo.On("FindByID", ctx, int64(1)).Return(stored, nil)
		mockRepo.On("Save", ctx, stored).Return(nil)

		patch := UpdatePatch{
			FirstName: "CamiUpdate",
			LastName:  "CavalcanteUpdate",
			Income:    decimal.NewFromInt(5000),
			ZipCode:   "45656",
			Street:    "Rua Updated",
		}
		updated, err := service.UpdateCustomer(ctx, 1, patch)

		assert.NoError(t, err)
		assert.Equal(t, "CamiUpdate", updated.FirstName)
		assert.Equal(t, "CavalcanteUpdate", updated.LastName)
		assert.True(t, decimal.NewFromInt(5000).Equal(updated.Income))
		assert.Equal(t, "45656", updated.Address.ZipCode)

		assert.Equal(t, "camila@email.com", updated.Email, "Update must never change the email")
		assert.Equal(t, "28475934625", updated.CPF, "Update must never change the cpf")
		assert.Equal(t, "1234", updated.Password, "Update must never change the password")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Propagates NotFound from the lookup", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, logger)

		mockRepo.On("FindByID", ctx, int64(2)).Return(nil, apperrors.ErrNotFound)

		_, err := service.UpdateCustomer(ctx, 2, UpdatePatch{})

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestDeleteCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes after resolving the customer", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, logger)

		mockRepo.On("FindByID", ctx, int64(1)).Return(buildCustomer(1), nil)
		mockRepo.On("Delete", ctx, int64(1)).Return(nil)

		err := service.DeleteCustomer(ctx, 1)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Propagates NotFound and skips the delete", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, logger)

		mockRepo.On("FindByID", ctx, int64(5)).Return(nil, apperrors.ErrNotFound)

		err := service.DeleteCustomer(ctx, 5)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Contains(t, err.Error(), "Id 5 not found")
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Wraps unexpected repository failure", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, logger)

		mockRepo.On("FindByID", ctx, int64(1)).Return(buildCustomer(1), nil)
		mockRepo.On("Delete", ctx, int64(1)).Return(errors.New("connection reset"))

		err := service.DeleteCustomer(ctx, 1)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	})
}
