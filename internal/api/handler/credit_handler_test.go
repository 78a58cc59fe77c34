package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"credit-origination/internal/api/handler/dto"
	"credit-origination/internal/domain/credit"
	"credit-origination/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCreditService struct {
	mock.Mock
}

func (_m *MockCreditService) RequestCredit(ctx context.Context, cr *credit.Credit) (*credit.Credit, error) {
	ret := _m.Called(ctx, cr)

	var r0 *credit.Credit
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*credit.Credit)
	}

	return r0, ret.Error(1)
}

func (_m *MockCreditService) ListByCustomer(ctx context.Context, customerID int64) ([]*credit.Credit, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*credit.Credit
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*credit.Credit)
	}

	return r0, ret.Error(1)
}

func (_m *MockCreditService) GetByCreditCode(ctx context.Context, customerID int64, creditCode uuid.UUID) (*credit.Credit, error) {
	ret := _m.Called(ctx, customerID, creditCode)

	var r0 *credit.Credit
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*credit.Credit)
	}

	return r0, ret.Error(1)
}

func newCreditTestRouter(service credit.CreditService) *chi.Mux {
	h := NewCreditHandler(service, testLogger)
	r := chi.NewRouter()
	r.Route("/credits", func(r chi.Router) {
		r.Post("/", h.RequestCredit)
		r.Get("/", h.ListCredits)
		r.Get("/{creditCode}", h.GetCreditByCode)
	})
	return r
}

func storedCredit(customerID int64) *credit.Credit {
	return &credit.Credit{
		ID:                   7,
		CreditCode:           uuid.New(),
		CreditValue:          decimal.NewFromInt(1000),
		FirstInstallmentDate: time.Now().AddDate(0, 1, 0),
		NumberOfInstallments: 12,
		Status:               credit.StatusInProgress,
		CustomerID:           customerID,
	}
}

func creditPayload() map[string]interface{} {
	return map[string]interface{}{
		"creditValue":          1000,
		"firstInstallmentDate": time.Now().AddDate(0, 1, 0).Format(time.RFC3339[:10]),
		"numberOfInstallments": 12,
		"customerId":           1,
	}
}

func TestRequestCreditHandler(t *testing.T) {
	t.Run("Returns 201 with the accepted credit", func(t *testing.T) {
		mockService := new(MockCreditService)
		router := newCreditTestRouter(mockService)
		created := storedCredit(1)

		mockService.On("RequestCredit", mock.Anything, mock.AnythingOfType("*credit.Credit")).
			Return(created, nil)

		rr := doJSONRequest(t, router, http.MethodPost, "/credits", creditPayload())

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp dto.CreditResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, created.CreditCode.String(), resp.CreditCode)
		assert.Equal(t, "IN_PROGRESS", resp.Status)
		mockService.AssertExpectations(t)
	})

	t.Run("Returns 400 for an invalid installment count", func(t *testing.T) {
		mockService := new(MockCreditService)
		router := newCreditTestRouter(mockService)

		payload := creditPayload()
		payload["numberOfInstallments"] = 49

		rr := doJSONRequest(t, router, http.MethodPost, "/credits", payload)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "RequestCredit", mock.Anything, mock.Anything)
	})

	t.Run("Returns 404 when the customer does not exist", func(t *testing.T) {
		mockService := new(MockCreditService)
		router := newCreditTestRouter(mockService)

		mockService.On("RequestCredit", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: Id 99 not found", apperrors.ErrNotFound))

		payload := creditPayload()
		payload["customerId"] = 99

		rr := doJSONRequest(t, router, http.MethodPost, "/credits", payload)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Returns 400 when the date rule rejects the request", func(t *testing.T) {
		mockService := new(MockCreditService)
		router := newCreditTestRouter(mockService)

		mockService.On("RequestCredit", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: first installment date must be before 2026-06-10", apperrors.ErrBusinessRule))

		rr := doJSONRequest(t, router, http.MethodPost, "/credits", creditPayload())

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListCreditsHandler(t *testing.T) {
	t.Run("Returns 200 with the customer's credits", func(t *testing.T) {
		mockService := new(MockCreditService)
		router := newCreditTestRouter(mockService)

		mockService.On("ListByCustomer", mock.Anything, int64(1)).
			Return([]*credit.Credit{storedCredit(1), storedCredit(1)}, nil)

		rr := doJSONRequest(t, router, http.MethodGet, "/credits?customerId=1", nil)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp []dto.CreditResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
	})

	t.Run("Returns 200 with an empty list", func(t *testing.T) {
		mockService := new(MockCreditService)
		router := newCreditTestRouter(mockService)

		mockService.On("ListByCustomer", mock.Anything, int64(2)).Return([]*credit.Credit{}, nil)

		rr := doJSONRequest(t, router, http.MethodGet, "/credits?customerId=2", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})

	t.Run("Returns 400 without a customerId", func(t *testing.T) {
		mockService := new(MockCreditService)
		router := newCreditTestRouter(mockService)

		rr := doJSONRequest(t, router, http.MethodGet, "/credits", nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "ListByCustomer", mock.Anything, mock.Anything)
	})
}

func TestGetCreditByCodeHandler(t *testing.T) {
	t.Run("Returns 200 for the owner", func(t *testing.T) {
		mockService := new(MockCreditService)
		router := newCreditTestRouter(mockService)
		cr := storedCredit(1)

		mockService.On("GetByCreditCode", mock.Anything, int64(1), cr.CreditCode).Return(cr, nil)

		rr := doJSONRequest(t, router, http.MethodGet, "/credits/"+cr.CreditCode.String()+"?customerId=1", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), cr.CreditCode.String())
	})

	t.Run("Returns 400 for an unknown code", func(t *testing.T) {
		mockService := new(MockCreditService)
		router := newCreditTestRouter(mockService)
		code := uuid.New()

		mockService.On("GetByCreditCode", mock.Anything, int64(1), code).
			Return(nil, fmt.Errorf("%w: creditcode %s not found", apperrors.ErrBusinessRule, code))

		rr := doJSONRequest(t, router, http.MethodGet, "/credits/"+code.String()+"?customerId=1", nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "not found")
	})

	t.Run("Returns 400 for a mismatched owner", func(t *testing.T) {
		mockService := new(MockCreditService)
		router := newCreditTestRouter(mockService)
		code := uuid.New()

		mockService.On("GetByCreditCode", mock.Anything, int64(2), code).
			Return(nil, fmt.Errorf("%w: contact admin", apperrors.ErrInvalidArgument))

		rr := doJSONRequest(t, router, http.MethodGet, "/credits/"+code.String()+"?customerId=2", nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "contact admin")
	})

	t.Run("Returns 400 for a malformed code", func(t *testing.T) {
		mockService := new(MockCreditService)
		router := newCreditTestRouter(mockService)

		rr := doJSONRequest(t, router, http.MethodGet, "/credits/not-a-uuid?customerId=1", nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "GetByCreditCode", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Returns 400 when the customerId is missing", func(t *testing.T) {
		mockService := new(MockCreditService)
		router := newCreditTestRouter(mockService)

		rr := doJSONRequest(t, router, http.MethodGet, "/credits/"+uuid.New().String(), nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
