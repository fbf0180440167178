package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	dto "guardianearth/internal/entity"
	"guardianearth/internal/repository"
	"guardianearth/internal/usecase/service"
)

type stubUsecase struct {
	cardFn   func(ctx context.Context, input service.CardPaymentInput) (*dto.Payment, error)
	bankFn   func(ctx context.Context, input service.BankTransferInput) (*service.BankTransferResult, error)
	reviewFn func(ctx context.Context, paymentID string, target dto.PaymentStatus) (*dto.Payment, error)
	deleteFn func(ctx context.Context, paymentID string) error
	listFn   func(ctx context.Context, filter repository.ListFilter) ([]*dto.Payment, error)
}

func (s *stubUsecase) CreateCardPayment(ctx context.Context, input service.CardPaymentInput) (*dto.Payment, error) {
	return s.cardFn(ctx, input)
}

func (s *stubUsecase) SubmitBankTransfer(ctx context.Context, input service.BankTransferInput) (*service.BankTransferResult, error) {
	return s.bankFn(ctx, input)
}

func (s *stubUsecase) ReviewPayment(ctx context.Context, paymentID string, target dto.PaymentStatus) (*dto.Payment, error) {
	return s.reviewFn(ctx, paymentID, target)
}

func (s *stubUsecase) DeletePayment(ctx context.Context, paymentID string) error {
	return s.deleteFn(ctx, paymentID)
}

func (s *stubUsecase) GetPaymentByID(ctx context.Context, paymentID string) (*dto.Payment, error) {
	return nil, dto.ErrNotFound
}

func (s *stubUsecase) ListPayments(ctx context.Context, filter repository.ListFilter) ([]*dto.Payment, error) {
	return s.listFn(ctx, filter)
}

func (s *stubUsecase) Summary(ctx context.Context, filter repository.ListFilter, period service.Period) (*service.Summary, error) {
	return &service.Summary{}, nil
}

func newTestRouter(stub *stubUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewPaymentHandler(stub, zap.NewNop())

	r := gin.New()
	payment := r.Group("/api/payment")
	payment.POST("/stripe-payment", handler.CreateCardPayment)
	payment.POST("/verify-bank-payment", handler.SubmitBankTransfer)
	payment.GET("", handler.ListPayments)
	payment.GET("/summary", handler.Summary)
	payment.PUT("/:id", handler.ReviewPayment)
	payment.DELETE("/delete/:id", handler.DeletePayment)
	return r
}

func TestCreateCardPaymentResponse(t *testing.T) {
	stub := &stubUsecase{
		cardFn: func(ctx context.Context, input service.CardPaymentInput) (*dto.Payment, error) {
			return &dto.Payment{
				ID:            "pay-1",
				Status:        dto.StatusSuccessful,
				TransactionID: "pi_3MtwBwLkdIwHu7ix28a3tqPa",
			}, nil
		},
	}
	router := newTestRouter(stub)

	body := `{"donorId": "donor-1", "amount": 150, "paymentMethodId": "pm_card_visa"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payment/stripe-payment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pay-1", resp["paymentId"])
	assert.Equal(t, "Successful", resp["status"])
	assert.Equal(t, "3tqPa", resp["transactionRef"], "only the tail of the reference is exposed")
}

func TestCreateCardPaymentInvalidAmount(t *testing.T) {
	stub := &stubUsecase{
		cardFn: func(ctx context.Context, input service.CardPaymentInput) (*dto.Payment, error) {
			return nil, dto.ErrInvalidAmount
		},
	}
	router := newTestRouter(stub)

	body := `{"donorId": "donor-1", "amount": -1, "paymentMethodId": "pm_x"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payment/stripe-payment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewAlreadyProcessed(t *testing.T) {
	stub := &stubUsecase{
		reviewFn: func(ctx context.Context, paymentID string, target dto.PaymentStatus) (*dto.Payment, error) {
			return nil, dto.ErrInvalidTransition
		},
	}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/payment/pay-1", strings.NewReader(`{"status": "Successful"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already processed")
}

func TestReviewUnknownStatus(t *testing.T) {
	router := newTestRouter(&stubUsecase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/payment/pay-1", strings.NewReader(`{"status": "Refunded"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBankTransferValidationErrorCarriesField(t *testing.T) {
	stub := &stubUsecase{
		bankFn: func(ctx context.Context, input service.BankTransferInput) (*service.BankTransferResult, error) {
			return nil, dto.NewValidationError("full_name", "only letters and spaces are allowed")
		},
	}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payment/verify-bank-payment", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "full_name", resp["field"])
}

func TestListPaymentsRejectsUnknownStatusFilter(t *testing.T) {
	router := newTestRouter(&stubUsecase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/payment?status=Bogus", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPaymentsPassesFilter(t *testing.T) {
	var got repository.ListFilter
	stub := &stubUsecase{
		listFn: func(ctx context.Context, filter repository.ListFilter) ([]*dto.Payment, error) {
			got = filter
			return nil, nil
		},
	}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/payment?status=Pending&donorId=donor-1&dateFrom=2025-01-01", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.StatusPending, got.Status)
	assert.Equal(t, "donor-1", got.DonorID)
	assert.Equal(t, 2025, got.DateFrom.Year())
}

func TestDeleteUnknownPayment(t *testing.T) {
	stub := &stubUsecase{
		deleteFn: func(ctx context.Context, paymentID string) error {
			return dto.ErrNotFound
		},
	}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/payment/delete/no-such-id", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
