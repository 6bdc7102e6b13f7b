package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"art-store/internal/payment"
	"art-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubCheckoutService returns scripted results per method
type stubCheckoutService struct {
	details    *service.CheckoutDetails
	detailsErr error
	method     service.PaymentMethod
	submitErr  error
	couponErr  error
	outcome    *service.PaymentOutcome
	payErr     error
}

func (s *stubCheckoutService) Details(ctx context.Context, userID uuid.UUID) (*service.CheckoutDetails, error) {
	return s.details, s.detailsErr
}

func (s *stubCheckoutService) Submit(ctx context.Context, userID uuid.UUID, input service.CheckoutInput) (service.PaymentMethod, error) {
	return s.method, s.submitErr
}

func (s *stubCheckoutService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) error {
	return s.couponErr
}

func (s *stubCheckoutService) Pay(ctx context.Context, userID uuid.UUID, method service.PaymentMethod, sourceToken string) (*service.PaymentOutcome, error) {
	return s.outcome, s.payErr
}

func newCheckoutRouter(svc service.CheckoutService) http.Handler {
	router := chi.NewRouter()
	handler := NewCheckoutHandler(svc, zap.NewNop())
	handler.RegisterRoutes(router, fakeAuth(uuid.New()))
	return router
}

func postPayment(router http.Handler, method string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"source_token": "tok_visa"})
	req := httptest.NewRequest("POST", "/payment/"+method+"/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitPaymentSuccess(t *testing.T) {
	router := newCheckoutRouter(&stubCheckoutService{
		outcome: &service.PaymentOutcome{
			Result:  payment.ChargeResult{Outcome: payment.OutcomeSucceeded, ChargeID: "ch_1"},
			Total:   decimal.NewFromInt(30),
			RefCode: "k3j2h1g0f9e8d7c6b5a4",
		},
	})

	w := postPayment(router, "stripe")

	require.Equal(t, http.StatusOK, w.Code)

	var resp PaymentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Your order was successful", resp.Message)
	assert.Equal(t, "k3j2h1g0f9e8d7c6b5a4", resp.RefCode)
	assert.Equal(t, "30.00", resp.Total)
}

func TestSubmitPaymentDeclineSurfacesGatewayMessage(t *testing.T) {
	router := newCheckoutRouter(&stubCheckoutService{
		outcome: &service.PaymentOutcome{
			Result: payment.ChargeResult{
				Outcome: payment.OutcomeDeclined,
				Message: "Your card has insufficient funds.",
			},
			Total: decimal.NewFromInt(30),
		},
	})

	w := postPayment(router, "stripe")

	require.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "Your card has insufficient funds.")
}

func TestSubmitPaymentCategoryNotices(t *testing.T) {
	tests := []struct {
		outcome payment.Outcome
		message string
	}{
		{payment.OutcomeRateLimited, "Rate limit error"},
		{payment.OutcomeInvalidRequest, "Invalid parameters"},
		{payment.OutcomeAuthFailed, "Not authenticated"},
		{payment.OutcomeNetworkError, "Network error"},
		{payment.OutcomeUnknown, "Something went wrong. You were not charged. Please try again."},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			router := newCheckoutRouter(&stubCheckoutService{
				outcome: &service.PaymentOutcome{
					Result: payment.ChargeResult{Outcome: tt.outcome},
				},
			})

			w := postPayment(router, "stripe")

			require.Equal(t, http.StatusPaymentRequired, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}

func TestSubmitPaymentOutOfModelFailureIsGeneric(t *testing.T) {
	router := newCheckoutRouter(&stubCheckoutService{
		payErr: errors.New("charge submission failed: source parse error"),
	})

	w := postPayment(router, "stripe")

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "a serious error occurred")
	// Internal detail never leaks
	assert.NotContains(t, w.Body.String(), "source parse error")
}

func TestSubmitPaymentWithoutBillingAddress(t *testing.T) {
	router := newCheckoutRouter(&stubCheckoutService{
		payErr: service.ErrBillingAddressMissing,
	})

	w := postPayment(router, "stripe")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "billing address")
}

func TestGetPaymentUnknownMethod(t *testing.T) {
	router := newCheckoutRouter(&stubCheckoutService{})

	req := httptest.NewRequest("GET", "/payment/wire-transfer/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddCouponUnknownCode(t *testing.T) {
	router := newCheckoutRouter(&stubCheckoutService{couponErr: service.ErrCouponInvalid})

	body, _ := json.Marshal(map[string]string{"code": "SAVE99"})
	req := httptest.NewRequest("POST", "/add-coupon/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "coupon does not exist")
}

func TestSubmitCheckoutValidationErrors(t *testing.T) {
	router := newCheckoutRouter(&stubCheckoutService{
		submitErr: &service.ValidationError{Fields: []service.FieldError{
			{Field: "shipping_street_address", Message: "This field is required"},
		}},
	})

	body, _ := json.Marshal(map[string]any{"payment_method": "stripe"})
	req := httptest.NewRequest("POST", "/checkout/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "shipping_street_address")
}

func TestSubmitCheckoutReturnsNextStep(t *testing.T) {
	router := newCheckoutRouter(&stubCheckoutService{method: service.PaymentMethodStripe})

	body, _ := json.Marshal(map[string]any{"payment_method": "stripe"})
	req := httptest.NewRequest("POST", "/checkout/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/payment/stripe/", resp["next"])
}
