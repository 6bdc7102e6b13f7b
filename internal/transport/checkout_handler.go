package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"art-store/internal/middleware"
	"art-store/internal/payment"
	"art-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CouponRequest represents the coupon submission payload
type CouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// PaymentRequest carries the gateway source token for the charge
type PaymentRequest struct {
	SourceToken string `json:"source_token" validate:"required"`
}

// PaymentResponse reports one charge attempt back to the client
type PaymentResponse struct {
	Message string `json:"message"`
	RefCode string `json:"ref_code,omitempty"`
	Total   string `json:"total,omitempty"`
}

// CheckoutHandler drives the checkout workflow over HTTP
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers checkout routes; all of them require login.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/checkout/", h.GetCheckout)
		r.Post("/checkout/", h.SubmitCheckout)
		r.Get("/payment/{method}/", h.GetPayment)
		r.Post("/payment/{method}/", h.SubmitPayment)
		r.Post("/add-coupon/", h.AddCoupon)
	})
}

// GetCheckout shows the open cart and default addresses for prefill
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	details, err := h.checkoutService.Details(r.Context(), userID)
	if err != nil {
		if err == service.ErrNoOpenCart {
			middleware.RespondWithNotice(w, http.StatusNotFound, err.Error())
			return
		}

		h.logger.Error("Failed to load checkout details", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load checkout")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, details)
}

// SubmitCheckout resolves both addresses and the payment-method choice
func (h *CheckoutHandler) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var input service.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	method, err := h.checkoutService.Submit(r.Context(), userID, input)
	if err != nil {
		h.respondCheckoutFailure(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"payment_method": string(method),
		"next":           "/payment/" + string(method) + "/",
	})
}

// GetPayment validates the method selection and shows the amount due
func (h *CheckoutHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	method, err := service.ParsePaymentMethod(chi.URLParam(r, "method"))
	if err != nil {
		middleware.RespondWithNotice(w, http.StatusNotFound, "invalid payment option selected")
		return
	}

	details, err := h.checkoutService.Details(r.Context(), userID)
	if err != nil {
		if err == service.ErrNoOpenCart {
			middleware.RespondWithNotice(w, http.StatusNotFound, err.Error())
			return
		}

		h.logger.Error("Failed to load payment details", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load payment details")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"payment_method": method,
		"total":          details.Cart.Total(),
	})
}

// SubmitPayment charges the open cart through the gateway
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	method := service.PaymentMethod(chi.URLParam(r, "method"))

	outcome, err := h.checkoutService.Pay(r.Context(), userID, method, req.SourceToken)
	if err != nil {
		switch err {
		case service.ErrNoOpenCart:
			middleware.RespondWithNotice(w, http.StatusNotFound, err.Error())
		case service.ErrInvalidPaymentMethod:
			middleware.RespondWithNotice(w, http.StatusNotFound, err.Error())
		case service.ErrBillingAddressMissing:
			middleware.RespondWithNotice(w, http.StatusBadRequest, err.Error())
		default:
			// Out-of-model gateway failure. Logged with detail, but only
			// a generic message goes back to the user.
			h.logger.Error("Charge submission failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusBadGateway, "a serious error occurred, we have been notified")
		}
		return
	}

	if !outcome.Result.Succeeded() {
		middleware.RespondWithError(w, http.StatusPaymentRequired, chargeFailureMessage(outcome.Result))
		return
	}

	h.logger.Info("Order finalized",
		zap.String("user_id", userID.String()),
		zap.String("ref_code", outcome.RefCode),
	)

	middleware.RespondWithJSON(w, http.StatusOK, PaymentResponse{
		Message: "Your order was successful",
		RefCode: outcome.RefCode,
		Total:   outcome.Total.StringFixed(2),
	})
}

// AddCoupon attaches a coupon to the open cart
func (h *CheckoutHandler) AddCoupon(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req CouponRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.checkoutService.ApplyCoupon(r.Context(), userID, req.Code); err != nil {
		switch err {
		case service.ErrNoOpenCart:
			middleware.RespondWithNotice(w, http.StatusNotFound, err.Error())
		case service.ErrCouponInvalid:
			middleware.RespondWithNotice(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error("Failed to apply coupon", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to apply coupon")
		}
		return
	}

	middleware.RespondWithNotice(w, http.StatusOK, "Successfully added coupon")
}

// respondCheckoutFailure maps checkout submission failures onto form
// errors and benign notices.
func (h *CheckoutHandler) respondCheckoutFailure(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		fieldErrors := make([]middleware.ValidationError, len(validationErr.Fields))
		for i, f := range validationErr.Fields {
			fieldErrors[i] = middleware.ValidationError{Field: f.Field, Message: f.Message}
		}
		middleware.RespondWithValidationErrors(w, fieldErrors)
		return
	}

	switch err {
	case service.ErrNoOpenCart:
		middleware.RespondWithNotice(w, http.StatusNotFound, err.Error())
	case service.ErrNoDefaultShipping, service.ErrNoDefaultBilling, service.ErrInvalidPaymentMethod:
		middleware.RespondWithNotice(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Checkout submission failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to submit checkout")
	}
}

// chargeFailureMessage maps a non-success charge outcome to the
// user-facing notice. Only declines surface the gateway's own message.
func chargeFailureMessage(result payment.ChargeResult) string {
	switch result.Outcome {
	case payment.OutcomeDeclined:
		return result.Message
	case payment.OutcomeRateLimited:
		return "Rate limit error"
	case payment.OutcomeInvalidRequest:
		return "Invalid parameters"
	case payment.OutcomeAuthFailed:
		return "Not authenticated"
	case payment.OutcomeNetworkError:
		return "Network error"
	default:
		return "Something went wrong. You were not charged. Please try again."
	}
}
