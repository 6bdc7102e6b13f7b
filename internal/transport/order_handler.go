package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"art-store/internal/middleware"
	"art-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderHandler handles order history, reviews and refund requests
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers order routes. Refund requests are public on
// purpose; the support desk files them on behalf of customers.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/request-refund/", h.GetRefundForm)
	r.Post("/request-refund/", h.RequestRefund)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/my-orders/", h.MyOrders)
		r.Post("/my-orders/", h.SubmitReview)
	})
}

// MyOrders lists the user's finalized orders
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.orderService.MyOrders(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// SubmitReview files a review for a purchased product
func (h *OrderHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var input service.ReviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.orderService.SubmitReview(r.Context(), userID, input)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			fieldErrors := make([]middleware.ValidationError, len(validationErr.Fields))
			for i, f := range validationErr.Fields {
				fieldErrors[i] = middleware.ValidationError{Field: f.Field, Message: f.Message}
			}
			middleware.RespondWithValidationErrors(w, fieldErrors)
			return
		}

		if err == service.ErrProductNotReviewed {
			middleware.RespondWithError(w, http.StatusForbidden, err.Error())
			return
		}

		h.logger.Error("Failed to submit review", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to submit review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, review)
}

// GetRefundForm describes the refund request fields
func (h *OrderHandler) GetRefundForm(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"fields": []string{"ref_code", "message", "email"},
	})
}

// RequestRefund files a refund request for an order by reference code
func (h *OrderHandler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	var input service.RefundInput
	if err := middleware.DecodeAndValidate(r, &input); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orderService.RequestRefund(r.Context(), input); err != nil {
		if err == service.ErrOrderNotFound {
			middleware.RespondWithNotice(w, http.StatusNotFound, err.Error())
			return
		}

		h.logger.Error("Failed to request refund", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to request refund")
		return
	}

	middleware.RespondWithNotice(w, http.StatusOK, "Your request was received")
}
