package transport

import (
	"net/http"

	"art-store/internal/middleware"
	"art-store/internal/repository"
	"art-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CartHandler handles cart mutations and the order summary
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers cart routes; all of them require login.
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/add-to-cart/{slug}/", h.AddToCart)
		r.Post("/add_single_item_to_cart/{slug}/", h.AddToCart)
		r.Post("/remove-from-cart/{slug}", h.RemoveFromCart)
		r.Post("/remove-item-from-cart/{slug}/", h.RemoveSingleItem)
		r.Get("/order-summary/", h.OrderSummary)
	})
}

// AddToCart adds one unit of a product to the user's open cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")

	mutation, err := h.cartService.AddItem(r.Context(), userID, slug)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to add item to cart", zap.String("slug", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add item to cart")
		return
	}

	middleware.RespondWithNotice(w, http.StatusOK, string(mutation))
}

// RemoveFromCart drops a whole line item from the open cart
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")

	if err := h.cartService.RemoveItem(r.Context(), userID, slug); err != nil {
		h.respondRemoveFailure(w, slug, err)
		return
	}

	middleware.RespondWithNotice(w, http.StatusOK, "This item was removed from your cart")
}

// RemoveSingleItem decrements a line's quantity, dropping it at one
func (h *CartHandler) RemoveSingleItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")

	mutation, err := h.cartService.RemoveSingleItem(r.Context(), userID, slug)
	if err != nil {
		h.respondRemoveFailure(w, slug, err)
		return
	}

	middleware.RespondWithNotice(w, http.StatusOK, string(mutation))
}

// OrderSummary shows the open cart with lines, subtotal, coupon and total
func (h *CartHandler) OrderSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.cartService.Summary(r.Context(), userID)
	if err != nil {
		if err == service.ErrNoOpenCart {
			middleware.RespondWithNotice(w, http.StatusNotFound, err.Error())
			return
		}

		h.logger.Error("Failed to load cart summary", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"cart":     cart,
		"subtotal": cart.Subtotal(),
		"total":    cart.Total(),
	})
}

// respondRemoveFailure turns benign cart conditions into notices and
// everything else into errors.
func (h *CartHandler) respondRemoveFailure(w http.ResponseWriter, slug string, err error) {
	switch err {
	case repository.ErrProductNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case service.ErrNoOpenCart, service.ErrItemNotInCart:
		middleware.RespondWithNotice(w, http.StatusOK, err.Error())
	default:
		h.logger.Error("Failed to remove item from cart", zap.String("slug", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove item from cart")
	}
}
