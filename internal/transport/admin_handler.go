package transport

import (
	"net/http"

	"art-store/internal/domain"
	"art-store/internal/middleware"
	"art-store/internal/repository"
	"art-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest represents the admin product create/update payload
type ProductRequest struct {
	Name           string           `json:"name" validate:"required"`
	ShortenedName  string           `json:"shortened_name" validate:"required"`
	History        string           `json:"history"`
	School         string           `json:"school" validate:"required"`
	Price          decimal.Decimal  `json:"price" validate:"required"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty"`
	DateOfCreation string           `json:"date_of_creation"`
	ArtistID       *uuid.UUID       `json:"artist_id,omitempty"`
	ImageURL       string           `json:"image_url"`
}

// ArtistRequest represents the admin artist create payload
type ArtistRequest struct {
	Name string `json:"name" validate:"required"`
}

// AdminHandler handles catalog administration
type AdminHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(catalogService service.CatalogService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers admin catalog routes behind auth + admin role
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin(h.logger))

		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)

		r.Get("/artists", h.ListArtists)
		r.Post("/artists", h.CreateArtist)
		r.Delete("/artists/{id}", h.DeleteArtist)
	})
}

// CreateProduct adds a product to the catalog
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.decodeProduct(w, r, uuid.Nil)
	if !ok {
		return
	}

	if err := h.catalogService.SaveProduct(r.Context(), product); err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("slug", product.Slug))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct edits an existing product; the slug is recomputed
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, ok := h.decodeProduct(w, r, id)
	if !ok {
		return
	}

	if err := h.catalogService.SaveProduct(r.Context(), product); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product from the catalog
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// ListArtists lists all artists
func (h *AdminHandler) ListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.catalogService.ListArtists(r.Context())
	if err != nil {
		h.logger.Error("Failed to list artists", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list artists")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"artists": artists})
}

// CreateArtist adds an artist
func (h *AdminHandler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	var req ArtistRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	artist, err := h.catalogService.CreateArtist(r.Context(), req.Name)
	if err != nil {
		h.logger.Error("Failed to create artist", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create artist")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, artist)
}

// DeleteArtist removes an artist; product references go null
func (h *AdminHandler) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid artist ID")
		return
	}

	if err := h.catalogService.DeleteArtist(r.Context(), id); err != nil {
		if err == repository.ErrArtistNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "artist not found")
			return
		}

		h.logger.Error("Failed to delete artist", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete artist")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "artist deleted"})
}

func (h *AdminHandler) decodeProduct(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*domain.Product, bool) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return nil, false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	return &domain.Product{
		ID:             id,
		Name:           req.Name,
		ShortenedName:  req.ShortenedName,
		History:        req.History,
		School:         req.School,
		Price:          req.Price,
		DiscountPrice:  req.DiscountPrice,
		DateOfCreation: req.DateOfCreation,
		ArtistID:       req.ArtistID,
		ImageURL:       req.ImageURL,
	}, true
}
