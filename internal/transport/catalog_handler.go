package transport

import (
	"net/http"
	"strconv"

	"art-store/internal/middleware"
	"art-store/internal/repository"
	"art-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler handles catalog browsing and search
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the public catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Home)
	r.Get("/products/{school}/", h.ListBySchool)
	r.Get("/product/{slug}/", h.ProductDetail)
	r.Get("/search/", h.Search)
}

// Home lists the most recent products
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListRecent(r.Context())
	if err != nil {
		h.logger.Error("Failed to list recent products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"products": products})
}

// ListBySchool lists products filtered by school, paginated
func (h *CatalogHandler) ListBySchool(w http.ResponseWriter, r *http.Request) {
	school := chi.URLParam(r, "school")

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid page number")
			return
		}
		page = parsed
	}

	products, total, err := h.catalogService.ListBySchool(r.Context(), school, page)
	if err != nil {
		h.logger.Error("Failed to list products by school",
			zap.String("school", school),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"total":    total,
		"page":     page,
	})
}

// ProductDetail shows a single product with its reviews
func (h *CatalogHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	detail, err := h.catalogService.ProductDetail(r.Context(), slug)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to load product detail", zap.String("slug", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

// Search runs the ranked full-text product search
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	products, err := h.catalogService.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("Product search failed", zap.String("query", query), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "search failed")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"query":    query,
		"products": products,
	})
}
