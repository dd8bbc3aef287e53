package transport

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/domain"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/middleware"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/repository"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductListResponse represents a paginated product listing
type ProductListResponse struct {
	Products []*domain.Product `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// CatalogHandler handles HTTP requests for the public catalog
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

// RegisterRoutes registers all public catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
	})

	r.Get("/api/categories", h.ListCategories)
	r.Get("/api/brands", h.ListBrands)
}

// RegisterSearchRoute registers the live search separately so the caller
// can wrap it with its own rate limit.
func (h *CatalogHandler) RegisterSearchRoute(r chi.Router) {
	r.Get("/api/search", h.Search)
}

// ListProducts returns the catalog listing narrowed by search term,
// category, and brand selection.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
	}

	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
			return
		}
		filter.CategoryID = &categoryID
	}

	if raw := r.URL.Query().Get("brands"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			brandID, err := uuid.Parse(part)
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, "invalid brand ID")
				return
			}
			filter.BrandIDs = append(filter.BrandIDs, brandID)
		}
	}

	page := parseIntParam(r, "page", 1)
	pageSize := parseIntParam(r, "page_size", 20)

	sortBy := r.URL.Query().Get("sort_by")
	sortOrder := repository.SortOrderDesc
	if strings.EqualFold(r.URL.Query().Get("sort_order"), "asc") {
		sortOrder = repository.SortOrderAsc
	}

	products, total, err := h.catalogService.ListProducts(r.Context(), filter, page, pageSize, sortBy, sortOrder)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	response := ProductListResponse{
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// GetProduct returns one product with its category name resolved
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	detail, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

// ListCategories returns all categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ListBrands returns all brands
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalogService.ListBrands(r.Context())
	if err != nil {
		h.logger.Error("Failed to list brands", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list brands")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, brands)
}

// Search runs the live header search. Each request gets a fresh sequence
// number; if a later request was issued while this one computed, the
// response is discarded with 204 so the client never renders stale hits.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	seq := h.catalogService.NextSearchSeq()

	result, err := h.catalogService.Search(r.Context(), query, seq)
	if err != nil {
		if err == service.ErrQueryTooShort {
			middleware.RespondWithJSON(w, http.StatusOK, service.SearchResult{
				Products:   []service.SearchHit{},
				Categories: []*domain.Category{},
				Seq:        seq,
			})
			return
		}

		h.logger.Error("Live search failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "search failed")
		return
	}

	if h.catalogService.IsStaleSearch(seq) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
