package transport

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/domain"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/middleware"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/repository"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Multipart product forms carry up to 5 gallery images plus metadata
const maxProductFormMemory = 32 << 20 // 32 MB

// ProductRequest represents the admin product create/update payload. In
// multipart requests it arrives as the "product" form field with new
// gallery files under "images".
type ProductRequest struct {
	Name           string   `json:"name" validate:"required,min=2,max=200"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" validate:"required,gt=0"`
	CategoryID     string   `json:"category_id" validate:"required,uuid"`
	BrandID        string   `json:"brand_id" validate:"omitempty,uuid"`
	ImageURL       string   `json:"image_url"`
	Gallery        []string `json:"gallery" validate:"max=5"`
	SKU            string   `json:"sku"`
	AgeRange       string   `json:"age_range"`
	Gender         string   `json:"gender"`
	InStock        bool     `json:"in_stock"`
	Featured       bool     `json:"featured"`
	IsNew          bool     `json:"is_new"`
	OzonURL        string   `json:"ozon_url"`
	WildberriesURL string   `json:"wildberries_url"`
}

// ImageUploadResponse returns the public URL of a stored image
type ImageUploadResponse struct {
	URL string `json:"url"`
}

// AdminHandler handles HTTP requests for admin product management
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

// RegisterRoutes registers all admin routes behind auth and the admin check
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin/products", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)

		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
		r.Post("/{id}/images", h.UploadImage)
	})
}

// ListProducts backs the admin table's inline search box
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{Query: r.URL.Query().Get("q")}
	page := parseIntParam(r, "page", 1)
	pageSize := parseIntParam(r, "page_size", 50)

	products, total, err := h.catalogService.ListProducts(r.Context(), filter, page, pageSize, "created_at", repository.SortOrderDesc)
	if err != nil {
		h.logger.Error("Failed to list products for admin", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// CreateProduct creates a product. Multipart requests may attach new
// gallery images; the save is aborted if any upload fails.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, uploads, err := h.decodeProductForm(r)
	if err != nil {
		h.logger.Debug("Product create validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer closeUploads(uploads)

	product, err := productFromRequest(req)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.catalogService.CreateProduct(r.Context(), product, uploads)
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", created.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, created)
}

// UpdateProduct updates a product. The gallery field lists the kept
// existing URLs in order; new multipart images are appended after them.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	req, uploads, err := h.decodeProductForm(r)
	if err != nil {
		h.logger.Debug("Product update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer closeUploads(uploads)

	product, err := productFromRequest(req)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	product.ID = id

	updated, err := h.catalogService.UpdateProduct(r.Context(), product, uploads)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", updated.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteProduct removes a product
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

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// UploadImage stores one image in the product bucket and returns its URL
// without touching the product row.
func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := r.ParseMultipartForm(maxProductFormMemory); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	url, err := h.catalogService.UploadProductImage(r.Context(), id, service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		h.logger.Error("Failed to upload product image", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to upload image")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, ImageUploadResponse{URL: url})
}

// decodeProductForm reads a product payload from either a JSON body or a
// multipart form with a "product" JSON field plus "images" files.
func (h *AdminHandler) decodeProductForm(r *http.Request) (*ProductRequest, []service.ImageUpload, error) {
	contentType := r.Header.Get("Content-Type")

	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var req ProductRequest
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			return nil, nil, err
		}
		return &req, nil, nil
	}

	if err := r.ParseMultipartForm(maxProductFormMemory); err != nil {
		return nil, nil, err
	}

	var req ProductRequest
	if err := json.Unmarshal([]byte(r.FormValue("product")), &req); err != nil {
		return nil, nil, err
	}
	if err := middleware.ValidateRequest(&req); err != nil {
		return nil, nil, err
	}

	uploads, err := collectUploads(r.MultipartForm.File["images"])
	if err != nil {
		return nil, nil, err
	}

	return &req, uploads, nil
}

func collectUploads(headers []*multipart.FileHeader) ([]service.ImageUpload, error) {
	uploads := make([]service.ImageUpload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			closeUploads(uploads)
			return nil, err
		}
		uploads = append(uploads, service.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		})
	}
	return uploads, nil
}

func closeUploads(uploads []service.ImageUpload) {
	for _, upload := range uploads {
		if closer, ok := upload.Body.(io.Closer); ok {
			closer.Close()
		}
	}
}

func productFromRequest(req *ProductRequest) (*domain.Product, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		CategoryID:     categoryID,
		ImageURL:       req.ImageURL,
		Gallery:        req.Gallery,
		SKU:            req.SKU,
		AgeRange:       req.AgeRange,
		Gender:         req.Gender,
		InStock:        req.InStock,
		Featured:       req.Featured,
		IsNew:          req.IsNew,
		OzonURL:        req.OzonURL,
		WildberriesURL: req.WildberriesURL,
	}

	if req.BrandID != "" {
		brandID, err := uuid.Parse(req.BrandID)
		if err != nil {
			return nil, err
		}
		product.BrandID = &brandID
	}

	return product, nil
}
