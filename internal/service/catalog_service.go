package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/domain"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/repository"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/storage"

	"github.com/google/uuid"
)

const (
	// MinSearchLength is the shortest query the live search will run
	MinSearchLength = 2

	// Live search result limits
	SearchProductLimit  = 5
	SearchCategoryLimit = 3
)

var (
	ErrQueryTooShort = errors.New("search query too short")
)

// ImageUpload carries one incoming image file
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ProductDetail pairs a product with its resolved category name
type ProductDetail struct {
	Product      *domain.Product `json:"product"`
	CategoryName string          `json:"category_name"`
}

// SearchHit is one live-search product row with its category name resolved
type SearchHit struct {
	Product      *domain.Product `json:"product"`
	CategoryName string          `json:"category_name"`
}

// SearchResult merges product and category matches, products first. Seq
// echoes the request's sequence number so callers can drop stale responses.
type SearchResult struct {
	Products   []SearchHit        `json:"products"`
	Categories []*domain.Category `json:"categories"`
	Seq        uint64             `json:"seq"`
}

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	ListBrands(ctx context.Context) ([]*domain.Brand, error)

	Search(ctx context.Context, query string, seq uint64) (*SearchResult, error)
	NextSearchSeq() uint64
	IsStaleSearch(seq uint64) bool

	CreateProduct(ctx context.Context, product *domain.Product, newImages []ImageUpload) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product, newImages []ImageUpload) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	UploadProductImage(ctx context.Context, productID uuid.UUID, upload ImageUpload) (string, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
	store        storage.ObjectStore

	// searchSeq is the latest issued live-search sequence number. A
	// response whose seq precedes it is stale and must be discarded.
	searchSeq atomic.Uint64
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	brandRepo repository.BrandRepository,
	store storage.ObjectStore,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		store:        store,
	}
}

// FilterProducts narrows the full product list sequentially: substring
// match across name, description, SKU, age range, and resolved brand name
// if a term is present, then exact category match, then brand set
// membership. Matching is case-insensitive. The input slice is not
// modified.
func FilterProducts(products []*domain.Product, brandNames map[uuid.UUID]string, term string, categoryID *uuid.UUID, brandIDs []uuid.UUID) []*domain.Product {
	filtered := products

	if t := strings.ToLower(strings.TrimSpace(term)); t != "" {
		narrowed := []*domain.Product{}
		for _, p := range filtered {
			brandName := ""
			if p.BrandID != nil {
				brandName = brandNames[*p.BrandID]
			}
			if strings.Contains(strings.ToLower(p.Name), t) ||
				strings.Contains(strings.ToLower(p.Description), t) ||
				strings.Contains(strings.ToLower(p.SKU), t) ||
				strings.Contains(strings.ToLower(p.AgeRange), t) ||
				(brandName != "" && strings.Contains(strings.ToLower(brandName), t)) {
				narrowed = append(narrowed, p)
			}
		}
		filtered = narrowed
	}

	if categoryID != nil {
		narrowed := []*domain.Product{}
		for _, p := range filtered {
			if p.CategoryID == *categoryID {
				narrowed = append(narrowed, p)
			}
		}
		filtered = narrowed
	}

	if len(brandIDs) > 0 {
		wanted := make(map[uuid.UUID]bool, len(brandIDs))
		for _, id := range brandIDs {
			wanted[id] = true
		}
		narrowed := []*domain.Product{}
		for _, p := range filtered {
			if p.BrandID != nil && wanted[*p.BrandID] {
				narrowed = append(narrowed, p)
			}
		}
		filtered = narrowed
	}

	return filtered
}

// MergeGallery combines the kept existing gallery URLs with newly uploaded
// ones, preserving existing order first, and truncates the result to the
// gallery bound.
func MergeGallery(existing, incoming []string) []string {
	merged := make([]string, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	merged = append(merged, incoming...)
	if len(merged) > domain.MaxGalleryImages {
		merged = merged[:domain.MaxGalleryImages]
	}
	return merged
}

// ListProducts retrieves a narrowed, paginated product listing
func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.productRepo.List(ctx, filter, page, pageSize, sortBy, sortOrder)
}

// GetProduct retrieves one product together with its category name
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{Product: product}

	category, err := s.categoryRepo.FindByID(ctx, product.CategoryID)
	if err != nil {
		if err != repository.ErrCategoryNotFound {
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
	} else {
		detail.CategoryName = category.Name
	}

	return detail, nil
}

// ListCategories retrieves all categories
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// ListBrands retrieves all brands
func (s *catalogService) ListBrands(ctx context.Context) ([]*domain.Brand, error) {
	return s.brandRepo.List(ctx)
}

// NextSearchSeq issues the next live-search sequence number
func (s *catalogService) NextSearchSeq() uint64 {
	return s.searchSeq.Add(1)
}

// IsStaleSearch reports whether a response with the given sequence has been
// superseded by a later request.
func (s *catalogService) IsStaleSearch(seq uint64) bool {
	return seq < s.searchSeq.Load()
}

// Search runs the live search: up to 5 product matches and 3 category-name
// matches, with product category names resolved through a single lookup
// keyed by the distinct category IDs seen. Products come first in the
// merged result. Queries shorter than MinSearchLength never touch the
// repositories.
func (s *catalogService) Search(ctx context.Context, query string, seq uint64) (*SearchResult, error) {
	if len([]rune(strings.TrimSpace(query))) < MinSearchLength {
		return nil, ErrQueryTooShort
	}

	products, err := s.productRepo.SearchLimited(ctx, query, SearchProductLimit)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.SearchByName(ctx, query, SearchCategoryLimit)
	if err != nil {
		return nil, err
	}

	// Resolve category names for the matched products in one query
	seen := map[uuid.UUID]bool{}
	distinct := []uuid.UUID{}
	for _, p := range products {
		if !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			distinct = append(distinct, p.CategoryID)
		}
	}

	names, err := s.categoryRepo.FindByIDs(ctx, distinct)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(products))
	for _, p := range products {
		hit := SearchHit{Product: p}
		if c, ok := names[p.CategoryID]; ok {
			hit.CategoryName = c.Name
		}
		hits = append(hits, hit)
	}

	return &SearchResult{
		Products:   hits,
		Categories: categories,
		Seq:        seq,
	}, nil
}

// CreateProduct uploads any new images, merges them into the gallery, and
// inserts the product row. Uploads happen first so a failed upload aborts
// the save before the row is written.
func (s *catalogService) CreateProduct(ctx context.Context, product *domain.Product, newImages []ImageUpload) (*domain.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	uploaded, err := s.uploadGalleryImages(ctx, product.ID, newImages)
	if err != nil {
		return nil, err
	}
	product.Gallery = MergeGallery(product.Gallery, uploaded)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct uploads any new images, merges them after the kept gallery
// entries, and updates the product row. A failed upload aborts the save
// and leaves the stored record untouched.
func (s *catalogService) UpdateProduct(ctx context.Context, product *domain.Product, newImages []ImageUpload) (*domain.Product, error) {
	product.UpdatedAt = time.Now()

	uploaded, err := s.uploadGalleryImages(ctx, product.ID, newImages)
	if err != nil {
		return nil, err
	}
	product.Gallery = MergeGallery(product.Gallery, uploaded)

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product. Its uploaded images stay in the bucket.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// UploadProductImage stores one image in the product bucket and returns
// its public URL without touching the product row.
func (s *catalogService) UploadProductImage(ctx context.Context, productID uuid.UUID, upload ImageUpload) (string, error) {
	key := imageKey(productID, upload.Filename)
	url, err := s.store.Upload(ctx, storage.BucketProductImages, key, upload.ContentType, upload.Body)
	if err != nil {
		return "", err
	}
	return url, nil
}

func (s *catalogService) uploadGalleryImages(ctx context.Context, productID uuid.UUID, uploads []ImageUpload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		url, err := s.UploadProductImage(ctx, productID, upload)
		if err != nil {
			return nil, fmt.Errorf("failed to upload gallery image %s: %w", upload.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// imageKey namespaces uploads per product and keeps them unique so old
// files are never overwritten.
func imageKey(productID uuid.UUID, filename string) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("%s/%s%s", productID, uuid.New(), ext)
}
