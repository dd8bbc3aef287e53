package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// ProductFilter narrows a product listing. Filters apply sequentially:
// search term, then category, then brand set membership.
type ProductFilter struct {
	Query      string
	CategoryID *uuid.UUID
	BrandIDs   []uuid.UUID
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Product, int, error)
	SearchLimited(ctx context.Context, query string, limit int) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price, category_id, brand_id, image_url, gallery, sku, age_range, gender, in_stock, featured, is_new, ozon_url, wildberries_url, created_at, updated_at`

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	gallery, err := marshalGallery(product.Gallery)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		product.BrandID,
		product.ImageURL,
		gallery,
		product.SKU,
		product.AgeRange,
		product.Gender,
		product.InStock,
		product.Featured,
		product.IsNew,
		product.OzonURL,
		product.WildberriesURL,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product in the database using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category_id = $5, brand_id = $6,
		    image_url = $7, gallery = $8, sku = $9, age_range = $10, gender = $11,
		    in_stock = $12, featured = $13, is_new = $14, ozon_url = $15,
		    wildberries_url = $16, updated_at = $17
		WHERE id = $1
	`

	gallery, err := marshalGallery(product.Gallery)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		product.BrandID,
		product.ImageURL,
		gallery,
		product.SKU,
		product.AgeRange,
		product.Gender,
		product.InStock,
		product.Featured,
		product.IsNew,
		product.OzonURL,
		product.WildberriesURL,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products with optional search/category/brand narrowing,
// pagination, and sorting. The search term matches name, description, SKU,
// age range, and the resolved brand name, case-insensitively.
func (r *productRepository) List(ctx context.Context, filter ProductFilter, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Product, int, error) {
	// Validate sort field to prevent SQL injection
	validSortFields := map[string]bool{
		"name":       true,
		"price":      true,
		"created_at": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at" // Default sort field
	}

	// Validate sort order
	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderDesc // Default sort order
	}

	// Build the WHERE clause
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if q := strings.TrimSpace(filter.Query); q != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(p.name ILIKE $%d OR p.description ILIKE $%d OR p.sku ILIKE $%d OR p.age_range ILIKE $%d OR b.name ILIKE $%d)",
			argIndex, argIndex, argIndex, argIndex, argIndex))
		args = append(args, "%"+q+"%")
		argIndex++
	}

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if len(filter.BrandIDs) > 0 {
		placeholders := make([]string, len(filter.BrandIDs))
		for i, id := range filter.BrandIDs {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, id)
			argIndex++
		}
		conditions = append(conditions, fmt.Sprintf("p.brand_id IN (%s)", strings.Join(placeholders, ", ")))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	fromClause := "FROM products p LEFT JOIN brands b ON b.id = p.brand_id"

	// Count total products
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s %s", fromClause, whereClause)
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	// Calculate offset
	offset := (page - 1) * pageSize

	// Build the main query with sorting and pagination
	query := fmt.Sprintf(`
		SELECT %s
		%s
		%s
		ORDER BY p.%s %s
		LIMIT $%d OFFSET $%d
	`, prefixedProductColumns(), fromClause, whereClause, sortBy, sortOrder, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// SearchLimited returns up to limit products matching the pattern, used by
// the live search dropdown. Matches the same fields as List's search term.
func (r *productRepository) SearchLimited(ctx context.Context, query string, limit int) ([]*domain.Product, error) {
	searchPattern := "%" + strings.TrimSpace(query) + "%"

	searchQuery := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN brands b ON b.id = p.brand_id
		WHERE p.name ILIKE $1 OR p.description ILIKE $1 OR p.sku ILIKE $1
		   OR p.age_range ILIKE $1 OR b.name ILIKE $1
		ORDER BY p.created_at DESC
		LIMIT $2
	`, prefixedProductColumns())

	rows, err := r.db.QueryContext(ctx, searchQuery, searchPattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func prefixedProductColumns() string {
	cols := strings.Split(productColumns, ",")
	for i, c := range cols {
		cols[i] = "p." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var gallery []byte

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.CategoryID,
		&product.BrandID,
		&product.ImageURL,
		&gallery,
		&product.SKU,
		&product.AgeRange,
		&product.Gender,
		&product.InStock,
		&product.Featured,
		&product.IsNew,
		&product.OzonURL,
		&product.WildberriesURL,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(gallery, &product.Gallery); err != nil {
		return nil, fmt.Errorf("failed to decode product gallery: %w", err)
	}

	return product, nil
}

func scanProducts(rows *sql.Rows) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func marshalGallery(gallery []string) ([]byte, error) {
	if gallery == nil {
		gallery = []string{}
	}
	data, err := json.Marshal(gallery)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product gallery: %w", err)
	}
	return data, nil
}
