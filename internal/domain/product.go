package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxGalleryImages bounds the number of secondary images a product may carry.
const MaxGalleryImages = 5

// Product represents a toy in the catalog
type Product struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Description    string     `json:"description" db:"description"`
	Price          float64    `json:"price" db:"price"`
	CategoryID     uuid.UUID  `json:"category_id" db:"category_id"`
	BrandID        *uuid.UUID `json:"brand_id,omitempty" db:"brand_id"`
	ImageURL       string     `json:"image_url" db:"image_url"`
	Gallery        []string   `json:"gallery" db:"gallery"`
	SKU            string     `json:"sku" db:"sku"`
	AgeRange       string     `json:"age_range" db:"age_range"`
	Gender         string     `json:"gender" db:"gender"`
	InStock        bool       `json:"in_stock" db:"in_stock"`
	Featured       bool       `json:"featured" db:"featured"`
	IsNew          bool       `json:"is_new" db:"is_new"`
	OzonURL        string     `json:"ozon_url" db:"ozon_url"`
	WildberriesURL string     `json:"wildberries_url" db:"wildberries_url"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Brand represents a toy manufacturer
type Brand struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
