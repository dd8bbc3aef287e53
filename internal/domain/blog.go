package domain

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost represents a post in the store blog. Content holds raw markup
// produced by the admin editor and is rendered as-is by the frontend.
type BlogPost struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Excerpt   string    `json:"excerpt" db:"excerpt"`
	Content   string    `json:"content" db:"content"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	Category  string    `json:"category" db:"category"`
	Published bool      `json:"published" db:"published"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
