package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrPostNotFound = errors.New("blog post not found")
)

// PostRepository defines the interface for blog post data access
type PostRepository interface {
	Create(ctx context.Context, post *domain.BlogPost) error
	Update(ctx context.Context, post *domain.BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error)
	ListPublished(ctx context.Context, page, pageSize int) ([]*domain.BlogPost, int, error)
}

type postRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new instance of PostRepository
func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, title, excerpt, content, image_url, category, published, created_at`

// Create inserts a new blog post into the database using parameterized queries
func (r *postRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	query := `
		INSERT INTO blog_posts (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		post.ID,
		post.Title,
		post.Excerpt,
		post.Content,
		post.ImageURL,
		post.Category,
		post.Published,
		post.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create blog post: %w", err)
	}

	return nil
}

// Update updates an existing blog post using parameterized queries
func (r *postRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	query := `
		UPDATE blog_posts
		SET title = $2, excerpt = $3, content = $4, image_url = $5,
		    category = $6, published = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		post.ID,
		post.Title,
		post.Excerpt,
		post.Content,
		post.ImageURL,
		post.Category,
		post.Published,
	)

	if err != nil {
		return fmt.Errorf("failed to update blog post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPostNotFound
	}

	return nil
}

// Delete removes a blog post using parameterized queries
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM blog_posts WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPostNotFound
	}

	return nil
}

// FindByID retrieves a blog post by ID, published or not. The modal detail
// fetch and the admin editor both go through here.
func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error) {
	query := `
		SELECT ` + postColumns + `
		FROM blog_posts
		WHERE id = $1
	`

	post := &domain.BlogPost{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.Title,
		&post.Excerpt,
		&post.Content,
		&post.ImageURL,
		&post.Category,
		&post.Published,
		&post.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find blog post by ID: %w", err)
	}

	return post, nil
}

// ListPublished retrieves published posts newest first, with pagination
func (r *postRepository) ListPublished(ctx context.Context, page, pageSize int) ([]*domain.BlogPost, int, error) {
	countQuery := `SELECT COUNT(*) FROM blog_posts WHERE published = TRUE`
	var total int
	err := r.db.QueryRowContext(ctx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count blog posts: %w", err)
	}

	offset := (page - 1) * pageSize

	query := `
		SELECT ` + postColumns + `
		FROM blog_posts
		WHERE published = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blog posts: %w", err)
	}
	defer rows.Close()

	posts := []*domain.BlogPost{}
	for rows.Next() {
		post := &domain.BlogPost{}
		err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Excerpt,
			&post.Content,
			&post.ImageURL,
			&post.Category,
			&post.Published,
			&post.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan blog post: %w", err)
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating blog posts: %w", err)
	}

	return posts, total, nil
}
