package service

import (
	"context"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/domain"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/repository"

	"github.com/google/uuid"
)

// BlogService defines the interface for blog business logic
type BlogService interface {
	ListPosts(ctx context.Context, page, pageSize int) ([]*domain.BlogPost, int, error)
	GetPost(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error)
}

type blogService struct {
	postRepo repository.PostRepository
}

// NewBlogService creates a new instance of BlogService
func NewBlogService(postRepo repository.PostRepository) BlogService {
	return &blogService{postRepo: postRepo}
}

// ListPosts retrieves published posts newest first, with pagination
func (s *blogService) ListPosts(ctx context.Context, page, pageSize int) ([]*domain.BlogPost, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 9
	}
	return s.postRepo.ListPublished(ctx, page, pageSize)
}

// GetPost retrieves a single post for the detail modal
func (s *blogService) GetPost(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error) {
	return s.postRepo.FindByID(ctx, id)
}
