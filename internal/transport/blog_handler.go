package transport

import (
	"net/http"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/domain"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/middleware"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/repository"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostListResponse represents a paginated blog feed page
type PostListResponse struct {
	Posts    []*domain.BlogPost `json:"posts"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// BlogHandler handles HTTP requests for the blog feed
type BlogHandler struct {
	blogService service.BlogService
	logger      *zap.Logger
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogService service.BlogService, logger *zap.Logger) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		logger:      logger,
	}
}

// RegisterRoutes registers all blog routes
func (h *BlogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Get("/{id}", h.GetPost)
	})
}

// ListPosts returns published posts newest first
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page := parseIntParam(r, "page", 1)
	pageSize := parseIntParam(r, "page_size", 9)

	posts, total, err := h.blogService.ListPosts(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list posts", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	response := PostListResponse{
		Posts:    posts,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// GetPost returns one post for the detail view
func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	post, err := h.blogService.GetPost(r.Context(), id)
	if err != nil {
		if err == repository.ErrPostNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "post not found")
			return
		}

		h.logger.Error("Failed to get post", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get post")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, post)
}
