package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/config"
	custommiddleware "github.com/Sh4dowyy/yellow-cow-sub000/internal/middleware"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/repository"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/service"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/storage"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client, store storage.ObjectStore, contactService service.ContactService) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo, refreshTokenRepo, cfg.JWT.Secret, cfg.Admin.AllowedEmails)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, brandRepo, store)
	blogService := service.NewBlogService(postRepo)
	profileService := service.NewProfileService(profileRepo, store)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	adminHandler := transport.NewAdminHandler(catalogService, logger)
	blogHandler := transport.NewBlogHandler(blogService, logger)
	profileHandler := transport.NewProfileHandler(profileService, logger)
	contactHandler := transport.NewContactHandler(contactService, logger)

	// Auth and admin middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	isAdmin := custommiddleware.NewAdminChecker(cfg.Admin.AllowedEmails)
	adminMiddleware := custommiddleware.RequireAdmin(isAdmin, logger)

	// Page navigation gate: session state decides /account, /admin, /login,
	// and /register redirects. Mounted with the rest of the middleware,
	// before any route, which chi requires.
	validate := func(token string) (string, string, error) {
		claims, err := userService.ValidateToken(token)
		if err != nil {
			return "", "", err
		}
		return claims.Role, claims.Email, nil
	}
	router.Use(custommiddleware.RouteGate(validate, isAdmin, logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Register routes
	userHandler.RegisterRoutes(router, authMiddleware)
	catalogHandler.RegisterRoutes(router)
	adminHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	blogHandler.RegisterRoutes(router)
	profileHandler.RegisterRoutes(router, authMiddleware)

	// The contact relay and live search are unauthenticated, so both sit
	// behind per-client rate limits.
	router.Group(func(r chi.Router) {
		r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 5,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit:contact",
		}, logger))
		contactHandler.RegisterRoutes(r)
	})

	router.Group(func(r chi.Router) {
		r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 60,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit:search",
		}, logger))
		catalogHandler.RegisterSearchRoute(r)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
