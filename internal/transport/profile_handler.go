package transport

import (
	"net/http"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/domain"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/middleware"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Avatar uploads are small; the form limit keeps memory bounded
const maxAvatarFormMemory = 8 << 20 // 8 MB

// ProfileRequest represents the account form payload
type ProfileRequest struct {
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=30"`
}

// ProfileHandler handles HTTP requests for the account page
type ProfileHandler struct {
	profileService service.ProfileService
	logger         *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// RegisterRoutes registers all profile routes behind auth
func (h *ProfileHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/profile", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.GetProfile)
		r.Put("/", h.SaveProfile)
		r.Post("/avatar", h.UploadAvatar)
	})
}

// GetProfile returns the caller's profile. Users who never saved the form
// get an empty profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r, h.logger)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profile)
}

// SaveProfile upserts the caller's profile from the account form
func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Profile validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := &domain.Profile{
		UserID:    userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}

	if err := h.profileService.SaveProfile(r.Context(), profile); err != nil {
		h.logger.Error("Failed to save profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profile)
}

// UploadAvatar stores a new avatar image and records its URL on the profile
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r, h.logger)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxAvatarFormMemory); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing avatar file")
		return
	}
	defer file.Close()

	url, err := h.profileService.UploadAvatar(r.Context(), userID, service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		h.logger.Error("Failed to upload avatar", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to upload avatar")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, ImageUploadResponse{URL: url})
}

// authenticatedUserID pulls the caller's user ID out of the auth context,
// writing the error response itself when it is missing or malformed.
func authenticatedUserID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		logger.Error("Invalid user ID format", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return uuid.Nil, false
	}

	return userID, true
}
