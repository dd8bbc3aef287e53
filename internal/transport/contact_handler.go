package transport

import (
	"encoding/json"
	"net/http"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/middleware"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContactRequest represents the contact form payload
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactHandler handles HTTP requests for the contact relay
type ContactHandler struct {
	contactService service.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// RegisterRoutes registers the contact route
func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/contact", h.Submit)
}

// Submit relays one contact form submission. The response body is the flat
// shape the storefront form reads: {"message": ...} or {"error": ...}.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Contact decode failed", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	msg := service.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}

	if err := h.contactService.Submit(r.Context(), msg); err != nil {
		if err == service.ErrMissingContactField {
			middleware.RespondWithJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		h.logger.Error("Contact relay failed", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send message"})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "message sent"})
}
