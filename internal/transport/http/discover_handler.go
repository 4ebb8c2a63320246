package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "marketlens/internal/errors"
	custommw "marketlens/internal/middleware"
	"marketlens/internal/services"
)

// DiscoverHandler exposes the brute-force tool contract search.
type DiscoverHandler struct {
	service      DiscoveryServiceInterface
	validation   *custommw.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDiscoverHandler creates a new discovery handler.
func NewDiscoverHandler(service DiscoveryServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DiscoverHandler {
	return &DiscoverHandler{
		service:      service,
		validation:   custommw.NewValidationMiddleware(logger, errorHandler),
		logger:       logger.With(slog.String("component", "discover_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the discovery routes.
func (h *DiscoverHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Discover)
	return r
}

// Discover handles POST /api/discover. The body may override any part of
// the configured source; a working contract comes back with the attempt
// count and, when the server lists tools, its inventory.
func (h *DiscoverHandler) Discover(w http.ResponseWriter, r *http.Request) {
	var req services.DiscoverRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusBadRequest,
				"INVALID_JSON",
				"Request body contains invalid JSON",
			))
			return
		}
		if err := h.validation.ValidateStruct(req); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
	}

	report, err := h.service.Discover(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "contract discovery failed",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}
