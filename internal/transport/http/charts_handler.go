package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "marketlens/internal/errors"
)

// ChartsHandler serves the derived chart series and the insight lines.
type ChartsHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChartsHandler {
	return &ChartsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "charts_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the chart routes.
func (h *ChartsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetCharts)
	r.Get("/variation", h.GetVariation)
	r.Get("/moving-average", h.GetMovingAverage)
	r.Get("/rsi", h.GetRSI)

	return r
}

// GetCharts handles GET /api/charts: all three series with per-dataset
// error isolation.
func (h *ChartsHandler) GetCharts(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	svc, err := dashboardFor(h.service, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	bundle, err := svc.Charts(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build charts",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   bundle,
	})
}

// GetVariation handles GET /api/charts/variation.
func (h *ChartsHandler) GetVariation(w http.ResponseWriter, r *http.Request) {
	svc, err := dashboardFor(h.service, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	series, err := svc.Variation(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build variation series",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   series,
	})
}

// GetMovingAverage handles GET /api/charts/moving-average.
func (h *ChartsHandler) GetMovingAverage(w http.ResponseWriter, r *http.Request) {
	svc, err := dashboardFor(h.service, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	series, err := svc.MovingAverage(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build moving average series",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   series,
	})
}

// GetRSI handles GET /api/charts/rsi.
func (h *ChartsHandler) GetRSI(w http.ResponseWriter, r *http.Request) {
	svc, err := dashboardFor(h.service, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	series, err := svc.RSI(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build rsi series",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   series,
	})
}

// GetInsights handles GET /api/insights: the one-line summaries.
func (h *ChartsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	svc, err := dashboardFor(h.service, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	insights, err := svc.Insights(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build insights",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   insights,
	})
}
