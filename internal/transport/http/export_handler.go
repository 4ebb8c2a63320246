package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "marketlens/internal/errors"
	"marketlens/internal/exporter"
	"marketlens/internal/infrastructure"
	"marketlens/pkg/contracts/domain"
)

// ExportHandler streams dataset exports as CSV or XLSX downloads.
type ExportHandler struct {
	service      DashboardServiceInterface
	metrics      *infrastructure.Metrics
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler.
func NewExportHandler(service DashboardServiceInterface, metrics *infrastructure.Metrics, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		metrics:      metrics,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes.
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{dataset}.{format}", h.Export)
	return r
}

// Export handles GET /api/export/{dataset}.{format}.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	ds := domain.Dataset(chi.URLParam(r, "dataset"))
	format := chi.URLParam(r, "format")

	if !ds.Valid() {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("dataset",
			fmt.Sprintf("unknown dataset %q", ds)))
		return
	}
	if format != "csv" && format != "xlsx" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format",
			fmt.Sprintf("unsupported format %q", format)))
		return
	}

	doc, err := h.buildDocument(r, ds)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("dataset", string(ds)),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s.%s", doc.Name, format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = exporter.WriteCSV(w, doc, exporter.CSVOptions{BOMPrefix: true})
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = exporter.WriteXLSX(w, doc)
	}
	if err != nil {
		// Headers are out by now; log and give up on the body.
		h.logger.ErrorContext(r.Context(), "export stream failed",
			slog.String("dataset", string(ds)),
			slog.String("format", format),
			slog.String("error", err.Error()))
		return
	}

	if h.metrics != nil {
		h.metrics.ExportTotal.WithLabelValues(string(ds), format).Inc()
	}
}

// buildDocument fetches just the dataset being exported.
func (h *ExportHandler) buildDocument(r *http.Request, ds domain.Dataset) (*exporter.Document, error) {
	ctx := r.Context()
	svc, err := dashboardFor(h.service, r)
	if err != nil {
		return nil, err
	}
	switch ds {
	case domain.DatasetVariation:
		series, err := svc.Variation(ctx)
		if err != nil {
			return nil, err
		}
		return exporter.VariationDocument(series), nil
	case domain.DatasetMovingAverage:
		series, err := svc.MovingAverage(ctx)
		if err != nil {
			return nil, err
		}
		return exporter.MovingAverageDocument(series), nil
	default:
		series, err := svc.RSI(ctx)
		if err != nil {
			return nil, err
		}
		return exporter.RSIDocument(series), nil
	}
}
