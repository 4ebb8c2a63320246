package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"marketlens/internal/config"
	apierrors "marketlens/internal/errors"
	"marketlens/internal/dataset"
	"marketlens/internal/infrastructure"
	"marketlens/internal/sheets"
	"marketlens/internal/tabular"
	"marketlens/internal/toolcall"
	"marketlens/pkg/contracts/domain"
)

// Transport names used in logs and metrics labels.
const (
	TransportSheets   = "sheets"
	TransportToolCall = "toolcall"
)

// DashboardService fetches the three source sheets and derives the chart
// series and insights served by the HTTP layer. Each dataset is fetched and
// built independently so one broken sheet does not take the others down.
type DashboardService struct {
	cfg        *config.Config
	sheets     *sheets.Client
	tools      *toolcall.Client
	summarizer *dataset.Summarizer
	metrics    *infrastructure.Metrics
	logger     *slog.Logger

	spreadsheetID string
}

// NewDashboardService wires the configured transport. The tool contract has
// already been validated by config loading; an invalid spreadsheet reference
// fails here.
func NewDashboardService(cfg *config.Config, metrics *infrastructure.Metrics, logger *slog.Logger) (*DashboardService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dashboard_service"))

	svc := &DashboardService{
		cfg:        cfg,
		summarizer: dataset.NewSummarizer(logger),
		metrics:    metrics,
		logger:     logger,
	}

	id, err := sheets.ExtractSpreadsheetID(cfg.Source.Spreadsheet)
	if err != nil {
		return nil, apierrors.NewConfigError("invalid spreadsheet reference", err)
	}
	svc.spreadsheetID = id

	switch cfg.Source.Transport {
	case TransportSheets:
		opts := []sheets.ClientOption{sheets.WithCache(cfg.Source.CacheTTL)}
		if cfg.Source.Token != "" {
			opts = append(opts, sheets.WithToken(cfg.Source.Token))
		}
		svc.sheets = sheets.NewClient(cfg.Source.FetchTimeout, logger, opts...)
	case TransportToolCall:
		if cfg.Source.ToolEndpoint == "" {
			return nil, apierrors.NewConfigError("tool_endpoint is required for the toolcall transport", nil)
		}
		base := toolcall.DeriveBase(cfg.Source.ToolEndpoint)
		var opts []toolcall.ClientOption
		if cfg.Source.Token != "" {
			opts = append(opts, toolcall.WithToken(cfg.Source.Token))
		}
		svc.tools = toolcall.NewClient(base, cfg.Source.ToolContract, cfg.Source.FetchTimeout, logger, opts...)
	default:
		return nil, apierrors.NewConfigError(fmt.Sprintf("unknown transport %q", cfg.Source.Transport), nil)
	}

	logger.Info("dashboard service initialized",
		slog.String("transport", cfg.Source.Transport),
		slog.String("spreadsheet_id", id))

	return svc, nil
}

// Transport reports which upstream transport is active.
func (s *DashboardService) Transport() string {
	return s.cfg.Source.Transport
}

// SourceOverrides carries per-request source settings. Zero fields keep
// their configured values.
type SourceOverrides struct {
	Spreadsheet      string
	VariationGID     *int64
	MovingAverageGID *int64
	RSIGID           *int64
	ToolName         string
	Timeout          time.Duration
	Token            string
}

// IsZero reports whether no field is set.
func (o SourceOverrides) IsZero() bool {
	return o.Spreadsheet == "" && o.VariationGID == nil && o.MovingAverageGID == nil &&
		o.RSIGID == nil && o.ToolName == "" && o.Timeout == 0 && o.Token == ""
}

// WithOverrides returns a service bound to the same transport, metrics and
// logger but with the given source fields replaced. The receiver is not
// modified; overridden fetches bypass its cache.
func (s *DashboardService) WithOverrides(o SourceOverrides) (*DashboardService, error) {
	if o.IsZero() {
		return s, nil
	}

	cfg := *s.cfg
	if o.Spreadsheet != "" {
		cfg.Source.Spreadsheet = o.Spreadsheet
	}
	if o.VariationGID != nil {
		cfg.Source.VariationGID = *o.VariationGID
	}
	if o.MovingAverageGID != nil {
		cfg.Source.MovingAverageGID = *o.MovingAverageGID
	}
	if o.RSIGID != nil {
		cfg.Source.RSIGID = *o.RSIGID
	}
	if o.ToolName != "" {
		cfg.Source.ToolName = o.ToolName
	}
	if o.Timeout > 0 {
		cfg.Source.FetchTimeout = o.Timeout
	}
	if o.Token != "" {
		cfg.Source.Token = o.Token
	}

	return NewDashboardService(&cfg, s.metrics, s.logger)
}

// fetchTable pulls the raw table for one dataset over the active transport.
func (s *DashboardService) fetchTable(ctx context.Context, ds domain.Dataset) (*tabular.Table, error) {
	start := time.Now()
	var (
		t   *tabular.Table
		err error
	)

	switch s.cfg.Source.Transport {
	case TransportSheets:
		t, err = s.sheets.FetchTable(ctx, s.spreadsheetID, s.gidFor(ds))
	case TransportToolCall:
		t, err = s.tools.FetchTable(ctx, s.cfg.Source.ToolName, s.spreadsheetID, s.sheetFor(ds))
	}

	if s.metrics != nil {
		s.metrics.ObserveFetch(s.cfg.Source.Transport, time.Since(start).Seconds(), err)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "sheet fetch failed",
			slog.String("dataset", string(ds)),
			slog.String("transport", s.cfg.Source.Transport),
			slog.String("error", err.Error()))
		return nil, err
	}
	return t, nil
}

func (s *DashboardService) gidFor(ds domain.Dataset) int64 {
	switch ds {
	case domain.DatasetMovingAverage:
		return s.cfg.Source.MovingAverageGID
	case domain.DatasetRSI:
		return s.cfg.Source.RSIGID
	default:
		return s.cfg.Source.VariationGID
	}
}

func (s *DashboardService) sheetFor(ds domain.Dataset) string {
	switch ds {
	case domain.DatasetMovingAverage:
		return s.cfg.Source.MovingAverageSheet
	case domain.DatasetRSI:
		return s.cfg.Source.RSISheet
	default:
		return s.cfg.Source.VariationSheet
	}
}

// Variation fetches and builds the daily variation series.
func (s *DashboardService) Variation(ctx context.Context) (*domain.VariationSeries, error) {
	t, err := s.fetchTable(ctx, domain.DatasetVariation)
	if err != nil {
		return nil, err
	}
	series, err := dataset.BuildVariation(t, s.logger)
	if s.metrics != nil {
		s.metrics.ObserveDatasetBuild(string(domain.DatasetVariation), err)
	}
	return series, err
}

// MovingAverage fetches and builds the close/MM50/MM200 series.
func (s *DashboardService) MovingAverage(ctx context.Context) (*domain.MovingAverageSeries, error) {
	t, err := s.fetchTable(ctx, domain.DatasetMovingAverage)
	if err != nil {
		return nil, err
	}
	series, err := dataset.BuildMovingAverage(t, s.logger)
	if s.metrics != nil {
		s.metrics.ObserveDatasetBuild(string(domain.DatasetMovingAverage), err)
	}
	return series, err
}

// RSI fetches and builds the multi-horizon RSI series.
func (s *DashboardService) RSI(ctx context.Context) (*domain.RSISeries, error) {
	t, err := s.fetchTable(ctx, domain.DatasetRSI)
	if err != nil {
		return nil, err
	}
	series, err := dataset.BuildRSI(t, s.logger)
	if s.metrics != nil {
		s.metrics.ObserveDatasetBuild(string(domain.DatasetRSI), err)
	}
	return series, err
}

// ChartBundle carries everything the dashboard shows in one response. A
// dataset that failed is left nil and its error recorded alongside.
type ChartBundle struct {
	Variation     *domain.VariationSeries     `json:"variation,omitempty"`
	MovingAverage *domain.MovingAverageSeries `json:"moving_average,omitempty"`
	RSI           *domain.RSISeries           `json:"rsi,omitempty"`
	Errors        map[string]string           `json:"errors,omitempty"`
}

// Charts builds all three series with per-dataset error isolation. It only
// returns an error when every dataset failed.
func (s *DashboardService) Charts(ctx context.Context) (*ChartBundle, error) {
	bundle := &ChartBundle{Errors: map[string]string{}}

	var err error
	if bundle.Variation, err = s.Variation(ctx); err != nil {
		bundle.Errors[string(domain.DatasetVariation)] = err.Error()
	}
	if bundle.MovingAverage, err = s.MovingAverage(ctx); err != nil {
		bundle.Errors[string(domain.DatasetMovingAverage)] = err.Error()
	}
	if bundle.RSI, err = s.RSI(ctx); err != nil {
		bundle.Errors[string(domain.DatasetRSI)] = err.Error()
	}

	if bundle.Variation == nil && bundle.MovingAverage == nil && bundle.RSI == nil {
		return nil, apierrors.NewTransportError("all datasets failed", fmt.Errorf("%d dataset errors", len(bundle.Errors)))
	}
	if len(bundle.Errors) == 0 {
		bundle.Errors = nil
	}
	return bundle, nil
}

// Insights builds the one-line summaries over whatever datasets are
// reachable.
func (s *DashboardService) Insights(ctx context.Context) (*domain.Insights, error) {
	bundle, err := s.Charts(ctx)
	if err != nil {
		return nil, err
	}
	return s.InsightsFrom(ctx, bundle), nil
}

// InsightsFrom summarizes an already-built bundle without refetching.
func (s *DashboardService) InsightsFrom(ctx context.Context, bundle *ChartBundle) *domain.Insights {
	insights := s.summarizer.Summarize(ctx, bundle.Variation, bundle.MovingAverage, bundle.RSI)
	return &insights
}
