package services

import (
	"context"
	"log/slog"

	"marketlens/internal/config"
	apierrors "marketlens/internal/errors"
	"marketlens/internal/infrastructure"
	"marketlens/internal/sheets"
	"marketlens/internal/toolcall"
)

// DiscoveryService runs the brute-force tool contract search against a tool
// server. It is deliberately separate from the serving path: the running
// service uses the configured contract, discovery is an operator action.
type DiscoveryService struct {
	cfg     *config.Config
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// NewDiscoveryService creates a discovery service.
func NewDiscoveryService(cfg *config.Config, metrics *infrastructure.Metrics, logger *slog.Logger) *DiscoveryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoveryService{
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "discovery_service")),
	}
}

// DiscoverRequest names the tool server to probe. Empty fields fall back to
// the configured source.
type DiscoverRequest struct {
	Endpoint    string `json:"endpoint" validate:"omitempty,url"`
	Spreadsheet string `json:"spreadsheet" validate:"omitempty,spreadsheet"`
	Sheet       string `json:"sheet"`
	Tool        string `json:"tool"`
	Token       string `json:"token"`
}

// DiscoverReport is the outcome of a successful negotiation.
type DiscoverReport struct {
	Contract toolcall.Contract `json:"contract"`
	Attempts int               `json:"attempts"`
	Tools    []toolcall.Tool   `json:"tools,omitempty"`
}

// Discover probes the tool server with every known contract permutation and
// reports the first one that yields a parsable table. All permutation
// failures are aggregated into the returned error when nothing works.
func (s *DiscoveryService) Discover(ctx context.Context, req DiscoverRequest) (*DiscoverReport, error) {
	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = s.cfg.Source.ToolEndpoint
	}
	if endpoint == "" {
		return nil, apierrors.NewAppValidationError("no tool endpoint given and none configured")
	}

	spreadsheet := req.Spreadsheet
	if spreadsheet == "" {
		spreadsheet = s.cfg.Source.Spreadsheet
	}
	id, err := sheets.ExtractSpreadsheetID(spreadsheet)
	if err != nil {
		return nil, apierrors.NewAppValidationError("invalid spreadsheet reference")
	}

	sheet := req.Sheet
	if sheet == "" {
		sheet = s.cfg.Source.VariationSheet
	}
	tool := req.Tool
	if tool == "" {
		tool = s.cfg.Source.ToolName
	}
	token := req.Token
	if token == "" {
		token = s.cfg.Source.Token
	}

	base := toolcall.DeriveBase(endpoint)
	s.logger.InfoContext(ctx, "contract discovery started",
		slog.String("base", base),
		slog.String("tool", tool),
		slog.String("sheet", sheet))

	negotiator := toolcall.NewNegotiator(base, token, s.cfg.Source.FetchTimeout, s.logger)
	result, err := negotiator.Discover(ctx, tool, id, sheet)
	if result != nil && s.metrics != nil {
		s.metrics.NegotiationAttempts.Observe(float64(result.Attempts))
	}
	if err != nil {
		return nil, apierrors.NewTransportError("contract discovery failed", err)
	}

	s.logger.InfoContext(ctx, "contract discovery succeeded",
		slog.Int("attempts", result.Attempts),
		slog.String("call_path", result.Contract.CallPath))

	return &DiscoverReport{
		Contract: result.Contract,
		Attempts: result.Attempts,
		Tools:    result.Tools,
	}, nil
}
