package http

import (
	"context"

	"marketlens/internal/services"
	"marketlens/pkg/contracts/domain"
)

// DashboardServiceInterface defines the chart and insight operations the
// handlers need. Satisfied by *services.DashboardService.
type DashboardServiceInterface interface {
	Variation(ctx context.Context) (*domain.VariationSeries, error)
	MovingAverage(ctx context.Context) (*domain.MovingAverageSeries, error)
	RSI(ctx context.Context) (*domain.RSISeries, error)
	Charts(ctx context.Context) (*services.ChartBundle, error)
	Insights(ctx context.Context) (*domain.Insights, error)
}

// DiscoveryServiceInterface defines the contract discovery operation.
type DiscoveryServiceInterface interface {
	Discover(ctx context.Context, req services.DiscoverRequest) (*services.DiscoverReport, error)
}
