package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"marketlens/internal/config"
)

// HealthService reports liveness and readiness for the dashboard server.
type HealthService struct {
	version   string
	buildTime string
	cfg       *config.Config
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Source    map[string]interface{} `json:"source,omitempty"`
}

// NewHealthService creates a health service.
func NewHealthService(version, buildTime string, cfg *config.Config, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		cfg:       cfg,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health. The server is considered healthy when
// it can run at all; upstream reachability is reported but does not flip the
// status because the dashboard serves cached and partial data.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"build_time":     hs.buildTime,
		},
		Source: map[string]interface{}{
			"transport":   hs.cfg.Source.Transport,
			"cache_ttl":   hs.cfg.Source.CacheTTL.String(),
			"spreadsheet": hs.cfg.Source.Spreadsheet != "",
		},
	}
}

// LivenessCheck reports that the process is alive.
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// Version returns build identification.
func (hs *HealthService) Version() map[string]string {
	return map[string]string{
		"version":    hs.version,
		"build_time": hs.buildTime,
	}
}

// ReadinessCheck reports whether the service can serve requests: the source
// must be configured.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := "ready"
	if hs.cfg.Source.Spreadsheet == "" {
		status = "not_ready"
	}
	if hs.cfg.Source.Transport == TransportToolCall && hs.cfg.Source.ToolEndpoint == "" {
		status = "not_ready"
	}
	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}
