package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"marketlens/internal/config"
)

func TestHealthService_HealthCheck(t *testing.T) {
	cfg := config.Default()
	cfg.Source.Spreadsheet = "abc123"

	hs := NewHealthService("1.0.0", "2026-01-01T00:00:00Z", cfg, discardLogger())

	status := hs.HealthCheck(context.Background())

	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.Equal(t, "sheets", status.Source["transport"])
	assert.Equal(t, true, status.Source["spreadsheet"])
	assert.NotEmpty(t, status.Runtime["go_version"])
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "ready with spreadsheet",
			mutate: func(c *config.Config) { c.Source.Spreadsheet = "abc" },
			want:   "ready",
		},
		{
			name:   "not ready without spreadsheet",
			mutate: func(c *config.Config) { c.Source.Spreadsheet = "" },
			want:   "not_ready",
		},
		{
			name: "not ready on toolcall without endpoint",
			mutate: func(c *config.Config) {
				c.Source.Spreadsheet = "abc"
				c.Source.Transport = TransportToolCall
				c.Source.ToolEndpoint = ""
			},
			want: "not_ready",
		},
		{
			name: "ready on toolcall with endpoint",
			mutate: func(c *config.Config) {
				c.Source.Spreadsheet = "abc"
				c.Source.Transport = TransportToolCall
				c.Source.ToolEndpoint = "http://localhost:9000"
			},
			want: "ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			hs := NewHealthService("1.0.0", "unknown", cfg, discardLogger())
			assert.Equal(t, tt.want, hs.ReadinessCheck(context.Background()).Status)
		})
	}
}

func TestHealthService_LivenessCheck(t *testing.T) {
	hs := NewHealthService("1.0.0", "unknown", config.Default(), discardLogger())
	assert.Equal(t, "alive", hs.LivenessCheck(context.Background()).Status)
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService("1.0.0", "2026-01-01T00:00:00Z", config.Default(), discardLogger())

	v := hs.Version()
	assert.Equal(t, "1.0.0", v["version"])
	assert.Equal(t, "2026-01-01T00:00:00Z", v["build_time"])
}
