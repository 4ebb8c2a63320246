package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/config"
	apierrors "marketlens/internal/errors"
	"marketlens/internal/infrastructure"
)

func TestDiscoveryService_Discover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/tools" {
			io.WriteString(w, `{"tools":[{"name":"read_sheet"}]}`)
			return
		}
		io.WriteString(w, `{"result":{"rows":[["date","variation"],["2024-01-02","0.01"]]}}`)
	}))
	defer srv.Close()

	svc := NewDiscoveryService(config.Default(), infrastructure.NewMetrics(), discardLogger())

	report, err := svc.Discover(context.Background(), DiscoverRequest{
		Endpoint:    srv.URL,
		Spreadsheet: "abc123",
	})
	require.NoError(t, err)

	assert.Equal(t, "/call", report.Contract.CallPath)
	assert.Equal(t, 1, report.Attempts)
	require.Len(t, report.Tools, 1)
	assert.Equal(t, "read_sheet", report.Tools[0].Name)
	require.NoError(t, report.Contract.Validate())
}

func TestDiscoveryService_FallsBackToConfig(t *testing.T) {
	var sawSheet, sawTool string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/tools" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		sawSheet = string(body)
		sawTool = string(body)
		io.WriteString(w, `{"rows":[["a"],["1"]]}`)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Source.ToolEndpoint = srv.URL
	cfg.Source.Spreadsheet = "configured-sheet-id"
	cfg.Source.ToolName = "configured_tool"

	svc := NewDiscoveryService(cfg, nil, discardLogger())

	_, err := svc.Discover(context.Background(), DiscoverRequest{})
	require.NoError(t, err)

	assert.Contains(t, sawSheet, "configured-sheet-id")
	assert.Contains(t, sawSheet, cfg.Source.VariationSheet)
	assert.Contains(t, sawTool, "configured_tool")
}

func TestDiscoveryService_NoEndpoint(t *testing.T) {
	svc := NewDiscoveryService(config.Default(), nil, discardLogger())

	_, err := svc.Discover(context.Background(), DiscoverRequest{Spreadsheet: "abc"})
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeValidation))
}

func TestDiscoveryService_BadSpreadsheet(t *testing.T) {
	svc := NewDiscoveryService(config.Default(), nil, discardLogger())

	_, err := svc.Discover(context.Background(), DiscoverRequest{
		Endpoint:    "http://localhost:9000",
		Spreadsheet: "https://docs.google.com/spreadsheets/",
	})
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeValidation))
}

func TestDiscoveryService_NegotiationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	svc := NewDiscoveryService(config.Default(), nil, discardLogger())

	_, err := svc.Discover(context.Background(), DiscoverRequest{
		Endpoint:    srv.URL,
		Spreadsheet: "abc123",
	})
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeTransport))
}
