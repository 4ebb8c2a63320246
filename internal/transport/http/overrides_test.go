package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/services"
)

func TestParseSourceOverrides_Empty(t *testing.T) {
	o, err := parseSourceOverrides(httptest.NewRequest(http.MethodGet, "/api/charts", nil))
	require.NoError(t, err)
	assert.True(t, o.IsZero())
}

func TestParseSourceOverrides_AllFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/charts?spreadsheet=other-sheet&variation_gid=7&moving_average_gid=8&rsi_gid=9&tool=fetch_range&timeout=5s", nil)
	req.Header.Set("Authorization", "Bearer sekrit")

	o, err := parseSourceOverrides(req)
	require.NoError(t, err)

	assert.Equal(t, "other-sheet", o.Spreadsheet)
	require.NotNil(t, o.VariationGID)
	assert.Equal(t, int64(7), *o.VariationGID)
	require.NotNil(t, o.MovingAverageGID)
	assert.Equal(t, int64(8), *o.MovingAverageGID)
	require.NotNil(t, o.RSIGID)
	assert.Equal(t, int64(9), *o.RSIGID)
	assert.Equal(t, "fetch_range", o.ToolName)
	assert.Equal(t, 5*time.Second, o.Timeout)
	assert.Equal(t, "sekrit", o.Token)
	assert.False(t, o.IsZero())
}

func TestParseSourceOverrides_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric gid", "?variation_gid=abc"},
		{"negative gid", "?rsi_gid=-1"},
		{"bad timeout", "?timeout=fast"},
		{"negative timeout", "?timeout=-5s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSourceOverrides(httptest.NewRequest(http.MethodGet, "/api/charts"+tt.query, nil))
			require.Error(t, err)
		})
	}
}

func TestParseSourceOverrides_IgnoresNonBearerAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/charts", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	o, err := parseSourceOverrides(req)
	require.NoError(t, err)
	assert.Empty(t, o.Token)
}

func TestDashboardFor_MockPassesThrough(t *testing.T) {
	// A non-overridable implementation keeps serving even when overrides
	// are present in the request.
	mock := &mockDashboardService{}

	svc, err := dashboardFor(mock, httptest.NewRequest(http.MethodGet, "/api/charts?spreadsheet=other", nil))
	require.NoError(t, err)
	assert.Same(t, DashboardServiceInterface(mock), svc)
}

func TestDashboardFor_InvalidOverride(t *testing.T) {
	mock := &mockDashboardService{}

	_, err := dashboardFor(mock, httptest.NewRequest(http.MethodGet, "/api/charts?timeout=zzz", nil))
	require.Error(t, err)
}

func TestGetVariation_BadGIDOverride(t *testing.T) {
	handler := NewChartsHandler(&mockDashboardService{variation: sampleVariation()}, testLogger(), testErrorHandler())

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/variation?variation_gid=oops", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

var _ overridableDashboard = (*services.DashboardService)(nil)
