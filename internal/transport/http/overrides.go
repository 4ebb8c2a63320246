package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	apierrors "marketlens/internal/errors"
	"marketlens/internal/services"
)

// overridableDashboard is satisfied by *services.DashboardService. Handlers
// fall back to the base service when the injected implementation cannot
// rebuild itself.
type overridableDashboard interface {
	WithOverrides(services.SourceOverrides) (*services.DashboardService, error)
}

// dashboardFor applies any per-request source overrides to the base service.
func dashboardFor(base DashboardServiceInterface, r *http.Request) (DashboardServiceInterface, error) {
	o, err := parseSourceOverrides(r)
	if err != nil {
		return nil, err
	}
	if o.IsZero() {
		return base, nil
	}
	ov, ok := base.(overridableDashboard)
	if !ok {
		return base, nil
	}
	return ov.WithOverrides(o)
}

// parseSourceOverrides reads the spreadsheet, gid, tool and timeout query
// parameters plus a bearer token from the Authorization header.
func parseSourceOverrides(r *http.Request) (services.SourceOverrides, error) {
	q := r.URL.Query()
	o := services.SourceOverrides{
		Spreadsheet: strings.TrimSpace(q.Get("spreadsheet")),
		ToolName:    strings.TrimSpace(q.Get("tool")),
	}

	var err error
	if o.VariationGID, err = parseGID("variation_gid", q.Get("variation_gid")); err != nil {
		return o, err
	}
	if o.MovingAverageGID, err = parseGID("moving_average_gid", q.Get("moving_average_gid")); err != nil {
		return o, err
	}
	if o.RSIGID, err = parseGID("rsi_gid", q.Get("rsi_gid")); err != nil {
		return o, err
	}

	if raw := q.Get("timeout"); raw != "" {
		d, perr := time.ParseDuration(raw)
		if perr != nil || d <= 0 {
			return o, apierrors.ErrValidation("timeout", fmt.Sprintf("invalid timeout %q", raw))
		}
		o.Timeout = d
	}

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		o.Token = strings.TrimPrefix(auth, "Bearer ")
	}
	return o, nil
}

func parseGID(param, raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	gid, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || gid < 0 {
		return nil, apierrors.ErrValidation(param, fmt.Sprintf("invalid gid %q", raw))
	}
	return &gid, nil
}
