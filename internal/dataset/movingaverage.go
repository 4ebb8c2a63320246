package dataset

import (
	"log/slog"
	"math"
	"sort"

	"marketlens/internal/errors"
	"marketlens/internal/tabular"
	"marketlens/pkg/contracts/domain"
)

// BuildMovingAverage derives the price / MM50 / MM200 dataset. All four
// logical columns are required; rows missing any value are dropped and the
// result is sorted by date ascending.
func BuildMovingAverage(t *tabular.Table, logger *slog.Logger) (*domain.MovingAverageSeries, error) {
	if logger == nil {
		logger = slog.Default()
	}

	_, dateIdx := t.Resolve(logger, dateCandidates...)
	_, closeIdx := t.Resolve(logger, closeCandidates...)
	_, mm50Idx := t.Resolve(logger, mm50Candidates...)
	_, mm200Idx := t.Resolve(logger, mm200Candidates...)

	var missing []string
	if dateIdx < 0 {
		missing = append(missing, "date")
	}
	if closeIdx < 0 {
		missing = append(missing, "close")
	}
	if mm50Idx < 0 {
		missing = append(missing, "mm50")
	}
	if mm200Idx < 0 {
		missing = append(missing, "mm200")
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaError("moving-average", missing)
	}

	dates := tabular.Dates(t.Column(dateIdx))
	closes := tabular.Floats(t.Column(closeIdx))
	mm50 := tabular.Floats(t.Column(mm50Idx))
	mm200 := tabular.Floats(t.Column(mm200Idx))

	series := &domain.MovingAverageSeries{}
	for i, d := range dates {
		if d.IsZero() || math.IsNaN(closes[i]) || math.IsNaN(mm50[i]) || math.IsNaN(mm200[i]) {
			continue
		}
		series.Points = append(series.Points, domain.MovingAveragePoint{
			Date:  d,
			Close: closes[i],
			MM50:  mm50[i],
			MM200: mm200[i],
		})
	}
	sort.SliceStable(series.Points, func(i, j int) bool {
		return series.Points[i].Date.Before(series.Points[j].Date)
	})

	return series, nil
}
