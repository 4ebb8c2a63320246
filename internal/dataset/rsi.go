package dataset

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"marketlens/internal/errors"
	"marketlens/internal/tabular"
	"marketlens/pkg/contracts/domain"
)

// BuildRSI derives the RSI dataset: date and close are required, the three
// oscillator horizons are optional and degrade gracefully when absent. Rows
// missing any present horizon value are dropped jointly so all horizons share
// the same date axis.
func BuildRSI(t *tabular.Table, logger *slog.Logger) (*domain.RSISeries, error) {
	if logger == nil {
		logger = slog.Default()
	}

	_, dateIdx := t.Resolve(logger, dateCandidates...)
	_, closeIdx := t.Resolve(logger, closeCandidates...)

	var missing []string
	if dateIdx < 0 {
		missing = append(missing, "date")
	}
	if closeIdx < 0 {
		missing = append(missing, "close")
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaError("rsi", missing)
	}

	dates := tabular.Dates(t.Column(dateIdx))
	closes := tabular.Floats(t.Column(closeIdx))

	series := &domain.RSISeries{}
	for i, d := range dates {
		if d.IsZero() || math.IsNaN(closes[i]) {
			continue
		}
		series.Close = append(series.Close, domain.Point{Date: d, Value: closes[i]})
	}
	sortPoints(series.Close)

	type horizon struct {
		name       string
		candidates []string
	}
	horizons := []horizon{
		{domain.RSIHorizonShort, rsiShortCandidates},
		{domain.RSIHorizonMedium, rsiMediumCandidates},
		{domain.RSIHorizonLong, rsiLongCandidates},
	}

	var (
		present []string
		columns [][]float64
	)
	for _, h := range horizons {
		if _, idx := t.Resolve(logger, h.candidates...); idx >= 0 {
			present = append(present, h.name)
			columns = append(columns, tabular.Floats(t.Column(idx)))
		}
	}
	if len(present) == 0 {
		logger.Info("no RSI horizon columns detected, serving price only")
		return series, nil
	}

	// Joint dropna: a row survives only when the date and every present
	// horizon parse.
	for h := range present {
		series.Horizons = append(series.Horizons, domain.RSIHorizonSeries{Name: present[h]})
	}
	for i, d := range dates {
		if d.IsZero() || rowHasGap(columns, i) {
			continue
		}
		for h := range columns {
			series.Horizons[h].Points = append(series.Horizons[h].Points,
				domain.Point{Date: d, Value: columns[h][i]})
		}
	}
	for h := range series.Horizons {
		sortPoints(series.Horizons[h].Points)
	}

	return series, nil
}

func rowHasGap(columns [][]float64, row int) bool {
	for _, col := range columns {
		if math.IsNaN(col[row]) {
			return true
		}
	}
	return false
}

func sortPoints(points []domain.Point) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}

// lastValue returns the most recent value of a sorted point series.
func lastValue(points []domain.Point) (float64, time.Time, bool) {
	if len(points) == 0 {
		return 0, time.Time{}, false
	}
	p := points[len(points)-1]
	return p.Value, p.Date, true
}
