package dataset

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"marketlens/internal/errors"
	"marketlens/internal/tabular"
	"marketlens/pkg/contracts/domain"
)

const (
	// rescalePercentile is the quantile of absolute returns inspected when
	// deciding whether a whole column is percentage-scaled.
	rescalePercentile = 0.95

	// outlierThreshold flags daily returns beyond ±50% as advisories.
	outlierThreshold = 0.5
)

// BuildVariation derives the daily-return dataset from a normalized table.
// Returns come out as decimal fractions (0.0123 for +1.23%) after the scale
// correction: entries that literally carried a percent sign are divided by
// 100, and if the 95th percentile of absolute values still exceeds 1.0 the
// entire column is divided by 100 once more. Mixing already-decimal and
// percent-labelled entries in one column can therefore double-scale the
// percent-labelled ones; that behavior is intentional and pinned by tests.
func BuildVariation(t *tabular.Table, logger *slog.Logger) (*domain.VariationSeries, error) {
	if logger == nil {
		logger = slog.Default()
	}

	_, dateIdx := t.Resolve(logger, dateCandidates...)
	varCol, varIdx := t.Resolve(logger, variationCandidates...)

	var missing []string
	if dateIdx < 0 {
		missing = append(missing, "date")
	}
	if varIdx < 0 {
		missing = append(missing, "variation_pct")
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaError("variation", missing)
	}

	dates := tabular.Dates(t.Column(dateIdx))
	raw := t.Column(varIdx)

	values := make([]float64, len(raw))
	for i, cell := range raw {
		n := tabular.ParseNumber(cell)
		if !n.Valid {
			values[i] = math.NaN()
			continue
		}
		v := n.Value
		if n.Percent {
			v /= 100
		}
		values[i] = v
	}

	rescaled := false
	if p := percentile(absValues(values), rescalePercentile); p > 1.0 {
		for i := range values {
			values[i] /= 100
		}
		rescaled = true
		logger.Info("variation column rescaled from percentage units",
			slog.String("column", varCol),
			slog.Float64("p95_abs", p))
	}

	series := &domain.VariationSeries{ColumnRescaled: rescaled}
	for i, d := range dates {
		if d.IsZero() || math.IsNaN(values[i]) {
			continue
		}
		series.Points = append(series.Points, domain.Point{Date: d, Value: values[i]})
	}
	sort.SliceStable(series.Points, func(i, j int) bool {
		return series.Points[i].Date.Before(series.Points[j].Date)
	})

	if outliers, maxAbs := countOutliers(series.Points); outliers > 0 {
		series.Advisory = fmt.Sprintf(
			"%d daily return(s) beyond ±50%% (max |%.1f%%|); values reported as-is",
			outliers, maxAbs*100)
		logger.Warn("variation outliers detected",
			slog.Int("count", outliers),
			slog.Float64("max_abs", maxAbs))
	}

	return series, nil
}

// countOutliers reports how many returns exceed the advisory threshold and
// the largest absolute return seen.
func countOutliers(points []domain.Point) (int, float64) {
	count := 0
	maxAbs := 0.0
	for _, p := range points {
		a := math.Abs(p.Value)
		if a > maxAbs {
			maxAbs = a
		}
		if a > outlierThreshold {
			count++
		}
	}
	return count, maxAbs
}

// absValues returns the absolute values of the finite entries.
func absValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, math.Abs(v))
		}
	}
	return out
}

// percentile computes the nearest-rank percentile of values. An empty input
// yields 0.
func percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := int(math.Ceil(q*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
