package domain

import "time"

// Dataset identifies one of the three logical tables served by the API.
type Dataset string

const (
	DatasetVariation     Dataset = "variation"
	DatasetMovingAverage Dataset = "moving-average"
	DatasetRSI           Dataset = "rsi"
)

// Valid reports whether d names a known dataset.
func (d Dataset) Valid() bool {
	switch d {
	case DatasetVariation, DatasetMovingAverage, DatasetRSI:
		return true
	}
	return false
}

// Point is one dated observation in a series. Derivation drops missing rows,
// so a marshalled series never carries NaN.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// VariationSeries holds decimal daily returns (0.0123 means +1.23%) sorted by
// date ascending.
type VariationSeries struct {
	Points []Point `json:"points"`

	// ColumnRescaled is set when the whole column was divided by 100 because
	// its 95th percentile of absolute values exceeded 1.0.
	ColumnRescaled bool `json:"column_rescaled"`

	// Advisory carries the out-of-range notice (returns beyond ±50%). It is
	// informational: flagged values are reported, never filtered or clamped.
	Advisory string `json:"advisory,omitempty"`
}

// MovingAveragePoint is one row of the moving-average dataset. All four
// fields are required; rows missing any of them are dropped.
type MovingAveragePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
	MM50  float64   `json:"mm50"`
	MM200 float64   `json:"mm200"`
}

// MovingAverageSeries holds the price and its 50/200-period averages sorted
// by date ascending.
type MovingAverageSeries struct {
	Points []MovingAveragePoint `json:"points"`
}

// RSIHorizon names for RSISeries.Horizons, in conventional order.
const (
	RSIHorizonShort  = "short"
	RSIHorizonMedium = "medium"
	RSIHorizonLong   = "long"
)

// RSIHorizonSeries is one oscillator horizon. Horizons absent from the source
// sheet are simply omitted.
type RSIHorizonSeries struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// RSISeries holds the closing price plus up to three RSI horizons, each
// sorted by date ascending. Close is required; horizons degrade gracefully.
type RSISeries struct {
	Close    []Point            `json:"close"`
	Horizons []RSIHorizonSeries `json:"horizons,omitempty"`
}

// Insights are the one-line natural-language summaries, one per dataset.
// Lines for datasets that failed to load are empty.
type Insights struct {
	Variation     string `json:"variation,omitempty"`
	MovingAverage string `json:"moving_average,omitempty"`
	RSI           string `json:"rsi,omitempty"`
}
