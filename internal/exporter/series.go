package exporter

import (
	"fmt"
	"strconv"
	"time"

	"marketlens/pkg/contracts/domain"
)

// Document is a tabular rendering of one dataset, ready for CSV or XLSX
// output.
type Document struct {
	Name    string
	Headers []string
	Records [][]string
}

const dateLayout = "2006-01-02"

// formatValue renders a float without trailing zero padding so fractional
// returns survive the round trip.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// VariationDocument renders the daily variation series.
func VariationDocument(series *domain.VariationSeries) *Document {
	doc := &Document{
		Name:    string(domain.DatasetVariation),
		Headers: []string{"date", "variation"},
	}
	for _, p := range series.Points {
		doc.Records = append(doc.Records, []string{
			p.Date.Format(dateLayout),
			formatValue(p.Value),
		})
	}
	return doc
}

// MovingAverageDocument renders the close/MM50/MM200 series.
func MovingAverageDocument(series *domain.MovingAverageSeries) *Document {
	doc := &Document{
		Name:    string(domain.DatasetMovingAverage),
		Headers: []string{"date", "close", "mm50", "mm200"},
	}
	for _, p := range series.Points {
		doc.Records = append(doc.Records, []string{
			p.Date.Format(dateLayout),
			formatValue(p.Close),
			formatValue(p.MM50),
			formatValue(p.MM200),
		})
	}
	return doc
}

// RSIDocument renders the multi-horizon RSI series. Horizon columns follow
// the close column in the order they were detected; rows are keyed by the
// close series dates.
func RSIDocument(series *domain.RSISeries) *Document {
	doc := &Document{
		Name:    string(domain.DatasetRSI),
		Headers: []string{"date", "close"},
	}
	for _, h := range series.Horizons {
		doc.Headers = append(doc.Headers, h.Name)
	}

	horizonValues := make([]map[time.Time]float64, len(series.Horizons))
	for i, h := range series.Horizons {
		horizonValues[i] = make(map[time.Time]float64, len(h.Points))
		for _, p := range h.Points {
			horizonValues[i][p.Date] = p.Value
		}
	}

	for _, p := range series.Close {
		record := []string{p.Date.Format(dateLayout), formatValue(p.Value)}
		for i := range series.Horizons {
			if v, ok := horizonValues[i][p.Date]; ok {
				record = append(record, formatValue(v))
			} else {
				record = append(record, "")
			}
		}
		doc.Records = append(doc.Records, record)
	}
	return doc
}

// DocumentFor picks the renderer for a dataset out of a chart bundle-shaped
// set of series. Nil series yield an error.
func DocumentFor(ds domain.Dataset, variation *domain.VariationSeries,
	ma *domain.MovingAverageSeries, rsi *domain.RSISeries) (*Document, error) {

	switch ds {
	case domain.DatasetVariation:
		if variation == nil {
			return nil, fmt.Errorf("variation series unavailable")
		}
		return VariationDocument(variation), nil
	case domain.DatasetMovingAverage:
		if ma == nil {
			return nil, fmt.Errorf("moving average series unavailable")
		}
		return MovingAverageDocument(ma), nil
	case domain.DatasetRSI:
		if rsi == nil {
			return nil, fmt.Errorf("rsi series unavailable")
		}
		return RSIDocument(rsi), nil
	default:
		return nil, fmt.Errorf("unknown dataset %q", ds)
	}
}
