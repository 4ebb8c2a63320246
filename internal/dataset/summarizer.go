package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"marketlens/pkg/contracts/domain"
)

// RSI zone thresholds; 30/70 are the conventional survente/surachat bounds.
const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0
)

// Summarizer turns derived series into one-line natural-language insights.
// It is purely derived output: no side effects beyond string construction.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates an insight summarizer.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// Summarize produces one line per available series; nil series yield empty
// lines.
func (s *Summarizer) Summarize(ctx context.Context, variation *domain.VariationSeries,
	ma *domain.MovingAverageSeries, rsi *domain.RSISeries) domain.Insights {

	insights := domain.Insights{}
	if variation != nil {
		insights.Variation = s.VariationLine(variation)
	}
	if ma != nil {
		insights.MovingAverage = s.MovingAverageLine(ma)
	}
	if rsi != nil {
		insights.RSI = s.RSILine(rsi)
	}

	s.logger.DebugContext(ctx, "insights generated",
		slog.Bool("variation", insights.Variation != ""),
		slog.Bool("moving_average", insights.MovingAverage != ""),
		slog.Bool("rsi", insights.RSI != ""))

	return insights
}

// VariationLine reports the share of positive-return sessions.
func (s *Summarizer) VariationLine(series *domain.VariationSeries) string {
	if len(series.Points) == 0 {
		return ""
	}
	positive := 0
	for _, p := range series.Points {
		if p.Value > 0 {
			positive++
		}
	}
	share := 100 * float64(positive) / float64(len(series.Points))
	line := fmt.Sprintf("Positive sessions: %.1f%% of %d days", share, len(series.Points))
	if series.Advisory != "" {
		line += " (" + series.Advisory + ")"
	}
	return line
}

// MovingAverageLine reports the latest crossover configuration and where the
// price sits relative to the two averages.
func (s *Summarizer) MovingAverageLine(series *domain.MovingAverageSeries) string {
	if len(series.Points) == 0 {
		return ""
	}
	last := series.Points[len(series.Points)-1]

	trend := "bearish (mm50 < mm200)"
	if last.MM50 > last.MM200 {
		trend = "bullish (mm50 > mm200)"
	}

	upper, lower := last.MM50, last.MM200
	if upper < lower {
		upper, lower = lower, upper
	}
	var position string
	switch {
	case last.Close > upper:
		position = "price above both averages"
	case last.Close < lower:
		position = "price below both averages"
	default:
		position = "price between the averages"
	}

	return fmt.Sprintf("Configuration %s, %s (close %.2f, mm50 %.2f, mm200 %.2f)",
		trend, position, last.Close, last.MM50, last.MM200)
}

// RSILine classifies the last value of each present horizon into the
// conventional zones: ≥70 surachat, ≤30 survente, otherwise neutre.
func (s *Summarizer) RSILine(series *domain.RSISeries) string {
	if len(series.Horizons) == 0 {
		return "No RSI horizon columns detected"
	}

	parts := make([]string, 0, len(series.Horizons))
	for _, h := range series.Horizons {
		v, _, ok := lastValue(h.Points)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.1f (%s)", h.Name, v, rsiZone(v)))
	}
	if len(parts) == 0 {
		return "No RSI horizon columns detected"
	}
	return "RSI " + strings.Join(parts, ", ")
}

// rsiZone names the conventional zone for an RSI value.
func rsiZone(v float64) string {
	switch {
	case v >= rsiOverbought:
		return "surachat"
	case v <= rsiOversold:
		return "survente"
	default:
		return "neutre"
	}
}
