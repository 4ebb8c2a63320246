// Package dataset derives the three chart datasets - daily variation,
// moving-average crossover, and multi-horizon RSI - from normalized tables.
// It owns the ranked column-candidate lists, the returns-scale correction
// heuristic, and the one-line insight summaries.
package dataset
