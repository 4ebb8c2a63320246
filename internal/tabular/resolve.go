package tabular

import (
	"log/slog"
	"strings"
)

// Resolve picks the column best matching an ordered candidate list
// (most-preferred first). Exact normalized matches win; failing that, the
// first column in table order containing any normalized candidate as a
// substring is used. The substring fallback is a heuristic - ties go to
// whichever column appears first - so it is logged when taken.
//
// The returned index is -1 when no candidate matches.
func (t *Table) Resolve(logger *slog.Logger, candidates ...string) (string, int) {
	normalized := make([]string, len(candidates))
	for i, c := range candidates {
		normalized[i] = NormalizeName(c)
	}

	for _, cand := range normalized {
		if idx := t.ColumnIndex(cand); idx >= 0 {
			return cand, idx
		}
	}

	for idx, col := range t.Columns {
		for _, cand := range normalized {
			if cand != "" && strings.Contains(col, cand) {
				if logger != nil {
					logger.Debug("column resolved by substring fallback",
						slog.String("column", col),
						slog.String("candidate", cand))
				}
				return col, idx
			}
		}
	}

	return "", -1
}
