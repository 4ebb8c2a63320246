package tabular

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Number is the result of coercing one cell. Percent records whether the raw
// cell literally carried a percent sign; the generic layer strips the sign but
// never rescales - the variation dataset applies its own scale correction.
type Number struct {
	Value   float64
	Percent bool
	Valid   bool
}

// ParseNumber coerces a single cell: whitespace (including interior thousands
// separators) removed, decimal comma converted to a period, one trailing
// percent sign stripped. Unparseable cells come back invalid, never an error.
func ParseNumber(cell string) Number {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cell)
	if s == "" {
		return Number{}
	}

	s = strings.ReplaceAll(s, ",", ".")

	percent := strings.HasSuffix(s, "%")
	if percent {
		s = strings.TrimSuffix(s, "%")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}
	}
	return Number{Value: v, Percent: percent, Valid: true}
}

// Floats coerces every cell of a column. Missing values are NaN so positions
// line up with the date column.
func Floats(cells []string) []float64 {
	out := make([]float64, len(cells))
	for i, c := range cells {
		n := ParseNumber(c)
		if n.Valid {
			out[i] = n.Value
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// dateLayouts are tried in order. Day-first layouts come before month-first
// because the source sheets are French.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04",
	"02-01-2006",
	"2006/01/02",
	"01/02/2006",
}

// ParseDate coerces a date cell; a zero time marks a missing value.
func ParseDate(cell string) time.Time {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Dates coerces every cell of a date column.
func Dates(cells []string) []time.Time {
	out := make([]time.Time, len(cells))
	for i, c := range cells {
		out[i] = ParseDate(c)
	}
	return out
}
