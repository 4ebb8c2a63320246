package tabular

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name        string
		cell        string
		wantValue   float64
		wantPercent bool
		wantValid   bool
	}{
		{name: "plain integer", cell: "42", wantValue: 42, wantValid: true},
		{name: "plain decimal", cell: "3.14", wantValue: 3.14, wantValid: true},
		{name: "decimal comma", cell: "1,25", wantValue: 1.25, wantValid: true},
		{name: "negative decimal comma", cell: "-0,5", wantValue: -0.5, wantValid: true},
		{name: "percent sign", cell: "2.5%", wantValue: 2.5, wantPercent: true, wantValid: true},
		{name: "percent with decimal comma", cell: "1,2%", wantValue: 1.2, wantPercent: true, wantValid: true},
		{name: "percent with space before sign", cell: "2.5 %", wantValue: 2.5, wantPercent: true, wantValid: true},
		{name: "interior spaces as thousands separator", cell: "1 234.5", wantValue: 1234.5, wantValid: true},
		{name: "surrounding whitespace", cell: "  7.5  ", wantValue: 7.5, wantValid: true},
		{name: "empty cell", cell: "", wantValid: false},
		{name: "whitespace only", cell: "   ", wantValid: false},
		{name: "text cell", cell: "n/a", wantValid: false},
		{name: "lone percent sign", cell: "%", wantValid: false},
		{name: "double percent", cell: "5%%", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := ParseNumber(tt.cell)
			assert.Equal(t, tt.wantValid, n.Valid)
			if tt.wantValid {
				assert.InDelta(t, tt.wantValue, n.Value, 1e-9)
				assert.Equal(t, tt.wantPercent, n.Percent)
			}
		})
	}
}

func TestFloats(t *testing.T) {
	out := Floats([]string{"1,5", "", "bad", "-2"})

	require.Len(t, out, 4)
	assert.InDelta(t, 1.5, out[0], 1e-9)
	assert.True(t, math.IsNaN(out[1]))
	assert.True(t, math.IsNaN(out[2]))
	assert.InDelta(t, -2, out[3], 1e-9)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want time.Time
	}{
		{name: "iso date", cell: "2024-03-15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "french day first", cell: "15/03/2024", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "day first wins over month first", cell: "05/03/2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "dashed day first", cell: "15-03-2024", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "empty cell", cell: "", want: time.Time{}},
		{name: "garbage", cell: "tomorrow", want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(ParseDate(tt.cell)), "got %v", ParseDate(tt.cell))
		})
	}
}

func TestDates(t *testing.T) {
	out := Dates([]string{"2024-01-02", "", "2024-01-03"})

	require.Len(t, out, 3)
	assert.False(t, out[0].IsZero())
	assert.True(t, out[1].IsZero())
	assert.False(t, out[2].IsZero())
}
