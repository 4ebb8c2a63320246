package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "marketlens/internal/errors"
	"marketlens/internal/tabular"
)

func TestBuildMovingAverage(t *testing.T) {
	table := tabular.New(
		[]string{"Date", "Cours", "MM50", "MM200"},
		[][]string{
			{"2024-01-03", "102,5", "101.0", "98.0"},
			{"2024-01-02", "101.0", "100.5", "97.8"},
		},
	)

	series, err := BuildMovingAverage(table, discardLogger())
	require.NoError(t, err)

	require.Len(t, series.Points, 2)
	// Sorted ascending regardless of source order.
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), series.Points[0].Date)
	assert.InDelta(t, 101.0, series.Points[0].Close, 1e-9)
	assert.InDelta(t, 102.5, series.Points[1].Close, 1e-9)
	assert.InDelta(t, 98.0, series.Points[1].MM200, 1e-9)
}

func TestBuildMovingAverage_DropsIncompleteRows(t *testing.T) {
	table := tabular.New(
		[]string{"date", "close", "mm50", "mm200"},
		[][]string{
			{"2024-01-02", "101", "100", "98"},
			{"2024-01-03", "", "100", "98"},    // missing close
			{"2024-01-04", "102", "", "98"},    // missing mm50
			{"2024-01-05", "103", "101", ""},   // missing mm200
			{"", "104", "101", "99"},           // missing date
			{"2024-01-06", "104", "102", "99"}, // complete
		},
	)

	series, err := BuildMovingAverage(table, discardLogger())
	require.NoError(t, err)

	require.Len(t, series.Points, 2)
	assert.Equal(t, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), series.Points[1].Date)
}

func TestBuildMovingAverage_EnglishHeaders(t *testing.T) {
	table := tabular.New(
		[]string{"Date", "Price", "MA50", "MA200"},
		[][]string{{"2024-01-02", "101", "100", "98"}},
	)

	series, err := BuildMovingAverage(table, discardLogger())
	require.NoError(t, err)
	require.Len(t, series.Points, 1)
}

func TestBuildMovingAverage_SchemaError(t *testing.T) {
	table := tabular.New([]string{"Date", "Close"}, nil)

	_, err := BuildMovingAverage(table, discardLogger())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeSchema, appErr.Type)
	assert.Equal(t, []string{"mm50", "mm200"}, appErr.Context["missing_columns"])
	assert.Equal(t, "moving-average", appErr.Context["dataset"])
}
