package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "marketlens/internal/errors"
	"marketlens/internal/tabular"
	"marketlens/pkg/contracts/domain"
)

func TestBuildRSI_AllHorizons(t *testing.T) {
	table := tabular.New(
		[]string{"Date", "Cours", "RSI court", "RSI moyen", "RSI long terme"},
		[][]string{
			{"2024-01-02", "101", "55", "52", "50"},
			{"2024-01-03", "102", "60", "54", "51"},
		},
	)

	series, err := BuildRSI(table, discardLogger())
	require.NoError(t, err)

	require.Len(t, series.Close, 2)
	require.Len(t, series.Horizons, 3)
	assert.Equal(t, domain.RSIHorizonShort, series.Horizons[0].Name)
	assert.Equal(t, domain.RSIHorizonMedium, series.Horizons[1].Name)
	assert.Equal(t, domain.RSIHorizonLong, series.Horizons[2].Name)
	assert.InDelta(t, 60, series.Horizons[0].Points[1].Value, 1e-9)
}

func TestBuildRSI_NoHorizonsDegradesToPrice(t *testing.T) {
	table := tabular.New(
		[]string{"Date", "Close"},
		[][]string{
			{"2024-01-02", "101"},
			{"2024-01-03", "102"},
		},
	)

	series, err := BuildRSI(table, discardLogger())
	require.NoError(t, err)

	require.Len(t, series.Close, 2)
	assert.Empty(t, series.Horizons)
}

func TestBuildRSI_PartialHorizons(t *testing.T) {
	table := tabular.New(
		[]string{"date", "close", "rsi_14"},
		[][]string{{"2024-01-02", "101", "48"}},
	)

	series, err := BuildRSI(table, discardLogger())
	require.NoError(t, err)

	require.Len(t, series.Horizons, 1)
	assert.Equal(t, domain.RSIHorizonMedium, series.Horizons[0].Name)
}

func TestBuildRSI_JointDropna(t *testing.T) {
	// A gap in any present horizon drops the row from every horizon, so all
	// horizons keep the same date axis.
	table := tabular.New(
		[]string{"date", "close", "rsi_7", "rsi_14"},
		[][]string{
			{"2024-01-02", "101", "55", "52"},
			{"2024-01-03", "102", "", "54"}, // short missing
			{"2024-01-04", "103", "58", "56"},
		},
	)

	series, err := BuildRSI(table, discardLogger())
	require.NoError(t, err)

	require.Len(t, series.Horizons, 2)
	for _, h := range series.Horizons {
		require.Len(t, h.Points, 2, "horizon %s", h.Name)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), h.Points[0].Date)
		assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), h.Points[1].Date)
	}

	// The close series keeps all rows; the joint drop applies to horizons.
	assert.Len(t, series.Close, 3)
}

func TestBuildRSI_SchemaError(t *testing.T) {
	table := tabular.New([]string{"rsi_7", "rsi_14"}, nil)

	_, err := BuildRSI(table, discardLogger())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeSchema, appErr.Type)
	assert.Equal(t, []string{"date", "close"}, appErr.Context["missing_columns"])
}
