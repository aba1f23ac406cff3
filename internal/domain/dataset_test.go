package domain_test

import (
	"errors"
	"testing"

	"github.com/couchcryptid/seatek-chart-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRiverMileDataset(t *testing.T) {
	rows := []domain.RawRow{
		{TimeSeconds: 60, Year: 1},
		{TimeSeconds: 120, Year: 2},
		{TimeSeconds: 180, Year: 1},
	}

	d, err := domain.NewRiverMileDataset(54.0, 10.5, []string{"Sensor_2", "Sensor_1"}, rows, nil)
	require.NoError(t, err)

	assert.Equal(t, 54.0, d.RiverMile)
	assert.Equal(t, 10.5, d.YOffset)
	assert.Equal(t, []string{"Sensor_1", "Sensor_2"}, d.Sensors, "sensor names are sorted")
	assert.Equal(t, []int{1, 2}, d.Years())
	assert.Len(t, d.YearRows(1), 2)
	assert.Len(t, d.YearRows(2), 1)
	assert.Empty(t, d.YearRows(3))
}

func TestNewRiverMileDataset_RejectsNonPositiveRiverMile(t *testing.T) {
	_, err := domain.NewRiverMileDataset(0, 0, []string{"Sensor_1"}, nil, nil)
	assert.Error(t, err)

	_, err = domain.NewRiverMileDataset(-12.5, 0, []string{"Sensor_1"}, nil, nil)
	assert.Error(t, err)
}

func TestNewRiverMileDataset_RejectsNoSensors(t *testing.T) {
	_, err := domain.NewRiverMileDataset(54.0, 0, nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sensor columns")
}

func TestCheckSensorNumeric(t *testing.T) {
	stats := map[string]domain.ColumnStats{
		"Sensor_1": {NonEmpty: 10, Numeric: 10},
		"Sensor_2": {NonEmpty: 8, Numeric: 0}, // populated but all text
		"Sensor_3": {NonEmpty: 0, Numeric: 0}, // empty column
	}
	d, err := domain.NewRiverMileDataset(54.0, 0, []string{"Sensor_1", "Sensor_2", "Sensor_3"}, nil, stats)
	require.NoError(t, err)

	assert.NoError(t, d.CheckSensorNumeric("Sensor_1"))
	assert.NoError(t, d.CheckSensorNumeric("Sensor_3"))
	assert.NoError(t, d.CheckSensorNumeric("Sensor_9"), "unknown columns are not a conversion failure")

	err = d.CheckSensorNumeric("Sensor_2")
	require.Error(t, err)
	var convErr *domain.ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "Sensor_2", convErr.Column)
}

func TestIsSensorColumn(t *testing.T) {
	assert.True(t, domain.IsSensorColumn("Sensor_1"))
	assert.True(t, domain.IsSensorColumn("Sensor_12"))
	assert.False(t, domain.IsSensorColumn("Year"))
	assert.False(t, domain.IsSensorColumn("Hydrograph (Lagged)"))
}
