package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sheetFile(t *testing.T, sheet string, grid [][]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for r, row := range grid {
		for c, v := range row {
			cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cellName, v))
		}
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestParseNumberMatchesLoaderCoercion(t *testing.T) {
	assert.Equal(t, 1234.0, parseNumber("1234"))
	assert.Equal(t, 5.5, parseNumber(" 5.5 "))
	assert.True(t, math.IsNaN(parseNumber("")))
	assert.True(t, math.IsNaN(parseNumber("n/a")))
	// thousands separators are not accepted by the loader either
	assert.True(t, math.IsNaN(parseNumber("1,234")))
}

func TestValidateTimeAndYears_AcceptsZeroAndNegativeYears(t *testing.T) {
	f := sheetFile(t, "RM_54.0", [][]any{
		{"Time (Seconds)", "Year", "Sensor_1"},
		{60, 0, 5.0},
		{120, -1, 5.2},
	})

	p := validateTimeAndYears(f, []string{"RM_54.0"})
	assert.True(t, p.passed(), "errors: %v", p.errors)
}

func TestValidateTimeAndYears_RejectsFractionalYears(t *testing.T) {
	f := sheetFile(t, "RM_54.0", [][]any{
		{"Time (Seconds)", "Year", "Sensor_1"},
		{60, 1.5, 5.0},
	})

	p := validateTimeAndYears(f, []string{"RM_54.0"})
	require.False(t, p.passed())
	assert.Contains(t, p.errors[0], "not an integer")
}

func TestValidateTimeAndYears_RejectsMissingYears(t *testing.T) {
	f := sheetFile(t, "RM_54.0", [][]any{
		{"Time (Seconds)", "Year", "Sensor_1"},
		{60, "", 5.0},
	})

	p := validateTimeAndYears(f, []string{"RM_54.0"})
	require.False(t, p.passed())
	assert.Contains(t, p.errors[0], "no usable year values")
}

func TestValidateSensorColumns_FlagsSeparatorOnlyColumns(t *testing.T) {
	// Cells the loader coerces to missing must fail validation too.
	f := sheetFile(t, "RM_54.0", [][]any{
		{"Time (Seconds)", "Year", "Sensor_1"},
		{60, 1, "1,234"},
		{120, 1, "2,468"},
	})

	p := validateSensorColumns(f, []string{"RM_54.0"})
	require.False(t, p.passed())
	assert.Contains(t, p.errors[0], "none are numeric")
}
