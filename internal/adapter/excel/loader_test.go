package excel_test

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/seatek-chart-etl/internal/adapter/excel"
	"github.com/couchcryptid/seatek-chart-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook builds an xlsx fixture with one grid per sheet.
func writeWorkbook(t *testing.T, path string, sheets map[string][][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, grid := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range grid {
			for c, v := range row {
				cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, cellName, v))
			}
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func writeSummary(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "Data_Summary.xlsx")
	writeWorkbook(t, path, map[string][][]any{
		"Summary": {
			{"River_Mile", "Y_Offset", "Num_Sensors"},
			{54.0, 10.5, 2},
			{23.5, -4.25, 1},
			{0, 99.0, 1},  // invalid river mile, dropped
			{"", 1.0, 1},  // missing river mile, dropped
		},
	})
	return path
}

func TestLoadSummary(t *testing.T) {
	path := writeSummary(t, t.TempDir())

	entries, err := excel.LoadSummary(path, slog.Default())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, excel.SummaryEntry{RiverMile: 54.0, YOffset: 10.5, NumSensors: 2}, entries[0])
	assert.Equal(t, excel.SummaryEntry{RiverMile: 23.5, YOffset: -4.25, NumSensors: 1}, entries[1])

	offsets := excel.Offsets(entries)
	assert.Equal(t, 10.5, offsets[54.0])
	assert.Equal(t, -4.25, offsets[23.5])
}

func TestLoadSummary_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	writeWorkbook(t, path, map[string][][]any{
		"Summary": {
			{"River_Mile", "Sensors"},
			{54.0, 2},
		},
	})

	_, err := excel.LoadSummary(path, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Y_Offset")
	assert.Contains(t, err.Error(), "Num_Sensors")
}

func TestLoadSummary_FileMissing(t *testing.T) {
	_, err := excel.LoadSummary(filepath.Join(t.TempDir(), "nope.xlsx"), slog.Default())
	assert.Error(t, err)
}

func TestLoadDatasets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Hydrograph_Seatek_Data.xlsx")
	writeWorkbook(t, path, map[string][][]any{
		"RM_54.0": {
			{"Time (Seconds)", "Year", "Hydrograph (Lagged)", "Sensor_1", "Sensor_2"},
			{60, 1, 400.0, 5.0, ""},
			{120, 1, "", 5.2, 7.1},
			{180, 2, 410.0, "bad", 7.3},
		},
		"Notes": {
			{"free-form sheet ignored"},
		},
	})

	offsets := map[float64]float64{54.0: 10.5}
	datasets, err := excel.LoadDatasets(path, offsets, slog.Default())
	require.NoError(t, err)
	require.Len(t, datasets, 1)

	d := datasets[0]
	assert.Equal(t, 54.0, d.RiverMile)
	assert.Equal(t, 10.5, d.YOffset)
	assert.Equal(t, []string{"Sensor_1", "Sensor_2"}, d.Sensors)
	assert.Equal(t, []int{1, 2}, d.Years())
	require.Len(t, d.Rows, 3)

	assert.Equal(t, 60.0, d.Rows[0].TimeSeconds)
	assert.Equal(t, 400.0, d.Rows[0].Hydrograph)
	assert.Equal(t, 5.0, d.Rows[0].Sensors["Sensor_1"])
	assert.True(t, domain.IsMissing(d.Rows[0].Sensors["Sensor_2"]), "empty cell is missing")
	assert.True(t, domain.IsMissing(d.Rows[1].Hydrograph), "empty hydrograph cell is missing")
	assert.True(t, domain.IsMissing(d.Rows[2].Sensors["Sensor_1"]), "non-numeric cell is missing")

	assert.Equal(t, domain.ColumnStats{NonEmpty: 3, Numeric: 2}, d.ColumnStats["Sensor_1"])
	assert.Equal(t, domain.ColumnStats{NonEmpty: 2, Numeric: 2}, d.ColumnStats["Sensor_2"])
}

func TestLoadDatasets_UnknownRiverMileGetsZeroOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	writeWorkbook(t, path, map[string][][]any{
		"RM_12.5": {
			{"Time (Seconds)", "Year", "Sensor_1"},
			{60, 1, 5.0},
		},
	})

	datasets, err := excel.LoadDatasets(path, nil, slog.Default())
	require.NoError(t, err)
	require.Len(t, datasets, 1)
	assert.Zero(t, datasets[0].YOffset)
}

func TestLoadDatasets_SkipsInvalidSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	writeWorkbook(t, path, map[string][][]any{
		"RM_54.0": {
			{"Time (Seconds)", "Year", "Sensor_1"},
			{60, 1, 5.0},
		},
		"RM_9.9": { // missing Year column
			{"Time (Seconds)", "Sensor_1"},
			{60, 5.0},
		},
		"RM_bad": { // unparseable river mile
			{"Time (Seconds)", "Year", "Sensor_1"},
			{60, 1, 5.0},
		},
		"RM_7.0": { // no sensor columns
			{"Time (Seconds)", "Year"},
			{60, 1},
		},
	})

	datasets, err := excel.LoadDatasets(path, nil, slog.Default())
	require.NoError(t, err)
	require.Len(t, datasets, 1)
	assert.Equal(t, 54.0, datasets[0].RiverMile)
}

func TestLoadDatasets_NoUsableSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	writeWorkbook(t, path, map[string][][]any{
		"Notes": {{"nothing here"}},
	})

	_, err := excel.LoadDatasets(path, nil, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid river mile sheets")
}

func TestLoadDatasets_SkipsRowsWithoutTimeOrYear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	writeWorkbook(t, path, map[string][][]any{
		"RM_54.0": {
			{"Time (Seconds)", "Year", "Sensor_1"},
			{60, 1, 5.0},
			{"", 1, 5.1},   // no timestamp
			{120, "", 5.2}, // no year
			{-60, 1, 5.3},  // negative timestamp
			{180, 2, 5.4},
		},
	})

	datasets, err := excel.LoadDatasets(path, nil, slog.Default())
	require.NoError(t, err)
	require.Len(t, datasets[0].Rows, 2)
}
