package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Required per-river-mile sheet columns.
const (
	ColumnTimeSeconds = "Time (Seconds)"
	ColumnYear        = "Year"
	ColumnHydrograph  = "Hydrograph (Lagged)"
)

// SensorColumnPrefix identifies sensor columns in a per-river-mile sheet.
const SensorColumnPrefix = "Sensor_"

// RawRow is one sample from a per-river-mile sheet before conversion.
// Missing or non-numeric cells are NaN.
type RawRow struct {
	TimeSeconds float64
	Year        int
	Hydrograph  float64
	Sensors     map[string]float64
}

// ColumnStats counts how a sensor column's cells parsed at load time.
// NonEmpty is the number of populated cells, Numeric how many of those
// coerced to a number. A populated column with zero numeric cells cannot
// be converted and fails its jobs with a *ConversionError.
type ColumnStats struct {
	NonEmpty int
	Numeric  int
}

// RiverMileDataset holds everything loaded for one river mile: the samples,
// the sensor columns present, and the elevation correction looked up from
// the summary table (0 when the summary has no entry for this mile).
// Immutable after construction.
type RiverMileDataset struct {
	RiverMile   float64
	YOffset     float64
	Sensors     []string
	Rows        []RawRow
	ColumnStats map[string]ColumnStats
}

// NewRiverMileDataset validates and constructs a dataset. The river mile
// must be positive and at least one sensor column must be present.
func NewRiverMileDataset(riverMile, yOffset float64, sensors []string, rows []RawRow, stats map[string]ColumnStats) (*RiverMileDataset, error) {
	if IsMissing(riverMile) || riverMile <= 0 {
		return nil, fmt.Errorf("invalid river mile %v: must be positive", riverMile)
	}
	if len(sensors) == 0 {
		return nil, fmt.Errorf("river mile %.1f: no sensor columns found", riverMile)
	}

	sorted := make([]string, len(sensors))
	copy(sorted, sensors)
	sort.Strings(sorted)

	return &RiverMileDataset{
		RiverMile:   riverMile,
		YOffset:     yOffset,
		Sensors:     sorted,
		Rows:        rows,
		ColumnStats: stats,
	}, nil
}

// Years returns the distinct year indices present in the data, ascending.
func (d *RiverMileDataset) Years() []int {
	seen := make(map[int]struct{})
	for _, r := range d.Rows {
		seen[r.Year] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// YearRows returns the samples for one year, in sheet order.
func (d *RiverMileDataset) YearRows(year int) []RawRow {
	var rows []RawRow
	for _, r := range d.Rows {
		if r.Year == year {
			rows = append(rows, r)
		}
	}
	return rows
}

// CheckSensorNumeric returns a *ConversionError when the named sensor
// column has populated cells but not a single one parsed as a number.
// Columns that are simply empty pass; they produce skips, not failures.
func (d *RiverMileDataset) CheckSensorNumeric(sensor string) error {
	stats, ok := d.ColumnStats[sensor]
	if !ok {
		return nil
	}
	if stats.NonEmpty > 0 && stats.Numeric == 0 {
		return &ConversionError{
			Column: sensor,
			Reason: fmt.Sprintf("%d populated cells, none numeric", stats.NonEmpty),
		}
	}
	return nil
}

// IsSensorColumn reports whether a sheet column name denotes a sensor.
func IsSensorColumn(name string) bool {
	return strings.HasPrefix(name, SensorColumnPrefix)
}
