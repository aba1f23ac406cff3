// Package excel loads the survey workbooks: the summary sheet describing
// each river mile and the data workbook holding one "RM_*" sheet per mile.
package excel

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/seatek-chart-etl/internal/domain"
)

// Summary sheet columns.
const (
	ColumnRiverMile  = "River_Mile"
	ColumnYOffset    = "Y_Offset"
	ColumnNumSensors = "Num_Sensors"
)

// SheetPrefix marks per-river-mile sheets in the data workbook.
const SheetPrefix = "RM_"

// SummaryEntry is one row of the summary sheet.
type SummaryEntry struct {
	RiverMile  float64
	YOffset    float64
	NumSensors int
}

// LoadSummary reads the summary workbook's first sheet. Rows whose river
// mile is missing or non-positive are dropped with a warning.
func LoadSummary(path string, logger *slog.Logger) ([]SummaryEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open summary workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("summary workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read summary sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("summary sheet %s is empty", sheets[0])
	}

	header := rows[0]
	if err := domain.RequireColumns(header, []string{ColumnRiverMile, ColumnYOffset, ColumnNumSensors}, "summary data"); err != nil {
		return nil, err
	}
	idx := columnIndex(header)

	var entries []SummaryEntry
	for n, row := range rows[1:] {
		rm := parseNumber(cell(row, idx[ColumnRiverMile]))
		if domain.IsMissing(rm) || rm <= 0 {
			logger.Warn("skipping summary row with invalid river mile", "row", n+2)
			continue
		}

		yOffset := parseNumber(cell(row, idx[ColumnYOffset]))
		if domain.IsMissing(yOffset) {
			yOffset = 0
		}

		numSensors := 0
		if v := parseNumber(cell(row, idx[ColumnNumSensors])); !domain.IsMissing(v) {
			numSensors = int(v)
		}

		entries = append(entries, SummaryEntry{RiverMile: rm, YOffset: yOffset, NumSensors: numSensors})
	}

	return entries, nil
}

// Offsets indexes the summary entries by river mile for conversion lookups.
func Offsets(entries []SummaryEntry) map[float64]float64 {
	offsets := make(map[float64]float64, len(entries))
	for _, e := range entries {
		offsets[e.RiverMile] = e.YOffset
	}
	return offsets
}

// LoadDatasets reads every "RM_*" sheet of the data workbook into a
// RiverMileDataset, applying the matching summary offset (0 when the
// summary has no entry). Sheets that fail validation are logged and
// skipped; zero usable sheets is an error.
func LoadDatasets(path string, offsets map[float64]float64, logger *slog.Logger) ([]*domain.RiverMileDataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open data workbook: %w", err)
	}
	defer f.Close()

	var datasets []*domain.RiverMileDataset
	for _, sheet := range f.GetSheetList() {
		if !strings.HasPrefix(sheet, SheetPrefix) {
			continue
		}

		d, err := loadSheet(f, sheet, offsets)
		if err != nil {
			logger.Warn("skipping sheet", "sheet", sheet, "error", err)
			continue
		}

		datasets = append(datasets, d)
		logger.Info("loaded river mile data",
			"sheet", sheet,
			"river_mile", d.RiverMile,
			"rows", len(d.Rows),
			"sensors", len(d.Sensors),
			"y_offset", d.YOffset,
		)
	}

	if len(datasets) == 0 {
		return nil, fmt.Errorf("no valid river mile sheets in %s", path)
	}
	return datasets, nil
}

func loadSheet(f *excelize.File, sheet string, offsets map[float64]float64) (*domain.RiverMileDataset, error) {
	riverMile, err := parseRiverMile(sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	header := rows[0]
	if err := domain.RequireColumns(header, []string{domain.ColumnTimeSeconds, domain.ColumnYear}, "sheet "+sheet); err != nil {
		return nil, err
	}
	idx := columnIndex(header)

	var sensors []string
	for _, col := range header {
		if domain.IsSensorColumn(col) {
			sensors = append(sensors, col)
		}
	}

	stats := make(map[string]domain.ColumnStats, len(sensors))
	hydroIdx, hasHydro := idx[domain.ColumnHydrograph]

	rawRows := make([]domain.RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		timeSeconds := parseNumber(cell(row, idx[domain.ColumnTimeSeconds]))
		if domain.IsMissing(timeSeconds) || timeSeconds < 0 {
			continue
		}

		year := parseNumber(cell(row, idx[domain.ColumnYear]))
		if domain.IsMissing(year) {
			continue
		}

		hydro := math.NaN()
		if hasHydro {
			hydro = parseNumber(cell(row, hydroIdx))
		}

		values := make(map[string]float64, len(sensors))
		for _, s := range sensors {
			raw := cell(row, idx[s])
			v := parseNumber(raw)
			values[s] = v

			cs := stats[s]
			if strings.TrimSpace(raw) != "" {
				cs.NonEmpty++
				if !domain.IsMissing(v) {
					cs.Numeric++
				}
			}
			stats[s] = cs
		}

		rawRows = append(rawRows, domain.RawRow{
			TimeSeconds: timeSeconds,
			Year:        int(year),
			Hydrograph:  hydro,
			Sensors:     values,
		})
	}

	return domain.NewRiverMileDataset(riverMile, offsets[riverMile], sensors, rawRows, stats)
}

func parseRiverMile(sheet string) (float64, error) {
	rm, err := strconv.ParseFloat(strings.TrimPrefix(sheet, SheetPrefix), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid river mile sheet name %q", sheet)
	}
	return rm, nil
}

// columnIndex maps header names to their column positions.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

// cell returns row[i], tolerating the short rows excelize produces when
// trailing cells are empty.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseNumber coerces a cell to float64, returning NaN for empty or
// non-numeric content (never an error, mirroring the upstream cleaning
// policy).
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
