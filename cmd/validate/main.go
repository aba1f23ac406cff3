// Command validate performs integrity checks across the survey
// workbooks before a chart run: summary schema, per-river-mile sheet
// schema, time and year sanity, sensor column usability, and
// summary-to-sheet consistency.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -summary data/raw/Data_Summary.xlsx \
//	  -data data/raw/Hydrograph_Seatek_Data.xlsx
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/seatek-chart-etl/internal/adapter/excel"
	"github.com/couchcryptid/seatek-chart-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	summaryPath := flag.String("summary", "", "path to the summary workbook")
	dataPath := flag.String("data", "", "path to the sensor data workbook")
	flag.Parse()

	if *summaryPath == "" || *dataPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*summaryPath, *dataPath); code != 0 {
		os.Exit(code)
	}
}

func run(summaryPath, dataPath string) int {
	fmt.Println("=== Survey Workbook Integrity Validation ===")
	fmt.Println()

	summary, err := loadGrid(summaryPath, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load summary workbook: %v\n", err)
		return 1
	}

	dataFile, err := excelize.OpenFile(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load data workbook: %v\n", err)
		return 1
	}
	defer dataFile.Close()

	sheets := riverMileSheets(dataFile)

	phases := []*phase{
		validateSummarySchema(summary),
		validateSheetSchema(dataFile, sheets),
		validateTimeAndYears(dataFile, sheets),
		validateSensorColumns(dataFile, sheets),
		validateConsistency(summary, sheets),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Workbooks: %d summary rows, %d river mile sheets\n", len(summary)-1, len(sheets))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Workbook access ──

// loadGrid reads a sheet as rows of strings. An empty sheet name means
// the workbook's first sheet.
func loadGrid(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("no sheets in %s", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}
	return rows, nil
}

func riverMileSheets(f *excelize.File) []string {
	var sheets []string
	for _, s := range f.GetSheetList() {
		if strings.HasPrefix(s, excel.SheetPrefix) {
			sheets = append(sheets, s)
		}
	}
	sort.Strings(sheets)
	return sheets
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

// ── Phase 1: summary schema ──

func validateSummarySchema(rows [][]string) *phase {
	p := &phase{name: "Summary workbook schema"}

	header := rows[0]
	required := []string{excel.ColumnRiverMile, excel.ColumnYOffset, excel.ColumnNumSensors}
	if err := domain.RequireColumns(header, required, "summary data"); err != nil {
		p.errorf("%v", err)
		return p
	}

	idx := columnIndex(header)
	for i, row := range rows[1:] {
		line := i + 2
		rm, err := strconv.ParseFloat(cell(row, idx[excel.ColumnRiverMile]), 64)
		if err != nil || rm <= 0 {
			p.errorf("row %d: river mile %q is not a positive number", line, cell(row, idx[excel.ColumnRiverMile]))
		}
		if v := cell(row, idx[excel.ColumnYOffset]); v != "" {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				p.errorf("row %d: y offset %q is not numeric", line, v)
			}
		}
		if n, err := strconv.Atoi(cell(row, idx[excel.ColumnNumSensors])); err != nil || n < 1 {
			p.errorf("row %d: sensor count %q is not a positive integer", line, cell(row, idx[excel.ColumnNumSensors]))
		}
	}
	return p
}

// ── Phase 2: sheet schema ──

func validateSheetSchema(f *excelize.File, sheets []string) *phase {
	p := &phase{name: "River mile sheet schema"}
	if len(sheets) == 0 {
		p.errorf("no %s* sheets in data workbook", excel.SheetPrefix)
		return p
	}

	for _, sheet := range sheets {
		if _, err := strconv.ParseFloat(strings.TrimPrefix(sheet, excel.SheetPrefix), 64); err != nil {
			p.errorf("sheet %s: name does not encode a river mile", sheet)
		}

		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			p.errorf("sheet %s: no data rows", sheet)
			continue
		}
		required := []string{domain.ColumnTimeSeconds, domain.ColumnYear}
		if err := domain.RequireColumns(rows[0], required, "sheet "+sheet); err != nil {
			p.errorf("%v", err)
		}
	}
	return p
}

// ── Phase 3: time and year sanity ──

func validateTimeAndYears(f *excelize.File, sheets []string) *phase {
	p := &phase{name: "Time and year sanity"}

	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue // reported by the schema phase
		}
		idx := columnIndex(rows[0])
		timeIdx, hasTime := idx[domain.ColumnTimeSeconds]
		yearIdx, hasYear := idx[domain.ColumnYear]
		if !hasTime || !hasYear {
			continue
		}

		var times, years []float64
		for _, row := range rows[1:] {
			times = append(times, parseNumber(cell(row, timeIdx)))
			years = append(years, parseNumber(cell(row, yearIdx)))
		}

		usableTimes := domain.FilterValidNumeric(times)
		if len(usableTimes) == 0 {
			p.errorf("sheet %s: no usable timestamps", sheet)
		}

		// Years are indices: any integer is acceptable, including zero.
		usableYears := 0
		fractional := false
		for _, y := range years {
			if domain.IsMissing(y) {
				continue
			}
			usableYears++
			if !fractional && y != float64(int(y)) {
				p.errorf("sheet %s: year %v is not an integer", sheet, y)
				fractional = true
			}
		}
		if usableYears == 0 {
			p.errorf("sheet %s: no usable year values", sheet)
		}
	}
	return p
}

// ── Phase 4: sensor columns ──

func validateSensorColumns(f *excelize.File, sheets []string) *phase {
	p := &phase{name: "Sensor column usability"}

	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		idx := columnIndex(rows[0])

		var sensors []string
		for name := range idx {
			if domain.IsSensorColumn(name) {
				sensors = append(sensors, name)
			}
		}
		if len(sensors) == 0 {
			p.errorf("sheet %s: no %s* columns", sheet, domain.SensorColumnPrefix)
			continue
		}
		sort.Strings(sensors)

		for _, sensor := range sensors {
			nonEmpty, numeric := 0, 0
			for _, row := range rows[1:] {
				v := cell(row, idx[sensor])
				if v == "" {
					continue
				}
				nonEmpty++
				if !domain.IsMissing(parseNumber(v)) {
					numeric++
				}
			}
			if nonEmpty > 0 && numeric == 0 {
				p.errorf("sheet %s: column %s has %d non-empty cells but none are numeric", sheet, sensor, nonEmpty)
			}
		}
	}
	return p
}

// ── Phase 5: summary-to-sheet consistency ──

func validateConsistency(summary [][]string, sheets []string) *phase {
	p := &phase{name: "Summary-to-sheet consistency"}

	idx := columnIndex(summary[0])
	rmIdx, ok := idx[excel.ColumnRiverMile]
	if !ok {
		return p // reported by the summary schema phase
	}

	sheetMiles := make(map[float64]bool, len(sheets))
	for _, sheet := range sheets {
		if rm, err := strconv.ParseFloat(strings.TrimPrefix(sheet, excel.SheetPrefix), 64); err == nil {
			sheetMiles[rm] = true
		}
	}

	for i, row := range summary[1:] {
		rm, err := strconv.ParseFloat(cell(row, rmIdx), 64)
		if err != nil || rm <= 0 {
			continue
		}
		if !sheetMiles[rm] {
			p.errorf("row %d: river mile %.1f has no %s%.1f sheet", i+2, rm, excel.SheetPrefix, rm)
		}
	}
	return p
}

// parseNumber coerces a cell the same way the workbook loader does, so a
// value that validates here is a value the loader will accept.
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
