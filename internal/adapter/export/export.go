// Package export collects merged sensor rows across pipeline jobs and
// writes them to a combined CSV or XLSX workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/couchcryptid/seatek-chart-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Row is a single merged observation tagged with its job identity.
type Row struct {
	RiverMile   float64
	Year        int
	Sensor      string
	TimeSeconds float64
	TimeMinutes float64
	SensorValue float64
	Hydrograph  float64
}

var header = []string{
	"River_Mile", "Year", "Sensor",
	"Time (Seconds)", "Time (Minutes)",
	"Sensor_Value_NAVD88", "Hydrograph (Lagged)",
}

// Collector accumulates rows from concurrent pipeline workers.
type Collector struct {
	mu   sync.Mutex
	rows []Row
}

func NewCollector() *Collector {
	return &Collector{}
}

// Add appends rows from one job. Safe for concurrent use.
func (c *Collector) Add(rows []Row) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, rows...)
}

// AddFrames converts one job's merged frame into export rows and adds
// them. Satisfies the pipeline's row sink.
func (c *Collector) AddFrames(riverMile float64, year int, sensor string, rows []domain.FrameRow) {
	converted := make([]Row, len(rows))
	for i, r := range rows {
		converted[i] = Row{
			RiverMile:   riverMile,
			Year:        year,
			Sensor:      sensor,
			TimeSeconds: r.TimeSeconds,
			TimeMinutes: r.TimeMinutes,
			SensorValue: r.Sensor,
			Hydrograph:  r.Hydrograph,
		}
	}
	c.Add(converted)
}

// Rows returns the collected rows sorted by river mile, year, sensor
// and timestamp.
func (c *Collector) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Row, len(c.rows))
	copy(out, c.rows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RiverMile != out[j].RiverMile {
			return out[i].RiverMile < out[j].RiverMile
		}
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Sensor != out[j].Sensor {
			return out[i].Sensor < out[j].Sensor
		}
		return out[i].TimeSeconds < out[j].TimeSeconds
	})
	return out
}

// Len reports the number of collected rows.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

// WriteCSV writes the collected rows to path. Missing values become
// empty cells.
func (c *Collector) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, r := range c.Rows() {
		record := []string{
			formatFloat(r.RiverMile),
			strconv.Itoa(r.Year),
			r.Sensor,
			formatFloat(r.TimeSeconds),
			formatFloat(r.TimeMinutes),
			formatFloat(r.SensorValue),
			formatFloat(r.Hydrograph),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export file: %w", err)
	}
	return f.Close()
}

// WriteXLSX writes the collected rows to an xlsx workbook at path.
func (c *Collector) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Combined"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name export sheet: %w", err)
	}

	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("export header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("write export header: %w", err)
		}
	}

	for i, r := range c.Rows() {
		values := []any{
			r.RiverMile, r.Year, r.Sensor,
			r.TimeSeconds, r.TimeMinutes,
			cellValue(r.SensorValue), cellValue(r.Hydrograph),
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("export cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write export row: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save export workbook: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func cellValue(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
