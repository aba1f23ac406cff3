// Package render turns aligned sensor/hydrograph frames into PNG charts.
//
// Styling is carried in a Config value handed to each Renderer instead of
// process-global state, so concurrent workers can render with identical
// style without coordinating.
package render

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/seatek-chart-etl/internal/domain"
)

// Config is the chart style configuration, passed by value.
type Config struct {
	Width       int
	Height      int
	DotWidth    float64
	TrendLines  bool
	SensorColor drawing.Color
	HydroColor  drawing.Color
}

// DefaultConfig returns the survey team's house style: orange sensor dots,
// blue hydrograph dots, trend lines on.
func DefaultConfig() Config {
	return Config{
		Width:       1400,
		Height:      800,
		DotWidth:    5,
		TrendLines:  true,
		SensorColor: drawing.ColorFromHex("ff7f0e"),
		HydroColor:  drawing.ColorFromHex("1f77b4"),
	}
}

// Meta identifies the chart job a frame belongs to.
type Meta struct {
	RiverMile float64
	Year      int
	Sensor    string
}

// Stats summarizes what was drawn.
type Stats struct {
	Correlation    float64
	Interpretation string
	N              int
	Sensor         domain.Stats
	Hydrograph     domain.Stats
}

// Renderer builds dual-axis scatter charts. It holds only immutable style
// configuration, so one Renderer may be shared across workers.
type Renderer struct {
	cfg Config
}

// New creates a Renderer with the given style.
func New(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render draws the aligned frame for one (river mile, year, sensor) job and
// encodes it as PNG. Sensor elevations and hydrograph discharge are plotted
// as dots against the minute time axis on independent value axes, each with
// an optional least-squares trend line annotated with its slope. The title
// embeds the correlation coefficient, sample size, and interpretation.
//
// Returns a *domain.VisualizationError when fewer than two rows carry a
// drawable value or when chart encoding fails. No file I/O happens here.
func (r *Renderer) Render(rows []domain.FrameRow, meta Meta) ([]byte, Stats, error) {
	var (
		sensorX, sensorY []float64
		hydroX, hydroY   []float64
		corrSensor       []float64
		corrHydro        []float64
		valid            int
	)
	for _, row := range rows {
		if domain.IsMissing(row.TimeMinutes) {
			continue
		}
		hasSensor := !domain.IsMissing(row.Sensor)
		hasHydro := !domain.IsMissing(row.Hydrograph)
		if !hasSensor && !hasHydro {
			continue
		}
		valid++
		if hasSensor {
			sensorX = append(sensorX, row.TimeMinutes)
			sensorY = append(sensorY, row.Sensor)
		}
		if hasHydro {
			hydroX = append(hydroX, row.TimeMinutes)
			hydroY = append(hydroY, row.Hydrograph)
		}
		corrSensor = append(corrSensor, row.Sensor)
		corrHydro = append(corrHydro, row.Hydrograph)
	}

	if valid < 2 {
		return nil, Stats{}, &domain.VisualizationError{
			Op: fmt.Sprintf("chart RM %.1f year %d %s", meta.RiverMile, meta.Year, meta.Sensor),
			Err: &domain.InsufficientDataError{Rows: valid},
		}
	}

	corr, interp := domain.Correlate(corrHydro, corrSensor)
	stats := Stats{
		Correlation:    corr,
		Interpretation: interp,
		N:              valid,
		Sensor:         domain.Describe(sensorY),
		Hydrograph:     domain.Describe(hydroY),
	}

	graph := r.newChart(meta, stats)
	r.addSeries(&graph, sensorX, sensorY, hydroX, hydroY, meta)
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, stats, &domain.VisualizationError{
			Op:  fmt.Sprintf("render RM %.1f year %d %s", meta.RiverMile, meta.Year, meta.Sensor),
			Err: err,
		}
	}
	return buf.Bytes(), stats, nil
}

func (r *Renderer) newChart(meta Meta, stats Stats) chart.Chart {
	title := fmt.Sprintf("River Mile %.1f | %s | Year %d | r=%.2f (n=%d) | %s",
		meta.RiverMile, domain.FormatSensorLabel(meta.Sensor), meta.Year,
		stats.Correlation, stats.N, stats.Interpretation)

	return chart.Chart{
		Title:  title,
		Width:  r.cfg.Width,
		Height: r.cfg.Height,
		Background: chart.Style{
			FillColor: drawing.ColorWhite,
			Padding:   chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 40},
		},
		XAxis: chart.XAxis{
			Name: "Time (Minutes)",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f", f)
				}
				return ""
			},
		},
	}
}

// addSeries attaches the sensor and hydrograph series. The sensor stream
// takes the primary value axis and the hydrograph the secondary; when one
// stream is absent the other takes the primary axis so the chart still has
// a drawable range. A single-point stream is still drawn, with its axis
// range pinned and no trend line.
func (r *Renderer) addSeries(graph *chart.Chart, sensorX, sensorY, hydroX, hydroY []float64, meta Meta) {
	sensorLabel := domain.FormatSensorLabel(meta.Sensor) + " (NAVD88 ft)"
	hydroLabel := "Hydrograph (GPM)"

	hasSensor := len(sensorX) >= 1
	hasHydro := len(hydroX) >= 1

	if hasSensor {
		graph.YAxis = chart.YAxis{Name: "Seatek Sensor Reading (NAVD88 ft)", Range: flatRange(sensorY)}
		r.appendStream(graph, sensorX, sensorY, sensorLabel, r.cfg.SensorColor, chart.YAxisPrimary)
	}

	if hasHydro {
		axis := chart.YAxisSecondary
		if !hasSensor {
			axis = chart.YAxisPrimary
			graph.YAxis = chart.YAxis{Name: "Hydrograph Discharge (GPM)", Range: flatRange(hydroY)}
		} else {
			graph.YAxisSecondary = chart.YAxis{Name: "Hydrograph Discharge (GPM)", Range: flatRange(hydroY)}
		}
		r.appendStream(graph, hydroX, hydroY, hydroLabel, r.cfg.HydroColor, axis)
	}
}

// flatRange pins an explicit axis range around a constant-valued series,
// which go-chart cannot autoscale (zero delta). Returns nil when the values
// have spread so autoscaling applies.
func flatRange(ys []float64) chart.Range {
	min, max := ys[0], ys[0]
	for _, v := range ys {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min != max {
		return nil
	}
	return &chart.ContinuousRange{Min: min - 1, Max: max + 1}
}

func (r *Renderer) appendStream(graph *chart.Chart, xs, ys []float64, label string, color drawing.Color, axis chart.YAxisType) {
	points := chart.ContinuousSeries{
		Name:    label,
		XValues: xs,
		YValues: ys,
		YAxis:   axis,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    r.cfg.DotWidth,
			DotColor:    color,
		},
	}
	graph.Series = append(graph.Series, points)

	if !r.cfg.TrendLines {
		return
	}
	slope, ok := leastSquaresSlope(xs, ys)
	if !ok {
		return
	}
	graph.Series = append(graph.Series, &chart.LinearRegressionSeries{
		Name:        fmt.Sprintf("%s trend (slope %.3f)", label, slope),
		InnerSeries: points,
		YAxis:       axis,
		Style: chart.Style{
			StrokeWidth:     1.5,
			StrokeColor:     color.WithAlpha(160),
			StrokeDashArray: []float64{4.0, 4.0},
		},
	})
}

// leastSquaresSlope fits a degree-1 polynomial and returns its slope.
// ok is false when the x values have no spread.
func leastSquaresSlope(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	if n < 2 {
		return 0, false
	}

	var xMean, yMean float64
	for i := range xs {
		xMean += xs[i]
		yMean += ys[i]
	}
	xMean /= n
	yMean /= n

	var num, den float64
	for i := range xs {
		dx := xs[i] - xMean
		num += dx * (ys[i] - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}
