package domain

import (
	"math"
	"sort"
	"time"
)

// MergeOptions control stream merging behavior.
type MergeOptions struct {
	// ZeroFillHydrograph keeps the legacy display fallback: when the sensor
	// stream has no valid readings but the hydrograph stream does, all
	// hydrograph values are forced to 0 so a chart can still be produced.
	// There is no physical justification for the zeroed values; disable
	// this to keep the real discharge values instead.
	ZeroFillHydrograph bool
}

// ProcessingMetrics describes one merge. All counts except ValidRows refer
// to the converted single-year frame: NullValues and ZeroValues count the
// sensor column, and InvalidRows is the number of rows without a usable
// sensor value (missing, zero, or non-finite). ValidRows is the row count
// of the merged frame; because the outer join keeps hydrograph-only
// timestamps it uses a different denominator and may exceed
// OriginalRows - InvalidRows.
type ProcessingMetrics struct {
	OriginalRows int
	InvalidRows  int
	ZeroValues   int
	NullValues   int
	ValidRows    int
	ProcessedAt  time.Time
}

// Merge cleans the sensor and hydrograph streams independently and aligns
// them with a full outer join on TimeSeconds.
//
// The sensor view keeps rows whose converted sensor value is present and
// non-zero; the hydrograph view keeps rows whose discharge is present and
// non-zero. Every timestamp present in either view appears exactly once in
// the result, with the other stream's value missing where it had no sample.
// TimeMinutes is recomputed on the merged frame and rows are sorted by it
// ascending.
func Merge(converted []FrameRow, opts MergeOptions) ([]FrameRow, ProcessingMetrics) {
	metrics := ProcessingMetrics{
		OriginalRows: len(converted),
		ProcessedAt:  clock.Now(),
	}

	type sample struct {
		value float64
		ok    bool
	}
	sensorView := make(map[float64]sample)
	hydroView := make(map[float64]sample)

	for _, r := range converted {
		switch {
		case IsMissing(r.Sensor):
			metrics.NullValues++
		case r.Sensor == 0:
			metrics.ZeroValues++
		default:
			sensorView[r.TimeSeconds] = sample{value: r.Sensor, ok: true}
		}
		if !IsMissing(r.Hydrograph) && r.Hydrograph != 0 {
			hydroView[r.TimeSeconds] = sample{value: r.Hydrograph, ok: true}
		}
	}
	metrics.InvalidRows = metrics.OriginalRows - len(sensorView)

	if len(sensorView) == 0 && len(hydroView) > 0 && opts.ZeroFillHydrograph {
		for t := range hydroView {
			hydroView[t] = sample{value: 0, ok: true}
		}
	}

	timestamps := make(map[float64]struct{}, len(sensorView)+len(hydroView))
	for t := range sensorView {
		timestamps[t] = struct{}{}
	}
	for t := range hydroView {
		timestamps[t] = struct{}{}
	}

	merged := make([]FrameRow, 0, len(timestamps))
	for t := range timestamps {
		row := FrameRow{
			TimeSeconds: t,
			TimeMinutes: t / 60.0,
			Sensor:      math.NaN(),
			Hydrograph:  math.NaN(),
		}
		if s := sensorView[t]; s.ok {
			row.Sensor = s.value
		}
		if h := hydroView[t]; h.ok {
			row.Hydrograph = h.value
		}
		merged = append(merged, row)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].TimeMinutes < merged[j].TimeMinutes
	})

	metrics.ValidRows = len(merged)
	return merged, metrics
}
