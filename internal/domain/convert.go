package domain

import "math"

// NavdConstants are the fixed terms of the NAVD88 elevation formula.
// They are overridable through configuration for surveys with different
// instrument mounts, but the defaults match the deployed Seatek rigs.
type NavdConstants struct {
	OffsetA     float64
	OffsetB     float64
	ScaleFactor float64
}

// DefaultNavdConstants returns the deployed-instrument constants:
// OffsetA 1.9, OffsetB 0.32, ScaleFactor 400/30.48 (feet per unit).
func DefaultNavdConstants() NavdConstants {
	return NavdConstants{
		OffsetA:     1.9,
		OffsetB:     0.32,
		ScaleFactor: 400.0 / 30.48,
	}
}

// Convert applies the NAVD88 conversion to one sensor column and derives
// the minute time axis:
//
//	elevation   = -(raw + OffsetA - OffsetB) * ScaleFactor + yOffset
//	TimeMinutes = TimeSeconds / 60
//
// Missing raw values stay missing; conversion itself never fails. The
// result is a new frame, the input rows are not mutated, and no rounding
// is applied: the output is exact to float64 precision.
func Convert(rows []RawRow, sensor string, yOffset float64, c NavdConstants) []FrameRow {
	out := make([]FrameRow, 0, len(rows))
	for _, r := range rows {
		raw, ok := r.Sensors[sensor]
		if !ok {
			raw = math.NaN()
		}
		elevation := raw
		if !IsMissing(raw) {
			elevation = -(raw+c.OffsetA-c.OffsetB)*c.ScaleFactor + yOffset
		}
		out = append(out, FrameRow{
			TimeSeconds: r.TimeSeconds,
			TimeMinutes: r.TimeSeconds / 60.0,
			Sensor:      elevation,
			Hydrograph:  r.Hydrograph,
		})
	}
	return out
}
